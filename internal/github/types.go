package github

import "commitnotes/pkg/errors"

// apiCommit mirrors the subset of the commit-listing payload the tool reads.
// Pointers distinguish an absent or null field from an empty one.
type apiCommit struct {
	SHA    *string          `json:"sha"`
	Commit *apiCommitDetail `json:"commit"`
	Author *apiUser         `json:"author"`
}

type apiCommitDetail struct {
	Message *string         `json:"message"`
	Author  *apiCommitActor `json:"author"`
}

type apiCommitActor struct {
	Name *string `json:"name"`
}

type apiUser struct {
	Login *string `json:"login"`
}

type commitFields struct {
	sha         string
	message     string
	authorName  string
	authorLogin string
}

// fields extracts the required values, failing on the first missing one.
// author is null on GitHub when the commit email is not linked to an account.
func (a apiCommit) fields(index int) (commitFields, error) {
	switch {
	case a.SHA == nil:
		return commitFields{}, errors.MissingFieldError("sha", index)
	case a.Commit == nil:
		return commitFields{}, errors.MissingFieldError("commit", index)
	case a.Commit.Message == nil:
		return commitFields{}, errors.MissingFieldError("commit.message", index)
	case a.Commit.Author == nil:
		return commitFields{}, errors.MissingFieldError("commit.author", index)
	case a.Commit.Author.Name == nil:
		return commitFields{}, errors.MissingFieldError("commit.author.name", index)
	case a.Author == nil:
		return commitFields{}, errors.MissingFieldError("author", index)
	case a.Author.Login == nil:
		return commitFields{}, errors.MissingFieldError("author.login", index)
	}

	return commitFields{
		sha:         *a.SHA,
		message:     *a.Commit.Message,
		authorName:  *a.Commit.Author.Name,
		authorLogin: *a.Author.Login,
	}, nil
}
