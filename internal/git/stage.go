package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"commitnotes/pkg/errors"
)

// GitManager stages scaffolded notes in the worktree that contains them
type GitManager struct {
	root string
	repo *git.Repository
}

// NewGitManager opens the repository containing path, searching parent
// directories for the .git directory
func NewGitManager(path string) (*GitManager, error) {
	abs, err := resolve(path)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGit, fmt.Sprintf("%s is not inside a git repository", path)).
			WithSuggestions(
				"Set 'git.stage' to false",
				"Run 'git init' in the notes repository",
			)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGit, "failed to open worktree")
	}

	root, err := resolve(wt.Filesystem.Root())
	if err != nil {
		return nil, err
	}

	return &GitManager{root: root, repo: repo}, nil
}

// Root returns the worktree root directory
func (gm *GitManager) Root() string {
	return gm.root
}

// StageFiles adds paths to the index. Paths outside the worktree are rejected.
func (gm *GitManager) StageFiles(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	wt, err := gm.repo.Worktree()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeGit, "failed to open worktree")
	}

	for _, path := range paths {
		rel, err := gm.relative(path)
		if err != nil {
			return err
		}
		if _, err := wt.Add(rel); err != nil {
			return errors.Wrap(err, errors.ErrCodeGit, fmt.Sprintf("failed to stage %s", path)).
				WithContext("path", path)
		}
	}
	return nil
}

func (gm *GitManager) relative(path string) (string, error) {
	abs, err := resolve(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(gm.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.ErrCodeGit, fmt.Sprintf("%s is outside the worktree %s", path, gm.root)).
			WithContext("path", path)
	}
	return filepath.ToSlash(rel), nil
}

// resolve returns the absolute, symlink-free form of path
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeGit, fmt.Sprintf("failed to resolve %s", path))
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}
