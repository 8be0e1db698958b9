package models

import "strings"

// ShortHashLength is the number of hash characters used for display and file names
const ShortHashLength = 7

// CommitRecord is the flattened form of one commit returned by the GitHub API
type CommitRecord struct {
	Title        string `json:"commit_title"`
	URL          string `json:"commit_url"`
	Hash         string `json:"commit_hash"`
	AuthorName   string `json:"author_name"`
	AuthorLogin  string `json:"author_login"`
	AuthorURL    string `json:"author_url"`
	PromptLink   string `json:"prompt_link"`
	PromptLinkZh string `json:"prompt_link_zh"`
}

// ShortHash returns the first seven characters of the full hash
func (c CommitRecord) ShortHash() string {
	return ShortHash(c.Hash)
}

// ShortHash truncates a hash to ShortHashLength characters. Shorter hashes are returned unchanged.
func ShortHash(hash string) string {
	if len(hash) <= ShortHashLength {
		return hash
	}
	return hash[:ShortHashLength]
}

// MessageTitle returns the text before the first newline of a commit message
func MessageTitle(message string) string {
	title, _, _ := strings.Cut(message, "\n")
	return title
}
