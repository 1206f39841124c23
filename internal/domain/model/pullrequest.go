package model

import "strconv"

// Placeholder values used when a PR ID has no fixture record.
const (
	PlaceholderTitle       = "Pull Request"
	PlaceholderStatus      = "unknown"
	PlaceholderAuthor      = "unknown"
	PlaceholderVersion     = "unknown"
	PlaceholderDescription = "No description available"
	PlaceholderTimestamp   = "unknown"

	// DefaultAvatarLetter is shown when a PR has no avatar configured.
	DefaultAvatarLetter = "A"

	// DefaultExternalURL is opened by "View on GitHub" when a PR has no GitHubURL.
	DefaultExternalURL = "https://github.com"
)

// PullRequest is an immutable fixture record describing one pull request.
type PullRequest struct {
	ID                string
	Number            int
	Title             string
	Version           string // Short commit SHA or tag shown in the metadata row.
	Description       string
	DescriptionBlocks []DescriptionBlock
	Summary           []string // Fallback for DescriptionBlocks.
	Themes            []Theme
	Status            string
	Author            string
	Avatar            *Avatar
	Timestamp         string // Literal, already human readable ("2 hours ago").
	GitHubURL         string

	// Placeholder is true when the record was synthesised for an unknown ID.
	Placeholder bool
}

// Avatar is either an image or a single letter.
type Avatar struct {
	Type   AvatarType
	Src    string
	Letter string
}

// DescriptionBlock is one block of the author's description.
type DescriptionBlock struct {
	Type    BlockType
	Content string // Markdown for paragraphs.
	Src     string // Image URL for images.
	Alt     string
}

// Theme is a named review theme surfaced in the author's note.
type Theme struct {
	Name        string
	Description string
}

// PlaceholderPR returns the record rendered for an ID with no fixture.
// Number is the numeric value of id, or 0 when id is not numeric.
func PlaceholderPR(id string) PullRequest {
	number, err := strconv.Atoi(id)
	if err != nil {
		number = 0
	}

	return PullRequest{
		ID:          id,
		Number:      number,
		Title:       PlaceholderTitle,
		Version:     PlaceholderVersion,
		Description: PlaceholderDescription,
		Status:      PlaceholderStatus,
		Author:      PlaceholderAuthor,
		Timestamp:   PlaceholderTimestamp,
		Placeholder: true,
	}
}

// AvatarLetter returns the letter to show when no avatar image is available.
func (pr PullRequest) AvatarLetter() string {
	if pr.Avatar != nil && pr.Avatar.Letter != "" {
		return pr.Avatar.Letter
	}
	return DefaultAvatarLetter
}

// HasAvatarImage reports whether the PR has an image avatar.
func (pr PullRequest) HasAvatarImage() bool {
	return pr.Avatar != nil && pr.Avatar.Type == AvatarImage && pr.Avatar.Src != ""
}

// ExternalURL returns the URL opened by "View on GitHub".
func (pr PullRequest) ExternalURL() string {
	if pr.GitHubURL != "" {
		return pr.GitHubURL
	}
	return DefaultExternalURL
}

// DisplayName returns "<number> - <title>".
func (pr PullRequest) DisplayName() string {
	return strconv.Itoa(pr.Number) + " - " + pr.Title
}
