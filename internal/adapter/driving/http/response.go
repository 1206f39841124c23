package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/reviewdeck/internal/application"
	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// PRResponse is the JSON representation of a pull request.
type PRResponse struct {
	ID          string `json:"id"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Author      string `json:"author"`
	Avatar      string `json:"avatar"` // Image URL or letter.
	Timestamp   string `json:"timestamp"`
	URL         string `json:"url"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// PRDetailResponse is a PR with its file groups, diffs and conversation.
type PRDetailResponse struct {
	PRResponse
	ReviewedGroups int                    `json:"reviewed_groups"`
	Groups         []GroupResponse        `json:"groups"`
	Changes        []ChangeResponse       `json:"changes"`
	Conversation   []ConversationResponse `json:"conversation"`
}

// GroupResponse is the JSON representation of a file group.
type GroupResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Reviewed bool           `json:"reviewed"`
	Files    []FileResponse `json:"files"`
}

// FileResponse is a file entry of a group.
type FileResponse struct {
	Path    string `json:"path"`
	Deleted bool   `json:"deleted"`
}

// ChangeResponse is the diff content of one group.
type ChangeResponse struct {
	GroupID     string               `json:"group_id"`
	GroupName   string               `json:"group_name"`
	FileCount   int                  `json:"file_count"`
	Additions   int                  `json:"additions"`
	Deletions   int                  `json:"deletions"`
	Description string               `json:"description,omitempty"`
	ReviewFocus string               `json:"review_focus,omitempty"`
	NeedsReview bool                 `json:"needs_review"`
	Files       []FileChangeResponse `json:"files"`
}

// FileChangeResponse is the diff of a single file.
type FileChangeResponse struct {
	Filename     string         `json:"filename"`
	Additions    int            `json:"additions"`
	Deletions    int            `json:"deletions"`
	Checked      bool           `json:"checked"`
	Coverage     *float64       `json:"coverage,omitempty"`
	Duplications *float64       `json:"duplications,omitempty"`
	Issues       *int           `json:"issues,omitempty"`
	Lines        []LineResponse `json:"lines"`
}

// LineResponse is one diff row. ID is the comment anchor of the row.
type LineResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Coverage string `json:"coverage,omitempty"`
}

// ConversationResponse is one comment of the author's note thread.
type ConversationResponse struct {
	Initials  string `json:"initials"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
	Body      string `json:"body"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status       string `json:"status"`
	Time         string `json:"time"`
	MountedViews int    `json:"mounted_views"`
	Error        string `json:"error,omitempty"`
}

func toPRResponse(pr model.PullRequest) PRResponse {
	avatar := pr.AvatarLetter()
	if pr.HasAvatarImage() {
		avatar = pr.Avatar.Src
	}

	return PRResponse{
		ID:          pr.ID,
		Number:      pr.Number,
		Title:       pr.Title,
		Version:     pr.Version,
		Description: pr.Description,
		Status:      pr.Status,
		Author:      pr.Author,
		Avatar:      avatar,
		Timestamp:   pr.Timestamp,
		URL:         pr.ExternalURL(),
		Placeholder: pr.Placeholder,
	}
}

func toPRDetailResponse(d application.PRDetail) PRDetailResponse {
	resp := PRDetailResponse{
		PRResponse:     toPRResponse(d.PR),
		ReviewedGroups: model.CountReviewed(d.Groups),
		Groups:         make([]GroupResponse, 0, len(d.Groups)),
		Changes:        make([]ChangeResponse, 0, len(d.Changes)),
		Conversation:   make([]ConversationResponse, 0, len(d.Thread)),
	}

	for _, g := range d.Groups {
		files := make([]FileResponse, 0, len(g.Files))
		for _, f := range g.Files {
			files = append(files, FileResponse{Path: f.Path, Deleted: f.Deleted})
		}
		resp.Groups = append(resp.Groups, GroupResponse{ID: g.ID, Name: g.Name, Reviewed: g.Reviewed, Files: files})
	}

	for _, ch := range d.Changes {
		resp.Changes = append(resp.Changes, toChangeResponse(ch))
	}

	for _, c := range d.Thread {
		resp.Conversation = append(resp.Conversation, ConversationResponse{
			Initials: c.Initials, Author: c.Author, Timestamp: c.Timestamp, Body: c.Body,
		})
	}

	return resp
}

func toChangeResponse(ch model.FileChange) ChangeResponse {
	out := ChangeResponse{
		GroupID:     ch.GroupID,
		GroupName:   ch.GroupName,
		FileCount:   ch.FileCount,
		Additions:   ch.Additions,
		Deletions:   ch.Deletions,
		Description: ch.Description,
		ReviewFocus: ch.ReviewFocus,
		NeedsReview: ch.NeedsReview,
		Files:       make([]FileChangeResponse, 0, len(ch.Files)),
	}

	for i, f := range ch.Files {
		visible := f.VisibleChanges()
		lines := make([]LineResponse, 0, len(visible))
		for row, c := range visible {
			lines = append(lines, LineResponse{
				ID:       application.LineID(ch.GroupID, i, row),
				Number:   c.LineNumber,
				Type:     string(c.Type),
				Content:  c.Content,
				Coverage: string(c.Coverage),
			})
		}
		out.Files = append(out.Files, FileChangeResponse{
			Filename:     f.Filename,
			Additions:    f.Additions,
			Deletions:    f.Deletions,
			Checked:      f.Checked,
			Coverage:     f.Coverage,
			Duplications: f.Duplications,
			Issues:       f.Issues,
			Lines:        lines,
		})
	}

	return out
}
