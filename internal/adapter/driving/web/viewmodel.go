package web

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	vm "github.com/ericfisherdev/reviewdeck/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/reviewdeck/internal/application"
	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

var reviewOptions = []struct {
	Type        model.ReviewType
	Label       string
	Description string
}{
	{model.ReviewComment, "Comment", "Submit general feedback without explicit approval."},
	{model.ReviewRequestChanges, "Request changes", "Submit feedback that must be addressed before merging."},
	{model.ReviewApprove, "Approve", "Give your approval to merge these changes."},
}

// toPRRowViewModel converts a single domain PullRequest to a PRRowViewModel.
func toPRRowViewModel(pr model.PullRequest, basePath, currentID string) vm.PRRowViewModel {
	row := vm.PRRowViewModel{
		ID:           pr.ID,
		Number:       pr.Number,
		Title:        pr.Title,
		DisplayName:  pr.DisplayName(),
		Author:       pr.Author,
		Status:       pr.Status,
		Timestamp:    pr.Timestamp,
		Version:      pr.Version,
		AvatarLetter: pr.AvatarLetter(),
		DetailPath:   basePath + "/pr/" + pr.ID,
		Current:      pr.ID == currentID,
	}
	if pr.HasAvatarImage() {
		row.AvatarSrc = assetURL(basePath, pr.Avatar.Src)
	}
	return row
}

// toPRListViewModel converts the PRs shown on the list page.
func toPRListViewModel(prs []model.PullRequest, basePath, query string) vm.PRListViewModel {
	rows := make([]vm.PRRowViewModel, 0, len(prs))
	for _, pr := range prs {
		rows = append(rows, toPRRowViewModel(pr, basePath, ""))
	}
	return vm.PRListViewModel{
		BasePath:   basePath,
		Query:      query,
		CountLabel: fmt.Sprintf("%d Pull Requests", len(prs)),
		Rows:       rows,
	}
}

// toPRDetailViewModel converts a view snapshot into the detail page view model.
// A snapshot without an ID renders a static page with no live view.
func toPRDetailViewModel(s application.ViewState) vm.PRDetailViewModel {
	pr := s.Detail.PR

	selector := make([]vm.PRRowViewModel, 0, len(s.AllPRs))
	for _, other := range s.AllPRs {
		selector = append(selector, toPRRowViewModel(other, s.BasePath, pr.ID))
	}

	d := vm.PRDetailViewModel{
		PR:           toPRRowViewModel(pr, s.BasePath, pr.ID),
		ViewID:       s.ID,
		BasePath:     s.BasePath,
		ExternalURL:  pr.ExternalURL(),
		SummaryPath:  s.BasePath + "/summary/" + pr.ID,
		HomePath:     s.BasePath + "/",
		Placeholder:  pr.Placeholder,
		SelectorOpen: s.SelectorOpen,
		Selector:     selector,
		Review:       toReviewViewModel(s),
		Groups:       toGroupsViewModel(s.Files),
		Changes:      toChangeViewModels(s),
		Note:         toNoteViewModel(s),
		Capturing:    s.Capturing,
	}
	if s.ID != "" {
		d.EventsURL = s.BasePath + "/views/" + s.ID + "/events"
	}
	if s.RefreshIn > 0 {
		d.RefreshInMillis = max(s.RefreshIn.Milliseconds(), 1)
	}
	return d
}

func toReviewViewModel(s application.ViewState) vm.ReviewViewModel {
	opts := make([]vm.ReviewOptionViewModel, 0, len(reviewOptions))
	for _, o := range reviewOptions {
		opts = append(opts, vm.ReviewOptionViewModel{
			Value:       string(o.Type),
			Label:       o.Label,
			Description: o.Description,
			Selected:    o.Type == s.ReviewType,
		})
	}
	return vm.ReviewViewModel{
		Open:    s.ReviewOpen,
		Body:    s.ReviewBody,
		Options: opts,
	}
}

func toGroupsViewModel(f application.FilesSnapshot) vm.GroupsViewModel {
	items := make([]vm.GroupViewModel, 0, len(f.Groups))
	for _, g := range f.Groups {
		files := make([]vm.GroupFileViewModel, 0, len(g.Files))
		for i, file := range g.Files {
			files = append(files, vm.GroupFileViewModel{
				Path:       file.Path,
				Deleted:    file.Deleted,
				DiffAnchor: application.DiffAnchor(g.ID, i),
			})
		}
		items = append(items, vm.GroupViewModel{
			ID:       g.ID,
			Anchor:   application.GroupAnchor(g.ID),
			Name:     g.Name,
			Reviewed: g.Reviewed,
			Expanded: f.ListExpanded[g.ID],
			Files:    files,
		})
	}
	return vm.GroupsViewModel{
		ReviewedLabel: fmt.Sprintf("%d/%d reviewed", f.ReviewedCount, len(f.Groups)),
		Items:         items,
	}
}

func toChangeViewModels(s application.ViewState) []vm.ChangeViewModel {
	out := make([]vm.ChangeViewModel, 0, len(s.Files.Changes))
	for _, ch := range s.Files.Changes {
		files := make([]vm.FileDiffViewModel, 0, len(ch.Files))
		for i, f := range ch.Files {
			st := s.Files.Files[application.FileKey{GroupID: ch.GroupID, Filename: f.Filename}]
			files = append(files, toFileDiffViewModel(s, ch.GroupID, i, f, st))
		}
		out = append(out, vm.ChangeViewModel{
			GroupID:     ch.GroupID,
			Anchor:      application.GroupAnchor(ch.GroupID),
			GroupName:   ch.GroupName,
			FileCount:   ch.FileCount,
			Additions:   ch.Additions,
			Deletions:   ch.Deletions,
			Description: ch.Description,
			ReviewFocus: ch.ReviewFocus,
			NeedsReview: ch.NeedsReview,
			Expanded:    s.Files.ContentExpanded[ch.GroupID],
			Files:       files,
		})
	}
	return out
}

func toFileDiffViewModel(s application.ViewState, groupID string, index int, f model.FileChangeDetail, st application.FileState) vm.FileDiffViewModel {
	visible := f.VisibleChanges()
	lines := make([]vm.LineViewModel, 0, len(visible))
	for row, c := range visible {
		id := application.LineID(groupID, index, row)
		line := vm.LineViewModel{
			ID:            id,
			Number:        c.LineNumber,
			Class:         diffLineClass(c.Type),
			Sign:          c.Sign(),
			Content:       c.Content,
			CoverageClass: coverageClass(c.Coverage),
		}
		if id == s.CommentLine {
			line.Commenting = true
			line.Draft = s.CommentDraft
			line.CanSubmit = s.CanSubmit
		}
		lines = append(lines, line)
	}

	return vm.FileDiffViewModel{
		Index:        index,
		Anchor:       application.DiffAnchor(groupID, index),
		Filename:     f.Filename,
		ShortName:    shortFilename(f.Filename),
		Additions:    f.Additions,
		Deletions:    f.Deletions,
		Expanded:     st.Expanded,
		Checked:      st.Checked,
		Coverage:     formatPercent(f.Coverage),
		Duplications: formatPercent(f.Duplications),
		Issues:       formatCount(f.Issues),
		Lines:        lines,
	}
}

func toNoteViewModel(s application.ViewState) vm.NoteViewModel {
	pr := s.Detail.PR

	blocks := make([]vm.BlockViewModel, 0, len(pr.DescriptionBlocks))
	for _, b := range pr.DescriptionBlocks {
		if b.Type == model.BlockImage {
			blocks = append(blocks, vm.BlockViewModel{IsImage: true, Src: assetURL(s.BasePath, b.Src), Alt: b.Alt})
			continue
		}
		blocks = append(blocks, vm.BlockViewModel{Text: b.Content})
	}

	themes := make([]vm.ThemeViewModel, 0, len(pr.Themes))
	for _, t := range pr.Themes {
		themes = append(themes, vm.ThemeViewModel{Name: t.Name, Description: t.Description})
	}

	thread := make([]vm.CommentViewModel, 0, len(s.Detail.Thread))
	for _, c := range s.Detail.Thread {
		thread = append(thread, vm.CommentViewModel{
			Initials:  c.Initials,
			Author:    c.Author,
			Timestamp: c.Timestamp,
			BodyHTML:  RenderMarkdown(c.Body),
		})
	}

	return vm.NoteViewModel{
		Phase:       s.NotePhase.String(),
		Tab:         string(s.NoteTab),
		Author:      pr.Author,
		Blocks:      blocks,
		Summary:     pr.Summary,
		Description: pr.Description,
		Themes:      themes,
		Thread:      thread,
	}
}

// shortFilename returns "…<basename>" for paths with a directory, and the
// filename unchanged otherwise.
func shortFilename(filename string) string {
	if !strings.Contains(filename, "/") {
		return filename
	}
	return "…" + path.Base(filename)
}

// assetURL prefixes site-relative asset paths with basePath. Absolute,
// protocol-relative and data URLs are returned as is.
func assetURL(basePath, src string) string {
	if src == "" || basePath == "" {
		return src
	}
	for _, prefix := range []string{"http://", "https://", "//", "data:"} {
		if strings.HasPrefix(src, prefix) {
			return src
		}
	}
	if strings.HasPrefix(src, basePath+"/") {
		return src
	}
	return basePath + "/" + strings.TrimPrefix(src, "/")
}

func formatPercent(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64) + "%"
}

func formatCount(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
