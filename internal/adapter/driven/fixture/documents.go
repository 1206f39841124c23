package fixture

import (
	"fmt"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

type indexDoc struct {
	PRs           []prDoc      `yaml:"prs"`
	DefaultThread []commentDoc `yaml:"default_thread"`
}

type prDoc struct {
	ID                string     `yaml:"id"`
	Number            int        `yaml:"number"`
	Title             string     `yaml:"title"`
	Version           string     `yaml:"version"`
	Description       string     `yaml:"description"`
	DescriptionBlocks []blockDoc `yaml:"description_blocks"`
	Summary           []string   `yaml:"summary"`
	Themes            []themeDoc `yaml:"themes"`
	Status            string     `yaml:"status"`
	Author            string     `yaml:"author"`
	Avatar            *avatarDoc `yaml:"avatar"`
	Timestamp         string     `yaml:"timestamp"`
	GitHubURL         string     `yaml:"github_url"`
}

type avatarDoc struct {
	Type   string `yaml:"type"`
	Src    string `yaml:"src"`
	Letter string `yaml:"letter"`
}

type blockDoc struct {
	Type    string `yaml:"type"`
	Content string `yaml:"content"`
	Src     string `yaml:"src"`
	Alt     string `yaml:"alt"`
}

type themeDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type commentDoc struct {
	Initials  string `yaml:"initials"`
	Author    string `yaml:"author"`
	Timestamp string `yaml:"timestamp"`
	Body      string `yaml:"body"`
}

type filesDoc struct {
	Groups  []groupDoc   `yaml:"groups"`
	Changes []changeDoc  `yaml:"changes"`
	Thread  []commentDoc `yaml:"thread"`
}

type groupDoc struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Files    []fileDoc `yaml:"files"`
	Reviewed bool      `yaml:"reviewed"`
}

type fileDoc struct {
	Path    string `yaml:"path"`
	Deleted bool   `yaml:"deleted"`
}

type changeDoc struct {
	GroupID     string          `yaml:"group_id"`
	GroupName   string          `yaml:"group_name"`
	Additions   int             `yaml:"additions"`
	Deletions   int             `yaml:"deletions"`
	Description string          `yaml:"description"`
	ReviewFocus string          `yaml:"review_focus"`
	NeedsReview bool            `yaml:"needs_review"`
	Files       []fileChangeDoc `yaml:"files"`
}

type fileChangeDoc struct {
	Filename     string    `yaml:"filename"`
	Additions    int       `yaml:"additions"`
	Deletions    int       `yaml:"deletions"`
	Checked      bool      `yaml:"checked"`
	Coverage     *float64  `yaml:"coverage"`
	Duplications *float64  `yaml:"duplications"`
	Issues       *int      `yaml:"issues"`
	Lines        []lineDoc `yaml:"lines"`
}

type lineDoc struct {
	Line     string `yaml:"line"`
	Type     string `yaml:"type"`
	Content  string `yaml:"content"`
	Coverage string `yaml:"coverage"`
}

func (d prDoc) toModel() (model.PullRequest, error) {
	if d.ID == "" {
		return model.PullRequest{}, fmt.Errorf("missing id")
	}

	pr := model.PullRequest{
		ID:          d.ID,
		Number:      d.Number,
		Title:       d.Title,
		Version:     d.Version,
		Description: d.Description,
		Summary:     d.Summary,
		Status:      d.Status,
		Author:      d.Author,
		Timestamp:   d.Timestamp,
		GitHubURL:   d.GitHubURL,
	}

	if d.Avatar != nil {
		t := model.AvatarType(d.Avatar.Type)
		if t != model.AvatarImage && t != model.AvatarLetter {
			return model.PullRequest{}, fmt.Errorf("PR %s: avatar type %q", d.ID, d.Avatar.Type)
		}
		pr.Avatar = &model.Avatar{Type: t, Src: d.Avatar.Src, Letter: d.Avatar.Letter}
	}

	for i, b := range d.DescriptionBlocks {
		t := model.BlockType(b.Type)
		if t != model.BlockParagraph && t != model.BlockImage {
			return model.PullRequest{}, fmt.Errorf("PR %s: description_blocks[%d]: type %q", d.ID, i, b.Type)
		}
		pr.DescriptionBlocks = append(pr.DescriptionBlocks, model.DescriptionBlock{
			Type: t, Content: b.Content, Src: b.Src, Alt: b.Alt,
		})
	}

	for _, th := range d.Themes {
		pr.Themes = append(pr.Themes, model.Theme{Name: th.Name, Description: th.Description})
	}

	return pr, nil
}

func (d filesDoc) toModel() (PRFiles, error) {
	out := PRFiles{
		Groups:  make([]model.FileGroup, 0, len(d.Groups)),
		Changes: make([]model.FileChange, 0, len(d.Changes)),
	}

	for _, g := range d.Groups {
		files := make([]model.FileInfo, 0, len(g.Files))
		for _, f := range g.Files {
			files = append(files, model.FileInfo{Path: f.Path, Deleted: f.Deleted})
		}
		out.Groups = append(out.Groups, model.FileGroup{ID: g.ID, Name: g.Name, Files: files, Reviewed: g.Reviewed})
	}

	for i, c := range d.Changes {
		ch := model.FileChange{
			GroupID:     c.GroupID,
			GroupName:   c.GroupName,
			FileCount:   len(c.Files),
			Additions:   c.Additions,
			Deletions:   c.Deletions,
			Description: c.Description,
			ReviewFocus: c.ReviewFocus,
			NeedsReview: c.NeedsReview,
			Files:       make([]model.FileChangeDetail, 0, len(c.Files)),
		}
		for j, f := range c.Files {
			detail, err := f.toModel()
			if err != nil {
				return PRFiles{}, fmt.Errorf("changes[%d].files[%d]: %w", i, j, err)
			}
			ch.Files = append(ch.Files, detail)
		}
		out.Changes = append(out.Changes, ch)
	}

	thread, err := toThread(d.Thread)
	if err != nil {
		return PRFiles{}, fmt.Errorf("thread: %w", err)
	}
	out.Thread = thread

	return out, nil
}

func (d fileChangeDoc) toModel() (model.FileChangeDetail, error) {
	detail := model.FileChangeDetail{
		Filename:     d.Filename,
		Additions:    d.Additions,
		Deletions:    d.Deletions,
		Expanded:     true,
		Checked:      d.Checked,
		Coverage:     d.Coverage,
		Duplications: d.Duplications,
		Issues:       d.Issues,
		Changes:      make([]model.CodeChange, 0, len(d.Lines)),
	}

	for k, l := range d.Lines {
		t := model.ChangeType(l.Type)
		if !t.Valid() {
			return model.FileChangeDetail{}, fmt.Errorf("lines[%d]: change type %q", k, l.Type)
		}
		cov := model.CoverageClass(l.Coverage)
		switch cov {
		case model.CoverageNone, model.CoverageCovered, model.CoverageUncovered, model.CoveragePartial:
		default:
			return model.FileChangeDetail{}, fmt.Errorf("lines[%d]: coverage %q", k, l.Coverage)
		}
		detail.Changes = append(detail.Changes, model.CodeChange{
			LineNumber: l.Line, Type: t, Content: l.Content, Coverage: cov,
		})
	}

	return detail, nil
}

func toThread(docs []commentDoc) ([]model.ConversationComment, error) {
	out := make([]model.ConversationComment, 0, len(docs))
	for i, c := range docs {
		if c.Author == "" {
			return nil, fmt.Errorf("comment %d: missing author", i)
		}
		out = append(out, model.ConversationComment{
			Initials: c.Initials, Author: c.Author, Timestamp: c.Timestamp, Body: c.Body,
		})
	}
	return out, nil
}
