// Package fixture loads the review fixture set from YAML documents.
//
// A fixture directory holds prs.yaml, listing every pull request, and one
// pr-<id>.yaml per PR that has file groups, diffs or a conversation thread.
package fixture

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

const indexFile = "prs.yaml"

// PRFiles is the per-PR part of the fixture set.
type PRFiles struct {
	Groups  []model.FileGroup
	Changes []model.FileChange
	Thread  []model.ConversationComment
}

// Set is a fully decoded fixture set.
type Set struct {
	PRs   []model.PullRequest
	Files map[string]PRFiles

	// DefaultThread is shown for known PRs that carry no thread of their own.
	DefaultThread []model.ConversationComment
}

// ThreadFor returns the conversation thread of a known PR.
func (s *Set) ThreadFor(prID string) []model.ConversationComment {
	if f, ok := s.Files[prID]; ok && len(f.Thread) > 0 {
		return f.Thread
	}
	return s.DefaultThread
}

// Problem is one referential-integrity issue found by Validate.
type Problem struct {
	PRID    string
	GroupID string
	Reason  string
}

func (p Problem) String() string {
	if p.GroupID == "" {
		return fmt.Sprintf("PR %s: %s", p.PRID, p.Reason)
	}
	return fmt.Sprintf("PR %s, group %s: %s", p.PRID, p.GroupID, p.Reason)
}

// Validate checks that every change group references exactly one file
// group of the same PR and that per-PR documents belong to a listed PR.
// Problems are reported, not fixed.
func (s *Set) Validate() []Problem {
	known := make(map[string]bool, len(s.PRs))
	var problems []Problem
	for _, pr := range s.PRs {
		if known[pr.ID] {
			problems = append(problems, Problem{PRID: pr.ID, Reason: "duplicate PR id"})
		}
		known[pr.ID] = true
	}

	for id, f := range s.Files {
		if !known[id] {
			problems = append(problems, Problem{PRID: id, Reason: "file document for unlisted PR"})
		}

		groups := make(map[string]int, len(f.Groups))
		for _, g := range f.Groups {
			groups[g.ID]++
		}
		for gid, n := range groups {
			if n > 1 {
				problems = append(problems, Problem{PRID: id, GroupID: gid, Reason: "duplicate file group id"})
			}
		}
		for _, ch := range f.Changes {
			if groups[ch.GroupID] == 0 {
				problems = append(problems, Problem{PRID: id, GroupID: ch.GroupID, Reason: "change has no matching file group"})
			}
		}
	}

	return problems
}

// Load reads and decodes the fixture set rooted at fsys.
func Load(fsys fs.FS) (*Set, error) {
	var idx indexDoc
	if err := decodeFile(fsys, indexFile, &idx); err != nil {
		return nil, err
	}

	set := &Set{
		PRs:   make([]model.PullRequest, 0, len(idx.PRs)),
		Files: make(map[string]PRFiles),
	}

	var err error
	if set.DefaultThread, err = toThread(idx.DefaultThread); err != nil {
		return nil, fmt.Errorf("%s: default_thread: %w", indexFile, err)
	}

	for i, d := range idx.PRs {
		pr, err := d.toModel()
		if err != nil {
			return nil, fmt.Errorf("%s: prs[%d]: %w", indexFile, i, err)
		}
		set.PRs = append(set.PRs, pr)
	}

	names, err := fs.Glob(fsys, "pr-*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list fixture files: %w", err)
	}
	for _, name := range names {
		id := strings.TrimSuffix(strings.TrimPrefix(path.Base(name), "pr-"), ".yaml")

		var doc filesDoc
		if err := decodeFile(fsys, name, &doc); err != nil {
			return nil, err
		}
		files, err := doc.toModel()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		set.Files[id] = files
	}

	return set, nil
}

func decodeFile(fsys fs.FS, name string, v any) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open fixture %s: %w", name, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return nil
}
