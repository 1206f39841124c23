package model

// FileInfo is one file listed under a FileGroup.
type FileInfo struct {
	Path    string
	Deleted bool
}

// FileGroup is a thematic bundle of files within a PR. Reviewed comes from
// fixtures and is never derived from per-file checked state.
type FileGroup struct {
	ID       string
	Name     string
	Files    []FileInfo
	Reviewed bool
}

// CountReviewed returns how many groups have Reviewed set.
func CountReviewed(groups []FileGroup) int {
	n := 0
	for _, g := range groups {
		if g.Reviewed {
			n++
		}
	}
	return n
}
