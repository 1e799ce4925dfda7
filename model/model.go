package model

// FileResult is the outcome of reindenting a single file.
type FileResult struct {
	Path    string
	Changed bool
	Err     error
}

// Summary holds the results of a run for display.
type Summary struct {
	Fixed     []string
	Unchanged []string
	Failed    []string
	Skipped   []string // directories the walk could not read
	Message   string
}

// Add records a file result in the matching bucket.
func (s *Summary) Add(r FileResult) {
	switch {
	case r.Err != nil:
		s.Failed = append(s.Failed, r.Path)
	case r.Changed:
		s.Fixed = append(s.Fixed, r.Path)
	default:
		s.Unchanged = append(s.Unchanged, r.Path)
	}
}

// Total is the number of files that were processed.
func (s Summary) Total() int {
	return len(s.Fixed) + len(s.Unchanged) + len(s.Failed)
}
