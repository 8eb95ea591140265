package model

import (
	"sort"
	"time"
)

// RunSummary aggregates the file reports of one invocation over a root directory.
type RunSummary struct {
	// ID is the history database identifier; zero when the run was not stored.
	ID int64 `json:"id,omitempty"`

	// Root is the processed root directory.
	Root string `json:"root"`

	// LogPath is the path of the run's processing log.
	LogPath string `json:"log_path"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last file finished.
	FinishedAt time.Time `json:"finished_at"`

	// Files holds one report per discovered file, in discovery order.
	Files []*FileReport `json:"files"`
}

// NewRunSummary creates an empty summary for a run over root.
func NewRunSummary(root, logPath string) *RunSummary {
	return &RunSummary{
		Root:      root,
		LogPath:   logPath,
		StartedAt: time.Now(),
		Files:     make([]*FileReport, 0),
	}
}

// Total returns the number of discovered files.
func (s *RunSummary) Total() int {
	return len(s.Files)
}

// FailedCount returns the number of abandoned files.
func (s *RunSummary) FailedCount() int {
	n := 0
	for _, f := range s.Files {
		if f.Failed() {
			n++
		}
	}
	return n
}

// ValidatedCount returns the number of files that passed validation.
func (s *RunSummary) ValidatedCount() int {
	n := 0
	for _, f := range s.Files {
		if f.Validated {
			n++
		}
	}
	return n
}

// SyntaxErrorCount returns the number of files analyzed with the fallback.
func (s *RunSummary) SyntaxErrorCount() int {
	n := 0
	for _, f := range s.Files {
		if f.SyntaxError {
			n++
		}
	}
	return n
}

// Duration returns the wall time of the run.
func (s *RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// TagCount is the number of files carrying a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TagDistribution counts files per tag, most frequent first, ties by name.
func (s *RunSummary) TagDistribution() []TagCount {
	counts := make(map[string]int)
	for _, f := range s.Files {
		for _, t := range f.Tags {
			counts[t]++
		}
	}

	result := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		result = append(result, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Tag < result[j].Tag
	})
	return result
}
