package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Summary is what a run reports back to the user
type Summary struct {
	Repository string
	IndexFile  string
	CommitsDir string
	Commits    int
	Created    int
	Staged     int
	DryRun     bool
}

// ShowSummary prints a short report of a finished run
func ShowSummary(w io.Writer, s Summary) {
	label := color.New(color.Bold)
	if supportsColor {
		label.EnableColor()
	} else {
		label.DisableColor()
	}

	if s.DryRun {
		ShowInfo(w, fmt.Sprintf("dry run: nothing was written for %s", s.Repository))
	}

	fmt.Fprintf(w, "%s %s\n", label.Sprint("Repository:"), s.Repository)
	fmt.Fprintf(w, "%s %d\n", label.Sprint("Commits:   "), s.Commits)
	fmt.Fprintf(w, "%s %s\n", label.Sprint("Index:     "), s.IndexFile)
	fmt.Fprintf(w, "%s %s (%d new)\n", label.Sprint("Notes:     "), s.CommitsDir, s.Created)
	if s.Staged > 0 {
		fmt.Fprintf(w, "%s %d\n", label.Sprint("Staged:    "), s.Staged)
	}

	if !s.DryRun {
		ShowSuccess(w, fmt.Sprintf("recorded %d commits", s.Commits))
	}
}
