package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/thorstenhirsch/ezgit/internal/load"
	"github.com/thorstenhirsch/ezgit/internal/state"
)

var (
	headerColor  = color.New(color.Bold, color.FgBlue)
	hashColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
	currentColor = color.New(color.Bold, color.FgGreen)
)

// printSnapshot writes the commit log and the branch list to w without
// starting the interactive interface.
func printSnapshot(w io.Writer, name string, snap *load.Snapshot) error {
	headerColor.Fprintf(w, "%s (%s)\n", name, snap.CurrentBranch)
	headerColor.Fprintln(w, "\ncommits")
	if len(snap.Commits) == 0 {
		dimColor.Fprintln(w, "  no commits yet")
	}
	for _, c := range snap.Commits {
		fields := strings.Split(c.Display, state.FieldSeparator)
		hashColor.Fprintf(w, "  %s", fields[0])
		if len(fields) > 1 {
			fmt.Fprintf(w, " %s", dimColor.Sprint(fields[1]))
		}
		if len(fields) > 2 {
			fmt.Fprintf(w, " %s", strings.Join(fields[2:], state.FieldSeparator))
		}
		fmt.Fprintln(w)
	}

	headerColor.Fprintln(w, "\nbranches")
	for _, b := range snap.Branches {
		if b == snap.CurrentBranch {
			currentColor.Fprintf(w, "* %s\n", b)
			continue
		}
		fmt.Fprintf(w, "  %s\n", b)
	}
	return nil
}
