// Package report prints the end-of-sweep summary.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/fpgasweep/internal/sweep"
)

var rule = strings.Repeat("-", 78)

// Reporter writes summaries to Out.
type Reporter struct {
	Out io.Writer
	// Styled colours the status tags. The renderer still drops colours when
	// Out is not a terminal.
	Styled bool
}

// New returns a Reporter writing to out.
func New(out io.Writer, styled bool) *Reporter {
	return &Reporter{Out: out, Styled: styled}
}

// Summary prints one line per result followed by the failure ratio, and
// returns the number of failed results.
func (r *Reporter) Summary(results []*sweep.Result) int {
	okTag, errTag := r.tags()

	var b strings.Builder
	b.WriteString("\n" + rule + "\nSummary:\n" + rule + "\n")

	failed := 0
	for _, res := range results {
		tag := okTag
		if res.Failed {
			failed++
			tag = errTag
		}
		name := res.Name
		if !res.HasName {
			name = "None"
		}
		fmt.Fprintf(&b, "%s %8.3fs (Return code = %d) %s %s", tag, res.Elapsed.Seconds(), res.ReturnCode, name, res.Options)
		if res.ExpectFailure {
			b.WriteString(" (expected failure)")
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if len(results) > 0 {
		fmt.Fprintf(&b, "%d out of %d failed. (%.1f%%)\n", failed, len(results), 100*float64(failed)/float64(len(results)))
	}
	b.WriteString(rule + "\n")

	io.WriteString(r.Out, b.String())
	return failed
}

// tags returns the status words padded to equal width.
func (r *Reporter) tags() (string, string) {
	if !r.Styled {
		return "OK!   ", "ERROR!"
	}
	renderer := lipgloss.NewRenderer(r.Out)
	ok := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	bad := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	return ok.Render("OK!") + "   ", bad.Render("ERROR!")
}
