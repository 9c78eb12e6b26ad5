// Package report renders the end-of-run summary: iteration outcomes, the
// timing table and an optional ascii timing graph.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cloverrun/internal/orchestrator"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	okStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ff88"))

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))
)

// PrintSummary writes the run summary, the per-iteration table and the
// timing totals.
func PrintSummary(w io.Writer, sum *orchestrator.Summary, elapsed time.Duration) {
	fmt.Fprintln(w, titleStyle.Render("Run Summary"))
	if sum.FailedAt > 0 {
		fmt.Fprintf(w, "  %s %d/%d, %s\n",
			labelStyle.Render("iterations completed:"),
			sum.Succeeded, sum.Attempted,
			failStyle.Render(fmt.Sprintf("failed at iteration %d", sum.FailedAt)))
	} else {
		fmt.Fprintf(w, "  %s %d/%d %s\n",
			labelStyle.Render("iterations completed:"),
			sum.Succeeded, sum.Attempted,
			okStyle.Render("ok"))
	}

	if len(sum.Timings) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ITER\tSIM\tCOLLECT\tARCHIVE\tFILE")
		for i, t := range sum.Timings {
			name := ""
			if i < len(sum.Archives) {
				name = filepath.Base(sum.Archives[i])
			}
			fmt.Fprintf(tw, "%02d\t%s\t%s\t%s\t%s\n",
				t.Index,
				t.Simulation.Round(time.Millisecond),
				t.Collect.Round(time.Millisecond),
				t.Archive.Round(time.Millisecond),
				name)
		}
		tw.Flush()
	}

	var sim, col, arc time.Duration
	for _, t := range sum.Timings {
		sim += t.Simulation
		col += t.Collect
		arc += t.Archive
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Timing Summary"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  simulation\t%s\n", sim.Round(time.Millisecond))
	fmt.Fprintf(tw, "  collection\t%s\n", col.Round(time.Millisecond))
	fmt.Fprintf(tw, "  archiving\t%s\n", arc.Round(time.Millisecond))
	fmt.Fprintf(tw, "  total\t%s\n", elapsed.Round(time.Millisecond))
	tw.Flush()
}

// PrintTimingGraph plots per-iteration simulation time. With fewer than
// two completed iterations there is nothing to plot.
func PrintTimingGraph(w io.Writer, sum *orchestrator.Summary) {
	if len(sum.Timings) < 2 {
		return
	}
	data := make([]float64, len(sum.Timings))
	for i, t := range sum.Timings {
		data[i] = t.Simulation.Seconds()
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption("simulation time per iteration (s)"),
	)
	fmt.Fprintln(w)
	fmt.Fprintln(w, graph)
}
