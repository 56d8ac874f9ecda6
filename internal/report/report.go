// Package report renders simulation diagnostics for people: plain text for
// terminals, markdown, and HTML rendered from the markdown.
package report

import (
	"fmt"
	"io"
	"strings"

	"simcross/internal/crosssim"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

type fact struct {
	label string
	value string
}

func facts(d crosssim.Diagnostics) []fact {
	return []fact{
		{"R", fmt.Sprint(d.R)},
		{"C", fmt.Sprint(d.C)},
		{"N", fmt.Sprint(d.N)},
		{"nonempty rows", fmt.Sprint(d.NonemptyRows)},
		{"nonempty columns", fmt.Sprint(d.NonemptyColumns)},
		{"min obs per row", fmt.Sprint(d.MinPerRow)},
		{"max obs per row", fmt.Sprint(d.MaxPerRow)},
		{"min obs per column", fmt.Sprint(d.MinPerColumn)},
		{"max obs per column", fmt.Sprint(d.MaxPerColumn)},
		{"mean obs per row", fmt.Sprintf("%.3f", d.MeanPerRow)},
		{"mean obs per column", fmt.Sprintf("%.3f", d.MeanPerColumn)},
		{"mean y", fmt.Sprintf("%.4f", d.MeanY)},
		{"var y", fmt.Sprintf("%.4f (implied %.4f)", d.VarianceY, d.ImpliedVariance)},
	}
}

// Text writes one "label: value" line per diagnostic.
func Text(w io.Writer, d crosssim.Diagnostics) error {
	for _, f := range facts(d) {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", f.label+":", f.value); err != nil {
			return err
		}
	}
	return nil
}

// Markdown renders the config and diagnostics as a markdown document.
func Markdown(cfg crosssim.SimulationConfig, d crosssim.Diagnostics) string {
	var b strings.Builder
	b.WriteString("# Crossed random-effects simulation\n\n")

	b.WriteString("## Configuration\n\n")
	b.WriteString("| parameter | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| observation_count | %d |\n", cfg.ObservationCount)
	fmt.Fprintf(&b, "| row_exponent | %g |\n", cfg.RowExponent)
	fmt.Fprintf(&b, "| column_exponent | %g |\n", cfg.ColumnExponent)
	fmt.Fprintf(&b, "| row_variance | %g |\n", cfg.RowVariance)
	fmt.Fprintf(&b, "| column_variance | %g |\n", cfg.ColumnVariance)
	fmt.Fprintf(&b, "| noise_variance | %g |\n", cfg.NoiseVariance)
	fmt.Fprintf(&b, "| intercept | %g |\n", cfg.Intercept)
	fmt.Fprintf(&b, "| seed | %d |\n", cfg.Seed)

	b.WriteString("\n## Diagnostics\n\n")
	b.WriteString("| statistic | value |\n|---|---|\n")
	for _, f := range facts(d) {
		fmt.Fprintf(&b, "| %s | %s |\n", f.label, f.value)
	}
	return b.String()
}

// HTML renders Markdown through gomarkdown with table support.
func HTML(cfg crosssim.SimulationConfig, d crosssim.Diagnostics) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "simcross report",
	})
	return markdown.ToHTML([]byte(Markdown(cfg, d)), p, r)
}
