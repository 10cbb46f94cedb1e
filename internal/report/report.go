// Package report renders the run summary: descriptive statistics of the
// log-likelihood column plus the aggregate MFD comparison, as markdown and
// as a standalone HTML page.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"

	"hamlet/domain/core"
	"hamlet/internal/engine"
	"hamlet/internal/errors"
)

// Summary holds describe-style statistics of a numeric column.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	P25    float64
	Median float64
	P75    float64
	Max    float64
}

// Describe computes the summary statistics of a value series. An empty
// series yields a zero summary with Count 0, not an error.
func Describe(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, nil
	}
	s := Summary{Count: len(values)}

	var err error
	if s.Mean, err = stats.Mean(values); err != nil {
		return Summary{}, errors.Wrap(err, "describing column")
	}
	if s.StdDev, err = stats.StandardDeviation(values); err != nil {
		return Summary{}, errors.Wrap(err, "describing column")
	}
	if s.Min, err = stats.Min(values); err != nil {
		return Summary{}, errors.Wrap(err, "describing column")
	}
	if s.Max, err = stats.Max(values); err != nil {
		return Summary{}, errors.Wrap(err, "describing column")
	}
	if s.P25, err = stats.Percentile(values, 25); err != nil {
		return Summary{}, errors.Wrap(err, "describing column")
	}
	if s.Median, err = stats.Median(values); err != nil {
		return Summary{}, errors.Wrap(err, "describing column")
	}
	if s.P75, err = stats.Percentile(values, 75); err != nil {
		return Summary{}, errors.Wrap(err, "describing column")
	}
	return s, nil
}

// Data is everything the basic report shows.
type Data struct {
	Title   string
	RunID   core.RunID
	Method  string
	NumBins int
	LogLike Summary
	MFD     *engine.MFDComparison
}

// BuildMarkdown assembles the report body.
func BuildMarkdown(d Data) string {
	var b strings.Builder

	title := d.Title
	if title == "" {
		title = "Seismic Source Model Evaluation"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Run `%s`, likelihood method `%s`, %d spatial bins.\n\n", d.RunID, d.Method, d.NumBins)

	b.WriteString("## Log-likelihood\n\n")
	if d.LogLike.Count == 0 {
		b.WriteString("No scored bins.\n\n")
	} else {
		b.WriteString("| statistic | value |\n|---|---|\n")
		fmt.Fprintf(&b, "| count | %d |\n", d.LogLike.Count)
		fmt.Fprintf(&b, "| mean | %.4f |\n", d.LogLike.Mean)
		fmt.Fprintf(&b, "| std | %.4f |\n", d.LogLike.StdDev)
		fmt.Fprintf(&b, "| min | %.4f |\n", d.LogLike.Min)
		fmt.Fprintf(&b, "| 25%% | %.4f |\n", d.LogLike.P25)
		fmt.Fprintf(&b, "| 50%% | %.4f |\n", d.LogLike.Median)
		fmt.Fprintf(&b, "| 75%% | %.4f |\n", d.LogLike.P75)
		fmt.Fprintf(&b, "| max | %.4f |\n\n", d.LogLike.Max)
	}

	if d.MFD != nil {
		b.WriteString("## Model vs. observed MFD (cumulative annual rates)\n\n")
		b.WriteString("| bin | model | observed |\n|---|---|---|\n")
		for i, key := range d.MFD.Keys {
			fmt.Fprintf(&b, "| %s | %.6g | %.6g |\n", key, d.MFD.ModeledCum[i], d.MFD.ObservedCum[i])
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHTML renders the markdown body as a complete HTML page.
func RenderHTML(md, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: title,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// WriteHTML builds and writes the report file.
func WriteHTML(path string, d Data) error {
	page := RenderHTML(BuildMarkdown(d), d.Title)
	if err := os.WriteFile(path, page, 0o644); err != nil {
		return errors.Wrap(err, "writing report")
	}
	return nil
}
