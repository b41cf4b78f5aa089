package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

const reportFooter = "Verdicts come from an automated inference model comparing each sentence with a short encyclopedia summary. " +
	"Not Verifiable means no usable reference was found, not that the claim is false. " +
	"Generated corrections are model output and have not been checked."

// Renderer writes reports as JSON, Markdown, or a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// Markdown formats the report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	title := "Fact Check Report"
	if report.Subject != "" {
		title += ": " + report.Subject
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if report.SourceURL != "" {
		fmt.Fprintf(&b, "**Source:** %s  \n", report.SourceURL)
	}
	fmt.Fprintf(&b, "**Checked:** %s  \n", report.CheckedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "**Report ID:** `%s`\n\n", report.ID)

	s := report.Summary
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Claims: %d\n", s.Total)
	for _, v := range model.AllVerdicts() {
		fmt.Fprintf(&b, "- %s: %d\n", v, s.Count(v))
	}
	fmt.Fprintf(&b, "- Support index: %d/100 (confidence: %s)\n\n", s.SupportIndex, s.Confidence)

	if len(report.Results) > 0 {
		b.WriteString("## Claims\n\n")
		b.WriteString("| # | Claim | Verdict | Supporting text |\n")
		b.WriteString("|---|-------|---------|-----------------|\n")
		for _, res := range report.Results {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
				res.Claim.Index+1,
				escapeCell(res.Claim.Text),
				res.Verdict,
				escapeCell(supportCell(res)),
			)
		}
		b.WriteString("\n")
	}

	if len(s.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		for _, sig := range s.Signals {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", sig.Type, sig.Severity, sig.Description)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "_%s_\n", reportFooter)
	}

	return b.String()
}

// RenderSummary prints a per-claim overview to w
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	if report.SourceURL != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", report.SourceURL)
	}
	_, _ = fmt.Fprintf(w, "\nChecked %d claim(s) in %s\n\n", report.Summary.Total, report.Duration)

	for _, res := range report.Results {
		_, _ = fmt.Fprintf(w, "%d. %s\n   %s\n", res.Claim.Index+1, res.Claim.Text, res.Verdict)
		_, _ = fmt.Fprintf(w, "   %s\n\n", supportCell(res))
	}

	s := report.Summary
	for _, v := range model.AllVerdicts() {
		_, _ = fmt.Fprintf(w, "%s: %d  ", v.Label(), s.Count(v))
	}
	_, _ = fmt.Fprintf(w, "Support index: %d/100 (%s confidence)\n", s.SupportIndex, s.Confidence)
}

// supportCell describes the text backing a verdict
func supportCell(res model.Result) string {
	switch res.SupportKind() {
	case model.SupportFact:
		if res.Fact.Title != "" {
			return fmt.Sprintf("%s (%s)", res.Fact.Text, res.Fact.Title)
		}
		return res.Fact.Text
	case model.SupportCorrection:
		return "Suggested correction: " + res.Correction
	default:
		return res.Support()
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
