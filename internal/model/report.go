package model

import "time"

// SupportKind tells which text backs a result
type SupportKind string

const (
	SupportFact        SupportKind = "fact"        // Retrieved reference fact
	SupportCorrection  SupportKind = "correction"  // Generated rewrite of a contradicted claim
	SupportPlaceholder SupportKind = "placeholder" // Nothing retrieved
)

// NoFactNotice is shown when a claim has neither a fact nor a correction
const NoFactNotice = "No reference fact found."

// Result is the per-claim unit returned to the presentation layer
type Result struct {
	Claim      Claim   `json:"claim"`
	Verdict    Verdict `json:"verdict"`
	Fact       *Fact   `json:"fact,omitempty"`
	Correction string  `json:"correction,omitempty"`

	Label           string  `json:"label,omitempty"`            // Raw classifier label
	Score           float64 `json:"score,omitempty"`            // Classifier confidence
	UsedPlaceholder bool    `json:"used_placeholder,omitempty"` // Premise was the generic placeholder
}

// SupportKind reports which field backs the verdict
func (r Result) SupportKind() SupportKind {
	switch {
	case r.Fact != nil:
		return SupportFact
	case r.Correction != "":
		return SupportCorrection
	default:
		return SupportPlaceholder
	}
}

// Support returns the fact, the correction, or the placeholder notice
func (r Result) Support() string {
	switch r.SupportKind() {
	case SupportFact:
		return r.Fact.Text
	case SupportCorrection:
		return r.Correction
	default:
		return NoFactNotice
	}
}

// Report is the complete outcome of checking one input
type Report struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`               // "text" or "url"
	SourceURL string    `json:"source_url,omitempty"` // Set for URL input
	Subject   string    `json:"subject,omitempty"`    // Page subject for URL input
	CheckedAt time.Time `json:"checked_at"`
	Duration  string    `json:"duration"`

	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
}

// Summary aggregates verdicts across a report
type Summary struct {
	Total         int      `json:"total"`
	Supported     int      `json:"supported"`
	Contradicted  int      `json:"contradicted"`
	NotVerifiable int      `json:"not_verifiable"`
	WithFact      int      `json:"with_fact"`
	Corrected     int      `json:"corrected"`
	SupportIndex  int      `json:"support_index"` // 0-100, share of supported claims
	Confidence    string   `json:"confidence"`    // "low", "medium", "high"
	Signals       []Signal `json:"signals,omitempty"`
}

// Count returns the number of claims that received v
func (s Summary) Count(v Verdict) int {
	switch v {
	case VerdictSupported:
		return s.Supported
	case VerdictContradicted:
		return s.Contradicted
	case VerdictNotVerifiable:
		return s.NotVerifiable
	}
	return 0
}

// Signal is a diagnostic note with the data that produced it
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies a diagnostic signal
type SignalType string

const (
	SignalFactCoverage  SignalType = "fact_coverage" // Share of claims with a retrieved fact
	SignalContradiction SignalType = "contradiction" // At least one contradicted claim
	SignalUnverified    SignalType = "unverified"    // Majority of claims not verifiable
	SignalCorrections   SignalType = "corrections"   // Generated rewrites present
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
