package model

// Verdict is the outcome of checking one claim
type Verdict string

const (
	VerdictSupported     Verdict = "supported"
	VerdictContradicted  Verdict = "contradicted"
	VerdictNotVerifiable Verdict = "not_verifiable"
)

// Label returns the human-readable verdict name
func (v Verdict) Label() string {
	switch v {
	case VerdictSupported:
		return "Supported"
	case VerdictContradicted:
		return "Contradicted"
	default:
		return "Not Verifiable"
	}
}

// Symbol returns the status marker used in rendered output
func (v Verdict) Symbol() string {
	switch v {
	case VerdictSupported:
		return "✅"
	case VerdictContradicted:
		return "❌"
	default:
		return "⚠️"
	}
}

func (v Verdict) String() string {
	return v.Label() + " " + v.Symbol()
}

// AllVerdicts lists verdicts in display order
func AllVerdicts() []Verdict {
	return []Verdict{VerdictSupported, VerdictContradicted, VerdictNotVerifiable}
}
