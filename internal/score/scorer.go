package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/factcheck/internal/model"
)

// Scorer summarizes per-claim verdicts and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Summarize counts verdicts, computes the support index, and attaches
// diagnostic signals with the data that produced them
func (s *Scorer) Summarize(results []model.Result) model.Summary {
	summary := model.Summary{Total: len(results)}

	for _, r := range results {
		switch r.Verdict {
		case model.VerdictSupported:
			summary.Supported++
		case model.VerdictContradicted:
			summary.Contradicted++
		default:
			summary.NotVerifiable++
		}
		if r.Fact != nil {
			summary.WithFact++
		}
		if r.Correction != "" {
			summary.Corrected++
		}
	}

	if summary.Total == 0 {
		summary.Confidence = "low"
		summary.Signals = []model.Signal{{
			Type:        model.SignalFactCoverage,
			Severity:    model.SeverityCritical,
			Description: "No claims extracted",
			Data:        map[string]interface{}{"claims": 0},
		}}
		return summary
	}

	summary.SupportIndex = int(math.Round(100 * float64(summary.Supported) / float64(summary.Total)))

	coverage, coverageSignal := s.factCoverage(summary)
	summary.Confidence = s.determineConfidence(coverage)
	summary.Signals = append(summary.Signals, coverageSignal)

	if signal, ok := s.contradictions(summary); ok {
		summary.Signals = append(summary.Signals, signal)
	}
	if signal, ok := s.unverified(summary); ok {
		summary.Signals = append(summary.Signals, signal)
	}
	if signal, ok := s.corrections(summary); ok {
		summary.Signals = append(summary.Signals, signal)
	}

	return summary
}

// factCoverage reports the share of claims backed by a retrieved fact
func (s *Scorer) factCoverage(summary model.Summary) (float64, model.Signal) {
	ratio := float64(summary.WithFact) / float64(summary.Total)

	severity := model.SeverityInfo
	if ratio < 0.25 {
		severity = model.SeverityCritical
	} else if ratio < 0.5 {
		severity = model.SeverityWarning
	}

	return ratio, model.Signal{
		Type:        model.SignalFactCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Reference facts found for %d of %d claims", summary.WithFact, summary.Total),
		Data: map[string]interface{}{
			"claims":    summary.Total,
			"with_fact": summary.WithFact,
			"ratio":     ratio,
			"formula":   "with_fact / claims",
		},
	}
}

func (s *Scorer) contradictions(summary model.Summary) (model.Signal, bool) {
	if summary.Contradicted == 0 {
		return model.Signal{}, false
	}

	severity := model.SeverityWarning
	if summary.Contradicted*2 >= summary.Total {
		severity = model.SeverityCritical
	}

	return model.Signal{
		Type:        model.SignalContradiction,
		Severity:    severity,
		Description: fmt.Sprintf("%d claim(s) contradicted", summary.Contradicted),
		Data: map[string]interface{}{
			"contradicted": summary.Contradicted,
			"claims":       summary.Total,
		},
	}, true
}

func (s *Scorer) unverified(summary model.Summary) (model.Signal, bool) {
	if summary.NotVerifiable*2 <= summary.Total {
		return model.Signal{}, false
	}

	return model.Signal{
		Type:        model.SignalUnverified,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("Most claims could not be verified (%d of %d)", summary.NotVerifiable, summary.Total),
		Data: map[string]interface{}{
			"not_verifiable": summary.NotVerifiable,
			"claims":         summary.Total,
		},
	}, true
}

func (s *Scorer) corrections(summary model.Summary) (model.Signal, bool) {
	if summary.Corrected == 0 {
		return model.Signal{}, false
	}

	return model.Signal{
		Type:        model.SignalCorrections,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%d generated correction(s); these are model output, not retrieved facts", summary.Corrected),
		Data: map[string]interface{}{
			"corrected": summary.Corrected,
		},
	}, true
}

// determineConfidence grades how much of the report rests on retrieved facts
func (s *Scorer) determineConfidence(coverage float64) string {
	switch {
	case coverage >= 0.75:
		return "high"
	case coverage >= 0.4:
		return "medium"
	default:
		return "low"
	}
}
