package nli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// Verification is the classifier outcome for one claim
type Verification struct {
	Verdict         model.Verdict
	Label           string
	Score           float64
	Premise         string
	UsedPlaceholder bool
}

// Verifier maps classifier labels to verdicts
type Verifier struct {
	classifier  Classifier
	placeholder string
	logger      *slog.Logger
}

// VerifierOption configures a Verifier
type VerifierOption func(*Verifier)

// WithPlaceholder sets the premise used when no fact was retrieved;
// an empty premise disables the substitution
func WithPlaceholder(premise string) VerifierOption {
	return func(v *Verifier) { v.placeholder = strings.TrimSpace(premise) }
}

// WithLogger sets the verifier logger
func WithLogger(logger *slog.Logger) VerifierOption {
	return func(v *Verifier) { v.logger = logger }
}

// NewVerifier creates a new verifier around a classifier
func NewVerifier(classifier Classifier, opts ...VerifierOption) *Verifier {
	v := &Verifier{classifier: classifier, logger: slog.Default()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify classifies the claim against the fact, or the placeholder premise
// when fact is nil. It never fails: classifier errors yield Not-Verifiable.
func (v *Verifier) Verify(ctx context.Context, claim string, fact *model.Fact) Verification {
	premise := ""
	if fact != nil {
		premise = fact.Text
	}

	usedPlaceholder := false
	if strings.TrimSpace(premise) == "" {
		if v.placeholder == "" {
			return Verification{Verdict: model.VerdictNotVerifiable}
		}
		premise = v.placeholder
		usedPlaceholder = true
	}

	prediction, err := v.classifier.Classify(ctx, premise, claim)
	if err != nil {
		v.logger.Warn("classification failed", "classifier", v.classifier.Name(), "error", err)
		return Verification{
			Verdict:         model.VerdictNotVerifiable,
			Premise:         premise,
			UsedPlaceholder: usedPlaceholder,
		}
	}

	verdict := VerdictForLabel(prediction.Label)
	// A generic premise cannot support a specific claim
	if usedPlaceholder && verdict == model.VerdictSupported {
		verdict = model.VerdictNotVerifiable
	}

	return Verification{
		Verdict:         verdict,
		Label:           prediction.Label,
		Score:           prediction.Score,
		Premise:         premise,
		UsedPlaceholder: usedPlaceholder,
	}
}

// VerdictForLabel maps a classifier label to a verdict by substring
func VerdictForLabel(label string) model.Verdict {
	upper := strings.ToUpper(label)
	switch {
	case strings.Contains(upper, "NOT_ENTAILMENT"):
		return model.VerdictNotVerifiable
	case strings.Contains(upper, "ENTAILMENT"):
		return model.VerdictSupported
	case strings.Contains(upper, "CONTRADICTION"):
		return model.VerdictContradicted
	default:
		return model.VerdictNotVerifiable
	}
}
