package service

import (
	"fmt"

	"github.com/infotier/verify-api/internal/models"
)

// Signals are the provider outputs fed into the decision policy.
type Signals struct {
	OCRConfidence float64
	MatchScore    float64
	Liveness      float64
}

// Thresholds are the per-customer policy cutoffs on the composite score.
type Thresholds struct {
	Approve float64
	Reject  float64
}

// DefaultThresholds apply when a customer has no config row.
func DefaultThresholds() Thresholds {
	return Thresholds{Approve: models.DefaultApproveThreshold, Reject: models.DefaultRejectThreshold}
}

// Decision is the outcome of evaluating signals against thresholds.
type Decision struct {
	Status string
	Score  float64
	Reason string
}

// DecisionEngine maps provider signals and thresholds to a verdict. It is a
// pure function: no side effects, same inputs always produce the same output.
type DecisionEngine struct{}

// NewDecisionEngine constructs the engine.
func NewDecisionEngine() DecisionEngine {
	return DecisionEngine{}
}

// Decide computes the unweighted average of the three signals and compares it
// against the thresholds. Exact equality with a threshold resolves to the
// decided branch, not review.
func (DecisionEngine) Decide(signals Signals, thresholds Thresholds) Decision {
	composite := (signals.OCRConfidence + signals.MatchScore + signals.Liveness) / 3

	switch {
	case composite >= thresholds.Approve:
		return Decision{
			Status: models.StatusApproved,
			Score:  composite,
			Reason: fmt.Sprintf("auto-approved: composite %.2f >= %.2f", composite, thresholds.Approve),
		}
	case composite <= thresholds.Reject:
		return Decision{
			Status: models.StatusRejected,
			Score:  composite,
			Reason: fmt.Sprintf("auto-rejected: composite %.2f <= %.2f", composite, thresholds.Reject),
		}
	default:
		return Decision{
			Status: models.StatusReview,
			Score:  composite,
			Reason: fmt.Sprintf("manual review required: composite %.2f between thresholds", composite),
		}
	}
}
