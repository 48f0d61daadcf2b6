package lending

// DecisionResult represents the outcome of a business decision in a Decide function.
//
// DecisionResult should only be constructed using the provided factory methods:
// SuccessDecision() or ErrorDecision(err). A successful decision authorizes the
// command handler to apply the feature's mutations; the ledger's conditional
// updates re-validate the decision at the commit point.
type DecisionResult struct {
	Outcome string // "success" or "error"
	Err     error
}

const (
	successOutcome = "success"
	errorOutcome   = "error"
)

// SuccessDecision creates a DecisionResult authorizing the state change.
func SuccessDecision() DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
	}
}

// ErrorDecision creates a DecisionResult denying the command with a business error.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// IsSuccess reports whether the decision authorizes the state change.
func (r DecisionResult) IsSuccess() bool {
	return r.Outcome == successOutcome
}

// HasError returns the denial error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
