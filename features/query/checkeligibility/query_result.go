package checkeligibility

import (
	"github.com/circulib/lending-go/lending"
)

// EligibilityReport represents the query result for a borrower/book pair.
//
// When Allowed is false, DenialCode carries the wire code of the rule that
// refused, the first one in evaluation order.
type EligibilityReport struct {
	BookID     string
	BorrowerID string
	Allowed    bool
	DenialCode string
}

func buildAllowedReport(query Query) EligibilityReport {
	return EligibilityReport{
		BookID:     query.BookID.String(),
		BorrowerID: query.BorrowerID.String(),
		Allowed:    true,
	}
}

func buildDeniedReport(query Query, denial error) EligibilityReport {
	return EligibilityReport{
		BookID:     query.BookID.String(),
		BorrowerID: query.BorrowerID.String(),
		Allowed:    false,
		DenialCode: lending.CodeOf(denial),
	}
}
