package lending

import "errors"

// Business error sentinels. Validation errors (unresolvable identifiers) and
// business-rule denials are expected, user-actionable outcomes - handlers
// surface them with a specific code, never as generic failures.
var (
	ErrBookNotFound       = errors.New("book not found")
	ErrLoanNotFound       = errors.New("loan not found")
	ErrOutOfStock         = errors.New("book is out of stock")
	ErrHasOverdue         = errors.New("borrower has overdue loans")
	ErrAlreadyReturned    = errors.New("loan was already returned")
	ErrForbidden          = errors.New("loan belongs to another borrower")
	ErrBookHasActiveLoans = errors.New("book has unreturned loans")
	ErrUnknownCategory    = errors.New("unknown book category")
	ErrInvalidCopyCount   = errors.New("copy count must be positive")
)

// Stable wire codes for the business errors, to be mapped by the transport
// layer to whatever status representation it uses.
const (
	CodeBookNotFound       = "BOOK_NOT_FOUND"
	CodeLoanNotFound       = "LOAN_NOT_FOUND"
	CodeOutOfStock         = "OUT_OF_STOCK"
	CodeHasOverdue         = "HAS_OVERDUE"
	CodeAlreadyReturned    = "ALREADY_RETURNED"
	CodeForbidden          = "FORBIDDEN"
	CodeBookHasActiveLoans = "BOOK_HAS_ACTIVE_LOANS"
	CodeUnknownCategory    = "UNKNOWN_CATEGORY"
	CodeInvalidCopyCount   = "INVALID_COPY_COUNT"
	CodeInternal           = "INTERNAL"
)

// CodeOf maps an error to its wire code.
// Non-business errors (storage failures, exhausted retries) map to INTERNAL.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return CodeBookNotFound
	case errors.Is(err, ErrLoanNotFound):
		return CodeLoanNotFound
	case errors.Is(err, ErrOutOfStock):
		return CodeOutOfStock
	case errors.Is(err, ErrHasOverdue):
		return CodeHasOverdue
	case errors.Is(err, ErrAlreadyReturned):
		return CodeAlreadyReturned
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrBookHasActiveLoans):
		return CodeBookHasActiveLoans
	case errors.Is(err, ErrUnknownCategory):
		return CodeUnknownCategory
	case errors.Is(err, ErrInvalidCopyCount):
		return CodeInvalidCopyCount
	default:
		return CodeInternal
	}
}

// IsBusinessError reports whether the error is one of the domain sentinels,
// as opposed to a storage or infrastructure failure.
func IsBusinessError(err error) bool {
	return CodeOf(err) != CodeInternal
}
