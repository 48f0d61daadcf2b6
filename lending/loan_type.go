package lending

import "time"

// LoanType is the code for a loan's duration option.
type LoanType int

const (
	TenDayLoan  LoanType = 1
	FiveDayLoan LoanType = 2
	TwoDayLoan  LoanType = 3
)

// fallbackLoanDays is used for unrecognized loan type codes.
// Borrowing stays permissive on malformed input instead of rejecting it;
// the longest duration is the safe default for the borrower.
const fallbackLoanDays = 10

// Days returns the due-date offset in days for this loan type.
// Unrecognized codes fall back to 10 days.
func (t LoanType) Days() int {
	switch t {
	case TenDayLoan:
		return 10
	case FiveDayLoan:
		return 5
	case TwoDayLoan:
		return 2
	default:
		return fallbackLoanDays
	}
}

// String returns a human-readable label for the loan type.
func (t LoanType) String() string {
	switch t {
	case TenDayLoan:
		return "10 days"
	case FiveDayLoan:
		return "5 days"
	case TwoDayLoan:
		return "2 days"
	default:
		return "10 days (fallback)"
	}
}

// DateOf truncates a timestamp to date granularity in UTC.
// Due dates and overdue checks operate on dates, never on time of day.
func DateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DueDateFor derives the due date for a loan of the given type borrowed at the given time.
func DueDateFor(loanType LoanType, borrowedAt time.Time) time.Time {
	return DateOf(borrowedAt).AddDate(0, 0, loanType.Days())
}
