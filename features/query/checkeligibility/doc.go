// Package checkeligibility implements the Check Eligibility query.
//
// This feature answers whether a borrower could borrow a given book right
// now, without opening a loan. It evaluates the same rules in the same order
// as the borrow use case, so a positive answer means a borrow issued at the
// same instant against the same state would have succeeded.
package checkeligibility
