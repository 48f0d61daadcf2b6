package loansbyborrower_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulib/lending-go/features/command/addbook"
	"github.com/circulib/lending-go/features/command/borrowbook"
	"github.com/circulib/lending-go/features/command/removebook"
	"github.com/circulib/lending-go/features/command/returnbook"
	"github.com/circulib/lending-go/features/query/loansbyborrower"
	"github.com/circulib/lending-go/ledger/memoryengine"
	"github.com/circulib/lending-go/lending"
)

func Test_QueryHandler_Handle_EmptyHistory(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := loansbyborrower.NewQueryHandler(store)

	// act
	result, err := handler.Handle(ctx, loansbyborrower.BuildQuery(uuid.New(), time.Now().UTC()))

	// assert
	assert.NoError(t, err)
	assert.Empty(t, result.Loans)
	assert.Equal(t, 0, result.Count)
}

func Test_QueryHandler_Handle_ListsLoansOldestFirst(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := loansbyborrower.NewQueryHandler(store)
	borrowHandler := borrowbook.NewCommandHandler(store)

	fakeClock := time.Now().UTC()
	borrowerID := uuid.New()
	firstBook := givenBookInCatalog(t, store, "A Wizard of Earthsea", 1, fakeClock)
	secondBook := givenBookInCatalog(t, store, "The Left Hand of Darkness", 1, fakeClock)

	firstLoan, _, err := borrowHandler.Handle(ctx,
		borrowbook.BuildCommand(firstBook.ID, borrowerID, lending.TenDayLoan, fakeClock.Add(-2*time.Hour)))
	require.NoError(t, err)

	secondLoan, _, err := borrowHandler.Handle(ctx,
		borrowbook.BuildCommand(secondBook.ID, borrowerID, lending.FiveDayLoan, fakeClock.Add(-time.Hour)))
	require.NoError(t, err)

	// a third loan by someone else must not show up
	otherBook := givenBookInCatalog(t, store, "Rendezvous with Rama", 1, fakeClock)
	_, _, err = borrowHandler.Handle(ctx,
		borrowbook.BuildCommand(otherBook.ID, uuid.New(), lending.TenDayLoan, fakeClock))
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, loansbyborrower.BuildQuery(borrowerID, fakeClock))

	// assert
	assert.NoError(t, err)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, firstLoan.ID.String(), result.Loans[0].LoanID)
	assert.Equal(t, "A Wizard of Earthsea", result.Loans[0].Title)
	assert.Equal(t, secondLoan.ID.String(), result.Loans[1].LoanID)
	assert.Equal(t, "The Left Hand of Darkness", result.Loans[1].Title)
}

func Test_QueryHandler_Handle_StatusLines(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := loansbyborrower.NewQueryHandler(store)
	borrowHandler := borrowbook.NewCommandHandler(store)
	returnHandler := returnbook.NewCommandHandler(store)

	fakeClock := time.Now().UTC()
	borrowerID := uuid.New()
	activeBook := givenBookInCatalog(t, store, "Active Book", 1, fakeClock)
	overdueBook := givenBookInCatalog(t, store, "Overdue Book", 1, fakeClock)
	returnedBook := givenBookInCatalog(t, store, "Returned Book", 1, fakeClock)

	_, _, err := borrowHandler.Handle(ctx,
		borrowbook.BuildCommand(activeBook.ID, borrowerID, lending.TenDayLoan, fakeClock))
	require.NoError(t, err)

	_, _, err = borrowHandler.Handle(ctx,
		borrowbook.BuildCommand(overdueBook.ID, borrowerID, lending.TwoDayLoan, fakeClock.AddDate(0, 0, -5)))
	require.NoError(t, err)

	returnedLoan, _, err := borrowHandler.Handle(ctx,
		borrowbook.BuildCommand(returnedBook.ID, borrowerID, lending.TenDayLoan, fakeClock.AddDate(0, 0, -3)))
	require.NoError(t, err)

	_, _, err = returnHandler.Handle(ctx,
		returnbook.BuildCommand(returnedLoan.ID, borrowerID, fakeClock.AddDate(0, 0, -1)))
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, loansbyborrower.BuildQuery(borrowerID, fakeClock))

	// assert
	assert.NoError(t, err)
	require.Equal(t, 3, result.Count)

	byTitle := make(map[string]loansbyborrower.LoanInfo, len(result.Loans))
	for _, info := range result.Loans {
		byTitle[info.Title] = info
	}

	assert.False(t, byTitle["Active Book"].Overdue)
	assert.Equal(t, "Loan is active.", byTitle["Active Book"].Status)

	assert.True(t, byTitle["Overdue Book"].Overdue)
	assert.Equal(t, "Overdue! Please return this book immediately.", byTitle["Overdue Book"].Status)

	assert.True(t, byTitle["Returned Book"].Returned)
	assert.False(t, byTitle["Returned Book"].Overdue)
	assert.Equal(t, "Loan is completed.", byTitle["Returned Book"].Status)
}

func Test_QueryHandler_Handle_CompletedLoanSurvivesBookRemoval(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := loansbyborrower.NewQueryHandler(store)
	borrowHandler := borrowbook.NewCommandHandler(store)
	returnHandler := returnbook.NewCommandHandler(store)
	removeHandler := removebook.NewCommandHandler(store)

	fakeClock := time.Now().UTC()
	borrowerID := uuid.New()
	book := givenBookInCatalog(t, store, "Ephemeral Book", 1, fakeClock)

	loan, _, err := borrowHandler.Handle(ctx,
		borrowbook.BuildCommand(book.ID, borrowerID, lending.TenDayLoan, fakeClock.AddDate(0, 0, -2)))
	require.NoError(t, err)

	_, _, err = returnHandler.Handle(ctx,
		returnbook.BuildCommand(loan.ID, borrowerID, fakeClock.AddDate(0, 0, -1)))
	require.NoError(t, err)

	_, err = removeHandler.Handle(ctx, removebook.BuildCommand(book.ID, fakeClock))
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, loansbyborrower.BuildQuery(borrowerID, fakeClock))

	// assert - the loan record survives with empty catalog fields
	assert.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, loan.ID.String(), result.Loans[0].LoanID)
	assert.Empty(t, result.Loans[0].Title)
	assert.True(t, result.Loans[0].Returned)
}

// Test helper functions with t.Helper() for better error reporting

func setupStore(t *testing.T) *memoryengine.Store {
	t.Helper()

	store, err := memoryengine.NewStore()
	require.NoError(t, err)

	return store
}

func givenBookInCatalog(t *testing.T, store *memoryengine.Store, title string, copies int, at time.Time) lending.Book {
	t.Helper()

	handler := addbook.NewCommandHandler(store)

	command := addbook.BuildCommand(
		title,
		"Ursula K. Le Guin",
		1968,
		lending.CategorySciFi,
		copies,
		"",
		at,
	)

	book, _, err := handler.Handle(context.Background(), command)
	require.NoError(t, err, "Should successfully add book to catalog")

	return book
}
