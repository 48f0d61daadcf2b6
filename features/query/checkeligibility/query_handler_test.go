package checkeligibility_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulib/lending-go/features/command/addbook"
	"github.com/circulib/lending-go/features/command/borrowbook"
	"github.com/circulib/lending-go/features/query/checkeligibility"
	"github.com/circulib/lending-go/ledger"
	"github.com/circulib/lending-go/ledger/memoryengine"
	"github.com/circulib/lending-go/lending"
)

func Test_QueryHandler_Handle_Allowed(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := checkeligibility.NewQueryHandler(store)

	fakeClock := time.Now().UTC()
	book := givenBookInCatalog(t, store, 2, fakeClock)

	// act
	report, err := handler.Handle(ctx, checkeligibility.BuildQuery(book.ID, uuid.New(), fakeClock))

	// assert
	assert.NoError(t, err)
	assert.True(t, report.Allowed)
	assert.Empty(t, report.DenialCode)
}

func Test_QueryHandler_Handle_Denied_BookNotFound(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := checkeligibility.NewQueryHandler(store)

	// act
	report, err := handler.Handle(ctx, checkeligibility.BuildQuery(uuid.New(), uuid.New(), time.Now().UTC()))

	// assert - an unresolvable book is a denial, not a handler error
	assert.NoError(t, err)
	assert.False(t, report.Allowed)
	assert.Equal(t, lending.CodeBookNotFound, report.DenialCode)
}

func Test_QueryHandler_Handle_Denied_OutOfStock(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := checkeligibility.NewQueryHandler(store)

	fakeClock := time.Now().UTC()
	book := givenBookInCatalog(t, store, 1, fakeClock)
	givenOpenLoanOnLedger(ctx, t, store, uuid.New(), book.ID, fakeClock.AddDate(0, 0, -1))

	// act
	report, err := handler.Handle(ctx, checkeligibility.BuildQuery(book.ID, uuid.New(), fakeClock))

	// assert
	assert.NoError(t, err)
	assert.False(t, report.Allowed)
	assert.Equal(t, lending.CodeOutOfStock, report.DenialCode)
}

func Test_QueryHandler_Handle_Denied_HasOverdue_WinsOverOutOfStock(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := checkeligibility.NewQueryHandler(store)

	fakeClock := time.Now().UTC()
	borrowerID := uuid.New()
	book := givenBookInCatalog(t, store, 1, fakeClock)
	overdueBook := givenBookInCatalog(t, store, 1, fakeClock)

	givenOpenLoanOnLedger(ctx, t, store, borrowerID, overdueBook.ID, fakeClock.AddDate(0, 0, -20))
	givenOpenLoanOnLedger(ctx, t, store, uuid.New(), book.ID, fakeClock.AddDate(0, 0, -1))

	// act
	report, err := handler.Handle(ctx, checkeligibility.BuildQuery(book.ID, borrowerID, fakeClock))

	// assert
	assert.NoError(t, err)
	assert.False(t, report.Allowed)
	assert.Equal(t, lending.CodeHasOverdue, report.DenialCode)
}

func Test_QueryHandler_Handle_AgreesWithBorrowOutcome(t *testing.T) {
	// setup - a positive report must match what a borrow would do
	ctx := context.Background()
	store := setupStore(t)
	queryHandler := checkeligibility.NewQueryHandler(store)
	borrowHandler := borrowbook.NewCommandHandler(store)

	fakeClock := time.Now().UTC()
	borrowerID := uuid.New()
	book := givenBookInCatalog(t, store, 1, fakeClock)

	// act
	report, err := queryHandler.Handle(ctx, checkeligibility.BuildQuery(book.ID, borrowerID, fakeClock))
	require.NoError(t, err)
	require.True(t, report.Allowed)

	_, _, borrowErr := borrowHandler.Handle(ctx,
		borrowbook.BuildCommand(book.ID, borrowerID, lending.TenDayLoan, fakeClock))

	// assert
	assert.NoError(t, borrowErr)
}

// Test helper functions with t.Helper() for better error reporting

func setupStore(t *testing.T) *memoryengine.Store {
	t.Helper()

	store, err := memoryengine.NewStore()
	require.NoError(t, err)

	return store
}

func givenBookInCatalog(t *testing.T, store *memoryengine.Store, copies int, at time.Time) lending.Book {
	t.Helper()

	handler := addbook.NewCommandHandler(store)

	command := addbook.BuildCommand(
		"Gone Girl",
		"Gillian Flynn",
		2012,
		lending.CategoryMystery,
		copies,
		"",
		at,
	)

	book, _, err := handler.Handle(context.Background(), command)
	require.NoError(t, err, "Should successfully add book to catalog")

	return book
}

func givenOpenLoanOnLedger(
	ctx context.Context,
	t *testing.T,
	store *memoryengine.Store,
	borrowerID uuid.UUID,
	bookID uuid.UUID,
	borrowedAt time.Time,
) {

	t.Helper()

	loan := lending.BuildLoan(uuid.New(), borrowerID, bookID, lending.TenDayLoan, borrowedAt)

	err := store.InTransaction(ctx, func(txCtx context.Context, tx ledger.Transaction) error {
		if reserveErr := tx.ReserveBookCopy(txCtx, bookID); reserveErr != nil {
			return reserveErr
		}

		return tx.InsertLoan(txCtx, loan)
	})
	require.NoError(t, err)
}
