package borrowbook_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulib/lending-go/features/command/addbook"
	"github.com/circulib/lending-go/features/command/borrowbook"
	"github.com/circulib/lending-go/ledger"
	"github.com/circulib/lending-go/ledger/memoryengine"
	"github.com/circulib/lending-go/lending"
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := borrowbook.NewCommandHandler(store)

	fakeClock := time.Unix(0, 0).UTC()
	borrowerID := uuid.New()
	book := givenBookInCatalog(t, store, 3, fakeClock)

	// act
	command := borrowbook.BuildCommand(book.ID, borrowerID, lending.TenDayLoan, fakeClock.Add(time.Hour))
	loan, result, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err, "Should successfully borrow the book")
	assert.False(t, result.Denied)
	assert.Equal(t, borrowerID, loan.BorrowerID)
	assert.Equal(t, book.ID, loan.BookID)
	assert.Equal(t, lending.DueDateFor(lending.TenDayLoan, fakeClock.Add(time.Hour)), loan.DueDate)
	assert.False(t, loan.Returned)

	assertAvailableCopies(ctx, t, store, book.ID, 2)
	assertInventoryInvariant(ctx, t, store, book.ID)
}

func Test_CommandHandler_Handle_UnknownLoanTypeFallsBackToTenDays(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := borrowbook.NewCommandHandler(store)

	fakeClock := time.Unix(0, 0).UTC()
	book := givenBookInCatalog(t, store, 1, fakeClock)

	// act
	command := borrowbook.BuildCommand(book.ID, uuid.New(), lending.LoanType(9), fakeClock.Add(time.Hour))
	loan, _, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, lending.DateOf(fakeClock.Add(time.Hour)).AddDate(0, 0, 10), loan.DueDate)
}

func Test_CommandHandler_Handle_Denied_BookNotFound(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := borrowbook.NewCommandHandler(store)

	// act
	command := borrowbook.BuildCommand(uuid.New(), uuid.New(), lending.TenDayLoan, time.Unix(0, 0).UTC())
	_, result, err := handler.Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, lending.ErrBookNotFound)
	assert.Equal(t, lending.CodeBookNotFound, lending.CodeOf(err))
	assert.True(t, result.Denied)
}

func Test_CommandHandler_Handle_Denied_OutOfStock(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := borrowbook.NewCommandHandler(store)

	fakeClock := time.Unix(0, 0).UTC()
	book := givenBookInCatalog(t, store, 1, fakeClock)

	firstCommand := borrowbook.BuildCommand(book.ID, uuid.New(), lending.FiveDayLoan, fakeClock.Add(time.Hour))
	_, _, err := handler.Handle(ctx, firstCommand)
	require.NoError(t, err, "Should successfully borrow the only copy")

	// act
	secondCommand := borrowbook.BuildCommand(book.ID, uuid.New(), lending.FiveDayLoan, fakeClock.Add(2*time.Hour))
	_, result, err := handler.Handle(ctx, secondCommand)

	// assert
	assert.ErrorIs(t, err, lending.ErrOutOfStock)
	assert.Equal(t, lending.CodeOutOfStock, lending.CodeOf(err))
	assert.True(t, result.Denied)

	assertAvailableCopies(ctx, t, store, book.ID, 0)
	assertInventoryInvariant(ctx, t, store, book.ID)
}

func Test_CommandHandler_Handle_Denied_BorrowerHasOverdueLoans(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := borrowbook.NewCommandHandler(store)

	fakeClock := time.Now().UTC()
	borrowerID := uuid.New()
	overdueBook := givenBookInCatalog(t, store, 1, fakeClock)
	wantedBook := givenBookInCatalog(t, store, 5, fakeClock)

	givenOpenLoanOnLedger(ctx, t, store, borrowerID, overdueBook.ID, fakeClock.AddDate(0, 0, -20))

	// act
	command := borrowbook.BuildCommand(wantedBook.ID, borrowerID, lending.TenDayLoan, fakeClock)
	_, result, err := handler.Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, lending.ErrHasOverdue)
	assert.Equal(t, lending.CodeHasOverdue, lending.CodeOf(err))
	assert.True(t, result.Denied)

	assertAvailableCopies(ctx, t, store, wantedBook.ID, 5)
}

func Test_CommandHandler_Handle_OverdueWinsOverOutOfStock(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := borrowbook.NewCommandHandler(store)

	fakeClock := time.Now().UTC()
	borrowerID := uuid.New()
	overdueBook := givenBookInCatalog(t, store, 1, fakeClock)
	emptyBook := givenBookInCatalog(t, store, 1, fakeClock)

	givenOpenLoanOnLedger(ctx, t, store, borrowerID, overdueBook.ID, fakeClock.AddDate(0, 0, -20))
	givenOpenLoanOnLedger(ctx, t, store, uuid.New(), emptyBook.ID, fakeClock.AddDate(0, 0, -1))

	// act - the wanted book is out of stock AND the borrower is overdue
	command := borrowbook.BuildCommand(emptyBook.ID, borrowerID, lending.TenDayLoan, fakeClock)
	_, _, err := handler.Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, lending.ErrHasOverdue)
}

func Test_CommandHandler_Handle_NotOverdueOnDueDate(t *testing.T) {
	// setup - a loan due today is not overdue yet
	ctx := context.Background()
	store := setupStore(t)
	handler := borrowbook.NewCommandHandler(store)

	fakeClock := time.Now().UTC()
	borrowerID := uuid.New()
	dueTodayBook := givenBookInCatalog(t, store, 1, fakeClock)
	wantedBook := givenBookInCatalog(t, store, 1, fakeClock)

	givenOpenLoanOnLedger(ctx, t, store, borrowerID, dueTodayBook.ID, fakeClock.AddDate(0, 0, -10))

	// act
	command := borrowbook.BuildCommand(wantedBook.ID, borrowerID, lending.TenDayLoan, fakeClock)
	_, result, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err)
	assert.False(t, result.Denied)
}

func Test_CommandHandler_Handle_ConcurrentBorrows_ExactlyOneWinsLastCopy(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := borrowbook.NewCommandHandler(store)

	fakeClock := time.Unix(0, 0).UTC()
	book := givenBookInCatalog(t, store, 1, fakeClock)

	// act - two borrowers race for the last copy
	var wg sync.WaitGroup
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)

		go func(slot int) {
			defer wg.Done()

			command := borrowbook.BuildCommand(book.ID, uuid.New(), lending.TenDayLoan, fakeClock.Add(time.Hour))
			_, _, errs[slot] = handler.Handle(ctx, command)
		}(i)
	}

	wg.Wait()

	// assert - exactly one success, the loser gets out-of-stock
	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, lending.ErrOutOfStock)
		}
	}

	assert.Equal(t, 1, successes, "Exactly one of the concurrent borrows must win")
	assertAvailableCopies(ctx, t, store, book.ID, 0)
	assertInventoryInvariant(ctx, t, store, book.ID)
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
		"Domain-Driven Design",
		"Eric Evans",
		2003,
		lending.CategoryNonFiction,
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
) lending.Loan {

	t.Helper()

	loan := lending.BuildLoan(uuid.New(), borrowerID, bookID, lending.TenDayLoan, borrowedAt)

	err := store.InTransaction(ctx, func(txCtx context.Context, tx ledger.Transaction) error {
		if reserveErr := tx.ReserveBookCopy(txCtx, bookID); reserveErr != nil {
			return reserveErr
		}

		return tx.InsertLoan(txCtx, loan)
	})
	require.NoError(t, err)

	return loan
}

func assertAvailableCopies(ctx context.Context, t *testing.T, store *memoryengine.Store, bookID uuid.UUID, expected int) {
	t.Helper()

	err := store.InTransaction(ctx, func(txCtx context.Context, tx ledger.Transaction) error {
		book, bookErr := tx.BookByID(txCtx, bookID)
		if bookErr != nil {
			return bookErr
		}

		assert.Equal(t, expected, book.AvailableCopies)

		return nil
	})
	require.NoError(t, err)
}

func assertInventoryInvariant(ctx context.Context, t *testing.T, store *memoryengine.Store, bookID uuid.UUID) {
	t.Helper()

	err := store.InTransaction(ctx, func(txCtx context.Context, tx ledger.Transaction) error {
		book, bookErr := tx.BookByID(txCtx, bookID)
		if bookErr != nil {
			return bookErr
		}

		openLoans, countErr := tx.CountActiveLoans(txCtx, bookID)
		if countErr != nil {
			return countErr
		}

		assert.Equal(t, book.TotalCopies, book.AvailableCopies+openLoans,
			"available + open loans must equal total copies")

		return nil
	})
	require.NoError(t, err)
}
