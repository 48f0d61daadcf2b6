package addbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulib/lending-go/features/command/addbook"
	"github.com/circulib/lending-go/ledger"
	"github.com/circulib/lending-go/ledger/memoryengine"
	"github.com/circulib/lending-go/lending"
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := addbook.NewCommandHandler(store)

	fakeClock := time.Unix(0, 0).UTC()

	// act
	command := addbook.BuildCommand(
		"The Hobbit",
		"J.R.R. Tolkien",
		1937,
		lending.CategoryFantasy,
		4,
		"https://covers.example.com/the-hobbit.jpg",
		fakeClock,
	)
	book, result, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err, "Should successfully add book to catalog")
	assert.False(t, result.Denied)
	assert.NotEqual(t, uuid.Nil, book.ID)
	assert.Equal(t, 4, book.TotalCopies)
	assert.Equal(t, 4, book.AvailableCopies, "All copies start available")

	assertBookOnLedger(ctx, t, store, book)
}

func Test_CommandHandler_Handle_Success_DefaultsApplied(t *testing.T) {
	// setup
	ctx := context.Background()
	store := setupStore(t)
	handler := addbook.NewCommandHandler(store)

	fakeClock := time.Unix(0, 0).UTC()

	// act - empty category and image URL fall back to defaults
	command := addbook.BuildCommand("Pride and Prejudice", "Jane Austen", 1813, "", 2, "", fakeClock)
	book, _, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, lending.CategoryRomance, book.Category)
	assert.Equal(t, lending.DefaultImageURL, book.ImageURL)
}

func Test_CommandHandler_Handle_BusinessErrors(t *testing.T) {
	fakeClock := time.Unix(0, 0).UTC()

	testCases := []struct {
		name         string
		command      addbook.Command
		expectedErr  error
		expectedCode string
	}{
		{
			name:         "unknown category",
			command:      addbook.BuildCommand("Some Title", "Some Author", 2020, "thriller", 3, "", fakeClock),
			expectedErr:  lending.ErrUnknownCategory,
			expectedCode: lending.CodeUnknownCategory,
		},
		{
			name:         "zero copies",
			command:      addbook.BuildCommand("Some Title", "Some Author", 2020, lending.CategoryAction, 0, "", fakeClock),
			expectedErr:  lending.ErrInvalidCopyCount,
			expectedCode: lending.CodeInvalidCopyCount,
		},
		{
			name:         "negative copies",
			command:      addbook.BuildCommand("Some Title", "Some Author", 2020, lending.CategoryAction, -1, "", fakeClock),
			expectedErr:  lending.ErrInvalidCopyCount,
			expectedCode: lending.CodeInvalidCopyCount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctx := context.Background()
			store := setupStore(t)
			handler := addbook.NewCommandHandler(store)

			// act
			_, result, err := handler.Handle(ctx, tc.command)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, tc.expectedCode, lending.CodeOf(err))
			assert.True(t, result.Denied)
		})
	}
}

// Test helper functions with t.Helper() for better error reporting

func setupStore(t *testing.T) *memoryengine.Store {
	t.Helper()

	store, err := memoryengine.NewStore()
	require.NoError(t, err)

	return store
}

func assertBookOnLedger(ctx context.Context, t *testing.T, store *memoryengine.Store, expected lending.Book) {
	t.Helper()

	err := store.InTransaction(ctx, func(txCtx context.Context, tx ledger.Transaction) error {
		book, bookErr := tx.BookByID(txCtx, expected.ID)
		if bookErr != nil {
			return bookErr
		}

		assert.Equal(t, expected, book)

		return nil
	})
	require.NoError(t, err)
}
