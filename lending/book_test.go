package lending_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulib/lending-go/lending"
)

func Test_BuildBook_AllCopiesStartAvailable(t *testing.T) {
	// act
	book, err := lending.BuildBook(uuid.New(), "Leviathan Wakes", "James S.A. Corey", 2011, lending.CategorySciFi, 7, "")

	// assert
	require.NoError(t, err)
	assert.Equal(t, 7, book.TotalCopies)
	assert.Equal(t, 7, book.AvailableCopies)
	assert.False(t, book.IsOutOfStock())
}

func Test_BuildBook_DefaultsForEmptyCategoryAndImage(t *testing.T) {
	// act
	book, err := lending.BuildBook(uuid.New(), "Persuasion", "Jane Austen", 1817, "", 1, "")

	// assert
	require.NoError(t, err)
	assert.Equal(t, lending.CategoryRomance, book.Category)
	assert.Equal(t, lending.DefaultImageURL, book.ImageURL)
}

func Test_BuildBook_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name        string
		category    lending.Category
		copies      int
		expectedErr error
	}{
		{name: "unknown category", category: "horror", copies: 3, expectedErr: lending.ErrUnknownCategory},
		{name: "zero copies", category: lending.CategoryAction, copies: 0, expectedErr: lending.ErrInvalidCopyCount},
		{name: "negative copies", category: lending.CategoryAction, copies: -2, expectedErr: lending.ErrInvalidCopyCount},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := lending.BuildBook(uuid.New(), "Some Title", "Some Author", 2020, tc.category, tc.copies, "")

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_Category_IsValid(t *testing.T) {
	validCategories := []lending.Category{
		lending.CategoryRomance,
		lending.CategoryAction,
		lending.CategoryMystery,
		lending.CategorySciFi,
		lending.CategoryFantasy,
		lending.CategoryNonFiction,
	}

	for _, category := range validCategories {
		assert.True(t, category.IsValid(), "category %q should be valid", category)
	}

	assert.False(t, lending.Category("").IsValid())
	assert.False(t, lending.Category("western").IsValid())
}

func Test_CodeOf_MapsBusinessErrors(t *testing.T) {
	assert.Equal(t, lending.CodeBookNotFound, lending.CodeOf(lending.ErrBookNotFound))
	assert.Equal(t, lending.CodeLoanNotFound, lending.CodeOf(lending.ErrLoanNotFound))
	assert.Equal(t, lending.CodeOutOfStock, lending.CodeOf(lending.ErrOutOfStock))
	assert.Equal(t, lending.CodeHasOverdue, lending.CodeOf(lending.ErrHasOverdue))
	assert.Equal(t, lending.CodeAlreadyReturned, lending.CodeOf(lending.ErrAlreadyReturned))
	assert.Equal(t, lending.CodeForbidden, lending.CodeOf(lending.ErrForbidden))
	assert.Equal(t, lending.CodeInternal, lending.CodeOf(assert.AnError))
}
