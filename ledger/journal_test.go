package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulib/lending-go/ledger"
)

func Test_BuildJournalEntry_ValidPayload(t *testing.T) {
	now := time.Now().UTC()

	entry, err := ledger.BuildJournalEntry("BookBorrowed", now, []byte(`{"LoanID":"x"}`))

	require.NoError(t, err)
	assert.Equal(t, "BookBorrowed", entry.EntryType)
	assert.Equal(t, now, entry.OccurredAt)
	assert.JSONEq(t, `{"LoanID":"x"}`, string(entry.PayloadJSON))
}

func Test_BuildJournalEntry_InvalidPayload(t *testing.T) {
	testCases := []struct {
		name    string
		payload []byte
	}{
		{name: "empty", payload: []byte("")},
		{name: "truncated object", payload: []byte(`{"LoanID":`)},
		{name: "not json at all", payload: []byte("loan returned")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.BuildJournalEntry("BookBorrowed", time.Now().UTC(), tc.payload)

			assert.ErrorIs(t, err, ledger.ErrInvalidJournalPayloadJSON)
		})
	}
}
