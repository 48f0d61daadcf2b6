package ledger

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrInvalidJournalPayloadJSON = errors.New("journal payload json is not valid")

// JournalEntry is a DTO for one record of the append-only lending journal.
//
// Every committed command appends an entry in the same transaction as its
// mutations, and business denials are journaled too. It is built on scalars
// to be agnostic of the payload types in the feature packages.
//
// While its properties are exported, it should only be constructed with the
// supplied factory method BuildJournalEntry.
type JournalEntry struct {
	EntryType   string
	OccurredAt  time.Time
	PayloadJSON []byte
}

// BuildJournalEntry is a factory method for JournalEntry.
// Returns an error if payloadJSON is not valid JSON.
func BuildJournalEntry(entryType string, occurredAt time.Time, payloadJSON []byte) (JournalEntry, error) {
	if !json.Valid(payloadJSON) {
		return JournalEntry{}, ErrInvalidJournalPayloadJSON
	}

	return JournalEntry{
		EntryType:   entryType,
		OccurredAt:  occurredAt,
		PayloadJSON: payloadJSON,
	}, nil
}
