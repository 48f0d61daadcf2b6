package shell

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/circulib/lending-go/ledger"
)

// ErrMarshalingJournalPayloadFailed is returned when journal payload serialization fails.
var ErrMarshalingJournalPayloadFailed = errors.New("marshaling journal payload failed")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JournalEntryFromPayload marshals a feature's payload struct and wraps it as
// a ledger.JournalEntry. Feature packages define their own payload types and
// entry type constants, this helper keeps the serialization in one place.
func JournalEntryFromPayload(entryType string, occurredAt time.Time, payload any) (ledger.JournalEntry, error) {
	payloadJSON, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		return ledger.JournalEntry{}, errors.Join(ErrMarshalingJournalPayloadFailed, marshalErr)
	}

	entry, buildErr := ledger.BuildJournalEntry(entryType, occurredAt, payloadJSON)
	if buildErr != nil {
		return ledger.JournalEntry{}, errors.Join(ErrMarshalingJournalPayloadFailed, buildErr)
	}

	return entry, nil
}
