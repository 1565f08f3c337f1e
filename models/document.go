package models

import (
	"encoding/json"
	"time"
)

// Document is a versioned resource record in the version store. Any
// resource managed by the sync engine carries a Version that is assigned
// monotonically: it never decreases across any sequence of applies or
// conflict resolutions.
type Document struct {
	// ID is the client-assigned document identifier, unique per
	// (UserID, Type) pair.
	ID string `json:"id"`

	UserID int64        `json:"user_id"`
	Type   ResourceType `json:"type"`

	// Data is the opaque domain payload; the engine never interprets it.
	Data json.RawMessage `json:"data"`

	// Version is the document's logical clock, always ≥ 1.
	Version int64 `json:"version"`

	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentKey addresses one document inside a user's version store.
type DocumentKey struct {
	Type ResourceType
	ID   string
}

// DocumentState is the lightweight descriptor the conflict detector works
// with: identity plus the currently stored version, no payload.
type DocumentState struct {
	Type    ResourceType `json:"type"`
	ID      string       `json:"id"`
	Version int64        `json:"version"`
}

// Key returns the addressing key of the state.
func (s DocumentState) Key() DocumentKey {
	return DocumentKey{Type: s.Type, ID: s.ID}
}
