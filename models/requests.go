package models

import "encoding/json"

// SyncRequest is the body of both the immediate-sync and queue endpoints:
// the device's pending local changes plus its identifier.
type SyncRequest struct {
	Items []SyncItem `json:"items"`

	// ClientID identifies the submitting device. Falls back to the
	// per-item ClientID when empty.
	ClientID string `json:"client_id"`
}

// ResolveConflictRequest carries the explicit strategy chosen for one
// conflict. ManualData is required for (and only meaningful with) the
// "manual" resolution.
type ResolveConflictRequest struct {
	Resolution Resolution      `json:"resolution"`
	ManualData json.RawMessage `json:"manual_data,omitempty"`
}
