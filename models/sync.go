package models

import (
	"encoding/json"
	"time"
)

// ResourceType identifies which server-side collection a synchronized
// document belongs to.
type ResourceType string

const (
	ResourceRecipe       ResourceType = "recipe"
	ResourceShoppingList ResourceType = "shopping_list"
	ResourceCollection   ResourceType = "collection"
)

// Valid reports whether t is one of the resource kinds managed by the
// sync engine.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceRecipe, ResourceShoppingList, ResourceCollection:
		return true
	}
	return false
}

// BatchStatus is the lifecycle state of a [SyncBatch].
//
// Legal transitions: pending → conflict, pending → synced,
// pending → expired (reaper only), conflict → synced.
type BatchStatus string

const (
	BatchPending  BatchStatus = "pending"
	BatchConflict BatchStatus = "conflict"
	BatchSynced   BatchStatus = "synced"
	BatchExpired  BatchStatus = "expired"
)

// SyncItem is one client-side change descriptor inside a batch: an upsert
// of a document's payload at a given version, or a deletion tombstone.
//
// Items are immutable once their batch has been queued; the batch stores
// a snapshot of the item list so that conflict resolution can later replay
// the original client payload.
type SyncItem struct {
	// ID is the client-assigned identifier of the target document.
	ID string `json:"id"`

	// Type selects the resource collection the change applies to.
	Type ResourceType `json:"type"`

	// Data is the opaque document payload. Absent when Deleted is true.
	Data json.RawMessage `json:"data,omitempty"`

	// Version is the version the client wants to establish for the
	// document. Zero means "unset"; the queue defaults it to 1.
	Version int64 `json:"version"`

	// Deleted marks the item as a deletion tombstone.
	Deleted bool `json:"deleted,omitempty"`

	// LastModified is the client-side modification timestamp.
	LastModified *time.Time `json:"last_modified,omitempty"`

	// ClientID is the originating device identifier.
	ClientID string `json:"client_id,omitempty"`
}

// SyncBatch is one unit of synchronization work: the set of changes a
// device submits in a single sync attempt, plus the processing outcome.
//
// Batches are never deleted; they remain as the per-user sync audit trail.
type SyncBatch struct {
	BatchID  string     `json:"batch_id"`
	UserID   int64      `json:"user_id"`
	DeviceID string     `json:"device_id"`
	Items    []SyncItem `json:"items"`

	Status BatchStatus `json:"status"`

	// Conflicts is populated once the batch has been processed and at
	// least one item was flagged by the conflict detector.
	Conflicts []Conflict `json:"conflicts,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Resolution is the strategy chosen to settle a conflict.
type Resolution string

const (
	// ResolutionClient writes the client's original payload, version
	// max(clientVersion, serverVersion)+1.
	ResolutionClient Resolution = "client"

	// ResolutionServer keeps the server payload and bumps the version to
	// serverVersion+1, acknowledging the conflict without a data change.
	ResolutionServer Resolution = "server"

	// ResolutionManual writes caller-supplied merged data, version
	// max(clientVersion, serverVersion)+1.
	ResolutionManual Resolution = "manual"
)

// Valid reports whether r is a known resolution strategy.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionClient, ResolutionServer, ResolutionManual:
		return true
	}
	return false
}

// Conflict records one item whose submitted version was behind the version
// stored on the server. Resolved conflicts are annotated, never deleted.
type Conflict struct {
	ConflictID string       `json:"conflict_id"`
	BatchID    string       `json:"batch_id"`
	ItemID     string       `json:"item_id"`
	Type       ResourceType `json:"type"`

	ClientVersion int64 `json:"client_version"`
	ServerVersion int64 `json:"server_version"`

	// Message is a human-readable description of the version mismatch.
	Message string `json:"message,omitempty"`

	// Resolution is set exactly once, when the conflict is resolved.
	Resolution Resolution `json:"resolution,omitempty"`

	// ResolvedData holds the merged payload for manual resolutions only.
	ResolvedData json.RawMessage `json:"resolved_data,omitempty"`

	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Resolved reports whether the conflict has already been settled.
func (c *Conflict) Resolved() bool {
	return c.Resolution != ""
}

// SyncStatus is the answer to "what is outstanding for this user/device".
type SyncStatus struct {
	// PendingChanges is the number of batches still waiting to be processed.
	PendingChanges int `json:"pending_changes"`

	// Conflicts is the number of unresolved conflicts across the
	// user/device's batches.
	Conflicts int `json:"conflicts"`

	// LastSyncedAt is the CompletedAt of the most recently synced batch,
	// nil when the device has never completed a sync.
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

// ProcessResult is the outcome of processing one batch.
type ProcessResult struct {
	BatchID string      `json:"batch_id"`
	Status  BatchStatus `json:"status"`

	// Applied is the number of items written to the version store.
	// Zero whenever Conflicts is non-empty: a conflicted batch mutates
	// nothing.
	Applied int `json:"applied"`

	Conflicts []Conflict `json:"conflicts,omitempty"`
}
