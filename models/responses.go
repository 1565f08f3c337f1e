package models

// APIResponse is the uniform envelope returned by every sync endpoint.
//
// Success distinguishes "processed without conflicts" from "processed with
// conflicts" — a conflicted sync is not an HTTP error, it is a normal
// outcome the client must act on, so Conflicts travels in the body rather
// than in an error status.
type APIResponse struct {
	Success bool `json:"success"`

	// Data is the endpoint-specific payload (a SyncBatch, ProcessResult,
	// conflict list or SyncStatus).
	Data any `json:"data,omitempty"`

	// Conflicts is set when a sync attempt was detected as conflicting.
	Conflicts []Conflict `json:"conflicts,omitempty"`

	// Error holds a human-readable failure description for non-2xx replies.
	Error string `json:"error,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data any) APIResponse {
	return APIResponse{Success: true, Data: data}
}
