package model

// Op classifies a queued mutation.
type Op string

const (
	OpUpsert  Op = "upsert"
	OpDelete  Op = "delete"
	OpArchive Op = "archive"
	OpRestore Op = "restore"
)

// QueueRecord is an intent to replicate one local mutation remotely. Data is
// set for upsert/restore, Key for delete/archive. Queue order is insertion
// order, but the remote side merges by timestamp, so ordering is not load
// bearing.
type QueueRecord struct {
	ID     string  `json:"id"`
	Op     Op      `json:"op"`
	Entity Entity  `json:"entity"`
	Data   *Record `json:"data,omitempty"`
	Key    string  `json:"key,omitempty"`
	TS     int64   `json:"ts"`
}
