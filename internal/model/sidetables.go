package model

// ArchiveRecord holds a full snapshot of a record that was intentionally
// moved out of its live collection for indefinite retention. RefID is the
// record's original id; Type names the source collection.
type ArchiveRecord struct {
	ID         string `json:"id"`
	Type       Entity `json:"type"`
	RefID      string `json:"ref_id"`
	Data       Record `json:"data"`
	ArchivedAt int64  `json:"archived_at"`
}

// TrashRecord holds a soft-deleted record. Unlike archive entries, trash
// records expire: the sweep purges anything older than the trash TTL.
type TrashRecord struct {
	ID        string `json:"id"`
	Type      Entity `json:"type"`
	RefID     string `json:"ref_id"`
	Data      Record `json:"data"`
	DeletedAt int64  `json:"deleted_at"`
}
