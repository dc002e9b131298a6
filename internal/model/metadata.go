package model

// SchemaVersion is the current normalized-store layout version. The legacy
// migrator converts version 1 (nested) data exactly once.
const SchemaVersion = 2

// Metadata is the process-wide persisted state that drives one-shot and
// periodic behaviors. Timestamps are milliseconds since epoch; zero means
// "never".
type Metadata struct {
	SchemaVersion    int    `json:"schemaVersion"`
	LastSync         int64  `json:"lastSync"`
	UserID           string `json:"userId"`
	MigratedLegacyAt int64  `json:"migratedLegacyAt"`
	GuestMigratedFor string `json:"guestMigratedFor"`
}
