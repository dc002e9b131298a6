// Package model defines the data shapes shared by the PocketOrg storage and
// sync engine.
//
// # Overview
//
// The package provides:
//  1. The closed Entity set naming the organizer collections (checklists,
//     tasks, shopping, loyalty cards, receipts, dates).
//  2. Record, the flat id + updated_at + domain-fields shape every
//     collection stores, with a flattening JSON codec and deep Clone.
//  3. The archive and trash side-table shapes (ArchiveRecord, TrashRecord),
//     the persisted Metadata, and the outbox QueueRecord.
//  4. Snapshot, the full-store value that is the unit of persistence and of
//     merge.
//
// # Conventions
//
// All timestamps are logical milliseconds since epoch; zero means unset.
// Values are plain data: nothing in this package touches storage or the
// network.
package model
