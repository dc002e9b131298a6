package model

// Snapshot is the full normalized store: one slice of records per known
// collection plus the archive and trash side-tables. It is the unit of
// persistence (the "db" blob) and of merge.
type Snapshot struct {
	Collections map[Entity][]Record `json:"collections"`
	Archive     []ArchiveRecord     `json:"archive"`
	Trash       []TrashRecord       `json:"trash"`
}

// NewSnapshot returns an empty snapshot with every known collection present.
func NewSnapshot() *Snapshot {
	s := &Snapshot{Collections: make(map[Entity][]Record, len(entities))}
	for _, e := range entities {
		s.Collections[e] = nil
	}
	return s
}

// Normalize ensures every known collection key exists. Useful after
// unmarshalling a snapshot persisted by an older build.
func (s *Snapshot) Normalize() {
	if s.Collections == nil {
		s.Collections = make(map[Entity][]Record, len(entities))
	}
	for _, e := range entities {
		if _, ok := s.Collections[e]; !ok {
			s.Collections[e] = nil
		}
	}
}

// Clone returns a deep, independent copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{Collections: make(map[Entity][]Record, len(s.Collections))}
	for entity, records := range s.Collections {
		if records == nil {
			out.Collections[entity] = nil
			continue
		}
		cloned := make([]Record, len(records))
		for i, r := range records {
			cloned[i] = r.Clone()
		}
		out.Collections[entity] = cloned
	}
	if s.Archive != nil {
		out.Archive = make([]ArchiveRecord, len(s.Archive))
		for i, a := range s.Archive {
			a.Data = a.Data.Clone()
			out.Archive[i] = a
		}
	}
	if s.Trash != nil {
		out.Trash = make([]TrashRecord, len(s.Trash))
		for i, t := range s.Trash {
			t.Data = t.Data.Clone()
			out.Trash[i] = t
		}
	}
	return out
}
