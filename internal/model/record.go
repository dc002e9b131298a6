package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Record is a single organizer entry. ID is opaque and unique within its
// collection; UpdatedAt is a logical timestamp in milliseconds since epoch
// stamped by whichever client last wrote the record. Domain fields live in
// Fields and are carried as-is; the engine never interprets them.
//
// On the wire a record is flat: id and updated_at sit next to the domain
// fields in one JSON object.
type Record struct {
	ID        string
	UpdatedAt int64
	Fields    map[string]any
}

// MarshalJSON flattens the record into a single object.
func (r Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Fields)+2)
	for k, v := range r.Fields {
		m[k] = v
	}
	m["id"] = r.ID
	m["updated_at"] = r.UpdatedAt
	return json.Marshal(m)
}

// UnmarshalJSON splits id and updated_at out of the flat object and keeps
// the remaining keys as domain fields. Numbers are decoded as json.Number so
// timestamps survive the round trip without float truncation.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}

	r.ID, _ = m["id"].(string)
	r.UpdatedAt = numberToMillis(m["updated_at"])
	delete(m, "id")
	delete(m, "updated_at")
	r.Fields = m
	return nil
}

// Clone returns a deep, independent copy of the record. Domain fields are
// copied through their JSON representation, so the copy shares no memory
// with the original.
func (r Record) Clone() Record {
	out := Record{ID: r.ID, UpdatedAt: r.UpdatedAt}
	if len(r.Fields) == 0 {
		return out
	}
	data, err := json.Marshal(r.Fields)
	if err != nil {
		// Fields came from JSON or from a caller-built map; a shallow copy
		// is the best remaining option if marshalling ever fails.
		out.Fields = make(map[string]any, len(r.Fields))
		for k, v := range r.Fields {
			out.Fields[k] = v
		}
		return out
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	_ = dec.Decode(&out.Fields)
	return out
}

func numberToMillis(v any) int64 {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return int64(f)
		}
	case float64:
		return int64(n)
	case int64:
		return n
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i
		}
	}
	return 0
}
