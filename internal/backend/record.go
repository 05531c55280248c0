package backend

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

// Record is one backend-owned JSON document, kept exactly as received.
type Record []byte

// Get reads a dot path (e.g. "localization.currency.code").
func (r Record) Get(path string) gjson.Result {
	return gjson.GetBytes(r, path)
}

// ID returns "_id", falling back to "id".
func (r Record) ID() string {
	if id := r.Get("_id"); id.Exists() {
		return id.String()
	}
	return r.Get("id").String()
}

func (r Record) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	if r == nil {
		return errors.New("backend: UnmarshalJSON on nil Record")
	}
	*r = append((*r)[:0], data...)
	return nil
}

// Clone returns an independent copy.
func (r Record) Clone() Record {
	return bytes.Clone(r)
}

// MustRecord marshals v into a Record and panics on failure. Handy for
// fixtures and demo content.
func MustRecord(v any) Record {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return Record(data)
}
