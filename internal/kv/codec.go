// codec.go encodes notes as Badger values in MUS binary format.
//
// Fields are written in a fixed order: strings length-prefixed, integers
// zigzag varints. Tags are kept in their joined persisted form so an empty
// field decodes to the empty set exactly as in the SQLite store. Timestamps
// are Unix nanoseconds in UTC.

package kv

import (
	"fmt"
	"time"

	"github.com/jpl-au/pim/internal/store"
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

type record struct {
	ID        string
	Owner     string
	DisplayID int64
	Title     string
	Body      string
	Tags      string
	CreatedAt int64
	UpdatedAt int64
}

// recordMUS serializes a record field by field.
var recordMUS = recordSer{}

var _ mus.Serializer[record] = recordMUS

type recordSer struct{}

func (recordSer) Marshal(r record, bs []byte) (n int) {
	n = ord.String.Marshal(r.ID, bs)
	n += ord.String.Marshal(r.Owner, bs[n:])
	n += varint.Int64.Marshal(r.DisplayID, bs[n:])
	n += ord.String.Marshal(r.Title, bs[n:])
	n += ord.String.Marshal(r.Body, bs[n:])
	n += ord.String.Marshal(r.Tags, bs[n:])
	n += varint.Int64.Marshal(r.CreatedAt, bs[n:])
	return n + varint.Int64.Marshal(r.UpdatedAt, bs[n:])
}

func (recordSer) Unmarshal(bs []byte) (r record, n int, err error) {
	var m int
	str := func(dst *string) bool {
		*dst, m, err = ord.String.Unmarshal(bs[n:])
		n += m
		return err == nil
	}
	i64 := func(dst *int64) bool {
		*dst, m, err = varint.Int64.Unmarshal(bs[n:])
		n += m
		return err == nil
	}
	_ = str(&r.ID) && str(&r.Owner) && i64(&r.DisplayID) &&
		str(&r.Title) && str(&r.Body) && str(&r.Tags) &&
		i64(&r.CreatedAt) && i64(&r.UpdatedAt)
	return r, n, err
}

func (recordSer) Size(r record) (size int) {
	size = ord.String.Size(r.ID)
	size += ord.String.Size(r.Owner)
	size += varint.Int64.Size(r.DisplayID)
	size += ord.String.Size(r.Title)
	size += ord.String.Size(r.Body)
	size += ord.String.Size(r.Tags)
	size += varint.Int64.Size(r.CreatedAt)
	return size + varint.Int64.Size(r.UpdatedAt)
}

func (s recordSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

func encode(n store.Note) ([]byte, error) {
	r := record{
		ID:        n.ID,
		Owner:     n.Owner,
		DisplayID: n.DisplayID,
		Title:     n.Title,
		Body:      n.Body,
		Tags:      store.EncodeTags(n.Tags),
		CreatedAt: n.CreatedAt.UnixNano(),
		UpdatedAt: n.UpdatedAt.UnixNano(),
	}
	buf := make([]byte, recordMUS.Size(r))
	recordMUS.Marshal(r, buf)
	return buf, nil
}

func decode(val []byte) (store.Note, error) {
	r, _, err := recordMUS.Unmarshal(val)
	if err != nil {
		return store.Note{}, fmt.Errorf("decode note: %w", err)
	}
	return store.Note{
		ID:        r.ID,
		Owner:     r.Owner,
		DisplayID: r.DisplayID,
		Title:     r.Title,
		Body:      r.Body,
		Tags:      store.DecodeTags(r.Tags),
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
		UpdatedAt: time.Unix(0, r.UpdatedAt).UTC(),
	}, nil
}
