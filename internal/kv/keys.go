package kv

import (
	"encoding/binary"

	"github.com/jpl-au/pim/internal/validate"
)

// Key prefixes. The owner is followed by a NUL separator, which
// validate.Owner rejects inside owner names, so one owner's keys can never
// prefix-match another's.
const (
	notePrefix  = "note:"
	ownerPrefix = "own:"
	titlePrefix = "title:"
	sep         = 0
)

func noteKey(id string) []byte {
	return []byte(notePrefix + id)
}

// ownerScan returns the prefix shared by every display key of owner.
func ownerScan(owner string) []byte {
	buf := make([]byte, 0, len(ownerPrefix)+len(owner)+1)
	buf = append(buf, ownerPrefix...)
	buf = append(buf, owner...)
	return append(buf, sep)
}

// displayKey encodes the display ID big-endian so keys sort numerically.
func displayKey(owner string, displayID int64) []byte {
	buf := ownerScan(owner)
	return binary.BigEndian.AppendUint64(buf, uint64(displayID))
}

// displayFromKey decodes the display ID from the tail of a display key.
func displayFromKey(key []byte) int64 {
	if len(key) < 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(key[len(key)-8:]))
}

func titleKey(owner, title string) []byte {
	buf := make([]byte, 0, len(titlePrefix)+len(owner)+1+len(title))
	buf = append(buf, titlePrefix...)
	buf = append(buf, owner...)
	buf = append(buf, sep)
	return append(buf, validate.TitleKey(title)...)
}
