// Package codec maps an Event to and from its stored binary form. The
// format is deterministic and self-contained: a version tag, fixed-width
// little-endian integers, and length-prefixed UTF-8 strings, so the record
// table can treat values as opaque byte ranges.
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gatherhq/gather/internal/model"
)

// MaxRecordSize is the hard cap on an encoded record. Exceeding it is a
// programming error, not a runtime condition: Encode panics rather than
// returning a recoverable error.
const MaxRecordSize = 1024

// formatVersion is the leading byte of every record. Decode rejects
// anything else, so future field additions can bump it safely.
const formatVersion = 1

// Encode serializes an event. Panics if the result would exceed
// MaxRecordSize.
func Encode(e *model.Event) []byte {
	var buf bytes.Buffer
	buf.WriteByte(formatVersion)

	var u64 [8]byte
	binary.LittleEndian.PutUint64(u64[:], e.ID)
	buf.Write(u64[:])
	binary.LittleEndian.PutUint64(u64[:], e.CreatedAt)
	buf.Write(u64[:])

	// UpdatedAt is a flag plus value so the encoding stays fixed-width
	// and deterministic whether or not the field is set.
	if e.UpdatedAt != nil {
		buf.WriteByte(1)
		binary.LittleEndian.PutUint64(u64[:], *e.UpdatedAt)
	} else {
		buf.WriteByte(0)
		binary.LittleEndian.PutUint64(u64[:], 0)
	}
	buf.Write(u64[:])

	writeString(&buf, e.Owner)
	writeString(&buf, e.Title)
	writeString(&buf, e.Description)
	writeString(&buf, e.Location)
	writeString(&buf, e.ImageURL)

	if len(e.Attendees) > 0xFFFF {
		panic(fmt.Sprintf("codec: event %d has %d attendees, limit is %d", e.ID, len(e.Attendees), 0xFFFF))
	}
	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], uint16(len(e.Attendees)))
	buf.Write(u16[:])
	for _, a := range e.Attendees {
		writeString(&buf, a)
	}

	if buf.Len() > MaxRecordSize {
		panic(fmt.Sprintf("codec: event %d encodes to %d bytes, limit is %d", e.ID, buf.Len(), MaxRecordSize))
	}
	return buf.Bytes()
}

// Decode is the exact left inverse of Encode. Bytes not produced by Encode
// yield an error; no field is ever silently defaulted.
func Decode(data []byte) (*model.Event, error) {
	d := &decoder{buf: data}

	v, err := d.byte()
	if err != nil {
		return nil, err
	}
	if v != formatVersion {
		return nil, fmt.Errorf("codec: unknown record format version %d", v)
	}

	e := &model.Event{}
	if e.ID, err = d.uint64(); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = d.uint64(); err != nil {
		return nil, err
	}

	flag, err := d.byte()
	if err != nil {
		return nil, err
	}
	updated, err := d.uint64()
	if err != nil {
		return nil, err
	}
	switch flag {
	case 0:
	case 1:
		e.UpdatedAt = &updated
	default:
		return nil, fmt.Errorf("codec: invalid updated_at flag %d", flag)
	}

	if e.Owner, err = d.string(); err != nil {
		return nil, err
	}
	if e.Title, err = d.string(); err != nil {
		return nil, err
	}
	if e.Description, err = d.string(); err != nil {
		return nil, err
	}
	if e.Location, err = d.string(); err != nil {
		return nil, err
	}
	if e.ImageURL, err = d.string(); err != nil {
		return nil, err
	}

	n, err := d.uint16()
	if err != nil {
		return nil, err
	}
	e.Attendees = make([]string, 0, n)
	for i := 0; i < int(n); i++ {
		a, err := d.string()
		if err != nil {
			return nil, err
		}
		e.Attendees = append(e.Attendees, a)
	}

	if len(d.buf) != d.off {
		return nil, fmt.Errorf("codec: %d trailing bytes after record", len(d.buf)-d.off)
	}
	return e, nil
}

func writeString(buf *bytes.Buffer, s string) {
	if len(s) > 0xFFFF {
		panic(fmt.Sprintf("codec: string field of %d bytes exceeds length prefix", len(s)))
	}
	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], uint16(len(s)))
	buf.Write(u16[:])
	buf.WriteString(s)
}

type decoder struct {
	buf []byte
	off int
}

func (d *decoder) take(n int) ([]byte, error) {
	if d.off+n > len(d.buf) {
		return nil, fmt.Errorf("codec: truncated record (need %d bytes at offset %d, have %d)", n, d.off, len(d.buf)-d.off)
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) byte() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) uint16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *decoder) uint64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *decoder) string() (string, error) {
	n, err := d.uint16()
	if err != nil {
		return "", err
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
