package pagestore

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/gatherhq/gather/internal/codec"
	"github.com/gatherhq/gather/internal/pagefile"
)

// Region layout: a 16-byte header followed by fixed-size slots. Each slot
// holds one encoded record behind a small slot header, so lookups never
// shift other records and ids stay addressable in place.
const (
	tableHeaderSize = 16
	slotHeaderSize  = 16 // id u64, length u16, used u8, 5 bytes reserved
	slotSize        = slotHeaderSize + codec.MaxRecordSize

	// countOff is the offset of the live-record count in the table header.
	countOff = 8
)

var tableMagic = [4]byte{'G', 'T', 'B', 'L'}

// Table is an ordered map from uint64 id to an encoded record, stored in
// one page-file region. Values are opaque bytes of at most
// codec.MaxRecordSize; the table knows nothing of the record schema.
//
// An in-memory index (id → slot plus a sorted key slice) is rebuilt by
// scanning the slots at open. Iteration via Keys is in ascending id order.
type Table struct {
	region *pagefile.Region
	slots  map[uint64]slotRef
	keys   []uint64 // ascending
	free   []uint32 // unoccupied slot numbers
}

type slotRef struct {
	slot   uint32
	length uint16
}

// OpenTable initializes the region on first use, otherwise rebuilds the
// index from the persisted slots.
func OpenTable(r *pagefile.Region) (*Table, error) {
	t := &Table{region: r, slots: make(map[uint64]slotRef)}

	if r.Size() == 0 {
		if err := r.Grow(1); err != nil {
			return nil, fmt.Errorf("table: init region: %w", err)
		}
		hdr := make([]byte, tableHeaderSize)
		copy(hdr, tableMagic[:])
		if err := r.WriteAt(hdr, 0); err != nil {
			return nil, fmt.Errorf("table: write header: %w", err)
		}
		return t, nil
	}

	hdr := make([]byte, tableHeaderSize)
	if err := r.ReadAt(hdr, 0); err != nil {
		return nil, fmt.Errorf("table: read header: %w", err)
	}
	if [4]byte(hdr[0:4]) != tableMagic {
		return nil, fmt.Errorf("table: region %d does not hold a record table (bad magic %q)", r.ID(), hdr[0:4])
	}

	for slot := uint32(0); slot < t.capacity(); slot++ {
		sh := make([]byte, slotHeaderSize)
		if err := r.ReadAt(sh, slotOffset(slot)); err != nil {
			return nil, fmt.Errorf("table: scan slot %d: %w", slot, err)
		}
		if sh[10] == 0 {
			t.free = append(t.free, slot)
			continue
		}
		id := binary.LittleEndian.Uint64(sh[0:8])
		length := binary.LittleEndian.Uint16(sh[8:10])
		if int(length) > codec.MaxRecordSize {
			return nil, fmt.Errorf("table: slot %d claims %d bytes, limit is %d", slot, length, codec.MaxRecordSize)
		}
		t.slots[id] = slotRef{slot: slot, length: length}
		t.keys = append(t.keys, id)
	}
	sort.Slice(t.keys, func(i, j int) bool { return t.keys[i] < t.keys[j] })

	// The slot scan is authoritative. A crash between a slot write and the
	// count update leaves the header count stale; repair it from the scan.
	if got := binary.LittleEndian.Uint32(hdr[countOff:]); int(got) != len(t.keys) {
		if err := t.writeCount(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Len returns the number of stored records.
func (t *Table) Len() int {
	return len(t.keys)
}

// Keys returns all ids in ascending order.
func (t *Table) Keys() []uint64 {
	return append([]uint64(nil), t.keys...)
}

// Get returns the record stored under id. The second return is false when
// the id is absent.
func (t *Table) Get(id uint64) ([]byte, bool, error) {
	ref, ok := t.slots[id]
	if !ok {
		return nil, false, nil
	}
	data := make([]byte, ref.length)
	if err := t.region.ReadAt(data, slotOffset(ref.slot)+slotHeaderSize); err != nil {
		return nil, false, fmt.Errorf("table: read record %d: %w", id, err)
	}
	return data, true, nil
}

// Insert stores record under id, overwriting any existing value, and
// returns the previous record if one existed. The table does not
// distinguish insert-new from overwrite; callers check existence first
// when that matters.
func (t *Table) Insert(id uint64, record []byte) ([]byte, error) {
	if len(record) > codec.MaxRecordSize {
		return nil, fmt.Errorf("table: record %d is %d bytes, limit is %d", id, len(record), codec.MaxRecordSize)
	}

	if ref, ok := t.slots[id]; ok {
		prev := make([]byte, ref.length)
		if err := t.region.ReadAt(prev, slotOffset(ref.slot)+slotHeaderSize); err != nil {
			return nil, fmt.Errorf("table: read previous record %d: %w", id, err)
		}
		if err := t.writeSlot(ref.slot, id, record); err != nil {
			return nil, err
		}
		t.slots[id] = slotRef{slot: ref.slot, length: uint16(len(record))}
		return prev, nil
	}

	slot, err := t.takeSlot()
	if err != nil {
		return nil, err
	}
	if err := t.writeSlot(slot, id, record); err != nil {
		return nil, err
	}

	t.slots[id] = slotRef{slot: slot, length: uint16(len(record))}
	i := sort.Search(len(t.keys), func(i int) bool { return t.keys[i] >= id })
	t.keys = append(t.keys, 0)
	copy(t.keys[i+1:], t.keys[i:])
	t.keys[i] = id

	if err := t.writeCount(); err != nil {
		return nil, err
	}
	return nil, nil
}

// Remove deletes the record under id and returns it, or nil if absent.
func (t *Table) Remove(id uint64) ([]byte, error) {
	ref, ok := t.slots[id]
	if !ok {
		return nil, nil
	}

	prev := make([]byte, ref.length)
	if err := t.region.ReadAt(prev, slotOffset(ref.slot)+slotHeaderSize); err != nil {
		return nil, fmt.Errorf("table: read record %d: %w", id, err)
	}

	// Clearing the slot header is enough; the payload bytes are dead once
	// the used flag drops.
	if err := t.region.WriteAt(make([]byte, slotHeaderSize), slotOffset(ref.slot)); err != nil {
		return nil, fmt.Errorf("table: clear slot %d: %w", ref.slot, err)
	}

	delete(t.slots, id)
	i := sort.Search(len(t.keys), func(i int) bool { return t.keys[i] >= id })
	t.keys = append(t.keys[:i], t.keys[i+1:]...)
	t.free = append(t.free, ref.slot)

	if err := t.writeCount(); err != nil {
		return nil, err
	}
	return prev, nil
}

// capacity returns how many slots fit in the region at its current size.
func (t *Table) capacity() uint32 {
	if t.region.Size() < tableHeaderSize {
		return 0
	}
	return uint32((t.region.Size() - tableHeaderSize) / slotSize)
}

// takeSlot returns a free slot number, growing the region when none are
// left.
func (t *Table) takeSlot() (uint32, error) {
	if len(t.free) == 0 {
		before := t.capacity()
		if err := t.region.Grow(1); err != nil {
			return 0, fmt.Errorf("table: grow: %w", err)
		}
		for s := before; s < t.capacity(); s++ {
			t.free = append(t.free, s)
		}
	}
	slot := t.free[len(t.free)-1]
	t.free = t.free[:len(t.free)-1]
	return slot, nil
}

func (t *Table) writeSlot(slot uint32, id uint64, record []byte) error {
	buf := make([]byte, slotHeaderSize+len(record))
	binary.LittleEndian.PutUint64(buf[0:8], id)
	binary.LittleEndian.PutUint16(buf[8:10], uint16(len(record)))
	buf[10] = 1
	copy(buf[slotHeaderSize:], record)

	if err := t.region.WriteAt(buf, slotOffset(slot)); err != nil {
		return fmt.Errorf("table: write slot %d: %w", slot, err)
	}
	return nil
}

func (t *Table) writeCount() error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(len(t.keys)))
	if err := t.region.WriteAt(buf[:], countOff); err != nil {
		return fmt.Errorf("table: write count: %w", err)
	}
	return nil
}

func slotOffset(slot uint32) int64 {
	return tableHeaderSize + int64(slot)*slotSize
}
