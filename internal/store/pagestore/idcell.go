package pagestore

import (
	"encoding/binary"
	"fmt"

	"github.com/gatherhq/gather/internal/pagefile"
)

// idCellMagic marks a region that holds an id cell.
var idCellMagic = [4]byte{'G', 'I', 'D', 'C'}

// valueOff is the byte offset of the counter value within the region.
const valueOff = 8

// IDCell is a single durable uint64 stored in one page-file region. It is
// the sole source of fresh event ids.
type IDCell struct {
	region *pagefile.Region
	value  uint64
}

// OpenIDCell creates the cell with the given initial value when the region
// is empty, otherwise loads the persisted value. Idempotent across
// restarts.
func OpenIDCell(r *pagefile.Region, initial uint64) (*IDCell, error) {
	c := &IDCell{region: r}

	if r.Size() == 0 {
		if err := r.Grow(1); err != nil {
			return nil, fmt.Errorf("idcell: init region: %w", err)
		}
		buf := make([]byte, valueOff+8)
		copy(buf, idCellMagic[:])
		binary.LittleEndian.PutUint64(buf[valueOff:], initial)
		if err := r.WriteAt(buf, 0); err != nil {
			return nil, fmt.Errorf("idcell: write initial value: %w", err)
		}
		c.value = initial
		return c, nil
	}

	buf := make([]byte, valueOff+8)
	if err := r.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("idcell: read: %w", err)
	}
	if [4]byte(buf[0:4]) != idCellMagic {
		return nil, fmt.Errorf("idcell: region %d does not hold an id cell (bad magic %q)", r.ID(), buf[0:4])
	}
	c.value = binary.LittleEndian.Uint64(buf[valueOff:])
	return c, nil
}

// Get returns the current value with no side effect.
func (c *IDCell) Get() uint64 {
	return c.value
}

// Set persists value and returns the previous one. A write failure is a
// storage fault; the in-memory value is left unchanged so the cell never
// runs ahead of disk.
func (c *IDCell) Set(value uint64) (uint64, error) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	if err := c.region.WriteAt(buf[:], valueOff); err != nil {
		return 0, fmt.Errorf("idcell: persist %d: %w", value, err)
	}
	prev := c.value
	c.value = value
	return prev, nil
}
