// Package pagefile presents one growable file as a set of independently
// growing byte regions. The file is divided into 4 KiB pages; page 0 is a
// header mapping every data page to the region that owns it, so reopening a
// file reconstructs the exact region layout it had before shutdown.
package pagefile

import (
	"encoding/binary"
	"fmt"
	"os"
)

const (
	// PageSize is the allocation granularity of the file.
	PageSize = 4096

	version = 1

	// headerTableOff is the byte offset of the page ownership table within
	// the header page. Each entry is a uint16 holding region id + 1
	// (0 = unallocated).
	headerTableOff = 12

	// MaxDataPages is the number of data pages the header page can track.
	MaxDataPages = (PageSize - headerTableOff) / 2
)

var magic = [4]byte{'G', 'P', 'F', version}

// File is a page-structured file carved into regions.
type File struct {
	f       *os.File
	path    string
	owners  []uint16 // region id + 1 per data page, in file order
	regions map[uint16]*Region
}

// Open opens or creates a page file. A fresh file gets a header page; an
// existing file has its region layout loaded from the header.
func Open(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("pagefile: path cannot be empty")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("pagefile: open %s: %w", path, err)
	}

	pf := &File{f: f, path: path, regions: make(map[uint16]*Region)}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pagefile: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		if err := pf.writeHeader(); err != nil {
			f.Close()
			return nil, err
		}
		return pf, nil
	}

	if err := pf.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return pf, nil
}

// Region returns the handle for the given region id, creating an empty
// region on first use. Calling it twice with the same id returns a handle
// onto the same underlying bytes.
func (pf *File) Region(id uint16) *Region {
	if r, ok := pf.regions[id]; ok {
		return r
	}
	r := &Region{file: pf, id: id}
	for pageNo, owner := range pf.owners {
		if owner == id+1 {
			r.pages = append(r.pages, uint32(pageNo))
		}
	}
	pf.regions[id] = r
	return r
}

// Path returns the file path this page file was opened with.
func (pf *File) Path() string {
	return pf.path
}

// Close closes the underlying file handle.
func (pf *File) Close() error {
	if pf.f == nil {
		return nil
	}
	err := pf.f.Close()
	pf.f = nil
	return err
}

// allocate appends one zero-filled data page owned by the given region and
// persists the updated header. Returns the new data page number.
func (pf *File) allocate(region uint16) (uint32, error) {
	if len(pf.owners) >= MaxDataPages {
		return 0, fmt.Errorf("pagefile: full (%d pages)", MaxDataPages)
	}

	pageNo := uint32(len(pf.owners))
	zero := make([]byte, PageSize)
	if _, err := pf.f.WriteAt(zero, int64(1+pageNo)*PageSize); err != nil {
		return 0, fmt.Errorf("pagefile: reserve page %d: %w", pageNo, err)
	}

	pf.owners = append(pf.owners, region+1)
	if err := pf.writeHeader(); err != nil {
		pf.owners = pf.owners[:pageNo]
		return 0, err
	}
	return pageNo, nil
}

// writeHeader serializes the ownership table into page 0 and syncs, making
// the new layout durable before any caller sees it.
func (pf *File) writeHeader() error {
	buf := make([]byte, PageSize)
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(pf.owners)))
	for i, owner := range pf.owners {
		binary.LittleEndian.PutUint16(buf[headerTableOff+2*i:], owner)
	}

	if _, err := pf.f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("pagefile: write header: %w", err)
	}
	if err := pf.f.Sync(); err != nil {
		return fmt.Errorf("pagefile: sync header: %w", err)
	}
	return nil
}

func (pf *File) readHeader() error {
	buf := make([]byte, PageSize)
	if _, err := pf.f.ReadAt(buf, 0); err != nil {
		return fmt.Errorf("pagefile: read header: %w", err)
	}
	if [4]byte(buf[0:4]) != magic {
		return fmt.Errorf("pagefile: %s is not a page file (bad magic %q)", pf.path, buf[0:4])
	}

	n := binary.LittleEndian.Uint32(buf[8:12])
	if n > MaxDataPages {
		return fmt.Errorf("pagefile: header claims %d pages, max is %d", n, MaxDataPages)
	}

	pf.owners = make([]uint16, n)
	for i := range pf.owners {
		pf.owners[i] = binary.LittleEndian.Uint16(buf[headerTableOff+2*i:])
	}
	return nil
}
