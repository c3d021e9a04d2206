package pagefile

import "fmt"

// Region is an independently growing byte space inside a page file. Offsets
// are virtual: the region's pages may be scattered through the file, but a
// region always sees them as one contiguous range starting at 0. Growing
// one region never invalidates offsets handed out in another.
type Region struct {
	file  *File
	id    uint16
	pages []uint32 // data page numbers in allocation order
}

// ID returns the region identifier.
func (r *Region) ID() uint16 {
	return r.id
}

// Size returns the region's current size in bytes (whole pages).
func (r *Region) Size() int64 {
	return int64(len(r.pages)) * PageSize
}

// Grow extends the region by n pages, zero-filled.
func (r *Region) Grow(n int) error {
	for i := 0; i < n; i++ {
		pageNo, err := r.file.allocate(r.id)
		if err != nil {
			return fmt.Errorf("grow region %d: %w", r.id, err)
		}
		r.pages = append(r.pages, pageNo)
	}
	return nil
}

// ReadAt fills p with region bytes starting at virtual offset off. The
// range must lie entirely within the region.
func (r *Region) ReadAt(p []byte, off int64) error {
	return r.each(p, off, func(fileOff int64, chunk []byte) error {
		_, err := r.file.f.ReadAt(chunk, fileOff)
		return err
	})
}

// WriteAt writes p at virtual offset off and syncs the file. The range
// must lie entirely within the region; callers Grow first.
func (r *Region) WriteAt(p []byte, off int64) error {
	err := r.each(p, off, func(fileOff int64, chunk []byte) error {
		_, werr := r.file.f.WriteAt(chunk, fileOff)
		return werr
	})
	if err != nil {
		return err
	}
	if err := r.file.f.Sync(); err != nil {
		return fmt.Errorf("region %d: sync: %w", r.id, err)
	}
	return nil
}

// each walks the page-sized segments covering p at off, translating virtual
// offsets to file offsets.
func (r *Region) each(p []byte, off int64, fn func(fileOff int64, chunk []byte) error) error {
	if off < 0 || off+int64(len(p)) > r.Size() {
		return fmt.Errorf("region %d: range [%d, %d) outside size %d", r.id, off, off+int64(len(p)), r.Size())
	}

	for len(p) > 0 {
		pageIdx := off / PageSize
		within := off % PageSize

		n := PageSize - within
		if n > int64(len(p)) {
			n = int64(len(p))
		}

		fileOff := int64(1+r.pages[pageIdx])*PageSize + within
		if err := fn(fileOff, p[:n]); err != nil {
			return fmt.Errorf("region %d: page %d: %w", r.id, pageIdx, err)
		}

		p = p[n:]
		off += n
	}
	return nil
}
