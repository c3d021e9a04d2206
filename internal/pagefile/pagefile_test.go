package pagefile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func openTestFile(t *testing.T) (*File, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.gpf")
	pf, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { pf.Close() })
	return pf, path
}

func TestOpen_CreatesHeader(t *testing.T) {
	_, path := openTestFile(t)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != PageSize {
		t.Errorf("fresh file size = %d, want %d (header page)", info.Size(), PageSize)
	}
}

func TestOpen_RejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-pagefile")
	if err := os.WriteFile(path, bytes.Repeat([]byte{0xAB}, PageSize), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected error opening a file with a bad magic")
	}
}

func TestRegion_SameIDSameBytes(t *testing.T) {
	pf, _ := openTestFile(t)

	r1 := pf.Region(3)
	if err := r1.Grow(1); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	if err := r1.WriteAt([]byte("hello"), 0); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}

	r2 := pf.Region(3)
	got := make([]byte, 5)
	if err := r2.ReadAt(got, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("second handle read %q, want %q", got, "hello")
	}
}

func TestRegions_GrowIndependently(t *testing.T) {
	pf, _ := openTestFile(t)

	a := pf.Region(0)
	b := pf.Region(1)

	if err := a.Grow(1); err != nil {
		t.Fatalf("grow a: %v", err)
	}
	if err := a.WriteAt([]byte("aaaa"), 0); err != nil {
		t.Fatalf("write a: %v", err)
	}

	// Interleave growth so the regions' pages alternate in the file.
	if err := b.Grow(1); err != nil {
		t.Fatalf("grow b: %v", err)
	}
	if err := a.Grow(1); err != nil {
		t.Fatalf("grow a again: %v", err)
	}
	if err := b.WriteAt([]byte("bbbb"), 0); err != nil {
		t.Fatalf("write b: %v", err)
	}

	if a.Size() != 2*PageSize {
		t.Errorf("region a size = %d, want %d", a.Size(), 2*PageSize)
	}
	if b.Size() != PageSize {
		t.Errorf("region b size = %d, want %d", b.Size(), PageSize)
	}

	// Growth of a must not have moved b's bytes, and vice versa.
	got := make([]byte, 4)
	if err := a.ReadAt(got, 0); err != nil {
		t.Fatalf("read a: %v", err)
	}
	if string(got) != "aaaa" {
		t.Errorf("region a = %q, want %q", got, "aaaa")
	}
	if err := b.ReadAt(got, 0); err != nil {
		t.Fatalf("read b: %v", err)
	}
	if string(got) != "bbbb" {
		t.Errorf("region b = %q, want %q", got, "bbbb")
	}
}

func TestRegion_SpansPages(t *testing.T) {
	pf, _ := openTestFile(t)

	r := pf.Region(0)
	if err := r.Grow(2); err != nil {
		t.Fatalf("Grow: %v", err)
	}

	// Write across the page boundary.
	data := bytes.Repeat([]byte{0x5A}, 100)
	off := int64(PageSize - 50)
	if err := r.WriteAt(data, off); err != nil {
		t.Fatalf("WriteAt across boundary: %v", err)
	}

	got := make([]byte, 100)
	if err := r.ReadAt(got, off); err != nil {
		t.Fatalf("ReadAt across boundary: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("data read across page boundary does not match written data")
	}
}

func TestRegion_OutOfRange(t *testing.T) {
	pf, _ := openTestFile(t)

	r := pf.Region(0)
	if err := r.WriteAt([]byte("x"), 0); err == nil {
		t.Error("expected error writing to an empty region")
	}

	if err := r.Grow(1); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	if err := r.ReadAt(make([]byte, 2), PageSize-1); err == nil {
		t.Error("expected error reading past the region end")
	}
}

func TestReopen_ReconstructsLayout(t *testing.T) {
	pf, path := openTestFile(t)

	a := pf.Region(0)
	b := pf.Region(1)
	if err := a.Grow(1); err != nil {
		t.Fatalf("grow a: %v", err)
	}
	if err := b.Grow(2); err != nil {
		t.Fatalf("grow b: %v", err)
	}
	if err := a.WriteAt([]byte("counter"), 8); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := b.WriteAt([]byte("records"), PageSize+16); err != nil {
		t.Fatalf("write b: %v", err)
	}
	if err := pf.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	pf2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer pf2.Close()

	a2 := pf2.Region(0)
	b2 := pf2.Region(1)
	if a2.Size() != PageSize {
		t.Errorf("region 0 size after reopen = %d, want %d", a2.Size(), PageSize)
	}
	if b2.Size() != 2*PageSize {
		t.Errorf("region 1 size after reopen = %d, want %d", b2.Size(), 2*PageSize)
	}

	got := make([]byte, 7)
	if err := a2.ReadAt(got, 8); err != nil {
		t.Fatalf("read a after reopen: %v", err)
	}
	if string(got) != "counter" {
		t.Errorf("region 0 = %q, want %q", got, "counter")
	}
	if err := b2.ReadAt(got, PageSize+16); err != nil {
		t.Fatalf("read b after reopen: %v", err)
	}
	if string(got) != "records" {
		t.Errorf("region 1 = %q, want %q", got, "records")
	}
}
