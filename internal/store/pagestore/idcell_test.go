package pagestore

import (
	"path/filepath"
	"testing"

	"github.com/gatherhq/gather/internal/pagefile"
)

func openTestPageFile(t *testing.T) (*pagefile.File, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.gpf")
	pf, err := pagefile.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { pf.Close() })
	return pf, path
}

func TestIDCell_InitAndSet(t *testing.T) {
	pf, _ := openTestPageFile(t)

	cell, err := OpenIDCell(pf.Region(0), 1)
	if err != nil {
		t.Fatalf("OpenIDCell: %v", err)
	}
	if got := cell.Get(); got != 1 {
		t.Errorf("initial value = %d, want 1", got)
	}

	prev, err := cell.Set(2)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if prev != 1 {
		t.Errorf("Set returned previous = %d, want 1", prev)
	}
	if got := cell.Get(); got != 2 {
		t.Errorf("value after Set = %d, want 2", got)
	}
}

func TestIDCell_PersistsAcrossReopen(t *testing.T) {
	pf, path := openTestPageFile(t)

	cell, err := OpenIDCell(pf.Region(0), 1)
	if err != nil {
		t.Fatalf("OpenIDCell: %v", err)
	}
	if _, err := cell.Set(41); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := pf.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	pf2, err := pagefile.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer pf2.Close()

	// Init is idempotent: the initial value must not clobber the
	// persisted one.
	cell2, err := OpenIDCell(pf2.Region(0), 1)
	if err != nil {
		t.Fatalf("OpenIDCell after reopen: %v", err)
	}
	if got := cell2.Get(); got != 41 {
		t.Errorf("value after reopen = %d, want 41", got)
	}
}

func TestIDCell_RejectsForeignRegion(t *testing.T) {
	pf, _ := openTestPageFile(t)

	// Region 5 holds a record table, not an id cell.
	if _, err := OpenTable(pf.Region(5)); err != nil {
		t.Fatalf("OpenTable: %v", err)
	}
	if _, err := OpenIDCell(pf.Region(5), 1); err == nil {
		t.Error("expected error opening an id cell on a table region")
	}
}
