package pagestore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/gatherhq/gather/internal/codec"
	"github.com/gatherhq/gather/internal/pagefile"
)

func TestTable_InsertGetRemove(t *testing.T) {
	pf, _ := openTestPageFile(t)

	tbl, err := OpenTable(pf.Region(1))
	if err != nil {
		t.Fatalf("OpenTable: %v", err)
	}

	if _, ok, _ := tbl.Get(1); ok {
		t.Fatal("empty table claims to hold id 1")
	}

	prev, err := tbl.Insert(1, []byte("first"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if prev != nil {
		t.Errorf("Insert of a new id returned previous %q", prev)
	}

	got, ok, err := tbl.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || string(got) != "first" {
		t.Errorf("Get = %q, %v; want %q, true", got, ok, "first")
	}

	// Overwrite returns the prior value.
	prev, err = tbl.Insert(1, []byte("second"))
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if string(prev) != "first" {
		t.Errorf("overwrite returned previous %q, want %q", prev, "first")
	}
	if tbl.Len() != 1 {
		t.Errorf("Len after overwrite = %d, want 1", tbl.Len())
	}

	removed, err := tbl.Remove(1)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if string(removed) != "second" {
		t.Errorf("Remove returned %q, want %q", removed, "second")
	}
	if _, ok, _ := tbl.Get(1); ok {
		t.Error("id 1 still present after Remove")
	}

	removed, err = tbl.Remove(1)
	if err != nil {
		t.Fatalf("Remove absent: %v", err)
	}
	if removed != nil {
		t.Errorf("removing an absent id returned %q", removed)
	}
}

func TestTable_KeysSorted(t *testing.T) {
	pf, _ := openTestPageFile(t)

	tbl, err := OpenTable(pf.Region(1))
	if err != nil {
		t.Fatalf("OpenTable: %v", err)
	}

	for _, id := range []uint64{5, 1, 9, 3, 7} {
		if _, err := tbl.Insert(id, []byte{byte(id)}); err != nil {
			t.Fatalf("Insert %d: %v", id, err)
		}
	}
	if _, err := tbl.Remove(3); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	want := []uint64{1, 5, 7, 9}
	got := tbl.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys = %v, want %v", got, want)
		}
	}
}

func TestTable_GrowsPastFirstPage(t *testing.T) {
	pf, _ := openTestPageFile(t)

	tbl, err := OpenTable(pf.Region(1))
	if err != nil {
		t.Fatalf("OpenTable: %v", err)
	}

	// Far more records than one page of slots holds.
	payload := bytes.Repeat([]byte{0x42}, 512)
	for id := uint64(1); id <= 40; id++ {
		if _, err := tbl.Insert(id, payload); err != nil {
			t.Fatalf("Insert %d: %v", id, err)
		}
	}
	if tbl.Len() != 40 {
		t.Fatalf("Len = %d, want 40", tbl.Len())
	}
	for id := uint64(1); id <= 40; id++ {
		got, ok, err := tbl.Get(id)
		if err != nil || !ok {
			t.Fatalf("Get %d: ok=%v err=%v", id, ok, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("record %d corrupted after growth", id)
		}
	}
}

func TestTable_RejectsOversizedRecord(t *testing.T) {
	pf, _ := openTestPageFile(t)

	tbl, err := OpenTable(pf.Region(1))
	if err != nil {
		t.Fatalf("OpenTable: %v", err)
	}
	if _, err := tbl.Insert(1, make([]byte, codec.MaxRecordSize+1)); err == nil {
		t.Error("expected error inserting a record above the size limit")
	}
}

func TestTable_ReopenRebuildsIndex(t *testing.T) {
	pf, path := openTestPageFile(t)

	tbl, err := OpenTable(pf.Region(1))
	if err != nil {
		t.Fatalf("OpenTable: %v", err)
	}
	for id := uint64(1); id <= 5; id++ {
		if _, err := tbl.Insert(id, []byte(fmt.Sprintf("record-%d", id))); err != nil {
			t.Fatalf("Insert %d: %v", id, err)
		}
	}
	if _, err := tbl.Remove(2); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := pf.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	pf2, err := pagefile.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer pf2.Close()

	tbl2, err := OpenTable(pf2.Region(1))
	if err != nil {
		t.Fatalf("OpenTable after reopen: %v", err)
	}
	if tbl2.Len() != 4 {
		t.Errorf("Len after reopen = %d, want 4", tbl2.Len())
	}
	got, ok, err := tbl2.Get(4)
	if err != nil || !ok {
		t.Fatalf("Get 4 after reopen: ok=%v err=%v", ok, err)
	}
	if string(got) != "record-4" {
		t.Errorf("record 4 = %q, want %q", got, "record-4")
	}
	if _, ok, _ := tbl2.Get(2); ok {
		t.Error("removed id 2 resurrected by reopen")
	}

	// The freed slot is reusable after reopen.
	if _, err := tbl2.Insert(6, []byte("record-6")); err != nil {
		t.Fatalf("Insert after reopen: %v", err)
	}
}

func TestTable_RepairsStaleCountOnOpen(t *testing.T) {
	pf, path := openTestPageFile(t)

	tbl, err := OpenTable(pf.Region(1))
	if err != nil {
		t.Fatalf("OpenTable: %v", err)
	}
	for id := uint64(1); id <= 3; id++ {
		if _, err := tbl.Insert(id, []byte(fmt.Sprintf("record-%d", id))); err != nil {
			t.Fatalf("Insert %d: %v", id, err)
		}
	}

	// Simulate a crash between a slot write and the count update by leaving
	// a stale count in the header.
	var stale [4]byte
	binary.LittleEndian.PutUint32(stale[:], 1)
	if err := pf.Region(1).WriteAt(stale[:], countOff); err != nil {
		t.Fatalf("write stale count: %v", err)
	}
	if err := pf.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	pf2, err := pagefile.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer pf2.Close()

	tbl2, err := OpenTable(pf2.Region(1))
	if err != nil {
		t.Fatalf("OpenTable with stale count: %v", err)
	}
	if tbl2.Len() != 3 {
		t.Errorf("Len after repair = %d, want 3", tbl2.Len())
	}

	// The header count is rewritten from the scan.
	hdr := make([]byte, tableHeaderSize)
	if err := pf2.Region(1).ReadAt(hdr, 0); err != nil {
		t.Fatalf("read header: %v", err)
	}
	if got := binary.LittleEndian.Uint32(hdr[countOff:]); got != 3 {
		t.Errorf("header count after repair = %d, want 3", got)
	}
}
