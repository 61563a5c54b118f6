package runlog_test

import (
	"path/filepath"
	"testing"
	"time"

	"invoiceflow/internal/runlog"
)

func TestJournalAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	j := runlog.NewJournal(path)

	first := runlog.Entry{
		RunID:           "run-1",
		Timestamp:       time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
		Input:           "/invoices",
		OutputDir:       "processed_invoices",
		MaxConcurrent:   5,
		FilesProcessed:  3,
		Succeeded:       2,
		DurationSeconds: 4.2,
	}
	if err := j.Append(first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := j.Append(runlog.Entry{RunID: "run-2", FilesProcessed: 1, Succeeded: 1}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := j.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].RunID != "run-1" || entries[1].RunID != "run-2" {
		t.Errorf("order = [%s, %s]", entries[0].RunID, entries[1].RunID)
	}
	if entries[0].Succeeded != 2 || entries[0].FilesProcessed != 3 {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestJournalDisabledIsNoOp(t *testing.T) {
	j := runlog.NewJournal("")
	if j != nil {
		t.Fatal("empty path should disable the journal")
	}
	if err := j.Append(runlog.Entry{RunID: "x"}); err != nil {
		t.Fatalf("nil journal Append: %v", err)
	}
	entries, err := j.Read()
	if err != nil || entries != nil {
		t.Fatalf("nil journal Read = %v, %v", entries, err)
	}
}

func TestJournalReadMissingFile(t *testing.T) {
	j := runlog.NewJournal(filepath.Join(t.TempDir(), "absent.jsonl"))
	entries, err := j.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if entries != nil {
		t.Fatalf("entries = %v", entries)
	}
}
