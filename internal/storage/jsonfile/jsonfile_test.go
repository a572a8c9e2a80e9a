package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/warikan/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "ledgers"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestJSONFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("unseen group reads as empty ledger", func(t *testing.T) {
		store := newTestStore(t)
		transactions, err := store.ReadLedger(ctx, "brand-new-group")
		if err != nil {
			t.Fatalf("ReadLedger failed: %v", err)
		}
		if transactions == nil || len(transactions) != 0 {
			t.Errorf("ReadLedger = %v, want empty non-nil slice", transactions)
		}
	})

	t.Run("write then read round-trips", func(t *testing.T) {
		store := newTestStore(t)
		written := []models.Transaction{
			{Payer: "alice", Participant: "bob", Amount: 1000, Memo: "lunch", Date: time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)},
			{Payer: "bob", Participant: "alice", Amount: 400, Memo: "タクシー", Date: time.Date(2024, 6, 2, 23, 15, 0, 0, time.UTC)},
		}
		if err := store.WriteLedger(ctx, "group1", written); err != nil {
			t.Fatalf("WriteLedger failed: %v", err)
		}

		read, err := store.ReadLedger(ctx, "group1")
		if err != nil {
			t.Fatalf("ReadLedger failed: %v", err)
		}
		if len(read) != len(written) {
			t.Fatalf("ReadLedger returned %d transactions, want %d", len(read), len(written))
		}
		for i := range written {
			if read[i].Payer != written[i].Payer ||
				read[i].Participant != written[i].Participant ||
				read[i].Amount != written[i].Amount ||
				read[i].Memo != written[i].Memo ||
				!read[i].Date.Equal(written[i].Date) {
				t.Errorf("transaction %d = %+v, want %+v", i, read[i], written[i])
			}
		}
	})

	t.Run("write replaces the whole ledger", func(t *testing.T) {
		store := newTestStore(t)
		first := []models.Transaction{
			{Payer: "a", Participant: "b", Amount: 1},
			{Payer: "a", Participant: "b", Amount: 2},
			{Payer: "a", Participant: "b", Amount: 3},
		}
		if err := store.WriteLedger(ctx, "g", first); err != nil {
			t.Fatalf("WriteLedger failed: %v", err)
		}
		second := []models.Transaction{{Payer: "c", Participant: "d", Amount: 9}}
		if err := store.WriteLedger(ctx, "g", second); err != nil {
			t.Fatalf("WriteLedger failed: %v", err)
		}

		read, err := store.ReadLedger(ctx, "g")
		if err != nil {
			t.Fatalf("ReadLedger failed: %v", err)
		}
		if len(read) != 1 || read[0].Payer != "c" {
			t.Errorf("ReadLedger = %+v, want only the second write", read)
		}
	})

	t.Run("groups are isolated", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.WriteLedger(ctx, "g1", []models.Transaction{{Payer: "a", Participant: "b", Amount: 1}}); err != nil {
			t.Fatalf("WriteLedger failed: %v", err)
		}
		read, err := store.ReadLedger(ctx, "g2")
		if err != nil {
			t.Fatalf("ReadLedger failed: %v", err)
		}
		if len(read) != 0 {
			t.Errorf("group g2 sees %d transactions from g1", len(read))
		}
	})

	t.Run("group id escaping the directory is rejected", func(t *testing.T) {
		store := newTestStore(t)
		if _, err := store.ReadLedger(ctx, "../outside"); err == nil {
			t.Error("Expected error for path-escaping group id, got nil")
		}
		if err := store.WriteLedger(ctx, "", nil); err == nil {
			t.Error("Expected error for empty group id, got nil")
		}
	})
}

func TestLegacyUpgrade(t *testing.T) {
	ctx := context.Background()

	writeRaw := func(t *testing.T, store *Store, groupID, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(store.dir, groupID+".json"), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to seed ledger file: %v", err)
		}
	}

	t.Run("missing memo and date default", func(t *testing.T) {
		store := newTestStore(t)
		writeRaw(t, store, "legacy", `[{"payer":"alice","participant":"bob","amount":500}]`)

		read, err := store.ReadLedger(ctx, "legacy")
		if err != nil {
			t.Fatalf("ReadLedger failed: %v", err)
		}
		if len(read) != 1 {
			t.Fatalf("ReadLedger returned %d transactions, want 1", len(read))
		}
		if read[0].Memo != "" {
			t.Errorf("Memo = %q, want empty", read[0].Memo)
		}
		if !read[0].Date.IsZero() {
			t.Errorf("Date = %v, want zero time", read[0].Date)
		}
		if read[0].Amount != 500 {
			t.Errorf("Amount = %d, want 500", read[0].Amount)
		}
	})

	t.Run("participants array fans out per head", func(t *testing.T) {
		store := newTestStore(t)
		writeRaw(t, store, "oldest", `[{"payer":"alice","participants":["alice","bob","carol"],"amount":900}]`)

		read, err := store.ReadLedger(ctx, "oldest")
		if err != nil {
			t.Fatalf("ReadLedger failed: %v", err)
		}
		// The payer's own share is not owed; bob and carol each owe a third.
		if len(read) != 2 {
			t.Fatalf("ReadLedger returned %d transactions, want 2", len(read))
		}
		for i, participant := range []string{"bob", "carol"} {
			if read[i].Participant != participant || read[i].Payer != "alice" || read[i].Amount != 300 {
				t.Errorf("transaction %d = %+v, want alice covering %s for 300", i, read[i], participant)
			}
		}
	})

	t.Run("string date parses", func(t *testing.T) {
		store := newTestStore(t)
		writeRaw(t, store, "dated", `[{"payer":"a","participant":"b","amount":1,"memo":"x","date":"2023-11-05T08:00:00.000Z"}]`)

		read, err := store.ReadLedger(ctx, "dated")
		if err != nil {
			t.Fatalf("ReadLedger failed: %v", err)
		}
		want := time.Date(2023, 11, 5, 8, 0, 0, 0, time.UTC)
		if len(read) != 1 || !read[0].Date.Equal(want) {
			t.Errorf("Date = %v, want %v", read[0].Date, want)
		}
	})

	t.Run("unrecognized content is a read error", func(t *testing.T) {
		store := newTestStore(t)
		writeRaw(t, store, "corrupt", `{"this is": "not a ledger"}`)
		if _, err := store.ReadLedger(ctx, "corrupt"); err == nil {
			t.Error("Expected error for corrupt ledger, got nil")
		}

		writeRaw(t, store, "badrecord", `[{"participant":"b","amount":1}]`)
		if _, err := store.ReadLedger(ctx, "badrecord"); err == nil {
			t.Error("Expected error for record without payer, got nil")
		}
	})
}
