package store_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nyashahama/ai-readiness-assessments/internal/store"
)

// ─── TEST INFRASTRUCTURE ──────────────────────────────────────────────────────

// openTestStore returns a Store over a private in-memory SQLite database.
func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), store.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func createParams(email string) store.CreateParams {
	return store.CreateParams{
		Kind:           "shadow-ai",
		Email:          email,
		ContactName:    "Thandi Mokoena",
		CompanyName:    "Acme Logistics",
		MarketingOptIn: true,
		Fingerprint:    "fp-" + email,
		Answers:        json.RawMessage(`{"email":"` + email + `"}`),
		Result:         json.RawMessage(`{"kind":"shadow-ai","data":{},"metadata":{}}`),
		FinalScore:     72,
		Band:           "Exposed",
		FlagCount:      1,
	}
}

func mustCreate(t *testing.T, st *store.Store, p store.CreateParams) store.Submission {
	t.Helper()
	sub, err := st.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return sub
}

// ─── TESTS ────────────────────────────────────────────────────────────────────

func TestParseDriver(t *testing.T) {
	for _, ok := range []string{"postgres", "sqlite"} {
		if _, err := store.ParseDriver(ok); err != nil {
			t.Errorf("ParseDriver(%q): %v", ok, err)
		}
	}
	if _, err := store.ParseDriver("mysql"); err == nil {
		t.Error("ParseDriver(mysql) should fail")
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	if _, err := store.Open(context.Background(), store.DriverSQLite, ""); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestCreateAndGet(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	created := mustCreate(t, st, createParams("  Thandi@Example.co.za "))
	if created.ID == uuid.Nil {
		t.Fatal("Create should assign an id")
	}
	if created.Status != store.StatusPending {
		t.Errorf("Status = %q, want pending", created.Status)
	}
	if created.Email != "thandi@example.co.za" {
		t.Errorf("Email should be normalised, got %q", created.Email)
	}

	got, err := st.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Kind != "shadow-ai" || got.FinalScore != 72 || got.Band != "Exposed" || got.FlagCount != 1 {
		t.Errorf("unexpected row: %+v", got)
	}
	if !got.MarketingOptIn {
		t.Error("MarketingOptIn lost in round trip")
	}
	if string(got.Result) != `{"kind":"shadow-ai","data":{},"metadata":{}}` {
		t.Errorf("Result = %s", got.Result)
	}
	if got.Delivery != nil || got.DeliveredAt != nil {
		t.Error("a new submission should have no delivery record")
	}
	if time.Since(got.CreatedAt) > time.Minute {
		t.Errorf("CreatedAt looks wrong: %v", got.CreatedAt)
	}
}

func TestGet_NotFound(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.Get(context.Background(), uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestClaimAndFinishDelivery(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	sub := mustCreate(t, st, createParams("a@example.com"))

	claimed, err := st.ClaimDelivery(ctx, sub.ID)
	if err != nil {
		t.Fatalf("ClaimDelivery: %v", err)
	}
	if claimed.Status != store.StatusProcessing || claimed.Attempts != 1 {
		t.Errorf("claimed = status %q attempts %d", claimed.Status, claimed.Attempts)
	}

	if _, err := st.ClaimDelivery(ctx, sub.ID); !errors.Is(err, store.ErrNotClaimable) {
		t.Errorf("second claim: want ErrNotClaimable, got %v", err)
	}

	d := store.Delivery{EmailID: "msg_1", ContactID: "hs_1", NoteIncluded: true}
	if err := st.FinishDelivery(ctx, sub.ID, store.StatusDelivered, d); err != nil {
		t.Fatalf("FinishDelivery: %v", err)
	}
	got, err := st.Get(ctx, sub.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != store.StatusDelivered || got.DeliveredAt == nil {
		t.Errorf("status %q deliveredAt %v", got.Status, got.DeliveredAt)
	}
	if got.Delivery == nil || *got.Delivery != d {
		t.Errorf("Delivery = %+v, want %+v", got.Delivery, d)
	}
}

func TestClaimDelivery_Missing(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.ClaimDelivery(context.Background(), uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestClaimDelivery_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	st := openTestStore(t)
	sub := mustCreate(t, st, createParams("race@example.com"))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.ClaimDelivery(context.Background(), sub.ID); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Errorf("expected exactly one successful claim, got %d", wins)
	}
}

func TestFinishDelivery_RejectsNonFinalStatus(t *testing.T) {
	st := openTestStore(t)
	sub := mustCreate(t, st, createParams("a@example.com"))
	if err := st.FinishDelivery(context.Background(), sub.ID, store.StatusPending, store.Delivery{}); err == nil {
		t.Fatal("expected error for a non-final status")
	}
}

func TestFinishDelivery_Failed(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	sub := mustCreate(t, st, createParams("a@example.com"))
	if _, err := st.ClaimDelivery(ctx, sub.ID); err != nil {
		t.Fatalf("ClaimDelivery: %v", err)
	}
	if err := st.FinishDelivery(ctx, sub.ID, store.StatusFailed, store.Delivery{EmailError: "resend: 422"}); err != nil {
		t.Fatalf("FinishDelivery: %v", err)
	}
	got, _ := st.Get(ctx, sub.ID)
	if got.Status != store.StatusFailed || got.DeliveredAt != nil {
		t.Errorf("status %q deliveredAt %v", got.Status, got.DeliveredAt)
	}
	if got.Delivery == nil || got.Delivery.EmailError != "resend: 422" {
		t.Errorf("Delivery = %+v", got.Delivery)
	}
}

func TestRequeue(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	sub := mustCreate(t, st, createParams("a@example.com"))

	if _, err := st.ClaimDelivery(ctx, sub.ID); err != nil {
		t.Fatalf("ClaimDelivery: %v", err)
	}
	if err := st.Requeue(ctx, sub.ID); !errors.Is(err, store.ErrDeliveryInFlight) {
		t.Errorf("requeue while processing: want ErrDeliveryInFlight, got %v", err)
	}
	if err := st.FinishDelivery(ctx, sub.ID, store.StatusFailed, store.Delivery{}); err != nil {
		t.Fatalf("FinishDelivery: %v", err)
	}
	if err := st.Requeue(ctx, sub.ID); err != nil {
		t.Fatalf("Requeue: %v", err)
	}
	ids, err := st.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(ids) != 1 || ids[0] != sub.ID {
		t.Errorf("ListPending = %v, want [%s]", ids, sub.ID)
	}
	if err := st.Requeue(ctx, uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("requeue unknown: want ErrNotFound, got %v", err)
	}
}

func TestReclaimStale_RecoversInterruptedDelivery(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	stuck := mustCreate(t, st, createParams("stuck@example.com"))
	fresh := mustCreate(t, st, createParams("fresh@example.com"))

	if _, err := st.ClaimDelivery(ctx, stuck.ID); err != nil {
		t.Fatalf("ClaimDelivery: %v", err)
	}

	// The worker's context is gone, so the outcome never lands.
	dead, cancel := context.WithCancel(ctx)
	cancel()
	if err := st.FinishDelivery(dead, stuck.ID, store.StatusDelivered, store.Delivery{}); err == nil {
		t.Fatal("FinishDelivery on a cancelled context: want error")
	}

	// A cutoff before the claim leaves the row alone.
	n, err := st.ReclaimStale(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ReclaimStale: %v", err)
	}
	if n != 0 {
		t.Errorf("ReclaimStale with old cutoff = %d, want 0", n)
	}

	n, err = st.ReclaimStale(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("ReclaimStale: %v", err)
	}
	if n != 1 {
		t.Errorf("ReclaimStale = %d, want 1", n)
	}

	got, err := st.Get(ctx, stuck.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != store.StatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
	ids, err := st.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("ListPending = %v, want both %s and %s", ids, stuck.ID, fresh.ID)
	}
	if _, err := st.ClaimDelivery(ctx, stuck.ID); err != nil {
		t.Errorf("ClaimDelivery after reclaim: %v", err)
	}
}

func TestDelete(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	sub := mustCreate(t, st, createParams("a@example.com"))
	claimed := mustCreate(t, st, createParams("b@example.com"))

	if err := st.Delete(ctx, sub.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Get(ctx, sub.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get after Delete: want ErrNotFound, got %v", err)
	}

	if _, err := st.ClaimDelivery(ctx, claimed.ID); err != nil {
		t.Fatalf("ClaimDelivery: %v", err)
	}
	if err := st.Delete(ctx, claimed.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Delete claimed row: want ErrNotFound, got %v", err)
	}
	if _, err := st.Get(ctx, claimed.ID); err != nil {
		t.Errorf("claimed row should survive Delete: %v", err)
	}
}

func TestList_FiltersAndPaging(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for i := range 3 {
		mustCreate(t, st, createParams(fmt.Sprintf("s%d@example.com", i)))
	}
	p := createParams("b@example.com")
	p.Kind = "board-governance"
	board := mustCreate(t, st, p)

	all, err := st.List(ctx, store.ListParams{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("List all: got %d rows, want 4", len(all))
	}

	boards, err := st.List(ctx, store.ListParams{Kind: "board-governance"})
	if err != nil {
		t.Fatalf("List kind: %v", err)
	}
	if len(boards) != 1 || boards[0].ID != board.ID {
		t.Errorf("List kind = %+v", boards)
	}

	page, err := st.List(ctx, store.ListParams{Status: store.StatusPending, Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("List page: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("page size = %d, want 2", len(page))
	}

	none, err := st.List(ctx, store.ListParams{Status: store.StatusDelivered})
	if err != nil {
		t.Fatalf("List delivered: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected an empty, non-nil slice, got %v", none)
	}
}

func TestFindRecent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	sub := mustCreate(t, st, createParams("a@example.com"))

	got, err := st.FindRecent(ctx, sub.Fingerprint, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("FindRecent: %v", err)
	}
	if got.ID != sub.ID {
		t.Errorf("FindRecent id = %s, want %s", got.ID, sub.ID)
	}

	if _, err := st.FindRecent(ctx, sub.Fingerprint, time.Now().Add(time.Hour)); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("future window: want ErrNotFound, got %v", err)
	}
	if _, err := st.FindRecent(ctx, "other", time.Time{}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("other fingerprint: want ErrNotFound, got %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	sub := mustCreate(t, st, createParams("a@example.com"))
	subs, err := st.List(ctx, store.ListParams{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	var buf bytes.Buffer
	if err := store.WriteCSV(&buf, subs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(store.LeadLogHeader, ",") {
		t.Errorf("header = %v", records[0])
	}
	row := records[1]
	if row[0] != sub.ID.String() || row[2] != "shadow-ai" || row[7] != "72" || row[10] != "pending" {
		t.Errorf("row = %v", row)
	}
	if row[12] != "" {
		t.Errorf("delivered_at should be empty, got %q", row[12])
	}
}
