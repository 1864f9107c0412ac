// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/semaphore"

	"github.com/danielhkuo/party-registry/models"
	"github.com/danielhkuo/party-registry/testutil"
)

func strPtr(s string) *string { return &s }

func sampleRecord(name, abbreviation string) models.PartyRecord {
	return models.PartyRecord{
		Name:         name,
		Abbreviation: abbreviation,
		FoundingDate: "2024-01-15",
		Headquarters: "Cusco",
	}
}

// newTestStore returns a sqlite-backed store whose clock advances one
// second per call, so registration order is deterministic
func newTestStore(t *testing.T) (*Store, *sqlx.DB) {
	t.Helper()
	cfg := testutil.GetTestConfig(t)
	conn := testutil.SetupTestDB(t, cfg)

	s := New(conn, cfg.MaxOpenConns, cfg.QueueTimeout)
	var mu sync.Mutex
	clock := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
	return s, conn
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	in := sampleRecord("Cusco Unido", "CU")
	in.ID = "client-chosen"
	in.Ideology = strPtr(models.IdeologyCenter)
	in.RepresentativeColor = strPtr("#DC2626")

	created, err := s.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == "" || created.ID == "client-chosen" {
		t.Errorf("expected a store-assigned ID, got %q", created.ID)
	}
	if !created.Active {
		t.Error("new party should be active")
	}
	if created.RegisteredAt.IsZero() {
		t.Error("registration time not set")
	}
	if created.LogoURL != nil {
		t.Errorf("expected no logo, got %q", *created.LogoURL)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Cusco Unido" || got.Abbreviation != "CU" || got.Headquarters != "Cusco" {
		t.Errorf("unexpected party: %+v", got)
	}
	if got.FoundingDate != "2024-01-15" {
		t.Errorf("expected founding date 2024-01-15, got %q", got.FoundingDate)
	}
	if got.Ideology == nil || *got.Ideology != models.IdeologyCenter {
		t.Errorf("unexpected ideology %v", got.Ideology)
	}
	if !got.RegisteredAt.Equal(created.RegisteredAt) {
		t.Errorf("registeredAt %v, want %v", got.RegisteredAt, created.RegisteredAt)
	}
}

func TestGet_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	ideologies := []string{models.IdeologyLeft, models.IdeologyRight, models.IdeologyLeft, ""}
	var ids []string
	for i, ideology := range ideologies {
		rec := sampleRecord("Party", string(rune('A'+i)))
		if ideology != "" {
			rec.Ideology = strPtr(ideology)
		}
		created, err := s.Create(ctx, rec)
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		ids = append(ids, created.ID)
	}

	testCases := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"all newest first", ListOptions{}, []string{ids[3], ids[2], ids[1], ids[0]}},
		{"by ideology", ListOptions{Ideology: models.IdeologyLeft}, []string{ids[2], ids[0]}},
		{"first page", ListOptions{Limit: 2}, []string{ids[3], ids[2]}},
		{"second page", ListOptions{Limit: 2, Offset: 2}, []string{ids[1], ids[0]}},
		{"past the end", ListOptions{Limit: 2, Offset: 10}, []string{}},
		{"unknown ideology", ListOptions{Ideology: models.IdeologyNationalist}, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parties, err := s.List(ctx, tc.opts)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if parties == nil {
				t.Fatal("expected an empty slice, not nil")
			}
			if len(parties) != len(tc.want) {
				t.Fatalf("expected %d parties, got %d", len(tc.want), len(parties))
			}
			for i, p := range parties {
				if p.ID != tc.want[i] {
					t.Errorf("position %d: expected %s, got %s", i, tc.want[i], p.ID)
				}
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	in := sampleRecord("Cusco Unido", "CU")
	in.LogoURL = strPtr("/uploads/original.png")
	created, err := s.Create(ctx, in)
	if err != nil {
		t.Fatal(err)
	}

	// No logo supplied: the stored one stays
	changed := sampleRecord("Cusco Unido Renovado", "CUR")
	changed.FoundingDate = "2023-12-31"
	updated, err := s.Update(ctx, created.ID, changed)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Cusco Unido Renovado" || updated.Abbreviation != "CUR" || updated.FoundingDate != "2023-12-31" {
		t.Errorf("fields not updated: %+v", updated)
	}
	if updated.LogoURL == nil || *updated.LogoURL != "/uploads/original.png" {
		t.Errorf("expected logo to be kept, got %v", updated.LogoURL)
	}
	if updated.ID != created.ID || !updated.RegisteredAt.Equal(created.RegisteredAt) {
		t.Error("ID or registration time changed on update")
	}

	// New logo supplied: it replaces the stored one
	changed.LogoURL = strPtr("/uploads/replacement.png")
	updated, err = s.Update(ctx, created.ID, changed)
	if err != nil {
		t.Fatalf("second Update failed: %v", err)
	}
	if updated.LogoURL == nil || *updated.LogoURL != "/uploads/replacement.png" {
		t.Errorf("expected replacement logo, got %v", updated.LogoURL)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "does-not-exist", sampleRecord("Ghost", "GH"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if n := testutil.CountRows(t, conn); n != 0 {
		t.Errorf("update of a missing party inserted %d rows", n)
	}

	// Deleted parties cannot be updated either
	created, err := s.Create(ctx, sampleRecord("Cusco Unido", "CU"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Update(ctx, created.ID, sampleRecord("Back", "BK")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for deleted party, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	keep, _ := s.Create(ctx, sampleRecord("Keep", "KP"))
	gone, _ := s.Create(ctx, sampleRecord("Gone", "GN"))

	if err := s.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := s.Get(ctx, gone.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected deleted party to be hidden, got %v", err)
	}
	parties, err := s.List(ctx, ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(parties) != 1 || parties[0].ID != keep.ID {
		t.Errorf("expected only %s listed, got %+v", keep.ID, parties)
	}

	if err := s.Delete(ctx, gone.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	// Soft delete keeps the row
	if n := testutil.CountRows(t, conn); n != 2 {
		t.Errorf("expected 2 rows after soft delete, got %d", n)
	}
}

func TestStats(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for i, ideology := range []string{models.IdeologyLeft, models.IdeologyLeft, models.IdeologyCenter, ""} {
		rec := sampleRecord("Party", string(rune('A'+i)))
		if ideology != "" {
			rec.Ideology = strPtr(ideology)
		}
		if _, err := s.Create(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
	deleted, _ := s.Create(ctx, sampleRecord("Deleted", "DL"))
	if err := s.Delete(ctx, deleted.ID); err != nil {
		t.Fatal(err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("expected total 4, got %d", stats.Total)
	}
	if stats.ByIdeology[models.IdeologyLeft] != 2 || stats.ByIdeology[models.IdeologyCenter] != 1 {
		t.Errorf("unexpected breakdown %v", stats.ByIdeology)
	}
	if _, ok := stats.ByIdeology[""]; ok {
		t.Error("blank ideology should not appear in the breakdown")
	}
}

func TestStats_Empty(t *testing.T) {
	s, _ := newTestStore(t)

	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 0 || stats.ByIdeology == nil || len(stats.ByIdeology) != 0 {
		t.Errorf("unexpected empty stats %+v", stats)
	}
}

func TestCreate_Concurrent(t *testing.T) {
	s, conn := newTestStore(t)
	s.slots = semaphore.NewWeighted(4)

	const n = 20
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := s.Create(context.Background(), sampleRecord("Party", "P"))
			ids[i], errs[i] = created.ID, err
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := range ids {
		if errs[i] != nil {
			t.Fatalf("create %d failed: %v", i, errs[i])
		}
		if seen[ids[i]] {
			t.Fatalf("duplicate ID %s", ids[i])
		}
		seen[ids[i]] = true
	}

	if got := testutil.CountRows(t, conn); got != n {
		t.Errorf("expected %d rows, got %d", n, got)
	}
}

// Failure paths the real drivers do not produce on demand

func newMockStore(t *testing.T, maxConcurrent int, queueTimeout time.Duration) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mockDB.Close()
	})
	return New(sqlx.NewDb(mockDB, "postgres"), maxConcurrent, queueTimeout), mock
}

func TestCreate_InsertFails(t *testing.T) {
	s, mock := newMockStore(t, 1, 0)
	mock.ExpectExec("INSERT INTO party").WillReturnError(errors.New("disk full"))

	_, err := s.Create(context.Background(), sampleRecord("Cusco Unido", "CU"))
	if !errors.Is(err, ErrNotPersisted) {
		t.Errorf("expected ErrNotPersisted, got %v", err)
	}
}

func TestDelete_RowsAffectedFails(t *testing.T) {
	s, mock := newMockStore(t, 1, 0)
	mock.ExpectExec("UPDATE party SET active").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver lost count")))

	if err := s.Delete(context.Background(), "abc"); !errors.Is(err, ErrNotPersisted) {
		t.Errorf("expected ErrNotPersisted, got %v", err)
	}
}

func TestUpdate_CommitFails(t *testing.T) {
	s, mock := newMockStore(t, 1, 0)

	rows := sqlmock.NewRows(models.Columns()).AddRow(
		"abc", "Cusco Unido", "CU", nil, "2024-01-15", "Cusco", nil, nil, true,
		time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE party").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .+ FROM party WHERE id").WillReturnRows(rows)
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	_, err := s.Update(context.Background(), "abc", sampleRecord("Cusco Unido", "CU"))
	if !errors.Is(err, ErrNotPersisted) {
		t.Errorf("expected ErrNotPersisted, got %v", err)
	}
}

func TestUpdate_MissingRollsBack(t *testing.T) {
	s, mock := newMockStore(t, 1, 0)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE party").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := s.Update(context.Background(), "abc", sampleRecord("Cusco Unido", "CU"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestQueueTimeout(t *testing.T) {
	s, _ := newMockStore(t, 1, 20*time.Millisecond)

	// Occupy the only slot
	if err := s.slots.Acquire(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	defer s.slots.Release(1)

	ctx := context.Background()
	if _, err := s.Get(ctx, "abc"); !errors.Is(err, ErrBusy) {
		t.Errorf("Get: expected ErrBusy, got %v", err)
	}
	if _, err := s.List(ctx, ListOptions{}); !errors.Is(err, ErrBusy) {
		t.Errorf("List: expected ErrBusy, got %v", err)
	}

	_, err := s.Create(ctx, sampleRecord("Cusco Unido", "CU"))
	if !errors.Is(err, ErrBusy) || !errors.Is(err, ErrNotPersisted) {
		t.Errorf("Create: expected ErrBusy and ErrNotPersisted, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Create: expected the deadline to be reported, got %v", err)
	}
}

func TestQueueTimeout_CallerCancelled(t *testing.T) {
	s, _ := newMockStore(t, 1, time.Hour)
	if err := s.slots.Acquire(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	defer s.slots.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Delete(ctx, "abc"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
