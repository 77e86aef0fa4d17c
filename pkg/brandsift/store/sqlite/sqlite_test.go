package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/brandsift/pkg/brandsift/store"
)

func open(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "brandsift.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTokenStatRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	if err := s.UpsertTokenStat(ctx, store.TokenStat{Token: "アラジン", TrueFreq: 12, FalseFreq: 1}); err != nil {
		t.Fatalf("UpsertTokenStat: %v", err)
	}
	if err := s.UpsertTokenStat(ctx, store.TokenStat{Token: "アラジン", TrueFreq: 14, FalseFreq: 2}); err != nil {
		t.Fatalf("UpsertTokenStat (update): %v", err)
	}

	st, ok, err := s.GetTokenStat(ctx, "アラジン")
	if err != nil {
		t.Fatalf("GetTokenStat: %v", err)
	}
	if !ok {
		t.Fatal("token not found after upsert")
	}
	if st.TrueFreq != 14 || st.FalseFreq != 2 {
		t.Errorf("stat = %+v, want upserted values", st)
	}

	if _, ok, err := s.GetTokenStat(ctx, "missing"); err != nil || ok {
		t.Errorf("missing lookup: ok=%v err=%v", ok, err)
	}
}

func TestAllTokenStats(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	for _, tok := range []string{"b", "a", "c"} {
		if err := s.UpsertTokenStat(ctx, store.TokenStat{Token: tok, TrueFreq: 1}); err != nil {
			t.Fatalf("UpsertTokenStat: %v", err)
		}
	}

	all, err := s.AllTokenStats(ctx)
	if err != nil {
		t.Fatalf("AllTokenStats: %v", err)
	}
	if len(all) != 3 || all[0].Token != "a" || all[2].Token != "c" {
		t.Errorf("all = %+v, want sorted by token", all)
	}
}

func TestRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := s.RecordRun(ctx, store.Run{
			ID:        string(rune('a' + i)),
			Mode:      "tokens",
			Records:   int64(10 * i),
			Tokens:    int64(i),
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := s.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != "c" || runs[1].ID != "b" {
		t.Errorf("runs = %+v, want newest first", runs)
	}
	if !runs[0].StartedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("StartedAt = %v, want round-tripped timestamp", runs[0].StartedAt)
	}
}
