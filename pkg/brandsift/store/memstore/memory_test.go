package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/cognicore/brandsift/pkg/brandsift/store"
)

func TestTokenStatRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	if err := s.UpsertTokenStat(ctx, store.TokenStat{Token: "アラジン", TrueFreq: 12, FalseFreq: 1}); err != nil {
		t.Fatalf("UpsertTokenStat: %v", err)
	}

	st, ok, err := s.GetTokenStat(ctx, "アラジン")
	if err != nil || !ok {
		t.Fatalf("GetTokenStat: ok=%v err=%v", ok, err)
	}
	if st.TrueFreq != 12 || st.FalseFreq != 1 {
		t.Errorf("stat = %+v", st)
	}

	if _, ok, _ := s.GetTokenStat(ctx, "missing"); ok {
		t.Error("missing token should not be found")
	}
}

func TestUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	s := New()

	s.UpsertTokenStat(ctx, store.TokenStat{Token: "x", TrueFreq: 1})
	s.UpsertTokenStat(ctx, store.TokenStat{Token: "x", TrueFreq: 5, FalseFreq: 2})

	all, err := s.AllTokenStats(ctx)
	if err != nil {
		t.Fatalf("AllTokenStats: %v", err)
	}
	if len(all) != 1 || all[0].TrueFreq != 5 || all[0].FalseFreq != 2 {
		t.Errorf("all = %+v", all)
	}
}

func TestAllTokenStatsSorted(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, tok := range []string{"b", "a", "c"} {
		s.UpsertTokenStat(ctx, store.TokenStat{Token: tok})
	}

	all, _ := s.AllTokenStats(ctx)
	if len(all) != 3 || all[0].Token != "a" || all[2].Token != "c" {
		t.Errorf("all = %+v, want sorted by token", all)
	}
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := s.RecordRun(ctx, store.Run{
			ID:        string(rune('a' + i)),
			Mode:      "tokens",
			Records:   int64(i),
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
}
