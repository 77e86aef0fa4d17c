package curate

import (
	"bytes"
	"strings"
	"testing"
)

func TestCountTokens(t *testing.T) {
	in := "12\t0\tアラジン\n0\t5\t中古\n3\t1\tストーブ\n0\t2\tジャンク\nshort\n"
	var out bytes.Buffer
	if err := CountTokens(strings.NewReader(in), &out); err != nil {
		t.Fatalf("CountTokens: %v", err)
	}
	want := "true:1,false:2,conflict:1 (total 4)\n"
	if out.String() != want {
		t.Errorf("CountTokens = %q, want %q", out.String(), want)
	}
}

func TestLoadReview(t *testing.T) {
	in := "TRUE\t5\t2\tアラジン\t1,2\t7,9\n" +
		"false\t1\t8\t中古\t3\t4,5\n" +
		"skip\t0\t0\tx\t6\t6\n" +
		"short\trow\n"
	updates, err := LoadReview(strings.NewReader(in))
	if err != nil {
		t.Fatalf("LoadReview: %v", err)
	}
	if len(updates) != 3 {
		t.Fatalf("updates = %v, want 3 entries", updates)
	}
	// TRUE tag flips the FALSE-list rows; FALSE tag flips the TRUE-list rows
	if updates["7"] != "TRUE" || updates["9"] != "TRUE" {
		t.Errorf("updates = %v", updates)
	}
	if updates["3"] != "FALSE" {
		t.Errorf("updates = %v", updates)
	}
}

func TestApplyReview(t *testing.T) {
	updates := map[string]string{"2": "TRUE"}
	in := "FALSE\t1\trest1\nFALSE\t2\trest2\nnotab\n"
	var out bytes.Buffer
	if err := ApplyReview(updates, strings.NewReader(in), &out); err != nil {
		t.Fatalf("ApplyReview: %v", err)
	}
	got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if got[0] != "FALSE\t1\trest1" {
		t.Errorf("row 0 = %q, want unchanged", got[0])
	}
	if got[1] != "TRUE\t2\trest2" {
		t.Errorf("row 1 = %q, want label flipped", got[1])
	}
	if got[2] != "notab" {
		t.Errorf("row 2 = %q, want passthrough", got[2])
	}
}

func TestPickResolved(t *testing.T) {
	preds, err := LoadPredictions(strings.NewReader("TRUE\t7\nFALSE\t8\n"))
	if err != nil {
		t.Fatalf("LoadPredictions: %v", err)
	}

	in := "TRUE\t1\ta\tb\n" + // non-UNKNOWN passes through
		"UNKNOWN\t7\tc\td\n" + // resolved to TRUE
		"UNKNOWN\t9\te\tf\n" // unresolved: dropped
	var out bytes.Buffer
	if err := PickResolved(preds, strings.NewReader(in), &out); err != nil {
		t.Fatalf("PickResolved: %v", err)
	}
	got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(got) != 2 {
		t.Fatalf("emitted %d rows, want 2: %q", len(got), got)
	}
	if got[0] != "TRUE\t1\ta\tb" {
		t.Errorf("row 0 = %q", got[0])
	}
	if got[1] != "TRUE\t7\tc\td" {
		t.Errorf("row 1 = %q", got[1])
	}
}
