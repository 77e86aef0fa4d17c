package refine

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/cognicore/brandsift/pkg/brandsift/catalogue"
)

const jan = "4901234567890"
const rancode = "1001000" + jan

func catalogueIndex(t *testing.T) *catalogue.Index {
	t.Helper()
	row := "1\t" + jan + "\t99887\tAladdin Co.\tアラジン\tAladdin Company Ltd.\tAladdin Blue Flame\tSengoku Aladdin\tAlad\n"
	ix := catalogue.NewIndex()
	if err := ix.Load(strings.NewReader(row)); err != nil {
		t.Fatalf("catalogue load: %v", err)
	}
	return ix
}

func predRow(prediction, index, code string) string {
	fields := []string{prediction, index, "TRUE", code, "ptitle", "ititle", "f6", "f7", "f8", "暖房", "f10", "f11"}
	return strings.Join(fields, "\t")
}

func runRefiner(t *testing.T, r *Refiner, rows []string) []string {
	t.Helper()
	for _, row := range rows {
		r.Observe(row)
	}
	var buf bytes.Buffer
	if err := r.Refine(&buf); err != nil {
		t.Fatalf("Refine: %v", err)
	}
	out := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(out) != len(rows) {
		t.Fatalf("emitted %d rows, want %d", len(out), len(rows))
	}
	return out
}

func TestMajorityForcesTrue(t *testing.T) {
	r := New(catalogueIndex(t), "nomatch", "nomatch")

	var rows []string
	for i := 0; i < 6; i++ {
		rows = append(rows, predRow("TRUE", fmt.Sprint(i), rancode))
	}
	for i := 6; i < 10; i++ {
		rows = append(rows, predRow("FALSE", fmt.Sprint(i), rancode))
	}

	out := runRefiner(t, r, rows)
	for i, line := range out {
		if !strings.HasPrefix(line, "TRUE\t") {
			t.Errorf("row %d not forced TRUE despite 0.6 majority: %q", i, line)
		}
	}

	g, ok := r.Group(rancode)
	if !ok {
		t.Fatal("group missing")
	}
	if g.Ratio != 0.6 || g.Total != 10 || g.Verdict != "TRUE" {
		t.Errorf("group = %+v, want ratio 0.6, total 10, TRUE", g)
	}
}

func TestExactHalfIsNotMajority(t *testing.T) {
	// 1 TRUE / 1 FALSE: ratio 0.5, strict majority required, so the
	// catalogue decides. Maker and brand both match, so rows flip TRUE.
	r := New(catalogueIndex(t), "Aladdin", "Aladdin")
	rows := []string{predRow("TRUE", "1", rancode), predRow("FALSE", "2", rancode)}

	out := runRefiner(t, r, rows)
	g, _ := r.Group(rancode)
	if g.Verdict != "NONE" {
		t.Errorf("group verdict = %s, want NONE at ratio 0.5", g.Verdict)
	}
	for _, line := range out {
		if !strings.HasPrefix(line, "TRUE\t") {
			t.Errorf("catalogue evidence should flip row: %q", line)
		}
	}
}

func TestCatalogueRequiresBothFlags(t *testing.T) {
	// maker matches, brand does not: row must stay unchanged
	r := New(catalogueIndex(t), "Aladdin", "Toyotomi")
	rows := []string{predRow("FALSE", "1", rancode), predRow("FALSE", "2", rancode)}

	out := runRefiner(t, r, rows)
	for i, line := range out {
		if line != rows[i] {
			t.Errorf("row %d revised without a brand match: %q", i, line)
		}
	}
}

func TestUnknownCompanyPassesThrough(t *testing.T) {
	r := New(catalogueIndex(t), "Aladdin", "Aladdin")
	other := "1001000" + "1234567890123" // company code not in the catalogue
	rows := []string{predRow("FALSE", "1", other)}

	out := runRefiner(t, r, rows)
	if out[0] != rows[0] {
		t.Errorf("row revised despite unknown company: %q", out[0])
	}
}

func TestNoGroupSentinelPassesThrough(t *testing.T) {
	r := New(catalogueIndex(t), "Aladdin", "Aladdin")
	rows := []string{predRow("FALSE", "1", NoGroup)}

	out := runRefiner(t, r, rows)
	if out[0] != rows[0] {
		t.Errorf("sentinel row revised: %q", out[0])
	}
	if r.Groups() != 0 {
		t.Errorf("sentinel rows must not form groups, got %d", r.Groups())
	}
}

func TestNarrowRowsVoteButReplayUnchanged(t *testing.T) {
	r := New(catalogueIndex(t), "nomatch", "nomatch")
	narrow := strings.Join([]string{"TRUE", "1", "TRUE", rancode}, "\t")
	rows := []string{narrow, predRow("FALSE", "2", rancode)}

	out := runRefiner(t, r, rows)
	if out[0] != narrow {
		t.Errorf("narrow row must replay unchanged: %q", out[0])
	}
	g, _ := r.Group(rancode)
	if g.Total != 2 {
		t.Errorf("group total = %d, want 2 (narrow row still votes)", g.Total)
	}
}

func TestRevisionDoesNotAffectRatios(t *testing.T) {
	// maker+brand both match, so the lone FALSE row flips in pass two;
	// the frozen ratio must still reflect the original labels only.
	r := New(catalogueIndex(t), "Aladdin", "Aladdin")
	rows := []string{predRow("FALSE", "1", rancode)}

	runRefiner(t, r, rows)
	g, _ := r.Group(rancode)
	if g.Ratio != 0 {
		t.Errorf("ratio = %v, want 0 from unrevised labels", g.Ratio)
	}
}
