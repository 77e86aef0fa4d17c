// Package refine corrects noisy per-listing predictions by majority voting
// within groups sharing a ranking/transaction code, falling back to
// catalogue maker/brand matching when the group vote is inconclusive.
//
// Refinement is strictly two-pass: the whole stream is observed and buffered
// first, group ratios are frozen, and only then are rows replayed and
// revised. Revising a row can therefore never influence the ratio of its own
// group.
package refine

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/brandsift/pkg/brandsift/catalogue"
	"github.com/cognicore/brandsift/pkg/brandsift/jancode"
)

// NoGroup is the sentinel ranking code meaning "listing belongs to no group".
const NoGroup = "0"

// minRefineFields is the prediction-shape width a row needs before it can be
// revised; narrower rows still vote in pass one but are replayed unchanged.
const minRefineFields = 12

// State tracks a group through the two passes.
type State int

// Group states.
const (
	Unseen State = iota
	Counted
	Decided
)

// Group holds one ranking code's vote statistics.
type Group struct {
	state   State
	preds   map[string]int
	Total   int
	Ratio   float64
	Verdict string // "TRUE" on a strict majority, "NONE" otherwise
}

// Refiner accumulates group votes in pass one and replays the buffered rows
// in pass two.
type Refiner struct {
	index        *catalogue.Index
	makerBrand   string
	productBrand string

	groups map[string]*Group
	lines  []string
}

// New creates a Refiner. The target brand strings are case-folded once here;
// catalogue entries are lowercased on load.
func New(index *catalogue.Index, makerBrand, productBrand string) *Refiner {
	return &Refiner{
		index:        index,
		makerBrand:   strings.ToLower(makerBrand),
		productBrand: strings.ToLower(productBrand),
		groups:       make(map[string]*Group),
	}
}

// Observe buffers one row and counts its prediction into the row's group.
// Rows with fewer than four fields or the NoGroup sentinel are buffered but
// do not vote.
func (r *Refiner) Observe(line string) {
	r.lines = append(r.lines, line)

	parts := strings.Split(line, "\t")
	if len(parts) < 4 {
		return
	}
	prediction, rancode := parts[0], parts[3]
	if rancode == NoGroup {
		return
	}

	g := r.groups[rancode]
	if g == nil {
		g = &Group{state: Counted, preds: make(map[string]int)}
		r.groups[rancode] = g
	}
	g.preds[prediction]++
}

// Decide freezes every group: the TRUE ratio is computed from the observed
// votes and the verdict is TRUE only on a strict majority (> 0.5, not >=).
// Idempotent; groups already decided keep their frozen ratio.
func (r *Refiner) Decide() {
	for _, g := range r.groups {
		if g.state == Decided {
			continue
		}
		total := 0
		for _, n := range g.preds {
			total += n
		}
		g.Total = total
		if total > 0 {
			g.Ratio = float64(g.preds["TRUE"]) / float64(total)
		}
		if g.Ratio > 0.5 {
			g.Verdict = "TRUE"
		} else {
			g.Verdict = "NONE"
		}
		g.state = Decided
	}
}

// Groups returns the number of voting groups observed.
func (r *Refiner) Groups() int {
	return len(r.groups)
}

// Buffered returns the number of rows held for replay.
func (r *Refiner) Buffered() int {
	return len(r.lines)
}

// Group returns the frozen statistics for a ranking code.
func (r *Refiner) Group(rancode string) (Group, bool) {
	g, ok := r.groups[rancode]
	if !ok {
		return Group{}, false
	}
	return *g, true
}

// Refine replays the buffered rows, rewriting each row's prediction field
// where the evidence warrants, and writes every row to w. Groups are decided
// first if they are not already.
//
// Per row: the NoGroup sentinel and too-narrow rows pass through unchanged.
// A strict group majority forces TRUE unconditionally, winning over any
// catalogue evidence. Otherwise the row is revised to TRUE only when the
// catalogue knows the item and both the maker and the brand match.
func (r *Refiner) Refine(w io.Writer) error {
	r.Decide()

	bw := bufio.NewWriter(w)
	for _, line := range r.lines {
		if _, err := fmt.Fprintln(bw, r.refineLine(line)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (r *Refiner) refineLine(line string) string {
	parts := strings.Split(line, "\t")
	if len(parts) < minRefineFields {
		return line
	}

	rancode := parts[3]
	if rancode == NoGroup {
		return line
	}

	if g, ok := r.groups[rancode]; ok && g.Ratio > 0.5 {
		parts[0] = "TRUE"
		return strings.Join(parts, "\t")
	}

	janCode := jancode.FromRancode(rancode)
	company := jancode.Alias(janCode)
	if !r.index.HasCompany(company) {
		return line
	}
	entry, ok := r.index.Lookup(company, janCode)
	if !ok {
		return line
	}

	if entry.MatchesMaker(r.makerBrand) && entry.MatchesBrand(r.productBrand) {
		parts[0] = "TRUE"
		return strings.Join(parts, "\t")
	}
	return line
}
