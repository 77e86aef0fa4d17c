// Package catalogue indexes product-master reference rows by company code
// and item code for brand cross-checking. Every entry is indexed twice: under
// the company code the catalogue supplies and under the alias derived from
// the item's JAN prefix, so a lookup by either code succeeds.
package catalogue

import (
	"bufio"
	"io"
	"strings"

	"github.com/cognicore/brandsift/pkg/brandsift/jancode"
)

// Entry holds the catalogue's naming for one (company, item) slot. All
// strings are lowercased on load.
type Entry struct {
	Maker     string
	Brand     string
	AltMaker  string
	AltBrands map[string]struct{}
}

// NameCounts tallies how often each maker/brand string occurs under a
// company code. Diagnostics only.
type NameCounts struct {
	Makers    map[string]int
	Brands    map[string]int
	AltMakers map[string]int
	AltBrands map[string]int
}

// Index is the two-level catalogue: company code → per-code name counts, and
// company code → item code → entry. Load is append-only; reloading a row
// overwrites the identically-keyed item slot and bumps the counts.
type Index struct {
	counts map[string]*NameCounts
	items  map[string]map[string]*Entry
}

// NewIndex creates an empty catalogue index.
func NewIndex() *Index {
	return &Index{
		counts: make(map[string]*NameCounts),
		items:  make(map[string]map[string]*Entry),
	}
}

// Load reads tab-separated catalogue rows: inclusion flag, item (JAN) code,
// company code, maker name, maker kana, maker formal name, brand name,
// alternate maker name, comma-separated alternate brands. Rows are
// lowercased whole; rows with fewer than nine fields are skipped.
func (ix *Index) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		parts := strings.Split(line, "\t")
		if len(parts) < 9 {
			continue
		}

		janCode := parts[1]
		makerCode := parts[2]
		maker := parts[3]
		brand := parts[6]
		altMaker := parts[7]
		altBrands := parts[8]

		// index under the catalogue code and the JAN-derived alias
		for _, code := range []string{makerCode, jancode.Alias(janCode)} {
			ix.add(code, janCode, maker, brand, altMaker, altBrands)
		}
	}
	return scanner.Err()
}

func (ix *Index) add(code, janCode, maker, brand, altMaker, altBrands string) {
	counts := ix.counts[code]
	if counts == nil {
		counts = &NameCounts{
			Makers:    make(map[string]int),
			Brands:    make(map[string]int),
			AltMakers: make(map[string]int),
			AltBrands: make(map[string]int),
		}
		ix.counts[code] = counts
	}
	counts.Makers[maker]++
	counts.Brands[brand]++

	if ix.items[code] == nil {
		ix.items[code] = make(map[string]*Entry)
	}
	entry := ix.items[code][janCode]
	if entry == nil {
		entry = &Entry{AltBrands: make(map[string]struct{})}
		ix.items[code][janCode] = entry
	}
	entry.Maker = maker
	entry.Brand = brand

	if altMaker != "" {
		counts.AltMakers[altMaker]++
		entry.AltMaker = altMaker
	}
	if altBrands != "" {
		for _, b := range strings.Split(altBrands, ",") {
			if b == "" {
				continue
			}
			counts.AltBrands[b]++
			entry.AltBrands[b] = struct{}{}
		}
	}
}

// Companies returns the number of indexed company codes (aliases included).
func (ix *Index) Companies() int {
	return len(ix.counts)
}

// HasCompany reports whether a company code (or alias) is indexed.
func (ix *Index) HasCompany(code string) bool {
	_, ok := ix.counts[code]
	return ok
}

// Lookup returns the entry for a (company code, item code) pair.
func (ix *Index) Lookup(company, item string) (*Entry, bool) {
	byItem, ok := ix.items[company]
	if !ok {
		return nil, false
	}
	entry, ok := byItem[item]
	return entry, ok
}

// MatchesMaker reports whether the target maker-brand string is contained in
// the entry's maker name or alternate maker name. The target is case-folded;
// entry names are already lowercase.
func (e *Entry) MatchesMaker(target string) bool {
	target = strings.ToLower(target)
	if e.Maker != "" && strings.Contains(e.Maker, target) {
		return true
	}
	if e.AltMaker != "" && strings.Contains(e.AltMaker, target) {
		return true
	}
	return false
}

// MatchesBrand reports whether the target product-brand string matches the
// entry's brand or any alternate brand by symmetric containment: either
// string may be a substring of the other. This covers both brand-as-prefix
// and target-as-prefix naming variants.
func (e *Entry) MatchesBrand(target string) bool {
	target = strings.ToLower(target)
	if e.Brand != "" && (strings.Contains(e.Brand, target) || strings.Contains(target, e.Brand)) {
		return true
	}
	for b := range e.AltBrands {
		if strings.Contains(b, target) || strings.Contains(target, b) {
			return true
		}
	}
	return false
}
