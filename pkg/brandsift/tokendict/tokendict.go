// Package tokendict holds the token→label dictionaries driving listing
// classification. Tokens are bucketed from labeled frequency rows: seen only
// with TRUE evidence, only with FALSE evidence, or with both (conflict).
// Manual override rows force-assign a token to a bucket after the base load.
package tokendict

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dictionary is the three-way token index. A token lives in at most one
// bucket at any time.
type Dictionary struct {
	trueTokens  map[string]int
	falseTokens map[string]int
	conflicts   map[string]string // "true_count|false_count"
}

// New creates an empty token dictionary.
func New() *Dictionary {
	return &Dictionary{
		trueTokens:  make(map[string]int),
		falseTokens: make(map[string]int),
		conflicts:   make(map[string]string),
	}
}

// Load populates the dictionary from tab-separated frequency rows:
// true_count, false_count, token. Rows with fewer than three fields or
// non-numeric counts are skipped. Tokens with zero TRUE evidence go to the
// FALSE bucket, zero FALSE evidence to the TRUE bucket, and anything with
// both to the conflict bucket.
func (d *Dictionary) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		parts := strings.Split(strings.TrimSpace(scanner.Text()), "\t")
		if len(parts) < 3 {
			continue
		}
		trueNum, err1 := strconv.Atoi(parts[0])
		falseNum, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			continue
		}
		token := parts[2]

		switch {
		case trueNum == 0:
			d.assignFalse(token, falseNum)
		case falseNum == 0:
			d.assignTrue(token, trueNum)
		default:
			d.assignConflict(token, trueNum, falseNum)
		}
	}
	return scanner.Err()
}

// LoadOverrides applies manual bucket assignments from tab-separated rows:
// flag, true_count, false_count, token. Flags TRUE/対象 force the TRUE
// bucket; FALSE/対象外/非対象 force the FALSE bucket. Overrides win over the
// base load and evict the token from every other bucket. Rows with unknown
// flags or fewer than four fields are skipped.
func (d *Dictionary) LoadOverrides(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		parts := strings.Split(strings.TrimSpace(scanner.Text()), "\t")
		if len(parts) < 4 {
			continue
		}
		flag := parts[0]
		trueNum, err1 := strconv.Atoi(parts[1])
		falseNum, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			continue
		}
		token := parts[3]

		switch flag {
		case "TRUE", "対象":
			d.assignTrue(token, trueNum)
		case "FALSE", "対象外", "非対象":
			d.assignFalse(token, falseNum)
		}
	}
	return scanner.Err()
}

func (d *Dictionary) assignTrue(token string, count int) {
	delete(d.falseTokens, token)
	delete(d.conflicts, token)
	d.trueTokens[token] = count
}

func (d *Dictionary) assignFalse(token string, count int) {
	delete(d.trueTokens, token)
	delete(d.conflicts, token)
	d.falseTokens[token] = count
}

func (d *Dictionary) assignConflict(token string, trueNum, falseNum int) {
	delete(d.trueTokens, token)
	delete(d.falseTokens, token)
	d.conflicts[token] = fmt.Sprintf("%d|%d", trueNum, falseNum)
}

// Sizes returns the bucket sizes (TRUE, FALSE, conflict) for diagnostics.
func (d *Dictionary) Sizes() (int, int, int) {
	return len(d.trueTokens), len(d.falseTokens), len(d.conflicts)
}

// Label reports which bucket a token occupies, if any.
func (d *Dictionary) Label(token string) (Label, bool) {
	if _, ok := d.trueTokens[token]; ok {
		return LabelTrue, true
	}
	if _, ok := d.falseTokens[token]; ok {
		return LabelFalse, true
	}
	if _, ok := d.conflicts[token]; ok {
		return LabelConflict, true
	}
	return Label(""), false
}

// Label names a dictionary bucket.
type Label string

// Bucket labels.
const (
	LabelTrue     Label = "TRUE"
	LabelFalse    Label = "FALSE"
	LabelConflict Label = "CONFLICT"
)

// Stats counts per-label token hits for one title.
type Stats struct {
	Tokens   int // whitespace-delimited tokens seen
	True     int
	False    int
	Conflict int
}

// Add merges another title's stats additively.
func (s *Stats) Add(other Stats) {
	s.Tokens += other.Tokens
	s.True += other.True
	s.False += other.False
	s.Conflict += other.Conflict
}

// Classify splits a title on whitespace and reports, per bucket, the hit
// count and the set of matched tokens. A token contributes to at most one
// bucket. The returned slices are de-duplicated in first-seen order.
func (d *Dictionary) Classify(title string) (Stats, []string, []string, []string) {
	var stats Stats
	var trueWords, falseWords, conflictWords []string
	seenTrue := make(map[string]struct{})
	seenFalse := make(map[string]struct{})
	seenConflict := make(map[string]struct{})

	for _, token := range strings.Fields(title) {
		stats.Tokens++
		if _, ok := d.trueTokens[token]; ok {
			stats.True++
			if _, dup := seenTrue[token]; !dup {
				seenTrue[token] = struct{}{}
				trueWords = append(trueWords, token)
			}
		} else if _, ok := d.falseTokens[token]; ok {
			stats.False++
			if _, dup := seenFalse[token]; !dup {
				seenFalse[token] = struct{}{}
				falseWords = append(falseWords, token)
			}
		} else if _, ok := d.conflicts[token]; ok {
			stats.Conflict++
			if _, dup := seenConflict[token]; !dup {
				seenConflict[token] = struct{}{}
				conflictWords = append(conflictWords, token)
			}
		}
	}

	return stats, trueWords, falseWords, conflictWords
}
