// Package aggregate builds the token→prediction→{frequency, source-index,
// category} index used to review and re-tune the token dictionaries. The
// emitted token list feeds straight back into tokendict.Load.
package aggregate

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// labelRecord accumulates per-prediction evidence for one token.
type labelRecord struct {
	freq       int
	indexes    map[string]int
	categories map[string]int
}

// Reporter consumes predicted listings and indexes their title tokens.
//
// ItemSet and ProdSet are provenance membership sets consulted only when
// emitting. No load path in this package populates them; unless an external
// collaborator fills them in, the provenance flag reads "NONE".
type Reporter struct {
	tokens map[string]int
	comp   map[string]map[string]*labelRecord

	ItemSet map[string]struct{}
	ProdSet map[string]struct{}
}

// NewReporter creates an empty reporter.
func NewReporter() *Reporter {
	return &Reporter{
		tokens: make(map[string]int),
		comp:   make(map[string]map[string]*labelRecord),
	}
}

// Process indexes every whitespace-delimited token of one listing's usable
// title under its prediction label.
func (r *Reporter) Process(prediction, index, category, title string) {
	for _, token := range strings.Fields(title) {
		r.tokens[token]++

		byLabel := r.comp[token]
		if byLabel == nil {
			byLabel = make(map[string]*labelRecord)
			r.comp[token] = byLabel
		}
		rec := byLabel[prediction]
		if rec == nil {
			rec = &labelRecord{
				indexes:    make(map[string]int),
				categories: make(map[string]int),
			}
			byLabel[prediction] = rec
		}
		rec.freq++
		rec.indexes[index]++
		rec.categories[category]++
	}
}

// Tokens returns the number of distinct tokens indexed.
func (r *Reporter) Tokens() int {
	return len(r.tokens)
}

var (
	wordChar     = regexp.MustCompile(`[\p{L}\p{N}_]`)
	pureNumeric  = regexp.MustCompile(`^[0-9]+$`)
	quantityUnit = regexp.MustCompile(`^[0-9,]+(kg|g|ml|l)$`)
)

// emittable is the output filter: tokens shorter than two runes, without a
// single word character, purely numeric, or bare quantity+unit tokens are
// dropped from the refined list.
func emittable(token string) bool {
	if len([]rune(token)) < 2 {
		return false
	}
	if !wordChar.MatchString(token) {
		return false
	}
	if pureNumeric.MatchString(token) {
		return false
	}
	if quantityUnit.MatchString(token) {
		return false
	}
	return true
}

// WriteTokenList renders the refined token list, one tab-separated line per
// emittable token in sorted order: TRUE frequency, FALSE frequency, token,
// provenance flag. With withIndex set, each line also carries the
// numerically sorted source-index list and the category:frequency list per
// label.
func (r *Reporter) WriteTokenList(w io.Writer, withIndex bool) error {
	sorted := make([]string, 0, len(r.tokens))
	for token := range r.tokens {
		sorted = append(sorted, token)
	}
	sort.Strings(sorted)

	bw := bufio.NewWriter(w)
	for _, token := range sorted {
		if !emittable(token) {
			continue
		}

		trueNum := r.freq(token, "TRUE")
		falseNum := r.freq(token, "FALSE")

		var err error
		if withIndex {
			_, err = fmt.Fprintf(bw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				trueNum, falseNum, token, r.provenance(token),
				r.indexList(token, "TRUE", "NO_TRUE_LIST"),
				r.indexList(token, "FALSE", "NO_FALSE_LIST"),
				r.categoryList(token, "TRUE"),
				r.categoryList(token, "FALSE"))
		} else {
			_, err = fmt.Fprintf(bw, "%d\t%d\t%s\t%s\n",
				trueNum, falseNum, token, r.provenance(token))
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// TokenStat is one row of the refined token list, for persisting to a store.
type TokenStat struct {
	Token     string
	TrueFreq  int64
	FalseFreq int64
}

// TokenStats returns the emittable tokens with their per-label frequencies,
// sorted by token.
func (r *Reporter) TokenStats() []TokenStat {
	var out []TokenStat
	for token := range r.tokens {
		if !emittable(token) {
			continue
		}
		out = append(out, TokenStat{
			Token:     token,
			TrueFreq:  int64(r.freq(token, "TRUE")),
			FalseFreq: int64(r.freq(token, "FALSE")),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out
}

func (r *Reporter) freq(token, label string) int {
	if rec, ok := r.comp[token][label]; ok {
		return rec.freq
	}
	return 0
}

func (r *Reporter) provenance(token string) string {
	var flags []string
	if _, ok := r.ItemSet[token]; ok {
		flags = append(flags, "Item")
	}
	if _, ok := r.ProdSet[token]; ok {
		flags = append(flags, "Prod")
	}
	if len(flags) == 0 {
		return "NONE"
	}
	return strings.Join(flags, "/")
}

func (r *Reporter) indexList(token, label, fallback string) string {
	rec, ok := r.comp[token][label]
	if !ok {
		return fallback
	}
	idx := make([]string, 0, len(rec.indexes))
	for i := range rec.indexes {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool { return lessNumeric(idx[a], idx[b]) })
	return strings.Join(idx, ",")
}

// lessNumeric orders index strings numerically, falling back to string
// order when either side does not parse.
func lessNumeric(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

func (r *Reporter) categoryList(token, label string) string {
	rec, ok := r.comp[token][label]
	if !ok {
		return ""
	}
	names := make([]string, 0, len(rec.categories))
	for name := range rec.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s:%d", name, rec.categories[name]))
	}
	return strings.Join(parts, ",")
}
