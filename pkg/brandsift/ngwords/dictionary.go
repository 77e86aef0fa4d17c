// Package ngwords removes promotional noise from listing titles. Cleanup
// runs in two stages: an ordered regular-expression rewrite pipeline for
// structured noise (dates, prices, quantities), then recursive exact-match
// removal of dictionary words indexed by rune length and first rune.
package ngwords

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strings"
)

// WildcardMarker tags a dictionary word that should also be registered as a
// regular expression in the pattern registry.
const WildcardMarker = "?"

// Dictionary indexes noise words by rune length, then by first rune, for the
// recursive removal scan. Words containing the wildcard marker are
// additionally compiled into a pattern registry; the registry is populated
// for compatibility with the word-list format but is not consulted during
// removal, which is exact-match only.
type Dictionary struct {
	byLen    []map[rune]map[string]struct{} // position = word rune length
	lengths  []int                          // known lengths, descending
	patterns map[string]*regexp.Regexp
}

// NewDictionary creates an empty NG-word dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{patterns: make(map[string]*regexp.Regexp)}
}

// Add registers a noise word. Empty words are ignored. A word containing
// the wildcard marker is also compiled into the pattern registry; a word
// that fails to compile is dropped from the registry only and still
// participates in exact-match removal.
func (d *Dictionary) Add(word string) {
	if word == "" {
		return
	}

	if strings.Contains(word, WildcardMarker) {
		if re, err := regexp.Compile(word); err == nil {
			d.patterns[word] = re
		}
	}

	runes := []rune(word)
	n := len(runes)
	for len(d.byLen) <= n {
		d.byLen = append(d.byLen, nil)
	}
	if d.byLen[n] == nil {
		d.byLen[n] = make(map[rune]map[string]struct{})
		d.lengths = append(d.lengths, n)
		sort.Sort(sort.Reverse(sort.IntSlice(d.lengths)))
	}
	first := runes[0]
	if d.byLen[n][first] == nil {
		d.byLen[n][first] = make(map[string]struct{})
	}
	d.byLen[n][first][word] = struct{}{}
}

// Load reads one noise word per line and returns the number of words added.
// A read error returns the words loaded so far; callers are expected to
// continue with the partial dictionary.
func (d *Dictionary) Load(r io.Reader) (int, error) {
	cnt := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		d.Add(word)
		cnt++
	}
	return cnt, scanner.Err()
}

// Contains reports whether word is an indexed noise word.
func (d *Dictionary) Contains(word string) bool {
	runes := []rune(word)
	n := len(runes)
	if n == 0 || n >= len(d.byLen) || d.byLen[n] == nil {
		return false
	}
	set, ok := d.byLen[n][runes[0]]
	if !ok {
		return false
	}
	_, ok = set[word]
	return ok
}

// Len returns the number of distinct indexed words.
func (d *Dictionary) Len() int {
	total := 0
	for _, byFirst := range d.byLen {
		for _, set := range byFirst {
			total += len(set)
		}
	}
	return total
}

// Lengths returns the distinct word lengths present, ascending. Used for
// load diagnostics.
func (d *Dictionary) Lengths() []int {
	out := make([]int, len(d.lengths))
	copy(out, d.lengths)
	sort.Ints(out)
	return out
}

// RemoveWords deletes indexed noise words from a title. The scan walks every
// rune offset left to right and tries candidate lengths longest-first, so a
// short word never wins over a longer word sharing its start position. The
// first match is deleted from the title as a whole-string replace (every
// occurrence of that exact substring goes), and the scan restarts from
// offset zero against the shortened title. The result is a fixed point:
// re-applying RemoveWords to its own output changes nothing.
func (d *Dictionary) RemoveWords(title string) string {
	for {
		target, found := d.scan(title)
		if !found {
			return title
		}
		title = strings.ReplaceAll(title, target, "")
	}
}

// scan returns the leftmost-then-longest indexed word occurring in title.
func (d *Dictionary) scan(title string) (string, bool) {
	runes := []rune(title)
	for i := 0; i < len(runes); i++ {
		for _, n := range d.lengths {
			if n == 0 || i+n > len(runes) {
				continue
			}
			byFirst := d.byLen[n]
			set, ok := byFirst[runes[i]]
			if !ok {
				continue
			}
			target := string(runes[i : i+n])
			if _, ok := set[target]; ok {
				return target, true
			}
		}
	}
	return "", false
}

// Normalize runs the full cleanup: the regex rewrite pipeline, then
// recursive dictionary-word removal.
func (d *Dictionary) Normalize(title string) string {
	return d.RemoveWords(Clean(title))
}
