// Package brandsift decides whether product-listing titles belong to a
// target brand, driven by per-token TRUE/FALSE statistics and noise-stripped
// titles.
package brandsift

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cognicore/brandsift/pkg/brandsift/listing"
	"github.com/cognicore/brandsift/pkg/brandsift/ngwords"
	"github.com/cognicore/brandsift/pkg/brandsift/tokendict"
)

// Verdict is the per-listing decision.
type Verdict string

// Verdicts.
const (
	VerdictTrue    Verdict = "TRUE"
	VerdictFalse   Verdict = "FALSE"
	VerdictUnknown Verdict = "UNKNOWN"
)

// Filter is the listing decision engine facade. It combines the token
// dictionary with optional NG-word normalization. Both dictionaries are
// loaded once and treated as immutable afterwards.
type Filter struct {
	tokens *tokendict.Dictionary
	ng     *ngwords.Dictionary
}

// Options configures a Filter.
type Options struct {
	Tokens *tokendict.Dictionary
	// NGWords, when set, normalizes titles through the noise pipeline
	// before classification.
	NGWords *ngwords.Dictionary
}

// New creates a Filter with the given dependencies.
func New(opts Options) *Filter {
	return &Filter{
		tokens: opts.Tokens,
		ng:     opts.NGWords,
	}
}

// Decision carries the verdict for one listing together with the evidence
// behind it.
type Decision struct {
	Verdict       Verdict
	Stats         tokendict.Stats
	TrueWords     []string
	FalseWords    []string
	ConflictWords []string
}

// Judge classifies one listing from its two title fields. Each title is
// bracket/whitespace normalized (and noise-stripped when an NG dictionary is
// configured), classified separately, and the stats merged additively with
// the word sets unioned. Ties between TRUE and FALSE hits favor TRUE; a
// listing with no hits at all is UNKNOWN.
func (f *Filter) Judge(primary, secondary string) Decision {
	var d Decision
	trueSet := make(map[string]struct{})
	falseSet := make(map[string]struct{})
	conflictSet := make(map[string]struct{})

	for _, title := range []string{secondary, primary} {
		if title == "" {
			continue
		}
		title = listing.CleanTitle(title)
		if f.ng != nil {
			title = f.ng.Normalize(title)
		}
		stats, tw, fw, cw := f.tokens.Classify(title)
		d.Stats.Add(stats)
		addAll(trueSet, tw)
		addAll(falseSet, fw)
		addAll(conflictSet, cw)
	}

	d.TrueWords = sortedKeys(trueSet)
	d.FalseWords = sortedKeys(falseSet)
	d.ConflictWords = sortedKeys(conflictSet)
	d.Verdict = decide(d.Stats.True, d.Stats.False)
	return d
}

// decide applies the decision rule. It is total over all count pairs:
// UNKNOWN iff both counts are zero, otherwise TRUE wins ties.
func decide(numTrue, numFalse int) Verdict {
	switch {
	case numTrue == 0 && numFalse == 0:
		return VerdictUnknown
	case numTrue >= numFalse:
		return VerdictTrue
	default:
		return VerdictFalse
	}
}

// AppendLine renders the audit output line for a judged record: the verdict,
// the untouched original row, the per-label ratio/count summary, and the
// semicolon-joined matched word lists, all tab-separated.
func (d Decision) AppendLine(original string) string {
	return fmt.Sprintf("%s\t%s\t%s(%d)/%s(%d)/%s(%d)#%d\t%s;;;%s",
		d.Verdict, original,
		ratio(d.Stats.True, d.Stats.Tokens), d.Stats.True,
		ratio(d.Stats.False, d.Stats.Tokens), d.Stats.False,
		ratio(d.Stats.Conflict, d.Stats.Tokens), d.Stats.Conflict,
		d.Stats.Tokens,
		strings.Join(d.TrueWords, ";"), strings.Join(d.FalseWords, ";"))
}

func ratio(n, total int) string {
	if total == 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(n)/float64(total), 'g', -1, 64)
}

func addAll(set map[string]struct{}, words []string) {
	for _, w := range words {
		set[w] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
