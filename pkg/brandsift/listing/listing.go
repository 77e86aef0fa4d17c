// Package listing parses tab-delimited product-listing records and prepares
// their title fields for token classification.
package listing

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Shape selects the record layout on the input stream.
type Shape int

// Record shapes.
const (
	// ShapeGroundTruth rows carry no prediction yet:
	// index, ground-truth label, rancode, primary title, secondary title,
	// ..., category name at field 8. At least 11 fields.
	ShapeGroundTruth Shape = iota
	// ShapePrediction rows carry a prediction in front:
	// prediction, index, ground-truth label, rancode, primary title,
	// secondary title, ..., category name at field 9. At least 12 fields.
	ShapePrediction
)

// Minimum field counts per shape.
const (
	minFieldsGroundTruth = 11
	minFieldsPrediction  = 12
)

// Record is the slice of a listing row the classifiers care about. Rows are
// immutable; revised verdicts are emitted as new output lines, never written
// back into a Record.
type Record struct {
	Prediction     string // prediction label; the upcased ground truth for ShapeGroundTruth
	Index          string
	GroundTruth    string
	Rancode        string
	PrimaryTitle   string
	SecondaryTitle string
	Category       string
}

// Parse extracts a Record from a tab-delimited row. Rows with fewer than the
// shape's minimum field count are rejected.
func Parse(shape Shape, line string) (Record, bool) {
	parts := strings.Split(line, "\t")

	switch shape {
	case ShapeGroundTruth:
		if len(parts) < minFieldsGroundTruth {
			return Record{}, false
		}
		return Record{
			Prediction:     strings.ToUpper(parts[1]),
			Index:          parts[0],
			GroundTruth:    parts[1],
			Rancode:        parts[2],
			PrimaryTitle:   parts[3],
			SecondaryTitle: parts[4],
			Category:       parts[8],
		}, true

	case ShapePrediction:
		if len(parts) < minFieldsPrediction {
			return Record{}, false
		}
		return Record{
			Prediction:     parts[0],
			Index:          parts[1],
			GroundTruth:    parts[2],
			Rancode:        parts[3],
			PrimaryTitle:   parts[4],
			SecondaryTitle: parts[5],
			Category:       parts[9],
		}, true
	}

	return Record{}, false
}

var bracketNoise = regexp.MustCompile(`[\[\]|]`)
var anySpace = regexp.MustCompile(`\s+`)

// CleanTitle replaces banner brackets and pipes with spaces and collapses
// whitespace runs. Markup fragments are stripped first when present;
// marketplace feeds occasionally leak HTML into titles.
func CleanTitle(title string) string {
	if strings.Contains(title, "<") {
		title = StripHTML(title)
	}
	title = bracketNoise.ReplaceAllString(title, " ")
	return anySpace.ReplaceAllString(title, " ")
}

// UsableTitle returns the primary title, falling back to the cleaned
// secondary title when the primary is empty.
func (r Record) UsableTitle() string {
	if r.PrimaryTitle != "" {
		return r.PrimaryTitle
	}
	return CleanTitle(r.SecondaryTitle)
}

// StripHTML extracts the text content of an HTML fragment. Unparseable
// input is returned as-is.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
