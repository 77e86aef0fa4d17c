// Package curate holds the stream transforms used while re-tuning the token
// dictionaries: tallying a token-frequency file, folding reviewed token
// verdicts back into a prediction stream, and resolving UNKNOWN rows from an
// external prediction file.
package curate

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CountTokens tallies a token-frequency file into its three buckets and
// writes a single summary line: "true:N,false:N,conflict:N (total N)".
func CountTokens(r io.Reader, w io.Writer) error {
	var trueN, falseN, conflictN, total int

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		parts := strings.Split(strings.TrimSpace(scanner.Text()), "\t")
		if len(parts) < 3 {
			continue
		}
		t, err1 := strconv.Atoi(parts[0])
		f, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			continue
		}
		switch {
		case t == 0:
			falseN++
		case f == 0:
			trueN++
		default:
			conflictN++
		}
		total++
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "true:%d,false:%d,conflict:%d (total %d)\n",
		trueN, falseN, conflictN, total)
	return err
}

// LoadReview reads a reviewed token list (tag, true_freq, false_freq, token,
// TRUE index list, FALSE index list) and returns the per-row label updates
// it implies: a token re-tagged TRUE flips every row in its FALSE index
// list, and vice versa. Tags other than true/false are ignored.
func LoadReview(r io.Reader) (map[string]string, error) {
	updates := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		parts := strings.Split(strings.TrimSpace(scanner.Text()), "\t")
		if len(parts) < 6 {
			continue
		}
		tag := strings.ToLower(parts[0])
		listTrue, listFalse := parts[4], parts[5]

		switch tag {
		case "true":
			for _, idx := range strings.Split(listFalse, ",") {
				updates[idx] = "TRUE"
			}
		case "false":
			for _, idx := range strings.Split(listTrue, ",") {
				updates[idx] = "FALSE"
			}
		}
	}
	return updates, scanner.Err()
}

// ApplyReview rewrites the label of every streamed row whose index appears
// in updates; all other rows pass through unchanged. Rows are
// "label<TAB>index<TAB>..."; rows without a second field pass through too.
func ApplyReview(updates map[string]string, r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) < 2 {
			if _, err := fmt.Fprintln(bw, line); err != nil {
				return err
			}
			continue
		}
		rest := parts[1]
		idx := strings.SplitN(rest, "\t", 2)[0]

		if label, ok := updates[idx]; ok {
			_, err := fmt.Fprintf(bw, "%s\t%s\n", label, rest)
			if err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return bw.Flush()
}

// LoadPredictions reads "prediction<TAB>index" rows into an index→prediction
// map for resolving UNKNOWN rows.
func LoadPredictions(r io.Reader) (map[string]string, error) {
	preds := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		parts := strings.Split(strings.TrimSpace(scanner.Text()), "\t")
		if len(parts) < 2 {
			continue
		}
		preds[parts[1]] = parts[0]
	}
	return preds, scanner.Err()
}

// PickResolved passes non-UNKNOWN rows through unchanged and replaces the
// label of UNKNOWN rows from the predictions map. An UNKNOWN row with no
// replacement prediction is dropped.
func PickResolved(preds map[string]string, r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		pred, idx := parts[0], strings.TrimSpace(parts[1])

		if pred != "UNKNOWN" {
			if _, err := fmt.Fprintln(bw, line); err != nil {
				return err
			}
			continue
		}
		resolved, ok := preds[idx]
		if !ok {
			continue
		}
		rest := strings.Join(parts[2:], "\t")
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\n", resolved, idx, rest); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return bw.Flush()
}
