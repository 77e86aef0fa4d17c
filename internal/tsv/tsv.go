// Package tsv reads the tab-separated batch files the listing pipeline
// consumes: one record per line, fields split on tabs, no quoting.
package tsv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLine bounds a single record; listing rows carry full marked-up titles.
const maxLine = 1 << 20

// Open returns the named file, or stdin when path is empty or "-".
// The caller owns the returned closer.
func Open(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// Fields splits one record into its tab-separated fields.
func Fields(line string) []string {
	return strings.Split(line, "\t")
}

// ForEachLine streams records from r, invoking fn for each non-empty line
// with trailing newline stripped. Processing stops at the first fn error.
func ForEachLine(r io.Reader, fn func(line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// ForEachRecord is ForEachLine with the tab split applied.
func ForEachRecord(r io.Reader, fn func(fields []string) error) error {
	return ForEachLine(r, func(line string) error {
		return fn(Fields(line))
	})
}
