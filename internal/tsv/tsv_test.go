package tsv

import (
	"errors"
	"strings"
	"testing"
)

func TestForEachLineSkipsEmpty(t *testing.T) {
	input := "a\tb\n\nc\td\r\n\n"
	var lines []string
	err := ForEachLine(strings.NewReader(input), func(line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachLine: %v", err)
	}
	if len(lines) != 2 || lines[0] != "a\tb" || lines[1] != "c\td" {
		t.Errorf("lines = %q", lines)
	}
}

func TestForEachLineStopsOnError(t *testing.T) {
	sentinel := errors.New("stop")
	count := 0
	err := ForEachLine(strings.NewReader("1\n2\n3\n"), func(string) error {
		count++
		if count == 2 {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestForEachRecord(t *testing.T) {
	var got [][]string
	err := ForEachRecord(strings.NewReader("x\ty\tz\n"), func(fields []string) error {
		got = append(got, fields)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachRecord: %v", err)
	}
	if len(got) != 1 || len(got[0]) != 3 || got[0][2] != "z" {
		t.Errorf("records = %v", got)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("/nonexistent/input.tsv"); err == nil {
		t.Error("Should error on nonexistent file")
	}
}

func TestOpenStdin(t *testing.T) {
	rc, err := Open("-")
	if err != nil {
		t.Fatalf("Open(-): %v", err)
	}
	rc.Close()
}
