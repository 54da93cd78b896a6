package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// ParseLine parses a single JSONL line. Returns nil if the line is not a
// JSON object.
func ParseLine(raw []byte) *Entry {
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil
	}
	e.raw = append([]byte(nil), raw...)
	return &e
}

// ParseLines splits raw transcript text into lines. Blank lines are
// dropped; lines with unparsable JSON are kept with a nil Entry so they
// survive a rewrite verbatim.
func ParseLines(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []Line
	for scanner.Scan() {
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}
		lines = append(lines, Line{Entry: ParseLine([]byte(raw)), Raw: raw})
	}
	return lines, scanner.Err()
}

// ParseFile reads and parses a whole session file.
func ParseFile(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	lines, err := ParseLines(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// WriteLines writes the lines back out as JSONL, one object per line with
// a trailing newline.
func WriteLines(w io.Writer, lines []Line) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l.Raw); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile rewrites a session file in place.
func WriteFile(path string, lines []Line) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteLines(f, lines); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
