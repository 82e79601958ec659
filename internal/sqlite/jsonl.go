package sqlite

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/annopack/pkg/pack"
)

// ErrMalformedJSONL is returned by ImportJSONL for unreadable lines.
var ErrMalformedJSONL = errors.New("malformed JSONL")

// maxLineSize bounds a single JSONL line; the meta line carries the whole
// pack text.
const maxLineSize = 64 << 20

// ExportJSONL writes p to path as JSONL: the first line is the pack Meta and
// every following line is one Record, in insertion order. The file is
// replaced atomically.
func ExportJSONL(path string, p *pack.Pack) error {
	if p == nil || p.IsPoison() {
		return fmt.Errorf("%w: nil or poison pack", ErrInvalidPack)
	}
	records, err := p.Records()
	if err != nil {
		return fmt.Errorf("flattening pack %s: %w", p.ID(), err)
	}

	lines := make([]json.RawMessage, 0, len(records)+1)
	meta, err := json.Marshal(p.Meta())
	if err != nil {
		return fmt.Errorf("encoding meta: %w", err)
	}
	lines = append(lines, meta)
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", rec.TID, err)
		}
		lines = append(lines, data)
	}
	return writeJSONL(path, lines)
}

// ImportJSONL reads a file written by ExportJSONL and restores the pack.
// Blank lines are ignored. Any other line that does not decode fails the
// import with ErrMalformedJSONL, since a dropped record would leave links
// and groups pointing at missing entries.
func ImportJSONL(path string, opts ...pack.Option) (*pack.Pack, error) {
	lines, err := readJSONL(path)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrMalformedJSONL, path)
	}

	var meta pack.Meta
	if err := json.Unmarshal(lines[0], &meta); err != nil {
		return nil, fmt.Errorf("%w: meta line: %w", ErrMalformedJSONL, err)
	}

	records := make([]pack.Record, 0, len(lines)-1)
	for i, line := range lines[1:] {
		var rec pack.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrMalformedJSONL, i+1, err)
		}
		records = append(records, rec)
	}

	p, err := pack.Restore(meta, records, opts...)
	if err != nil {
		return nil, fmt.Errorf("restoring %s: %w", path, err)
	}
	return p, nil
}

// readJSONL returns each non-empty line of the file as a json.RawMessage.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			return nil, fmt.Errorf("%w: %s line %d", ErrMalformedJSONL, path, lineNo)
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		lines = append(lines, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return lines, nil
}

// writeJSONL atomically writes lines to path using the temp-file, fsync,
// rename pattern.
func writeJSONL(path string, lines []json.RawMessage) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(format string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf(format, err)
	}

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.Write(line); err != nil {
			return fail("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
