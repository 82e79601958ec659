// Package reader turns annotated source documents into packs.
package reader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/annopack/pkg/onto"
	"github.com/mesh-intelligence/annopack/pkg/ontology"
	"github.com/mesh-intelligence/annopack/pkg/pack"
)

// ProdigyComponent is the component name stamped on entries read from
// Prodigy output.
const ProdigyComponent = "reader.prodigy"

// ErrInvalidDocument is returned for input that is not a usable Prodigy
// document.
var ErrInvalidDocument = errors.New("invalid prodigy document")

// prodigyDoc is one Prodigy annotation task.
type prodigyDoc struct {
	Text   *string        `json:"text"`
	Tokens []prodigyToken `json:"tokens"`
	Spans  []prodigySpan  `json:"spans"`
}

type prodigyToken struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type prodigySpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

type config struct {
	name   string
	logger *slog.Logger
}

// Option configures a read.
type Option func(*config)

// WithName sets the name of the produced pack.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithLogger sets the logger for the read.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// ReadProdigy decodes one Prodigy JSON document from r into a new pack
// holding a Document over the whole text, one Token per token and one
// EntityMention per labelled span.
//
// Prodigy offsets count characters; they are converted to the byte offsets
// spans use. A token or span repeating the offsets of an earlier one of the
// same kind is dropped, so the first label given for a span wins.
func ReadProdigy(r io.Reader, opts ...Option) (*pack.Pack, error) {
	cfg := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	var doc prodigyDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if doc.Text == nil {
		return nil, fmt.Errorf("%w: missing text", ErrInvalidDocument)
	}
	text := *doc.Text
	offsets := newOffsetTable(text)

	p := pack.New(
		pack.WithName(cfg.name),
		pack.WithText(text),
		pack.WithLogger(cfg.logger),
	)
	p.SetWorkingComponent(ProdigyComponent)
	defer p.SetWorkingComponent("")

	d, err := onto.NewDocument(p, 0, len(text))
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	if _, err := p.Add(d); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}

	seen := make(map[ontology.Span]bool, len(doc.Tokens))
	for i, tok := range doc.Tokens {
		span := offsets.span(tok.Start, tok.End)
		if seen[span] {
			continue
		}
		t, err := onto.NewToken(p, span.Begin, span.End)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		if _, err := p.Add(t); err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		seen[span] = true
	}
	tokens := len(seen)

	clear(seen)
	for i, s := range doc.Spans {
		span := offsets.span(s.Start, s.End)
		if seen[span] {
			continue
		}
		m, err := onto.NewEntityMention(p, span.Begin, span.End)
		if err != nil {
			return nil, fmt.Errorf("span %d: %w", i, err)
		}
		m.NERType = s.Label
		if _, err := p.Add(m); err != nil {
			return nil, fmt.Errorf("span %d: %w", i, err)
		}
		seen[span] = true
	}

	cfg.logger.Debug("prodigy document read",
		"pack", p.ID(), "tokens", tokens, "spans", len(seen))
	return p, nil
}

// offsetTable maps character offsets into text to byte offsets. Entry i is
// the byte offset of the i-th rune; the last entry is len(text).
type offsetTable []int

func newOffsetTable(text string) offsetTable {
	table := make(offsetTable, 0, len(text)+1)
	for i := range text {
		table = append(table, i)
	}
	return append(table, len(text))
}

// byteOffset converts a character offset. Offsets outside the text map to
// byte offsets outside it too, so the pack rejects the span.
func (t offsetTable) byteOffset(char int) int {
	switch {
	case char < 0:
		return char
	case char >= len(t):
		return t[len(t)-1] + char - (len(t) - 1)
	}
	return t[char]
}

func (t offsetTable) span(begin, end int) ontology.Span {
	return ontology.NewSpan(t.byteOffset(begin), t.byteOffset(end))
}

// ReadProdigyFile reads the Prodigy document at path. Unless WithName is
// given the pack is named after the file.
func ReadProdigyFile(path string, opts ...Option) (*pack.Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p, err := ReadProdigy(f, append([]Option{WithName(name)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return p, nil
}
