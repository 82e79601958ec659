// Package sqlite stores packs in a SQLite database and exchanges them as
// JSONL files. Entries are written as pack.Records and rebuilt with
// pack.Restore, so every stored kind must be registered with package pack.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/annopack/pkg/ontology"
	"github.com/mesh-intelligence/annopack/pkg/pack"
)

// DefaultFileName is the database file created inside a data directory.
const DefaultFileName = "annopack.db"

// Store errors.
var (
	ErrStoreClosed  = errors.New("store is closed")
	ErrPackNotFound = errors.New("pack not found")
	ErrInvalidPack  = errors.New("invalid pack")
)

// Store persists packs in a single SQLite database file.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// PackInfo summarizes a stored pack.
type PackInfo struct {
	ID      string    `json:"pack_id"`
	Name    string    `json:"name"`
	Entries int       `json:"entries"`
	SavedAt time.Time `json:"saved_at"`
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for store operations.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// A single connection keeps per-connection pragmas in force.
	db.SetMaxOpenConns(1)

	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}

	s.db = db
	s.logger.Debug("store opened", "path", path)
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SavePack writes p, replacing any stored pack with the same id.
// Poison packs are rejected with ErrInvalidPack.
func (s *Store) SavePack(p *pack.Pack) error {
	if p == nil || p.IsPoison() {
		return fmt.Errorf("%w: nil or poison pack", ErrInvalidPack)
	}
	records, err := p.Records()
	if err != nil {
		return fmt.Errorf("flattening pack %s: %w", p.ID(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deletePackRows(tx, p.ID()); err != nil {
		return err
	}

	meta := p.Meta()
	if _, err := tx.Exec(
		"INSERT INTO packs (pack_id, name, text, saved_at) VALUES (?, ?, ?, ?)",
		meta.ID, meta.Name, meta.Text, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("inserting pack %s: %w", meta.ID, err)
	}

	for seq, rec := range records {
		if err := insertRecord(tx, meta.ID, seq, rec); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing pack %s: %w", meta.ID, err)
	}
	s.logger.Info("pack saved", "pack", meta.ID, "entries", len(records))
	return nil
}

func insertRecord(tx *sql.Tx, packID string, seq int, rec pack.Record) error {
	var begin, end sql.NullInt64
	if rec.Span != nil {
		begin = sql.NullInt64{Int64: int64(rec.Span.Begin), Valid: true}
		end = sql.NullInt64{Int64: int64(rec.Span.End), Valid: true}
	}
	var fields sql.NullString
	if len(rec.Fields) > 0 {
		data, err := json.Marshal(rec.Fields)
		if err != nil {
			return fmt.Errorf("encoding fields of %s: %w", rec.TID, err)
		}
		fields = sql.NullString{String: string(data), Valid: true}
	}

	if _, err := tx.Exec(
		`INSERT INTO entries (pack_id, seq, tid, kind, component, span_begin, span_end, fields, parent_tid, child_tid)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		packID, seq, rec.TID, rec.Kind, rec.Component, begin, end, fields,
		nullString(rec.Parent), nullString(rec.Child),
	); err != nil {
		return fmt.Errorf("inserting entry %s: %w", rec.TID, err)
	}

	for _, member := range rec.Members {
		if _, err := tx.Exec(
			"INSERT INTO group_members (pack_id, group_tid, member_tid) VALUES (?, ?, ?)",
			packID, rec.TID, member,
		); err != nil {
			return fmt.Errorf("inserting member %s of %s: %w", member, rec.TID, err)
		}
	}
	return nil
}

// LoadPack reads the pack with the given id and rebuilds it.
// Returns ErrPackNotFound if no such pack is stored.
func (s *Store) LoadPack(id string) (*pack.Pack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrStoreClosed
	}

	var meta pack.Meta
	err := s.db.QueryRow(
		"SELECT pack_id, name, text FROM packs WHERE pack_id = ?", id,
	).Scan(&meta.ID, &meta.Name, &meta.Text)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrPackNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading pack %s: %w", id, err)
	}

	records, err := s.loadRecords(id)
	if err != nil {
		return nil, err
	}

	p, err := pack.Restore(meta, records, pack.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("restoring pack %s: %w", id, err)
	}
	s.logger.Debug("pack loaded", "pack", id, "entries", p.Len())
	return p, nil
}

func (s *Store) loadRecords(packID string) ([]pack.Record, error) {
	rows, err := s.db.Query(
		`SELECT tid, kind, component, span_begin, span_end, fields, parent_tid, child_tid
		 FROM entries WHERE pack_id = ? ORDER BY seq`, packID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying entries of %s: %w", packID, err)
	}
	defer rows.Close()

	var records []pack.Record
	index := make(map[string]int)
	for rows.Next() {
		var (
			rec           pack.Record
			begin, end    sql.NullInt64
			fields        sql.NullString
			parent, child sql.NullString
		)
		if err := rows.Scan(&rec.TID, &rec.Kind, &rec.Component, &begin, &end, &fields, &parent, &child); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		if begin.Valid && end.Valid {
			rec.Span = &ontology.Span{Begin: int(begin.Int64), End: int(end.Int64)}
		}
		if fields.Valid {
			if err := json.Unmarshal([]byte(fields.String), &rec.Fields); err != nil {
				return nil, fmt.Errorf("decoding fields of %s: %w", rec.TID, err)
			}
		}
		rec.Parent = parent.String
		rec.Child = child.String
		index[rec.TID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	members, err := s.db.Query(
		"SELECT group_tid, member_tid FROM group_members WHERE pack_id = ? ORDER BY group_tid, member_tid",
		packID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying group members of %s: %w", packID, err)
	}
	defer members.Close()

	for members.Next() {
		var groupTID, memberTID string
		if err := members.Scan(&groupTID, &memberTID); err != nil {
			return nil, fmt.Errorf("scanning group member: %w", err)
		}
		i, ok := index[groupTID]
		if !ok {
			return nil, fmt.Errorf("%w: member row for unknown group %s", ErrInvalidPack, groupTID)
		}
		records[i].Members = append(records[i].Members, memberTID)
	}
	if err := members.Err(); err != nil {
		return nil, fmt.Errorf("iterating group members: %w", err)
	}
	return records, nil
}

// ListPacks returns a summary of every stored pack, most recently saved
// first.
func (s *Store) ListPacks() ([]PackInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(
		`SELECT p.pack_id, p.name, p.saved_at, COUNT(e.tid)
		 FROM packs p LEFT JOIN entries e ON e.pack_id = p.pack_id
		 GROUP BY p.pack_id, p.name, p.saved_at
		 ORDER BY p.saved_at DESC, p.pack_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing packs: %w", err)
	}
	defer rows.Close()

	infos := []PackInfo{}
	for rows.Next() {
		var (
			info    PackInfo
			savedAt string
		)
		if err := rows.Scan(&info.ID, &info.Name, &savedAt, &info.Entries); err != nil {
			return nil, fmt.Errorf("scanning pack: %w", err)
		}
		info.SavedAt, err = time.Parse(time.RFC3339, savedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing saved_at of %s: %w", info.ID, err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeletePack removes a stored pack.
// Returns ErrPackNotFound if no such pack is stored.
func (s *Store) DeletePack(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow("SELECT 1 FROM packs WHERE pack_id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", ErrPackNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("checking pack %s: %w", id, err)
	}

	if err := deletePackRows(tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete of %s: %w", id, err)
	}
	s.logger.Info("pack deleted", "pack", id)
	return nil
}

func deletePackRows(tx *sql.Tx, id string) error {
	for _, table := range []string{"group_members", "entries", "packs"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE pack_id = ?", id); err != nil {
			return fmt.Errorf("deleting %s of %s: %w", table, id, err)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
