// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/reading-planner/internal/logger"
)

// Cache stores vectors in SQLite keyed by model name and text hash, so a
// title seen in an earlier search is not re-encoded. It holds encoder output
// only, never rankings. Rows whose stored dimension differs from the one
// asked for are treated as misses and overwritten on the next Store.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	c := &Cache{db: db}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS embeddings (
			model TEXT NOT NULL,
			text_hash TEXT NOT NULL,
			dim INTEGER NOT NULL,
			vector BLOB NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (model, text_hash)
		)`,
	}
	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Lookup returns cached vectors of length dim by input position. Missing
// texts, and texts cached at another dimension, are absent from the map.
func (c *Cache) Lookup(ctx context.Context, model string, dim int, texts []string) (map[int]Vector, error) {
	stmt, err := c.db.PrepareContext(ctx,
		`SELECT dim, vector FROM embeddings WHERE model = ? AND text_hash = ?`)
	if err != nil {
		return nil, fmt.Errorf("preparing lookup: %w", err)
	}
	defer stmt.Close()

	found := make(map[int]Vector)
	for i, t := range texts {
		var (
			stored int
			blob   []byte
		)
		err := stmt.QueryRowContext(ctx, model, textHash(t)).Scan(&stored, &blob)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("looking up cached vector: %w", err)
		}
		if stored != dim {
			continue
		}
		v, err := decodeVector(blob, stored)
		if err != nil {
			return nil, err
		}
		found[i] = v
	}
	return found, nil
}

// Store writes vectors for texts in one transaction.
func (c *Cache) Store(ctx context.Context, model string, texts []string, vecs []Vector) error {
	if len(texts) != len(vecs) {
		return fmt.Errorf("storing %d vectors for %d texts", len(vecs), len(texts))
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO embeddings (model, text_hash, dim, vector, created_at)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, t := range texts {
		if _, err := stmt.ExecContext(ctx, model, textHash(t), len(vecs[i]), encodeVector(vecs[i]), now); err != nil {
			return fmt.Errorf("inserting cached vector: %w", err)
		}
	}
	return tx.Commit()
}

// Count returns the number of cached vectors for model.
func (c *Cache) Count(ctx context.Context, model string) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT count(*) FROM embeddings WHERE model = ?`, model).Scan(&n)
	return n, err
}

func textHash(t string) string {
	sum := sha256.Sum256([]byte(t))
	return hex.EncodeToString(sum[:])
}

func encodeVector(v Vector) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(blob []byte, dim int) (Vector, error) {
	if len(blob) != 4*dim {
		return nil, fmt.Errorf("cached vector has %d bytes, want %d", len(blob), 4*dim)
	}
	v := make(Vector, dim)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return v, nil
}

// cachedModel answers from the cache and encodes only the misses. Cache
// errors are logged and never fail an encode.
type cachedModel struct {
	inner Model
	cache *Cache

	// dim is the dimension reported by Load; cached rows of any other
	// length are ignored.
	dim int
}

// WithCache wraps a model so encodings are read from and written to cache.
// Closing the returned model also closes the cache.
func WithCache(m Model, c *Cache) Model {
	return &cachedModel{inner: m, cache: c}
}

func (m *cachedModel) Name() string { return m.inner.Name() }

func (m *cachedModel) Load(ctx context.Context) (int, error) {
	dim, err := m.inner.Load(ctx)
	if err != nil {
		return 0, err
	}
	m.dim = dim
	return dim, nil
}

func (m *cachedModel) Encode(ctx context.Context, texts []string) ([]Vector, error) {
	name := m.inner.Name()
	found, err := m.cache.Lookup(ctx, name, m.dim, texts)
	if err != nil {
		logger.Warn("embedding cache lookup: %v", err)
		found = nil
	}

	out := make([]Vector, len(texts))
	var (
		missPos   []int
		missTexts []string
	)
	for i, t := range texts {
		if v, ok := found[i]; ok {
			out[i] = v
			continue
		}
		missPos = append(missPos, i)
		missTexts = append(missTexts, t)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := m.inner.Encode(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("model returned %d vectors for %d texts", len(vecs), len(missTexts))
	}
	if err := m.cache.Store(ctx, name, missTexts, vecs); err != nil {
		logger.Warn("embedding cache store: %v", err)
	}
	for j, v := range vecs {
		out[missPos[j]] = v
	}
	return out, nil
}

func (m *cachedModel) Close() error {
	return errors.Join(m.inner.Close(), m.cache.Close())
}
