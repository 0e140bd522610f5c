package timed

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/api"
	_ "github.com/mattn/go-sqlite3"
)

const createStatement = `
	CREATE TABLE IF NOT EXISTS timed_attributes (
		md5     TEXT    NOT NULL,
		ruleset TEXT    NOT NULL,
		mods    INTEGER NOT NULL,
		version INTEGER NOT NULL,
		data    BLOB    NOT NULL,
		PRIMARY KEY (md5, ruleset, mods, version)
	);
`

// CachedProvider stores computed attributes in sqlite, keyed by beatmap md5, ruleset, difficulty mods and calculator version.
// Cache failures are logged and fall through to the inner provider.
type CachedProvider struct {
	db      *sql.DB
	inner   Provider
	version int
}

func NewCachedProvider(path string, inner Provider, version int) (*CachedProvider, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open attribute cache: %w", err)
	}

	if _, err = db.Exec(createStatement); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize attribute cache: %w", err)
	}

	return &CachedProvider{
		db:      db,
		inner:   inner,
		version: version,
	}, nil
}

func (p *CachedProvider) ComputeTimed(ctx context.Context, req Request) ([]api.TimedAttributes, error) {
	if req.BeatMap == nil || req.BeatMap.MD5 == "" {
		return p.inner.ComputeTimed(ctx, req)
	}

	mods := int64(difficulty.GetDiffMaskedMods(req.Diff.Mods))

	var data []byte

	err := p.db.QueryRowContext(ctx, "SELECT data FROM timed_attributes WHERE md5 = ? AND ruleset = ? AND mods = ? AND version = ?",
		req.BeatMap.MD5, req.Ruleset, mods, p.version).Scan(&data)

	switch {
	case err == nil:
		var entries []api.TimedAttributes
		if err = json.Unmarshal(data, &entries); err == nil {
			log.Println("Loaded cached attributes for", describe(req))
			return entries, nil
		}

		log.Println("Discarding corrupt cached attributes:", err)
	case errors.Is(err, sql.ErrNoRows):
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		log.Println("Failed to query attribute cache:", err)
	}

	entries, err := p.inner.ComputeTimed(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err = json.Marshal(entries); err != nil {
		log.Println("Failed to encode attributes:", err)
		return entries, nil
	}

	_, err = p.db.ExecContext(ctx, "INSERT OR REPLACE INTO timed_attributes (md5, ruleset, mods, version, data) VALUES (?, ?, ?, ?, ?)",
		req.BeatMap.MD5, req.Ruleset, mods, p.version, data)
	if err != nil {
		log.Println("Failed to store attributes:", err)
	}

	return entries, nil
}

func (p *CachedProvider) Close() error {
	return p.db.Close()
}
