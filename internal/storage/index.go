/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"posterforge/internal/domain"
	applog "posterforge/internal/log"
	"posterforge/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-project ephemeral/index data under the
	// project root.
	IndexDirName  = ".pf"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump on breaking schema changes and add a migration step.
	schemaVersion = 2
)

// IndexPath returns the full path to the project's embedded index database.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-project SQLite index exists at
// .pf/index.sqlite, opens the database, enables WAL mode, and ensures the
// meta/version tables exist. Callers close the returned DB when done.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .pf dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .pf dir: %w", err)
	}

	path := IndexPath(projectRoot)
	// Forward slashes for the SQLite URI, busy timeout for concurrent tools.
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Debug("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// never downgrade
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_documents_section ON documents(section_id);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
			// Best-effort FTS optimize outside the tx
			_, _ = db.ExecContext(ctx, `INSERT INTO fts_documents(fts_documents) VALUES('optimize')`)
		default:
			// unknown future step
		}
		cur = next
	}
	return nil
}

// ensureIndexSchema creates core index tables and FTS structures if they do
// not exist.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// Core documents table: poster name, metadata, section text, assets.
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id     INTEGER PRIMARY KEY,
			type       TEXT    NOT NULL,
			path       TEXT    NOT NULL,
			section_id TEXT,
			text       TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_path ON documents(path);`,

		// External-content FTS5 index over documents.text, kept in sync via
		// triggers. External content keeps snippet() usable in search.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_documents USING fts5(
			text,
			content='documents',
			content_rowid='doc_id',
			tokenize = 'unicode61'
		);`,

		// Assets catalog (images/fonts referenced by the manifest)
		`CREATE TABLE IF NOT EXISTS assets (
			hash TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			type TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_assets_path ON assets(path);`,

		// Previews cache (rendered poster thumbnails)
		`CREATE TABLE IF NOT EXISTS previews (
			id         INTEGER PRIMARY KEY,
			poster_id  TEXT    NOT NULL,
			width      INTEGER NOT NULL,
			thumb_blob BLOB    NOT NULL,
			updated_at TEXT    NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_previews_poster_width ON previews(poster_id, width);`,

		// Snapshots (history of poster changes)
		`CREATE TABLE IF NOT EXISTS snapshots (
			id         INTEGER PRIMARY KEY,
			poster_id  TEXT    NOT NULL,
			ts         TEXT    NOT NULL,
			delta_blob BLOB    NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_poster_ts ON snapshots(poster_id, ts);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	// Triggers keep the contentless FTS table in sync with documents.text.
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
			INSERT INTO fts_documents(rowid, text) VALUES (new.doc_id, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
			INSERT INTO fts_documents(fts_documents, rowid, text) VALUES ('delete', old.doc_id, old.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE OF text ON documents BEGIN
			INSERT INTO fts_documents(fts_documents, rowid, text) VALUES ('delete', old.doc_id, old.text);
			INSERT INTO fts_documents(rowid, text) VALUES (new.doc_id, new.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// DetectAndRebuildIndex checks for corruption or missing schema and rebuilds
// the index if needed. It returns true when a rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, projectRoot string, poster domain.Poster) (bool, error) {
	path := IndexPath(projectRoot)
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		backupIndexFile(path)
		_ = os.Remove(path)
		if rbErr := RebuildIndex(ctx, projectRoot, poster); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	defer db.Close()
	needs := false
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM documents LIMIT 1;`); err != nil {
			needs = true
		}
	}
	if !needs {
		return false, nil
	}
	backupIndexFile(path)
	_ = os.Remove(path)
	if err := RebuildIndex(ctx, projectRoot, poster); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the current index file into a timestamped backup in
// .pf/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), stamp))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

// BuildIndexIfEmpty ensures the DB exists and, if the documents table is
// empty, populates it from the given manifest.
func BuildIndexIfEmpty(ctx context.Context, projectRoot string, poster domain.Poster) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	var cnt int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents;").Scan(&cnt); err != nil {
		return fmt.Errorf("check documents count: %w", err)
	}
	if cnt > 0 {
		return nil
	}
	return rebuildDocumentsFromPoster(ctx, db, poster)
}

// UpdateIndex replaces the documents content from the provided manifest.
func UpdateIndex(ctx context.Context, projectRoot string, poster domain.Poster) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildDocumentsFromPoster(ctx, db, poster)
}

// RebuildIndex drops and recreates core index tables and rebuilds content
// from the manifest. Meta/version tables are preserved. The index is derived
// from poster.json, so this is always safe.
func RebuildIndex(ctx context.Context, projectRoot string, poster domain.Poster) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	drops := []string{
		"DROP TABLE IF EXISTS assets;",
		"DROP TABLE IF EXISTS previews;",
		"DROP TABLE IF EXISTS snapshots;",
		"DROP TRIGGER IF EXISTS documents_ai;",
		"DROP TRIGGER IF EXISTS documents_ad;",
		"DROP TRIGGER IF EXISTS documents_au;",
		"DROP TABLE IF EXISTS documents;",
		"DROP TABLE IF EXISTS fts_documents;",
	}
	for _, q := range drops {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("drop commit: %w", err)
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		return err
	}
	return rebuildDocumentsFromPoster(ctx, db, poster)
}

// rebuildDocumentsFromPoster replaces the documents table content from the
// given poster manifest.
func rebuildDocumentsFromPoster(ctx context.Context, db *sql.DB, poster domain.Poster) error {
	type row struct {
		typeStr   string
		path      string
		sectionID sql.NullString
		text      string
	}
	rows := make([]row, 0, 64)

	if s := strings.TrimSpace(poster.Name); s != "" {
		rows = append(rows, row{typeStr: "poster_name", path: "poster:name", text: s})
	}
	if s := strings.TrimSpace(poster.Metadata.Author); s != "" {
		rows = append(rows, row{typeStr: "author", path: "poster:author", text: s})
	}
	if s := strings.TrimSpace(poster.Metadata.Notes); s != "" {
		rows = append(rows, row{typeStr: "notes", path: "poster:notes", text: s})
	}
	if len(poster.Metadata.Tags) > 0 {
		rows = append(rows, row{typeStr: "tags", path: "poster:tags", text: strings.Join(poster.Metadata.Tags, " ")})
	}

	var walk func(sections domain.SectionList, prefix string)
	walk = func(sections domain.SectionList, prefix string) {
		for _, sec := range sections {
			switch s := sec.(type) {
			case *domain.LayoutBox:
				walk(s.Sections, prefix+"/box:"+s.BoxID)
			case *domain.TextSection:
				var buf strings.Builder
				for _, sp := range s.Spans {
					t := strings.TrimSpace(sp.Text)
					if t == "" {
						continue
					}
					if buf.Len() > 0 {
						buf.WriteByte(' ')
					}
					buf.WriteString(t)
				}
				if buf.Len() > 0 {
					rows = append(rows, row{
						typeStr:   "text",
						path:      prefix + "/text:" + s.TextID,
						sectionID: sql.NullString{String: s.TextID, Valid: true},
						text:      buf.String(),
					})
				}
			case *domain.ImageSection:
				if src := strings.TrimSpace(s.Source); src != "" {
					rows = append(rows, row{
						typeStr:   "image",
						path:      prefix + "/image:" + s.ImageID,
						sectionID: sql.NullString{String: s.ImageID, Valid: true},
						text:      src,
					})
				}
			}
		}
	}
	walk(poster.Sections, "poster")

	for _, d := range poster.Decorations {
		rows = append(rows, row{
			typeStr:   "decoration",
			path:      "poster/decoration:" + d.ID,
			sectionID: sql.NullString{String: d.ID, Valid: true},
			text:      d.Image,
		})
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents;"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear documents: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO documents(type, path, section_id, text) VALUES(?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for _, r := range rows {
		if _, err := ins.ExecContext(ctx, r.typeStr, r.path, r.sectionID, r.text); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert document: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
