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
	"time"
)

// SnapshotRecord is one stored history entry for a poster.
type SnapshotRecord struct {
	ID       int64
	PosterID string
	TS       time.Time
	Blob     []byte
}

// ErrNoSnapshot is returned when a poster has no stored history.
var ErrNoSnapshot = errors.New("storage: no snapshot")

// DefaultHistoryKeep is how many save-history snapshots a poster retains.
const DefaultHistoryKeep = 20

// SaveSnapshot stores a serialized poster state in the index.
func SaveSnapshot(ctx context.Context, projectRoot, posterID string, blob []byte) (int64, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx,
		`INSERT INTO snapshots (poster_id, ts, delta_blob) VALUES (?, ?, ?)`,
		posterID, time.Now().UTC().Format(time.RFC3339Nano), blob)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot id: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the most recent snapshot for a poster.
func LatestSnapshot(ctx context.Context, projectRoot, posterID string) (SnapshotRecord, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return SnapshotRecord{}, err
	}
	defer db.Close()

	var (
		rec SnapshotRecord
		ts  string
	)
	err = db.QueryRowContext(ctx,
		`SELECT id, poster_id, ts, delta_blob FROM snapshots WHERE poster_id=? ORDER BY ts DESC, id DESC LIMIT 1`,
		posterID).Scan(&rec.ID, &rec.PosterID, &ts, &rec.Blob)
	if errors.Is(err, sql.ErrNoRows) {
		return SnapshotRecord{}, ErrNoSnapshot
	}
	if err != nil {
		return SnapshotRecord{}, fmt.Errorf("latest snapshot: %w", err)
	}
	rec.TS, _ = time.Parse(time.RFC3339Nano, ts)
	return rec, nil
}

// ListSnapshots returns snapshot history for a poster, newest first.
func ListSnapshots(ctx context.Context, projectRoot, posterID string, limit int) ([]SnapshotRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, poster_id, ts, delta_blob FROM snapshots WHERE poster_id=? ORDER BY ts DESC, id DESC LIMIT ?`,
		posterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRecord
	for rows.Next() {
		var (
			rec SnapshotRecord
			ts  string
		)
		if err := rows.Scan(&rec.ID, &rec.PosterID, &ts, &rec.Blob); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		rec.TS, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PruneSnapshots keeps at most keep entries per poster, removing the oldest.
func PruneSnapshots(ctx context.Context, projectRoot, posterID string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE poster_id=? AND id NOT IN (
			SELECT id FROM snapshots WHERE poster_id=? ORDER BY ts DESC, id DESC LIMIT ?
		)`, posterID, posterID, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
