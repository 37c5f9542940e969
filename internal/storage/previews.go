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

// ErrNoPreview is returned when no cached preview exists for a poster at the
// requested width.
var ErrNoPreview = errors.New("storage: no preview")

// PutPreview stores (or replaces) a rendered thumbnail for a poster at a
// given pixel width. Previews are a cache and can be regenerated from the
// manifest at any time.
func PutPreview(ctx context.Context, projectRoot, posterID string, width int, thumb []byte) error {
	if width <= 0 {
		return errors.New("preview width must be positive")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx,
		`INSERT INTO previews (poster_id, width, thumb_blob, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(poster_id, width) DO UPDATE SET thumb_blob=excluded.thumb_blob, updated_at=excluded.updated_at`,
		posterID, width, thumb, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put preview: %w", err)
	}
	return nil
}

// GetPreview returns the cached thumbnail for a poster at the given width.
func GetPreview(ctx context.Context, projectRoot, posterID string, width int) ([]byte, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var blob []byte
	err = db.QueryRowContext(ctx,
		`SELECT thumb_blob FROM previews WHERE poster_id=? AND width=?`,
		posterID, width).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPreview
	}
	if err != nil {
		return nil, fmt.Errorf("get preview: %w", err)
	}
	return blob, nil
}

// InvalidatePreviews drops all cached thumbnails for a poster, typically
// after a save.
func InvalidatePreviews(ctx context.Context, projectRoot, posterID string) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx, `DELETE FROM previews WHERE poster_id=?`, posterID); err != nil {
		return fmt.Errorf("invalidate previews: %w", err)
	}
	return nil
}
