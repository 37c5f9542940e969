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
	"fmt"
	"strings"
)

// SearchQuery describes a full-text search with optional structured filters.
type SearchQuery struct {
	// Text is matched against the FTS index. Empty means "no text filter".
	Text string
	// Types restricts results to document types (e.g. "text", "image",
	// "decoration", "poster_name", "author", "notes", "tags").
	Types []string
	// PathContains restricts results to documents whose path contains the
	// given substring (e.g. a layout box id).
	PathContains string
	// Limit caps the number of results; <=0 means a default of 50.
	Limit int
	// Offset skips the first N results for paging.
	Offset int
}

// SearchResult is one scored hit from the index.
type SearchResult struct {
	DocID     int64
	Type      string
	Path      string
	SectionID string
	Snippet   string
}

// Search runs a query against the project's embedded index.
func Search(ctx context.Context, projectRoot string, q SearchQuery) ([]SearchResult, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	var (
		sb   strings.Builder
		args []any
	)
	text := strings.TrimSpace(q.Text)
	if text != "" {
		sb.WriteString(`SELECT d.doc_id, d.type, d.path, COALESCE(d.section_id, ''),
			snippet(fts_documents, 0, '[', ']', '…', 10)
			FROM fts_documents f
			JOIN documents d ON d.doc_id = f.rowid
			WHERE fts_documents MATCH ?`)
		args = append(args, ftsQuote(text))
	} else {
		sb.WriteString(`SELECT d.doc_id, d.type, d.path, COALESCE(d.section_id, ''),
			substr(COALESCE(d.text, ''), 1, 80)
			FROM documents d
			WHERE 1=1`)
	}

	if len(q.Types) > 0 {
		sb.WriteString(" AND d.type IN (" + placeholders(len(q.Types)) + ")")
		for _, t := range q.Types {
			args = append(args, t)
		}
	}
	if s := strings.TrimSpace(q.PathContains); s != "" {
		sb.WriteString(" AND d.path LIKE ?")
		args = append(args, likeContains(s))
	}

	if text != "" {
		sb.WriteString(" ORDER BY rank, d.doc_id")
	} else {
		sb.WriteString(" ORDER BY d.doc_id")
	}
	sb.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.DocID, &r.Type, &r.Path, &r.SectionID, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

// WhereUsed returns documents that mention the given asset path or element
// id anywhere in their indexed text.
func WhereUsed(ctx context.Context, projectRoot, needle string) ([]SearchResult, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	needle = strings.TrimSpace(needle)
	if needle == "" {
		return nil, nil
	}
	rows, err := db.QueryContext(ctx, `SELECT doc_id, type, path, COALESCE(section_id, ''), substr(COALESCE(text,''),1,80)
		FROM documents WHERE text LIKE ? OR path LIKE ? ORDER BY doc_id`, likeContains(needle), likeContains(needle))
	if err != nil {
		return nil, fmt.Errorf("where-used query: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.DocID, &r.Type, &r.Path, &r.SectionID, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan where-used: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ftsQuote wraps the user text in double quotes so punctuation cannot be
// interpreted as FTS5 query syntax. Embedded quotes are doubled.
func ftsQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func likeContains(s string) string { return "%" + s + "%" }
