/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"posterforge/internal/storage"
)

func TestPosterPreviewRendersAndCaches(t *testing.T) {
	ph := exportHandle(t)
	ctx := context.Background()

	blob, err := PosterPreview(ctx, ph, 50)
	if err != nil {
		t.Fatalf("PosterPreview error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("preview not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 50 {
		t.Fatalf("preview width = %d, want 50", img.Bounds().Dx())
	}

	// The render must land in the preview cache.
	cached, err := storage.GetPreview(ctx, ph.Root, ph.Poster.ID, 50)
	if err != nil {
		t.Fatalf("GetPreview after render: %v", err)
	}
	if !bytes.Equal(cached, blob) {
		t.Fatalf("cached preview differs from returned preview")
	}
}

func TestPosterPreviewServesFromCache(t *testing.T) {
	ph := exportHandle(t)
	ctx := context.Background()

	sentinel := []byte("not-a-real-png")
	if err := storage.PutPreview(ctx, ph.Root, ph.Poster.ID, 50, sentinel); err != nil {
		t.Fatalf("PutPreview error: %v", err)
	}
	blob, err := PosterPreview(ctx, ph, 50)
	if err != nil {
		t.Fatalf("PosterPreview error: %v", err)
	}
	if !bytes.Equal(blob, sentinel) {
		t.Fatalf("a cached preview must be returned without re-rendering")
	}
}

func TestRefreshPreviewReplacesStaleCache(t *testing.T) {
	ph := exportHandle(t)
	ctx := context.Background()

	if err := storage.PutPreview(ctx, ph.Root, ph.Poster.ID, 50, []byte("stale")); err != nil {
		t.Fatalf("PutPreview error: %v", err)
	}
	if err := RefreshPreview(ctx, ph); err != nil {
		t.Fatalf("RefreshPreview error: %v", err)
	}

	// Stale widths are dropped, the default width is re-rendered.
	if _, err := storage.GetPreview(ctx, ph.Root, ph.Poster.ID, 50); !errors.Is(err, storage.ErrNoPreview) {
		t.Fatalf("stale preview must be invalidated, got err=%v", err)
	}
	blob, err := storage.GetPreview(ctx, ph.Root, ph.Poster.ID, DefaultPreviewWidth)
	if err != nil {
		t.Fatalf("GetPreview after refresh: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("refreshed preview not a PNG: %v", err)
	}
	if img.Bounds().Dx() != DefaultPreviewWidth {
		t.Fatalf("refreshed width = %d, want %d", img.Bounds().Dx(), DefaultPreviewWidth)
	}
}
