/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"errors"
	"fmt"

	"posterforge/internal/storage"
)

// DefaultPreviewWidth is the thumbnail width cached on every save.
const DefaultPreviewWidth = 256

// PosterPreview returns a PNG thumbnail of the poster at the given width,
// served from the project's preview cache when present and rendered (then
// cached) otherwise.
func PosterPreview(ctx context.Context, ph *storage.PosterHandle, width int) ([]byte, error) {
	if ph == nil {
		return nil, fmt.Errorf("poster handle is nil")
	}
	if width <= 0 {
		width = DefaultPreviewWidth
	}
	blob, err := storage.GetPreview(ctx, ph.Root, ph.Poster.ID, width)
	if err == nil {
		return blob, nil
	}
	if !errors.Is(err, storage.ErrNoPreview) {
		return nil, err
	}
	blob, err = RenderThumbnail(ph, width)
	if err != nil {
		return nil, err
	}
	if err := storage.PutPreview(ctx, ph.Root, ph.Poster.ID, width, blob); err != nil {
		return nil, fmt.Errorf("cache preview: %w", err)
	}
	return blob, nil
}

// RefreshPreview drops the poster's stale cached thumbnails and re-renders
// the default width. Called after a successful save, when cached previews no
// longer match the manifest.
func RefreshPreview(ctx context.Context, ph *storage.PosterHandle) error {
	if ph == nil {
		return fmt.Errorf("poster handle is nil")
	}
	if err := storage.InvalidatePreviews(ctx, ph.Root, ph.Poster.ID); err != nil {
		return err
	}
	blob, err := RenderThumbnail(ph, DefaultPreviewWidth)
	if err != nil {
		return err
	}
	return storage.PutPreview(ctx, ph.Root, ph.Poster.ID, DefaultPreviewWidth, blob)
}
