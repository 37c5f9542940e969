/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"posterforge/internal/crash"
	"posterforge/internal/document"
	"posterforge/internal/domain"
	"posterforge/internal/export"
	applog "posterforge/internal/log"
	"posterforge/internal/storage"
	"posterforge/internal/ui"
	"posterforge/internal/version"
)

func usage() {
	fmt.Println("PosterForge — poster layout editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  posterforge version|-v|--version          Show version")
	fmt.Println("  posterforge init <dir> <name>              Create a new poster project at <dir>")
	fmt.Println("  posterforge open <dir>                     Open project at <dir> and print summary")
	fmt.Println("  posterforge save <dir>                     Re-save project at <dir> (creates backup)")
	fmt.Println("  posterforge export <dir> <preset|format>   Export poster (web, print, png, pdf, svg)")
	fmt.Println("  posterforge search <dir> <query>           Full-text search the project index")
	fmt.Println("  posterforge history <dir>                  List saved poster history snapshots")
	fmt.Println("  posterforge restore <dir>                  Restore the poster from the latest snapshot")
	fmt.Println("  posterforge thumbnail <dir> [width]        Write a cached PNG thumbnail to exports/")
	fmt.Println("  posterforge ui [<dir>]                     Launch desktop UI (build with -tags fyne)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.PosterHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("PosterForge — poster layout editor")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			abs, _ := filepath.Abs(dir)
			l.Info("init project", slog.String("root", abs), slog.String("name", name))
			p := domain.Poster{
				ID:       domain.NewID(),
				Name:     name,
				Canvas:   domain.Size{Width: 1587, Height: 2245}, // A2 portrait at 96dpi
				Sections: domain.SectionList{},
			}
			h, err := storage.InitProject(abs, p)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			if err := storage.BuildIndexIfEmpty(context.Background(), abs, h.Poster); err != nil {
				l.Warn("index build failed", slog.Any("err", err))
			}
			fmt.Println("Created project at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open project", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			nSections := 0
			document.Walk(&h.Poster, func(domain.Section, string) bool {
				nSections++
				return true
			})
			fmt.Printf("Opened poster: %s\n", h.Poster.Name)
			fmt.Printf("Canvas: %gx%g px\n", h.Poster.Canvas.Width, h.Poster.Canvas.Height)
			fmt.Printf("Sections: %d, decorations: %d\n", nSections, len(h.Poster.Decorations))
			fmt.Println("Root:", h.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("save project", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ctx := context.Background()
			if err := storage.UpdateIndex(ctx, abs, h.Poster); err != nil {
				l.Warn("index update failed", slog.Any("err", err))
			}
			if blob, err := json.Marshal(h.Poster); err == nil {
				if _, err := storage.SaveSnapshot(ctx, abs, h.Poster.ID, blob); err != nil {
					l.Warn("history snapshot failed", slog.Any("err", err))
				} else if _, err := storage.PruneSnapshots(ctx, abs, h.Poster.ID, storage.DefaultHistoryKeep); err != nil {
					l.Warn("history prune failed", slog.Any("err", err))
				}
			}
			if err := export.RefreshPreview(ctx, h); err != nil {
				l.Warn("preview refresh failed", slog.Any("err", err))
			}
			fmt.Println("Saved project and created a backup of the previous manifest (if any).")
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <dir> and <preset|format>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			what := strings.ToLower(args[3])
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			opt := export.BatchOptions{}
			switch what {
			case "web", "print":
				opt.Preset = export.PresetName(what)
			default:
				opt.Formats = []string{what}
			}
			l.Info("export", slog.String("root", abs), slog.String("what", what))
			if err := export.BatchExport(h, opt); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported to", filepath.Join(abs, "exports"))
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <query>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			query := strings.Join(args[3:], " ")
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before search failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			ctx := context.Background()
			if err := storage.BuildIndexIfEmpty(ctx, abs, h.Poster); err != nil {
				l.Error("index build failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			hits, err := storage.Search(ctx, abs, storage.SearchQuery{Text: query})
			if err != nil {
				l.Error("search failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if len(hits) == 0 {
				fmt.Println("No matches.")
				return
			}
			for _, hit := range hits {
				fmt.Printf("%-12s %-40s %s\n", hit.Type, hit.Path, hit.Snippet)
			}
			return
		case "history":
			if len(args) < 3 {
				fmt.Println("history requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before history failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			recs, err := storage.ListSnapshots(context.Background(), abs, h.Poster.ID, 0)
			if err != nil {
				l.Error("history failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if len(recs) == 0 {
				fmt.Println("No saved history.")
				return
			}
			for _, rec := range recs {
				fmt.Printf("%6d  %s  %d bytes\n", rec.ID, rec.TS.Local().Format("2006-01-02 15:04:05"), len(rec.Blob))
			}
			return
		case "restore":
			if len(args) < 3 {
				fmt.Println("restore requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before restore failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			ctx := context.Background()
			rec, err := storage.LatestSnapshot(ctx, abs, h.Poster.ID)
			if err != nil {
				l.Error("restore failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			var p domain.Poster
			if err := json.Unmarshal(rec.Blob, &p); err != nil {
				l.Error("restore failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h.Poster = p
			if err := storage.Save(h); err != nil {
				l.Error("save after restore failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if err := storage.UpdateIndex(ctx, abs, h.Poster); err != nil {
				l.Warn("index update failed", slog.Any("err", err))
			}
			fmt.Printf("Restored poster from snapshot %d (%s).\n", rec.ID, rec.TS.Local().Format("2006-01-02 15:04:05"))
			return
		case "thumbnail":
			if len(args) < 3 {
				fmt.Println("thumbnail requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			width := export.DefaultPreviewWidth
			if len(args) >= 4 {
				n, err := strconv.Atoi(args[3])
				if err != nil || n <= 0 {
					fmt.Println("thumbnail width must be a positive integer")
					os.Exit(2)
				}
				width = n
			}
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before thumbnail failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			blob, err := export.PosterPreview(context.Background(), h, width)
			if err != nil {
				l.Error("thumbnail failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			out := filepath.Join(abs, "exports", fmt.Sprintf("thumbnail-%d.png", width))
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err == nil {
				err = os.WriteFile(out, blob, 0o644)
			}
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote", out)
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
