//go:build fyne && cgo

/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	appconfig "posterforge/internal/config"
	"posterforge/internal/crash"
	"posterforge/internal/document"
	"posterforge/internal/domain"
	"posterforge/internal/export"
	"posterforge/internal/geometry"
	"posterforge/internal/gesture"
	applog "posterforge/internal/log"
	"posterforge/internal/richtext"
	"posterforge/internal/storage"
	"posterforge/internal/telemetry"
	"posterforge/internal/undo"
)

// Run starts the Fyne-based desktop editor. Pass an optional project
// directory to open immediately.
func Run(projectDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	cfg, err := appconfig.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = appconfig.Defaults()
	}
	telemetry.InitDefault()

	var ph *storage.PosterHandle
	defer func() { crash.Recover(ph) }()

	fyneApp := app.NewWithID("posterforge")
	w := fyneApp.NewWindow("PosterForge")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	ed := newEditor(cfg)

	undoMgr := undo.NewManager(undo.Config{
		MaxBytes:     32 * 1024 * 1024,
		MaxPerPoster: 50,
		MinInterval:  300 * time.Millisecond,
	})

	pushUndoSnapshot := func() {
		if ph == nil {
			return
		}
		blob, err := json.Marshal(ph.Poster)
		if err != nil {
			l.Error("snapshot marshal failed", slog.Any("err", err))
			return
		}
		undoMgr.PushSnapshot(undo.Snapshot{PosterID: ph.Poster.ID, Blob: blob, TS: time.Now()})
	}

	applySnapshot := func(blob []byte) {
		var p domain.Poster
		if err := json.Unmarshal(blob, &p); err != nil {
			dialog.ShowError(fmt.Errorf("restore snapshot: %w", err), w)
			return
		}
		ph.Poster = p
		ed.SetPoster(&ph.Poster)
		status.SetText("Restored")
	}

	// Element tree (left pane)
	elementIDs := []string{}
	elementLabels := []string{}
	elementList := widget.NewList(
		func() int { return len(elementLabels) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(elementLabels) {
				o.(*widget.Label).SetText(elementLabels[i])
			}
		},
	)

	refreshElements := func() {
		elementIDs = elementIDs[:0]
		elementLabels = elementLabels[:0]
		if ph == nil {
			elementList.Refresh()
			return
		}
		document.Walk(&ph.Poster, func(s domain.Section, parentID string) bool {
			label := s.ID()
			switch s.(type) {
			case *domain.LayoutBox:
				label = "box " + label
			case *domain.TextSection:
				label = "text " + label
			case *domain.ImageSection:
				label = "image " + label
			}
			elementIDs = append(elementIDs, s.ID())
			elementLabels = append(elementLabels, label)
			return true
		})
		for _, d := range ph.Poster.Decorations {
			elementIDs = append(elementIDs, d.ID)
			elementLabels = append(elementLabels, "decoration "+d.ID)
		}
		elementList.Refresh()
	}

	elementList.OnSelected = func(i widget.ListItemID) {
		if i >= 0 && int(i) < len(elementIDs) {
			ed.Select(elementIDs[i])
		}
	}

	// Inspector (right pane)
	inspector := newInspector(
		func(id string, patch document.BoxPatch) {
			if ph == nil {
				return
			}
			pushUndoSnapshot()
			next, changed := document.ApplyBoxPatch(ph.Poster, id, patch)
			if changed {
				ph.Poster = next
				ed.SetPoster(&ph.Poster)
				status.SetText("Constraints updated")
			}
		},
		func(id string, patch document.TextPatch) {
			if ph == nil {
				return
			}
			pushUndoSnapshot()
			next, changed := document.ApplyTextPatch(ph.Poster, id, patch)
			if changed {
				ph.Poster = next
				ed.SetPoster(&ph.Poster)
				status.SetText("Text updated")
			}
		},
	)
	ed.onSelect = func(id string) {
		inspector.Show(ph, id)
		status.SetText("Selected " + id)
	}
	ed.onGestureStart = pushUndoSnapshot
	ed.onChange = func(p domain.Poster) {
		ph.Poster = p
	}

	openProject := func(root string) {
		h, err := storage.Open(root)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		ph = h
		ed.SetPoster(&ph.Poster)
		refreshElements()
		w.SetTitle("PosterForge — " + ph.Poster.Name)
		status.SetText("Opened " + root)
		telemetry.Event("poster_opened", nil)
		go func() {
			if _, err := storage.DetectAndRebuildIndex(context.Background(), ph.Root, ph.Poster); err != nil {
				l.Warn("index check failed", slog.Any("err", err))
			}
		}()
	}

	saveProject := func() {
		if ph == nil {
			return
		}
		if err := storage.Save(ph); err != nil {
			dialog.ShowError(err, w)
			return
		}
		if err := storage.UpdateIndex(context.Background(), ph.Root, ph.Poster); err != nil {
			l.Warn("index update failed", slog.Any("err", err))
		}
		if blob, err := json.Marshal(ph.Poster); err == nil {
			h := ph
			go func() {
				ctx := context.Background()
				if _, err := storage.SaveSnapshot(ctx, h.Root, h.Poster.ID, blob); err != nil {
					l.Warn("history snapshot failed", slog.Any("err", err))
					return
				}
				if _, err := storage.PruneSnapshots(ctx, h.Root, h.Poster.ID, storage.DefaultHistoryKeep); err != nil {
					l.Warn("history prune failed", slog.Any("err", err))
				}
				if err := export.RefreshPreview(ctx, h); err != nil {
					l.Warn("preview refresh failed", slog.Any("err", err))
				}
			}()
		}
		status.SetText("Saved")
	}

	undoAction := func() {
		if ph == nil {
			return
		}
		if s, ok := undoMgr.Undo(ph.Poster.ID); ok {
			applySnapshot(s.Blob)
		} else {
			status.SetText("Nothing to undo")
		}
	}
	redoAction := func() {
		if ph == nil {
			return
		}
		if s, ok := undoMgr.Redo(ph.Poster.ID); ok {
			applySnapshot(s.Blob)
		} else {
			status.SetText("Nothing to redo")
		}
	}

	exportAction := func(format string) {
		if ph == nil {
			return
		}
		name := ph.Poster.ID + "." + format
		var err error
		switch format {
		case "png":
			err = export.ExportPosterPNG(ph, name, export.PNGOptions{})
		case "pdf":
			err = export.ExportPosterPDF(ph, name, export.PDFOptions{})
		case "svg":
			err = export.ExportPosterSVG(ph, name, export.SVGOptions{})
		}
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported " + name)
		telemetry.Event("poster_exported", map[string]any{"format": format})
	}

	zoomLabel := widget.NewLabel("100%")
	setZoom := func(z float64) {
		if z < cfg.Editor.ZoomMin {
			z = cfg.Editor.ZoomMin
		}
		if z > cfg.Editor.ZoomMax {
			z = cfg.Editor.ZoomMax
		}
		ed.SetZoom(z)
		zoomLabel.SetText(fmt.Sprintf("%.0f%%", z*100))
	}

	modeSelect := widget.NewSelect([]string{"move", "resize", "rotate"}, func(m string) {
		ed.mode = m
	})
	modeSelect.SetSelected("move")

	toolbar := container.NewHBox(
		widget.NewButton("Save", saveProject),
		widget.NewButton("Undo", undoAction),
		widget.NewButton("Redo", redoAction),
		widget.NewSeparator(),
		modeSelect,
		widget.NewSeparator(),
		widget.NewButton("-", func() { setZoom(ed.zoom / 1.25) }),
		zoomLabel,
		widget.NewButton("+", func() { setZoom(ed.zoom * 1.25) }),
	)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Save", saveProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG", func() { exportAction("png") }),
		fyne.NewMenuItem("Export PDF", func() { exportAction("pdf") }),
		fyne.NewMenuItem("Export SVG", func() { exportAction("svg") }),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", undoAction),
		fyne.NewMenuItem("Redo", redoAction),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu))

	left := container.NewBorder(widget.NewLabel("Elements"), nil, nil, nil, elementList)
	center := container.NewScroll(ed)
	right := container.NewBorder(widget.NewLabel("Inspector"), nil, nil, nil, inspector.content)

	split := container.NewHSplit(left, container.NewHSplit(center, right))
	split.SetOffset(0.2)

	w.SetContent(container.NewBorder(toolbar, status, nil, nil, split))

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		telemetry.Flush(context.Background())
	})

	if projectDir != "" {
		openProject(projectDir)
	}

	w.ShowAndRun()
	return nil
}

// editor is the interactive poster surface. It renders resolved geometry and
// drives a gesture controller from pointer events.
type editor struct {
	widget.BaseWidget

	poster  *domain.Poster
	zoom    float64
	mode    string
	ctrl    *gesture.Controller
	content *fyne.Container

	selected string
	dragging bool
	dragX    float64
	dragY    float64

	onSelect       func(id string)
	onChange       func(p domain.Poster)
	onGestureStart func()
}

func newEditor(cfg appconfig.AppConfig) *editor {
	ed := &editor{
		zoom:    1,
		mode:    "move",
		ctrl:    gesture.NewController(1),
		content: container.NewWithoutLayout(),
	}
	ed.ctrl.Threshold = cfg.Editor.SnapThresholdPx
	ed.ExtendBaseWidget(ed)
	return ed
}

func (ed *editor) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ed.content)
}

// SetPoster replaces the document and redraws.
func (ed *editor) SetPoster(p *domain.Poster) {
	ed.poster = p
	ed.rebuild()
}

// SetZoom changes the canvas scale and redraws.
func (ed *editor) SetZoom(z float64) {
	ed.zoom = z
	ed.ctrl.Zoom = z
	ed.rebuild()
}

// Select marks an element as selected and redraws its handles.
func (ed *editor) Select(id string) {
	ed.selected = id
	ed.rebuild()
	if ed.onSelect != nil {
		ed.onSelect(id)
	}
}

func (ed *editor) MinSize() fyne.Size {
	if ed.poster == nil {
		return fyne.NewSize(400, 300)
	}
	return fyne.NewSize(
		float32(ed.poster.Canvas.Width*ed.zoom),
		float32(ed.poster.Canvas.Height*ed.zoom),
	)
}

// Tapped selects the topmost element under the pointer.
func (ed *editor) Tapped(e *fyne.PointEvent) {
	if ed.poster == nil {
		return
	}
	if id := ed.hit(float64(e.Position.X), float64(e.Position.Y)); id != "" {
		ed.Select(id)
	}
}

// Dragged drives the active gesture with cumulative deltas.
func (ed *editor) Dragged(e *fyne.DragEvent) {
	if ed.poster == nil || ed.selected == "" {
		return
	}
	if !ed.dragging {
		ed.dragging = true
		ed.dragX = 0
		ed.dragY = 0
		if ed.onGestureStart != nil {
			ed.onGestureStart()
		}
		start := domain.Point{X: float64(e.Position.X), Y: float64(e.Position.Y)}
		var err error
		switch ed.mode {
		case "resize":
			err = ed.ctrl.BeginResize(*ed.poster, ed.selected)
		case "rotate":
			err = ed.ctrl.BeginRotate(*ed.poster, ed.selected, start)
		default:
			err = ed.ctrl.BeginDrag(*ed.poster, ed.selected)
		}
		if err != nil {
			ed.dragging = false
			return
		}
	}
	ed.dragX += float64(e.Dragged.DX)
	ed.dragY += float64(e.Dragged.DY)

	var (
		next domain.Poster
		err  error
	)
	switch ed.mode {
	case "resize":
		next, err = ed.ctrl.Resize(ed.dragX, ed.dragY)
	case "rotate":
		next, err = ed.ctrl.RotateTo(domain.Point{X: float64(e.Position.X), Y: float64(e.Position.Y)})
	default:
		next, err = ed.ctrl.Drag(ed.dragX, ed.dragY)
	}
	if err != nil {
		return
	}
	*ed.poster = next
	if ed.onChange != nil {
		ed.onChange(next)
	}
	ed.rebuild()
}

// DragEnd closes the gesture session and clears guides.
func (ed *editor) DragEnd() {
	ed.dragging = false
	ed.ctrl.End()
	ed.rebuild()
}

// hit returns the id of the topmost element whose bounds contain the given
// widget-space point. Decorations sit above sections.
func (ed *editor) hit(x, y float64) string {
	res := document.NewResolver(ed.poster)
	dx := x / ed.zoom
	dy := y / ed.zoom
	for i := len(ed.poster.Decorations) - 1; i >= 0; i-- {
		d := ed.poster.Decorations[i]
		b := res.DecorationBounds(d)
		if dx >= b.Left && dx <= b.Right && dy >= b.Top && dy <= b.Bottom {
			return d.ID
		}
	}
	var found string
	document.Walk(ed.poster, func(s domain.Section, parentID string) bool {
		if _, ok := s.(*domain.LayoutBox); !ok {
			return true
		}
		b := res.BoundsOf(s.ID())
		if dx >= b.Left && dx <= b.Right && dy >= b.Top && dy <= b.Bottom {
			// later hits overwrite earlier ones: document order is back to
			// front
			found = s.ID()
		}
		return true
	})
	return found
}

func (ed *editor) rebuild() {
	ed.content.Objects = nil
	if ed.poster == nil {
		ed.content.Refresh()
		return
	}
	z := float32(ed.zoom)
	res := document.NewResolver(ed.poster)

	paper := canvas.NewRectangle(color.White)
	paper.Move(fyne.NewPos(0, 0))
	paper.Resize(fyne.NewSize(float32(ed.poster.Canvas.Width)*z, float32(ed.poster.Canvas.Height)*z))
	ed.content.Add(paper)

	place := func(o fyne.CanvasObject, b geometry.Bounds) {
		o.Move(fyne.NewPos(float32(b.Left)*z, float32(b.Top)*z))
		o.Resize(fyne.NewSize(float32(b.Width)*z, float32(b.Height)*z))
	}

	document.Walk(ed.poster, func(s domain.Section, parentID string) bool {
		b := res.BoundsOf(s.ID())
		switch v := s.(type) {
		case *domain.LayoutBox:
			r := canvas.NewRectangle(color.NRGBA{0, 0, 0, 0})
			r.StrokeColor = color.NRGBA{80, 80, 80, 255}
			r.StrokeWidth = 1
			if v.Background != "" {
				if c, ok := parseHex(v.Background); ok {
					r.FillColor = c
				}
			}
			place(r, b)
			ed.content.Add(r)
		case *domain.TextSection:
			var text string
			for _, sp := range v.Spans {
				text += sp.Text
			}
			t := canvas.NewText(text, color.Black)
			if len(v.Spans) > 0 && v.Spans[0].Style.FontSize > 0 {
				t.TextSize = float32(v.Spans[0].Style.FontSize) * z
			}
			t.Move(fyne.NewPos(float32(b.Left)*z, float32(b.Top)*z))
			ed.content.Add(t)
		case *domain.ImageSection:
			r := canvas.NewRectangle(color.NRGBA{200, 200, 220, 120})
			place(r, b)
			ed.content.Add(r)
		}
		return true
	})

	for _, d := range ed.poster.Decorations {
		b := res.DecorationBounds(d)
		r := canvas.NewRectangle(color.NRGBA{220, 200, 160, 160})
		place(r, b)
		ed.content.Add(r)
	}

	if ed.selected != "" {
		b := res.BoundsOf(ed.selected)
		if dec := document.FindDecoration(ed.poster, ed.selected); dec != nil {
			b = res.DecorationBounds(*dec)
		}
		sel := canvas.NewRectangle(color.NRGBA{0, 0, 0, 0})
		sel.StrokeColor = color.NRGBA{30, 120, 255, 255}
		sel.StrokeWidth = 2
		place(sel, b)
		ed.content.Add(sel)
	}

	for _, g := range ed.ctrl.Guides() {
		line := canvas.NewLine(color.NRGBA{255, 60, 160, 255})
		line.StrokeWidth = 1
		x1, y1, x2, y2 := guideSegment(g, ed.zoom)
		line.Position1 = fyne.NewPos(x1, y1)
		line.Position2 = fyne.NewPos(x2, y2)
		ed.content.Add(line)
	}

	ed.content.Refresh()
}

func parseHex(s string) (color.NRGBA, bool) {
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, false
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{r, g, b, 255}, true
}

// inspector edits the constraints of the selected box or the styled text of
// the selected text section.
type inspector struct {
	content *fyne.Container
	fields  map[string]*widget.Entry
	current string

	textCurrent string
	textSpans   []domain.Span
	textEntry   *widget.Entry

	apply     func(id string, patch document.BoxPatch)
	applyText func(id string, patch document.TextPatch)
}

func newInspector(apply func(id string, patch document.BoxPatch), applyText func(id string, patch document.TextPatch)) *inspector {
	ins := &inspector{
		fields:    make(map[string]*widget.Entry),
		apply:     apply,
		applyText: applyText,
	}
	names := []string{"left", "right", "top", "bottom", "width", "height", "centerX", "centerY"}
	form := container.NewVBox()
	for _, n := range names {
		e := widget.NewEntry()
		e.SetPlaceHolder(n)
		ins.fields[n] = e
		form.Add(container.NewBorder(nil, nil, widget.NewLabel(n), nil, e))
	}
	form.Add(widget.NewButton("Apply", ins.submit))

	form.Add(widget.NewSeparator())
	ins.textEntry = widget.NewEntry()
	ins.textEntry.SetPlaceHolder("text")
	form.Add(ins.textEntry)
	form.Add(container.NewHBox(
		widget.NewButton("Set Text", ins.submitText),
		widget.NewButton("Bold", func() { ins.style(richtext.StylePatch{Bold: boolPtr(true)}) }),
		widget.NewButton("Italic", func() { ins.style(richtext.StylePatch{Italic: boolPtr(true)}) }),
	))
	ins.content = form
	return ins
}

// Show loads the selected element into the form: constraints for boxes,
// span content for text sections.
func (ins *inspector) Show(ph *storage.PosterHandle, id string) {
	ins.current = ""
	ins.textCurrent = ""
	ins.textSpans = nil
	for _, e := range ins.fields {
		e.SetText("")
	}
	ins.textEntry.SetText("")
	if ph == nil {
		return
	}
	if ts, ok := document.FindByID(&ph.Poster, id).(*domain.TextSection); ok {
		ins.textCurrent = id
		ins.textSpans = ts.Spans
		ins.textEntry.SetText(richtext.Content(ts.Spans))
		return
	}
	box := document.FindBox(&ph.Poster, id)
	if box == nil || box.Constraints == nil {
		return
	}
	ins.current = id
	c := box.Constraints
	ins.fields["left"].SetText(c.Left)
	ins.fields["right"].SetText(c.Right)
	ins.fields["top"].SetText(c.Top)
	ins.fields["bottom"].SetText(c.Bottom)
	ins.fields["width"].SetText(c.Width)
	ins.fields["height"].SetText(c.Height)
	ins.fields["centerX"].SetText(c.CenterX)
	ins.fields["centerY"].SetText(c.CenterY)
}

// style restyles the whole run of the selected text section.
func (ins *inspector) style(patch richtext.StylePatch) {
	if ins.textCurrent == "" || ins.applyText == nil {
		return
	}
	sel := richtext.Selection{Start: 0, End: richtext.Length(ins.textSpans)}
	spans := richtext.ApplyStyleToSelection(ins.textSpans, patch, sel)
	ins.textSpans = spans
	ins.applyText(ins.textCurrent, document.TextPatch{Spans: spans})
}

// submitText replaces the run content, keeping the leading span's style.
func (ins *inspector) submitText() {
	if ins.textCurrent == "" || ins.applyText == nil {
		return
	}
	var style domain.SpanStyle
	if len(ins.textSpans) > 0 {
		style = ins.textSpans[0].Style
	}
	spans := []domain.Span{{Text: ins.textEntry.Text, Style: style}}
	ins.textSpans = spans
	ins.applyText(ins.textCurrent, document.TextPatch{Spans: spans})
}

func boolPtr(v bool) *bool { return &v }

func (ins *inspector) submit() {
	if ins.current == "" || ins.apply == nil {
		return
	}
	c := domain.Constraints{
		Left:    ins.fields["left"].Text,
		Right:   ins.fields["right"].Text,
		Top:     ins.fields["top"].Text,
		Bottom:  ins.fields["bottom"].Text,
		Width:   ins.fields["width"].Text,
		Height:  ins.fields["height"].Text,
		CenterX: ins.fields["centerX"].Text,
		CenterY: ins.fields["centerY"].Text,
	}
	ins.apply(ins.current, document.BoxPatch{Constraints: &c})
}
