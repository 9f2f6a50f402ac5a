package editor

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/image-editor-mcp/internal/filter"
	"github.com/ironsheep/image-editor-mcp/internal/imaging"
)

func TestPreview_DiscardRestoresBase(t *testing.T) {
	orig := createBuffer(t, 12, 10, gradient)
	e := loadedEngine(t, orig)

	for _, m := range []imaging.Margins{{Left: 1}, {Left: 1, Top: 2}, {Left: 3, Right: 3, Bottom: 3, Top: 3}} {
		if _, err := e.PreviewCrop(m); err != nil {
			t.Fatalf("PreviewCrop(%v): %v", m, err)
		}
	}
	if !e.InPreview() {
		t.Fatal("expected an active preview")
	}
	if got := e.Current(); got.Width() != 6 || got.Height() != 4 {
		t.Errorf("preview shows %v, want 6x4", got)
	}

	if got := e.DiscardPreview(); got != StatusDiscarded {
		t.Errorf("DiscardPreview: got %q", got)
	}
	assertShows(t, e, orig)
	if e.InPreview() || len(e.History()) != 0 {
		t.Error("discard left a session or history entry behind")
	}
}

func TestPreview_RendersFromBase(t *testing.T) {
	orig := createBuffer(t, 10, 10, gradient)
	e := loadedEngine(t, orig)

	_, _ = e.PreviewCrop(imaging.Margins{Left: 4, Top: 4})
	m := imaging.Margins{Left: 1, Right: 1}
	if _, err := e.PreviewCrop(m); err != nil {
		t.Fatal(err)
	}
	want, _ := imaging.Crop(orig, m)
	assertShows(t, e, want)

	// Margins are checked against the base, not the current preview.
	if _, err := e.PreviewCrop(imaging.Margins{Left: 8}); err != nil {
		t.Errorf("PreviewCrop against base: %v", err)
	}
}

func TestPreview_CommitRecordsOneEdit(t *testing.T) {
	orig := createBuffer(t, 9, 7, gradient)
	e := loadedEngine(t, orig)

	_, _ = e.PreviewCrop(imaging.Margins{Left: 1})
	_, _ = e.PreviewCrop(imaging.Margins{Left: 2})
	final := imaging.Margins{Left: 2, Bottom: 1}
	_, _ = e.PreviewCrop(final)
	previewed := e.Current()

	got, err := e.CommitPreview()
	if err != nil {
		t.Fatal(err)
	}
	if got != "Cropped to 7x6." {
		t.Errorf("CommitPreview: got %q", got)
	}
	if e.InPreview() {
		t.Error("commit left the session open")
	}
	if n := len(e.History()); n != 1 {
		t.Fatalf("history length: got %d, want 1", n)
	}
	assertShows(t, e, previewed)

	e.Undo()
	assertShows(t, e, orig)
	e.Redo()
	assertShows(t, e, previewed)
}

func TestPreview_Filter(t *testing.T) {
	orig := createBuffer(t, 8, 8, gradient)
	e := loadedEngine(t, orig)

	if _, err := e.PreviewFilter("Invert"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.PreviewFilter("Grayscale"); err != nil {
		t.Fatal(err)
	}
	want := orig.Clone()
	_ = filter.Apply(filter.Grayscale, want)
	assertShows(t, e, want)

	if _, err := e.PreviewFilter("Sepia"); !errors.Is(err, filter.ErrUnknownFilter) {
		t.Errorf("got %v, want ErrUnknownFilter", err)
	}
	assertShows(t, e, want)

	if _, err := e.CommitPreview(); err != nil {
		t.Fatal(err)
	}
	if h := e.History(); len(h) != 1 || h[0].Label != "Grayscale" {
		t.Errorf("history: got %+v", h)
	}
}

func TestPreview_InvalidKeepsSession(t *testing.T) {
	orig := createBuffer(t, 6, 6, gradient)
	e := loadedEngine(t, orig)
	_, _ = e.PreviewCrop(imaging.Margins{Top: 1})
	shown := e.Current()

	if _, err := e.PreviewCrop(imaging.Margins{Top: 3, Bottom: 3}); !errors.Is(err, imaging.ErrInvalidGeometry) {
		t.Fatalf("got %v, want ErrInvalidGeometry", err)
	}
	if !e.InPreview() {
		t.Error("rejected preview ended the session")
	}
	assertShows(t, e, shown)
}

func TestPreview_RejectedCropKeepsSession(t *testing.T) {
	orig := createBuffer(t, 10, 8, gradient)
	e := loadedEngine(t, orig)
	if _, err := e.PreviewFilter("Invert"); err != nil {
		t.Fatal(err)
	}
	shown := e.Current()

	huge := imaging.Margins{Left: math.MaxInt, Right: math.MaxInt, Bottom: math.MaxInt, Top: math.MaxInt}
	if _, err := e.Crop(huge); !errors.Is(err, imaging.ErrInvalidGeometry) {
		t.Fatalf("got %v, want ErrInvalidGeometry", err)
	}
	if !e.InPreview() {
		t.Error("rejected crop ended the preview")
	}
	assertShows(t, e, shown)
	if len(e.History()) != 0 {
		t.Errorf("rejected crop recorded history: %+v", e.History())
	}
}

func TestPreview_CommittedEditDiscardsPreview(t *testing.T) {
	orig := createBuffer(t, 8, 6, gradient)
	e := loadedEngine(t, orig)
	_, _ = e.PreviewCrop(imaging.Margins{Left: 2})

	if _, err := e.ApplyFilter("Mirror"); err != nil {
		t.Fatal(err)
	}
	if e.InPreview() {
		t.Error("filter left the preview open")
	}
	want := orig.Clone()
	_ = filter.Apply(filter.Mirror, want)
	assertShows(t, e, want)

	e.Undo()
	assertShows(t, e, orig)
}

func TestPreview_UndoDiscardsPreview(t *testing.T) {
	orig := createBuffer(t, 8, 6, gradient)
	e := loadedEngine(t, orig)
	_, _ = e.ApplyFilter("Darker")
	_, _ = e.PreviewFilter("Invert")

	if got := e.Undo(); got != "Undo: Darker" {
		t.Errorf("Undo: got %q", got)
	}
	if e.InPreview() {
		t.Error("undo left the preview open")
	}
	assertShows(t, e, orig)
}

func TestPreview_NoSession(t *testing.T) {
	e := loadedEngine(t, createBuffer(t, 2, 2, gradient))
	if got := e.DiscardPreview(); got != StatusNoPreview {
		t.Errorf("DiscardPreview: got %q", got)
	}
	got, err := e.CommitPreview()
	if err != nil || got != StatusNoPreview {
		t.Errorf("CommitPreview: got %q, %v", got, err)
	}
	if len(e.History()) != 0 {
		t.Error("commit without a session recorded an edit")
	}
}

func TestPreview_CloseEndsSession(t *testing.T) {
	e := loadedEngine(t, createBuffer(t, 4, 4, gradient))
	_, _ = e.PreviewFilter("Invert")
	e.Close()
	if e.InPreview() || e.HasImage() {
		t.Error("Close left preview state behind")
	}
}
