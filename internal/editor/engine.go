package editor

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor-mcp/internal/filter"
	"github.com/ironsheep/image-editor-mcp/internal/imaging"
)

// Status lines reported to the caller.
const (
	StatusNoImage       = "No image loaded."
	StatusLoaded        = "File loaded."
	StatusInvalidFormat = "The file was not in a recognized image file format."
	StatusClosed        = "Image closed."
	StatusNothingToUndo = "Nothing to undo."
	StatusNothingToRedo = "Nothing to redo."
	StatusNoPreview     = "No preview in progress."
	StatusDiscarded     = "Preview discarded."
)

// Engine owns the current image, its edit history and an optional preview
// session. It is not safe for concurrent use; callers serialize access.
type Engine struct {
	current *imaging.Buffer
	history *History
	preview *preview
	status  string
	log     logrus.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger edits are reported to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithHistoryLimit bounds the undo stack. Zero or less keeps every edit.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		e.history = NewHistory(n)
	}
}

// New returns an engine with no image loaded.
func New(opts ...Option) *Engine {
	e := &Engine{
		history: NewHistory(0),
		status:  StatusNoImage,
		log:     discardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Load installs b as the current image and starts a fresh history. The
// engine takes ownership of b. A nil buffer means the codec could not
// decode the file; the current state is kept.
func (e *Engine) Load(b *imaging.Buffer) string {
	if b == nil {
		e.log.Warn("load rejected: unrecognized format")
		return e.setStatus(StatusInvalidFormat)
	}
	e.preview = nil
	e.history.Clear()
	e.current = b
	e.log.WithFields(logrus.Fields{
		"width":  b.Width(),
		"height": b.Height(),
	}).Debug("image loaded")
	return e.setStatus(StatusLoaded)
}

// Close drops the current image, its history and any preview.
func (e *Engine) Close() string {
	e.preview = nil
	e.history.Clear()
	e.current = nil
	return e.setStatus(StatusClosed)
}

// ApplyFilter applies the catalog filter with the given display name.
func (e *Engine) ApplyFilter(name string) (string, error) {
	if e.current == nil {
		return e.setStatus(StatusNoImage), nil
	}
	k, err := filter.Lookup(name)
	if err != nil {
		e.log.WithField("filter", name).Warn("filter rejected")
		return e.status, err
	}
	return e.ApplyFilterKind(k)
}

// ApplyFilterKind applies filter k to the current image.
func (e *Engine) ApplyFilterKind(k filter.Kind) (string, error) {
	return e.commit(&Command{Kind: KindFilter, Filter: k})
}

// Enlarge doubles both dimensions of the current image.
func (e *Engine) Enlarge() (string, error) {
	return e.commit(&Command{Kind: KindEnlarge})
}

// Shrink halves both dimensions of the current image.
func (e *Engine) Shrink() (string, error) {
	return e.commit(&Command{Kind: KindShrink})
}

// Crop trims m from the edges of the current image.
func (e *Engine) Crop(m imaging.Margins) (string, error) {
	return e.commit(&Command{Kind: KindCrop, Margins: m})
}

// commit validates cmd, snapshots the current image into cmd.Backup and
// runs the edit through the history. On any error the engine is unchanged:
// geometry edits only replace the current buffer on success and filters
// fail before touching it.
func (e *Engine) commit(cmd *Command) (string, error) {
	if e.current == nil {
		return e.setStatus(StatusNoImage), nil
	}
	// An active preview is discarded first, so validate against its base.
	target := e.current
	if e.preview != nil {
		target = e.preview.base
	}
	fields := logrus.Fields{"edit": cmd.Label(), "width": target.Width(), "height": target.Height()}
	if err := cmd.validate(target.Width(), target.Height()); err != nil {
		e.log.WithFields(fields).WithError(err).Warn("edit rejected")
		return e.status, err
	}
	e.endPreview()

	cmd.Backup = e.current.Clone()
	err := e.history.Record(cmd, func() error {
		next, err := cmd.apply(e.current)
		if err != nil {
			return err
		}
		e.current = next
		return nil
	})
	if err != nil {
		e.log.WithFields(fields).WithError(err).Warn("edit failed")
		return e.status, err
	}

	e.log.WithFields(fields).WithField("result", e.current.String()).Debug("edit committed")
	return e.setStatus(appliedStatus(cmd, e.current)), nil
}

// Undo restores the image as it was before the most recent edit.
func (e *Engine) Undo() string {
	e.endPreview()
	cmd, _ := e.history.Undo(func(c *Command) error {
		e.current = c.Backup.Clone()
		return nil
	})
	if cmd == nil {
		return e.setStatus(StatusNothingToUndo)
	}
	e.log.WithField("edit", cmd.Label()).Debug("undo")
	return e.setStatus("Undo: " + cmd.Label())
}

// Redo performs the most recently undone edit again.
func (e *Engine) Redo() string {
	e.endPreview()
	cmd, err := e.history.Redo(func(c *Command) error {
		next, err := c.apply(e.current)
		if err != nil {
			return err
		}
		e.current = next
		return nil
	})
	if err != nil {
		e.log.WithError(err).Warn("redo failed")
		return e.status
	}
	if cmd == nil {
		return e.setStatus(StatusNothingToRedo)
	}
	e.log.WithField("edit", cmd.Label()).Debug("redo")
	return e.setStatus("Redo: " + cmd.Label())
}

// Current returns a copy of the shown image, or nil when none is loaded.
func (e *Engine) Current() *imaging.Buffer {
	if e.current == nil {
		return nil
	}
	return e.current.Clone()
}

// HasImage reports whether an image is loaded.
func (e *Engine) HasImage() bool { return e.current != nil }

// Status returns the most recent status line.
func (e *Engine) Status() string { return e.status }

// History lists the recorded edits in timeline order.
func (e *Engine) History() []Entry { return e.history.Entries() }

// Info summarizes the engine for status queries.
type Info struct {
	Loaded    bool   `json:"loaded"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	UndoDepth int    `json:"undo_depth"`
	RedoDepth int    `json:"redo_depth"`
	Preview   bool   `json:"preview"`
	Status    string `json:"status"`
}

// Info returns a snapshot of the engine state.
func (e *Engine) Info() Info {
	info := Info{
		Loaded:    e.current != nil,
		UndoDepth: e.history.UndoLen(),
		RedoDepth: e.history.RedoLen(),
		Preview:   e.preview != nil,
		Status:    e.status,
	}
	if e.current != nil {
		info.Width, info.Height = e.current.Width(), e.current.Height()
	}
	return info
}

func (e *Engine) setStatus(s string) string {
	e.status = s
	return s
}

func appliedStatus(cmd *Command, result *imaging.Buffer) string {
	switch cmd.Kind {
	case KindFilter:
		return "Applied: " + cmd.Label()
	case KindEnlarge:
		return fmt.Sprintf("Enlarged to %s.", result)
	case KindShrink:
		return fmt.Sprintf("Shrunk to %s.", result)
	case KindCrop:
		return fmt.Sprintf("Cropped to %s.", result)
	}
	return cmd.Label()
}
