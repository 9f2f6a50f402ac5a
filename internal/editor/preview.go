package editor

import (
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor-mcp/internal/filter"
	"github.com/ironsheep/image-editor-mcp/internal/imaging"
)

// preview is an uncommitted edit shown in place of the current image.
// base is the image as it was when the session started; every render is
// computed from base, never from the previous render.
type preview struct {
	base *imaging.Buffer
	cmd  *Command
}

// PreviewCrop shows the current image cropped by m without recording an
// edit. Repeated calls replace the previous preview.
func (e *Engine) PreviewCrop(m imaging.Margins) (string, error) {
	return e.render(&Command{Kind: KindCrop, Margins: m})
}

// PreviewFilter shows the named filter applied to the current image without
// recording an edit.
func (e *Engine) PreviewFilter(name string) (string, error) {
	if e.current == nil {
		return e.setStatus(StatusNoImage), nil
	}
	k, err := filter.Lookup(name)
	if err != nil {
		return e.status, err
	}
	return e.render(&Command{Kind: KindFilter, Filter: k})
}

func (e *Engine) render(cmd *Command) (string, error) {
	if e.current == nil {
		return e.setStatus(StatusNoImage), nil
	}
	base := e.current
	if e.preview != nil {
		base = e.preview.base
	}
	if err := cmd.validate(base.Width(), base.Height()); err != nil {
		e.log.WithField("edit", cmd.Label()).WithError(err).Warn("preview rejected")
		return e.status, err
	}
	next, err := cmd.apply(base.Clone())
	if err != nil {
		return e.status, err
	}

	if e.preview == nil {
		e.preview = &preview{base: base}
	}
	e.preview.cmd = cmd
	e.current = next
	return e.setStatus("Preview: " + cmd.Label()), nil
}

// InPreview reports whether a preview session is active.
func (e *Engine) InPreview() bool { return e.preview != nil }

// CommitPreview records the previewed edit as a single history entry whose
// undo restores the image from before the session.
func (e *Engine) CommitPreview() (string, error) {
	if e.preview == nil {
		return e.setStatus(StatusNoPreview), nil
	}
	p := e.preview
	p.cmd.Backup = p.base
	if err := e.history.Record(p.cmd, func() error { return nil }); err != nil {
		return e.status, err
	}
	e.preview = nil

	e.log.WithFields(logrus.Fields{
		"edit":   p.cmd.Label(),
		"result": e.current.String(),
	}).Debug("preview committed")
	return e.setStatus(appliedStatus(p.cmd, e.current)), nil
}

// DiscardPreview ends the session and shows the image from before it.
func (e *Engine) DiscardPreview() string {
	if e.preview == nil {
		return e.setStatus(StatusNoPreview)
	}
	e.endPreview()
	return e.setStatus(StatusDiscarded)
}

func (e *Engine) endPreview() {
	if e.preview == nil {
		return
	}
	e.current = e.preview.base
	e.preview = nil
}
