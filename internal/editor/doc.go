// Package editor holds the editing session for one image: the current
// buffer, its undo/redo history and an optional preview.
//
// # Edits
//
// Every committed edit is a Command carrying a snapshot of the buffer from
// just before the edit plus the parameters needed to perform it again.
// Undo installs a copy of the snapshot; redo re-runs the edit on the
// restored buffer. Recording a new edit discards anything that could have
// been redone.
//
// Invalid requests (unknown filter names, crops that would leave nothing,
// sizes past imaging.MaxDimension) are rejected before anything changes.
// Requests made with no image loaded are not errors: they report
// StatusNoImage and do nothing.
//
// # Preview
//
// PreviewCrop and PreviewFilter show an edit without recording it. Each
// call renders from the image as it was when the preview began.
// CommitPreview records the last preview as a single edit and
// DiscardPreview restores the base image. Any other edit, undo, redo, load or
// close discards an open preview first.
package editor
