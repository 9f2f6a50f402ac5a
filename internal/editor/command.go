package editor

import (
	"fmt"

	"github.com/ironsheep/image-editor-mcp/internal/filter"
	"github.com/ironsheep/image-editor-mcp/internal/imaging"
)

// Kind tags the action a Command records.
type Kind int

const (
	KindFilter Kind = iota
	KindEnlarge
	KindShrink
	KindCrop
)

func (k Kind) String() string {
	switch k {
	case KindFilter:
		return "filter"
	case KindEnlarge:
		return "enlarge"
	case KindShrink:
		return "shrink"
	case KindCrop:
		return "crop"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Command is one undoable edit.
//
// Backup is a private copy of the buffer taken just before the edit; undo
// installs a clone of it. The remaining fields are the parameters needed to
// perform the edit again on redo: Filter for KindFilter, Margins for
// KindCrop.
type Command struct {
	Kind    Kind
	Backup  *imaging.Buffer
	Filter  filter.Kind
	Margins imaging.Margins
}

// Label names the edit for status lines and history listings.
func (c *Command) Label() string {
	switch c.Kind {
	case KindFilter:
		return c.Filter.String()
	case KindEnlarge:
		return "Larger"
	case KindShrink:
		return "Smaller"
	case KindCrop:
		return fmt.Sprintf("Crop (%s)", c.Margins)
	}
	return c.Kind.String()
}

// validate rejects the edit for a width x height buffer before any state
// changes.
func (c *Command) validate(width, height int) error {
	switch c.Kind {
	case KindFilter:
		if !c.Filter.Valid() {
			return fmt.Errorf("%w: %v", filter.ErrUnknownFilter, c.Filter)
		}
	case KindCrop:
		return c.Margins.Validate(width, height)
	case KindEnlarge:
		return imaging.ValidateEnlarge(width, height)
	case KindShrink:
		return imaging.ValidateShrink(width, height)
	default:
		return fmt.Errorf("unknown edit kind %v", c.Kind)
	}
	return nil
}

// apply performs the edit on cur and returns the result. Filters mutate cur
// in place; geometry edits return a fresh buffer and leave cur untouched.
func (c *Command) apply(cur *imaging.Buffer) (*imaging.Buffer, error) {
	switch c.Kind {
	case KindFilter:
		if err := filter.Apply(c.Filter, cur); err != nil {
			return nil, err
		}
		return cur, nil
	case KindEnlarge:
		return imaging.Enlarge(cur)
	case KindShrink:
		return imaging.Shrink(cur)
	case KindCrop:
		return imaging.Crop(cur, c.Margins)
	}
	return nil, fmt.Errorf("unknown edit kind %v", c.Kind)
}
