package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/image-editor-mcp/internal/imaging"
)

// ErrUnknownFilter reports a name that is not in the catalog.
var ErrUnknownFilter = errors.New("unknown filter")

// Kind identifies one filter of the catalog.
type Kind int

// The catalog, in menu order.
const (
	Darker Kind = iota
	Lighter
	Threshold
	Invert
	Solarize
	Smooth
	Pixelize
	Mirror
	Grayscale
	EdgeDetection
	FishEye

	numKinds
)

type entry struct {
	name  string
	apply func(*imaging.Buffer)
}

// table maps every Kind to its display name and mutation.
var table = [numKinds]entry{
	Darker:        {"Darker", applyDarker},
	Lighter:       {"Lighter", applyLighter},
	Threshold:     {"Threshold", applyThreshold},
	Invert:        {"Invert", applyInvert},
	Solarize:      {"Solarize", applySolarize},
	Smooth:        {"Smooth", applySmooth},
	Pixelize:      {"Pixelize", applyPixelize},
	Mirror:        {"Mirror", applyMirror},
	Grayscale:     {"Grayscale", applyGrayscale},
	EdgeDetection: {"Edge Detection", applyEdgeDetection},
	FishEye:       {"Fish Eye", applyFishEye},
}

// Catalog returns every filter in menu order.
func Catalog() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Names returns the display names in menu order.
func Names() []string {
	names := make([]string, numKinds)
	for i, e := range table {
		names[i] = e.name
	}
	return names
}

// Valid reports whether k is a catalog entry.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// String returns the display name, used for menus and status messages.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return table[k].name
}

// Lookup finds a filter by display name. An exact match wins; otherwise
// the comparison ignores case.
func Lookup(name string) (Kind, error) {
	for i, e := range table {
		if e.name == name {
			return Kind(i), nil
		}
	}
	for i, e := range table {
		if strings.EqualFold(e.name, strings.TrimSpace(name)) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
}

// Apply runs filter k on b in place. Dimensions never change. Filters are
// deterministic: the same input pixels always produce the same output.
func Apply(k Kind, b *imaging.Buffer) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %v", ErrUnknownFilter, k)
	}
	if b.Width() == 0 || b.Height() == 0 {
		return nil
	}
	table[k].apply(b)
	return nil
}
