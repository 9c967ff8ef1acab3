package cad

import (
	"context"
	"fmt"
	"strings"
)

// Design is a read-only handle to the host's active design.
// All entities are owned and mutated exclusively by the host application;
// stlexport only reads them and requests derived file artifacts.
//
// Design decision: we pass a Design into every function instead of fetching
// an ambient "current application" singleton. This makes the data flow
// explicit and lets tests substitute an in-memory design.
type Design interface {
	// Name returns the display name of the design (its root component name).
	Name() string

	// RootComponent returns the root of the component tree.
	RootComponent() Component

	// AllComponents returns every component in the design, root included.
	// Order follows the host's enumeration order.
	AllComponents() []Component

	// Occurrences returns the direct child occurrences of the root component.
	Occurrences() []Occurrence

	// AllOccurrences returns every occurrence under the root, recursively,
	// in preorder.
	AllOccurrences() []Occurrence
}

// Component is a reusable named part definition in the assembly tree.
// A component may be referenced by any number of occurrences.
type Component interface {
	// Name returns the component's display name.
	Name() string

	// BodyCount returns the number of solid bodies the component owns.
	// A component with zero bodies has no geometry to export.
	BodyCount() int
}

// Occurrence is a positioned instance of a component within the assembly.
// Its name is independent of the component it references.
type Occurrence interface {
	// Name returns the occurrence's display name (e.g. "Bracket:1").
	Name() string

	// Component returns the component this occurrence instantiates.
	Component() Component

	// Children returns the occurrence's direct child occurrences.
	Children() []Occurrence
}

// Exportable is anything the host can tessellate into an STL file.
// Both Component and Occurrence satisfy it.
type Exportable interface {
	Name() string
}

// Exporter issues STL export requests to the host.
// The host writes the file at opts.Path; stlexport never encodes mesh data.
//
// ExportSTL blocks until the host has finished (or failed) the export.
type Exporter interface {
	ExportSTL(ctx context.Context, target Exportable, opts STLOptions) error
}

// STLOptions describes a single STL export request.
type STLOptions struct {
	// Path is the absolute target file path, including the .stl extension.
	Path string

	// Refinement selects the host's mesh tessellation quality.
	Refinement MeshRefinement

	// Binary requests binary STL output. When false, the host writes ASCII.
	Binary bool
}

// MeshRefinement is the host's mesh tessellation quality setting.
// It controls triangle density and accuracy when the host converts CAD
// geometry into a mesh.
type MeshRefinement int

const (
	// MeshRefinementLow produces coarse meshes with few triangles.
	MeshRefinementLow MeshRefinement = iota

	// MeshRefinementMedium balances triangle count and accuracy.
	MeshRefinementMedium

	// MeshRefinementHigh produces dense, accurate meshes. This is the
	// default because exported files are typically used for 3D printing.
	MeshRefinementHigh
)

// String returns the lowercase name of the refinement level.
func (r MeshRefinement) String() string {
	switch r {
	case MeshRefinementLow:
		return "low"
	case MeshRefinementMedium:
		return "medium"
	case MeshRefinementHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseMeshRefinement converts a user-supplied string into a MeshRefinement.
// Matching is case-insensitive.
func ParseMeshRefinement(s string) (MeshRefinement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return MeshRefinementLow, nil
	case "medium":
		return MeshRefinementMedium, nil
	case "high":
		return MeshRefinementHigh, nil
	default:
		return MeshRefinementHigh, fmt.Errorf("unknown mesh refinement %q (expected low, medium, or high)", s)
	}
}
