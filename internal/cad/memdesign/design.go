package memdesign

import "github.com/cadkit/stlexport/internal/cad"

// Design is an in-memory design tree.
// The zero value is not usable; create designs with New.
type Design struct {
	name        string
	root        *Component
	components  []*Component
	occurrences []*Occurrence
}

// Component is an in-memory component definition.
type Component struct {
	name   string
	bodies int
}

// Occurrence is an in-memory assembly occurrence.
type Occurrence struct {
	name      string
	component *Component
	children  []*Occurrence
}

// New creates a design whose root component carries the design name.
// The root starts with zero bodies; use SetRootBodies to give it geometry.
func New(name string) *Design {
	root := &Component{name: name}
	return &Design{
		name:       name,
		root:       root,
		components: []*Component{root},
	}
}

// SetRootBodies sets the body count of the root component.
func (d *Design) SetRootBodies(n int) {
	d.root.bodies = n
}

// AddComponent adds a component definition with the given body count.
func (d *Design) AddComponent(name string, bodies int) *Component {
	c := &Component{name: name, bodies: bodies}
	d.components = append(d.components, c)
	return c
}

// AddOccurrence places an instance of comp under parent.
// A nil parent places the occurrence directly under the root.
func (d *Design) AddOccurrence(parent *Occurrence, comp *Component, name string) *Occurrence {
	o := &Occurrence{name: name, component: comp}
	if parent == nil {
		d.occurrences = append(d.occurrences, o)
	} else {
		parent.children = append(parent.children, o)
	}
	return o
}

// Name implements cad.Design.
func (d *Design) Name() string { return d.name }

// RootComponent implements cad.Design.
func (d *Design) RootComponent() cad.Component { return d.root }

// AllComponents implements cad.Design.
func (d *Design) AllComponents() []cad.Component {
	out := make([]cad.Component, len(d.components))
	for i, c := range d.components {
		out[i] = c
	}
	return out
}

// Occurrences implements cad.Design.
func (d *Design) Occurrences() []cad.Occurrence {
	out := make([]cad.Occurrence, len(d.occurrences))
	for i, o := range d.occurrences {
		out[i] = o
	}
	return out
}

// AllOccurrences implements cad.Design.
func (d *Design) AllOccurrences() []cad.Occurrence {
	var out []cad.Occurrence
	var walk func(o *Occurrence)
	walk = func(o *Occurrence) {
		out = append(out, o)
		for _, child := range o.children {
			walk(child)
		}
	}
	for _, o := range d.occurrences {
		walk(o)
	}
	return out
}

// Name implements cad.Component.
func (c *Component) Name() string { return c.name }

// BodyCount implements cad.Component.
func (c *Component) BodyCount() int { return c.bodies }

// Name implements cad.Occurrence.
func (o *Occurrence) Name() string { return o.name }

// Component implements cad.Occurrence.
func (o *Occurrence) Component() cad.Component { return o.component }

// Children implements cad.Occurrence.
func (o *Occurrence) Children() []cad.Occurrence {
	out := make([]cad.Occurrence, len(o.children))
	for i, c := range o.children {
		out[i] = c
	}
	return out
}
