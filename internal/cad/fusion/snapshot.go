package fusion

import (
	"fmt"

	"github.com/cadkit/stlexport/internal/cad"
)

// snapshotDesign is the client-side view of the host's active design.
// It is immutable once built; the host remains the owner of the real
// entities.
type snapshotDesign struct {
	name        string
	root        *snapshotComponent
	components  []*snapshotComponent
	occurrences []*snapshotOccurrence
}

// snapshotComponent mirrors one host component.
type snapshotComponent struct {
	id     string
	name   string
	bodies int
}

// snapshotOccurrence mirrors one host occurrence subtree.
type snapshotOccurrence struct {
	id        string
	name      string
	component *snapshotComponent
	children  []*snapshotOccurrence
}

// newSnapshot builds the design view from its wire form.
// Every occurrence must reference a component present in the payload.
func newSnapshot(payload *designPayload) (*snapshotDesign, error) {
	d := &snapshotDesign{name: payload.Name}

	byID := make(map[string]*snapshotComponent, len(payload.Components))
	for _, cp := range payload.Components {
		c := &snapshotComponent{id: cp.ID, name: cp.Name, bodies: cp.Bodies}
		d.components = append(d.components, c)
		byID[cp.ID] = c
	}

	if payload.Root != "" {
		root, ok := byID[payload.Root]
		if !ok {
			return nil, fmt.Errorf("design snapshot references unknown root component %q", payload.Root)
		}
		d.root = root
	}

	var build func(op occurrencePayload) (*snapshotOccurrence, error)
	build = func(op occurrencePayload) (*snapshotOccurrence, error) {
		comp, ok := byID[op.Component]
		if !ok {
			return nil, fmt.Errorf("occurrence %q references unknown component %q", op.Name, op.Component)
		}
		o := &snapshotOccurrence{id: op.ID, name: op.Name, component: comp}
		for _, child := range op.Children {
			c, err := build(child)
			if err != nil {
				return nil, err
			}
			o.children = append(o.children, c)
		}
		return o, nil
	}

	for _, op := range payload.Occurrences {
		o, err := build(op)
		if err != nil {
			return nil, err
		}
		d.occurrences = append(d.occurrences, o)
	}

	return d, nil
}

// Name implements cad.Design.
func (d *snapshotDesign) Name() string { return d.name }

// RootComponent implements cad.Design.
func (d *snapshotDesign) RootComponent() cad.Component {
	if d.root == nil {
		return nil
	}
	return d.root
}

// AllComponents implements cad.Design.
func (d *snapshotDesign) AllComponents() []cad.Component {
	out := make([]cad.Component, len(d.components))
	for i, c := range d.components {
		out[i] = c
	}
	return out
}

// Occurrences implements cad.Design.
func (d *snapshotDesign) Occurrences() []cad.Occurrence {
	out := make([]cad.Occurrence, len(d.occurrences))
	for i, o := range d.occurrences {
		out[i] = o
	}
	return out
}

// AllOccurrences implements cad.Design.
func (d *snapshotDesign) AllOccurrences() []cad.Occurrence {
	var out []cad.Occurrence
	var walk func(o *snapshotOccurrence)
	walk = func(o *snapshotOccurrence) {
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
func (c *snapshotComponent) Name() string { return c.name }

// BodyCount implements cad.Component.
func (c *snapshotComponent) BodyCount() int { return c.bodies }

// Name implements cad.Occurrence.
func (o *snapshotOccurrence) Name() string { return o.name }

// Component implements cad.Occurrence.
func (o *snapshotOccurrence) Component() cad.Component { return o.component }

// Children implements cad.Occurrence.
func (o *snapshotOccurrence) Children() []cad.Occurrence {
	out := make([]cad.Occurrence, len(o.children))
	for i, c := range o.children {
		out[i] = c
	}
	return out
}
