package export

import (
	"fmt"
	"strings"

	"github.com/cadkit/stlexport/internal/cad"
	"github.com/cadkit/stlexport/internal/config"
	"github.com/cadkit/stlexport/internal/model"
)

// Strategy selects which parts of the design are exported.
//
// Design decision: the original tool carried the shallow traversal as dead
// code next to the full one. We expose both as a selectable strategy chosen
// at call time instead.
type Strategy int

const (
	// StrategyFull exports every component in the design (skipping the root
	// only when it has no geometry), then every occurrence under the root,
	// recursively, whose component has at least one body. A component can
	// therefore be exported more than once: once as a definition and once
	// per occurrence referencing it. Occurrences may carry instance-specific
	// transforms, so the duplication is intentional.
	StrategyFull Strategy = iota

	// StrategyShallow exports only the root component (if it has geometry)
	// and its direct child occurrences with geometry, non-recursive.
	StrategyShallow
)

// String returns the lowercase strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyFull:
		return "full"
	case StrategyShallow:
		return "shallow"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a user-supplied string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return StrategyFull, nil
	case "shallow":
		return StrategyShallow, nil
	default:
		return StrategyFull, fmt.Errorf("unknown strategy %q (expected full or shallow)", s)
	}
}

// Item is one planned export: a target plus the decision made about it.
// Skipped items carry the reason and never reach the host.
type Item struct {
	// Target is the component or occurrence to export.
	Target cad.Exportable

	// Name is the target's display name.
	Name string

	// Kind says whether the item is a component or an occurrence.
	Kind model.Kind

	// Refinement is the mesh refinement for this item, after per-component
	// overrides.
	Refinement cad.MeshRefinement

	// Skip marks items excluded before export; SkipReason explains why.
	Skip       bool
	SkipReason string
}

// planner builds the item list for a design under a strategy.
type planner struct {
	strategy   Strategy
	refinement cad.MeshRefinement
	overrides  *config.File
}

// plan enumerates the design into export items.
// The component pass comes first, then the occurrence pass, matching the
// order the host enumerates them.
func (p *planner) plan(design cad.Design) []Item {
	switch p.strategy {
	case StrategyShallow:
		return p.planShallow(design)
	default:
		return p.planFull(design)
	}
}

// planFull plans all components, then all occurrences recursively.
func (p *planner) planFull(design cad.Design) []Item {
	var items []Item
	root := design.RootComponent()

	for _, comp := range design.AllComponents() {
		item := p.componentItem(comp)
		// The root component usually only groups children; exporting it
		// without geometry would ask the host for an empty mesh.
		if comp == root && comp.BodyCount() == 0 {
			item.Skip = true
			item.SkipReason = "root component has no geometry"
		}
		items = append(items, item)
	}

	for _, occ := range design.AllOccurrences() {
		items = append(items, p.occurrenceItem(occ))
	}

	return items
}

// planShallow plans the root component and the root's direct occurrences.
func (p *planner) planShallow(design cad.Design) []Item {
	var items []Item

	if root := design.RootComponent(); root != nil {
		item := p.componentItem(root)
		if root.BodyCount() == 0 {
			item.Skip = true
			item.SkipReason = "root component has no geometry"
		}
		items = append(items, item)
	}

	for _, occ := range design.Occurrences() {
		items = append(items, p.occurrenceItem(occ))
	}

	return items
}

// componentItem builds the item for a component, applying overrides.
func (p *planner) componentItem(comp cad.Component) Item {
	item := Item{
		Target:     comp,
		Name:       comp.Name(),
		Kind:       model.KindComponent,
		Refinement: p.refinement,
	}
	p.applyOverrides(&item, comp.Name())
	return item
}

// occurrenceItem builds the item for an occurrence, applying overrides
// keyed by the underlying component's name. Occurrences whose component has
// no geometry are skipped.
func (p *planner) occurrenceItem(occ cad.Occurrence) Item {
	item := Item{
		Target:     occ,
		Name:       occ.Name(),
		Kind:       model.KindOccurrence,
		Refinement: p.refinement,
	}

	if occ.Component().BodyCount() == 0 {
		item.Skip = true
		item.SkipReason = "component has no geometry"
		return item
	}

	p.applyOverrides(&item, occ.Component().Name())
	return item
}

// applyOverrides applies config-file settings for the given component name.
func (p *planner) applyOverrides(item *Item, componentName string) {
	if p.overrides == nil {
		return
	}

	cc := p.overrides.ComponentConfigFor(componentName)
	if cc.Skip {
		item.Skip = true
		item.SkipReason = "skipped by configuration"
		return
	}
	if cc.Refinement != "" {
		if r, err := cad.ParseMeshRefinement(cc.Refinement); err == nil {
			item.Refinement = r
		}
	}
}
