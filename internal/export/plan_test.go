package export

import (
	"testing"

	"github.com/cadkit/stlexport/internal/cad"
	"github.com/cadkit/stlexport/internal/cad/memdesign"
	"github.com/cadkit/stlexport/internal/config"
	"github.com/cadkit/stlexport/internal/model"
)

// TestParseStrategy verifies strategy name parsing.
func TestParseStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Strategy
		wantErr bool
	}{
		{input: "full", want: StrategyFull},
		{input: "shallow", want: StrategyShallow},
		{input: "FULL", want: StrategyFull},
		{input: "  shallow ", want: StrategyShallow},
		{input: "deep", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseStrategy(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseStrategy(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStrategy(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStrategy(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestStrategyString verifies the strategy names used in reports.
func TestStrategyString(t *testing.T) {
	t.Parallel()

	if StrategyFull.String() != "full" {
		t.Errorf("StrategyFull.String() = %q", StrategyFull.String())
	}
	if StrategyShallow.String() != "shallow" {
		t.Errorf("StrategyShallow.String() = %q", StrategyShallow.String())
	}
	if Strategy(99).String() != "unknown" {
		t.Errorf("Strategy(99).String() = %q", Strategy(99).String())
	}
}

// TestPlanFull verifies the full traversal: all components first, then all
// occurrences recursively, with geometry-based skips.
func TestPlanFull(t *testing.T) {
	t.Parallel()

	t.Run("component referenced by occurrences is planned per reference", func(t *testing.T) {
		t.Parallel()

		d := memdesign.New("Assembly")
		bracket := d.AddComponent("Bracket", 1)
		d.AddOccurrence(nil, bracket, "Bracket:1")
		d.AddOccurrence(nil, bracket, "Bracket:2")

		p := &planner{strategy: StrategyFull, refinement: cad.MeshRefinementHigh}
		items := p.plan(d)

		// Root component + Bracket component + two occurrences
		if len(items) != 4 {
			t.Fatalf("expected 4 items, got %d", len(items))
		}

		var bracketItems int
		for _, item := range items {
			if item.Kind == model.KindComponent && item.Name == "Bracket" {
				bracketItems++
			}
			if item.Kind == model.KindOccurrence {
				bracketItems++
			}
		}
		if bracketItems != 3 {
			t.Errorf("expected Bracket once as component and twice as occurrence, counted %d", bracketItems)
		}
	})

	t.Run("root with no geometry is skipped", func(t *testing.T) {
		t.Parallel()

		d := memdesign.New("Assembly")
		d.AddComponent("Part", 1)

		p := &planner{strategy: StrategyFull, refinement: cad.MeshRefinementHigh}
		items := p.plan(d)

		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		root := items[0]
		if !root.Skip {
			t.Error("expected bodiless root to be skipped")
		}
		if root.SkipReason != "root component has no geometry" {
			t.Errorf("unexpected skip reason: %q", root.SkipReason)
		}
	})

	t.Run("root with geometry is exported", func(t *testing.T) {
		t.Parallel()

		d := memdesign.New("SinglePart")
		d.SetRootBodies(2)

		p := &planner{strategy: StrategyFull, refinement: cad.MeshRefinementHigh}
		items := p.plan(d)

		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].Skip {
			t.Errorf("expected root with geometry to be planned, skipped with %q", items[0].SkipReason)
		}
	})

	t.Run("occurrence of bodiless component is skipped", func(t *testing.T) {
		t.Parallel()

		d := memdesign.New("Assembly")
		group := d.AddComponent("Group", 0)
		d.AddOccurrence(nil, group, "Group:1")

		p := &planner{strategy: StrategyFull, refinement: cad.MeshRefinementHigh}
		items := p.plan(d)

		var occ *Item
		for i := range items {
			if items[i].Kind == model.KindOccurrence {
				occ = &items[i]
			}
		}
		if occ == nil {
			t.Fatal("occurrence was not planned at all")
		}
		if !occ.Skip {
			t.Error("expected occurrence of bodiless component to be skipped")
		}
		if occ.SkipReason != "component has no geometry" {
			t.Errorf("unexpected skip reason: %q", occ.SkipReason)
		}
	})

	t.Run("nested occurrences are planned recursively", func(t *testing.T) {
		t.Parallel()

		d := memdesign.New("Assembly")
		sub := d.AddComponent("SubAssembly", 1)
		part := d.AddComponent("Part", 1)
		parent := d.AddOccurrence(nil, sub, "SubAssembly:1")
		d.AddOccurrence(parent, part, "Part:1")

		p := &planner{strategy: StrategyFull, refinement: cad.MeshRefinementHigh}
		items := p.plan(d)

		var occurrences int
		for _, item := range items {
			if item.Kind == model.KindOccurrence {
				occurrences++
			}
		}
		if occurrences != 2 {
			t.Errorf("expected 2 occurrence items (parent and nested child), got %d", occurrences)
		}
	})
}

// TestPlanShallow verifies the shallow traversal: root plus direct
// occurrences only.
func TestPlanShallow(t *testing.T) {
	t.Parallel()

	d := memdesign.New("Assembly")
	d.SetRootBodies(1)
	sub := d.AddComponent("SubAssembly", 1)
	part := d.AddComponent("Part", 1)
	parent := d.AddOccurrence(nil, sub, "SubAssembly:1")
	d.AddOccurrence(parent, part, "Part:1")

	p := &planner{strategy: StrategyShallow, refinement: cad.MeshRefinementHigh}
	items := p.plan(d)

	// Root component + one direct occurrence; the nested Part:1 is excluded.
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Kind != model.KindComponent || items[0].Name != "Assembly" {
		t.Errorf("expected root component first, got %s %q", items[0].Kind, items[0].Name)
	}
	if items[1].Kind != model.KindOccurrence || items[1].Name != "SubAssembly:1" {
		t.Errorf("expected direct occurrence second, got %s %q", items[1].Kind, items[1].Name)
	}
}

// TestPlanOverrides verifies config-file skip and refinement overrides.
func TestPlanOverrides(t *testing.T) {
	t.Parallel()

	t.Run("skip by exact name", func(t *testing.T) {
		t.Parallel()

		d := memdesign.New("Assembly")
		fastener := d.AddComponent("Fastener M3", 1)
		d.AddOccurrence(nil, fastener, "Fastener M3:1")

		overrides := &config.File{
			Components: map[string]config.ComponentConfig{
				"Fastener M3": {Skip: true},
			},
		}

		p := &planner{strategy: StrategyFull, refinement: cad.MeshRefinementHigh, overrides: overrides}
		items := p.plan(d)

		for _, item := range items {
			if item.Name == "Fastener M3" || item.Name == "Fastener M3:1" {
				if !item.Skip {
					t.Errorf("expected %q to be skipped by configuration", item.Name)
				}
				if item.SkipReason != "skipped by configuration" {
					t.Errorf("unexpected skip reason for %q: %q", item.Name, item.SkipReason)
				}
			}
		}
	})

	t.Run("skip by glob pattern covers occurrences via component name", func(t *testing.T) {
		t.Parallel()

		d := memdesign.New("Assembly")
		f3 := d.AddComponent("Fastener M3", 1)
		f4 := d.AddComponent("Fastener M4", 1)
		d.AddOccurrence(nil, f3, "Fastener M3:1")
		d.AddOccurrence(nil, f4, "Fastener M4:1")

		overrides := &config.File{
			Components: map[string]config.ComponentConfig{
				"Fastener*": {Skip: true},
			},
		}

		p := &planner{strategy: StrategyFull, refinement: cad.MeshRefinementHigh, overrides: overrides}
		items := p.plan(d)

		var skipped int
		for _, item := range items {
			if item.Skip && item.SkipReason == "skipped by configuration" {
				skipped++
			}
		}
		// Two components and two occurrences
		if skipped != 4 {
			t.Errorf("expected 4 configuration skips, got %d", skipped)
		}
	})

	t.Run("refinement override", func(t *testing.T) {
		t.Parallel()

		d := memdesign.New("Assembly")
		d.AddComponent("Housing", 1)

		overrides := &config.File{
			Components: map[string]config.ComponentConfig{
				"Housing": {Refinement: "medium"},
			},
		}

		p := &planner{strategy: StrategyFull, refinement: cad.MeshRefinementHigh, overrides: overrides}
		items := p.plan(d)

		for _, item := range items {
			if item.Name == "Housing" && item.Refinement != cad.MeshRefinementMedium {
				t.Errorf("expected medium refinement for Housing, got %s", item.Refinement)
			}
			if item.Name == "Assembly" && item.Refinement != cad.MeshRefinementHigh {
				t.Errorf("expected default refinement for root, got %s", item.Refinement)
			}
		}
	})

	t.Run("invalid refinement override keeps the default", func(t *testing.T) {
		t.Parallel()

		d := memdesign.New("Assembly")
		d.AddComponent("Housing", 1)

		overrides := &config.File{
			Components: map[string]config.ComponentConfig{
				"Housing": {Refinement: "ultra"},
			},
		}

		p := &planner{strategy: StrategyFull, refinement: cad.MeshRefinementLow, overrides: overrides}
		items := p.plan(d)

		for _, item := range items {
			if item.Name == "Housing" && item.Refinement != cad.MeshRefinementLow {
				t.Errorf("expected invalid override to keep default, got %s", item.Refinement)
			}
		}
	})
}
