package cad

import "testing"

// TestMeshRefinementString verifies the refinement names sent to the host.
func TestMeshRefinementString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		refinement MeshRefinement
		want       string
	}{
		{MeshRefinementLow, "low"},
		{MeshRefinementMedium, "medium"},
		{MeshRefinementHigh, "high"},
		{MeshRefinement(42), "unknown"},
	}

	for _, tt := range tests {
		tt := tt
		if got := tt.refinement.String(); got != tt.want {
			t.Errorf("MeshRefinement(%d).String() = %q, want %q", tt.refinement, got, tt.want)
		}
	}
}

// TestParseMeshRefinement verifies parsing of user-supplied refinement names.
func TestParseMeshRefinement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    MeshRefinement
		wantErr bool
	}{
		{name: "low", input: "low", want: MeshRefinementLow},
		{name: "medium", input: "medium", want: MeshRefinementMedium},
		{name: "high", input: "high", want: MeshRefinementHigh},
		{name: "uppercase", input: "HIGH", want: MeshRefinementHigh},
		{name: "padded", input: "  medium ", want: MeshRefinementMedium},
		{name: "unknown", input: "ultra", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMeshRefinement(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseMeshRefinement(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMeshRefinement(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMeshRefinement(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
