package memdesign

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/cadkit/stlexport/internal/cad"
)

// Exporter is a scripted cad.Exporter for tests.
// Successful exports write stub STL files whose facet count equals the
// target component's body count; failures are injected per target name.
type Exporter struct {
	mu       sync.Mutex
	failures map[string]error
	calls    []ExportCall
}

// ExportCall records one ExportSTL invocation.
type ExportCall struct {
	TargetName string
	Options    cad.STLOptions
}

// NewExporter creates an Exporter with no scripted failures.
func NewExporter() *Exporter {
	return &Exporter{
		failures: make(map[string]error),
	}
}

// FailWith makes every export of the named target return err.
func (e *Exporter) FailWith(targetName string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures[targetName] = err
}

// Calls returns a copy of the recorded export calls.
func (e *Exporter) Calls() []ExportCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ExportCall(nil), e.calls...)
}

// ExportSTL implements cad.Exporter.
func (e *Exporter) ExportSTL(ctx context.Context, target cad.Exportable, opts cad.STLOptions) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	e.mu.Lock()
	e.calls = append(e.calls, ExportCall{TargetName: target.Name(), Options: opts})
	failure := e.failures[target.Name()]
	e.mu.Unlock()

	if failure != nil {
		return failure
	}

	facets := bodyCountOf(target)
	if opts.Binary {
		return writeStubBinarySTL(opts.Path, facets)
	}
	return writeStubASCIISTL(opts.Path, target.Name(), facets)
}

// bodyCountOf returns the body count behind a component or occurrence.
func bodyCountOf(target cad.Exportable) int {
	switch t := target.(type) {
	case *Component:
		return t.bodies
	case *Occurrence:
		return t.component.bodies
	default:
		return 0
	}
}

// writeStubBinarySTL writes a structurally valid binary STL with the given
// number of zeroed facet records.
func writeStubBinarySTL(path string, facets int) error {
	f, err := os.Create(path) //nolint:gosec // Test fixture path
	if err != nil {
		return fmt.Errorf("stub export failed: %w", err)
	}
	defer f.Close()

	header := make([]byte, 80)
	copy(header, "memdesign stub")
	if _, err := f.Write(header); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(facets)); err != nil { //nolint:gosec // Body counts are tiny
		return err
	}
	zero := make([]byte, 50)
	for i := 0; i < facets; i++ {
		if _, err := f.Write(zero); err != nil {
			return err
		}
	}
	return nil
}

// writeStubASCIISTL writes a structurally valid ASCII STL with the given
// number of degenerate facets.
func writeStubASCIISTL(path, name string, facets int) error {
	var sb strings.Builder
	sb.WriteString("solid " + name + "\n")
	for i := 0; i < facets; i++ {
		sb.WriteString("  facet normal 0 0 0\n")
		sb.WriteString("    outer loop\n")
		sb.WriteString("      vertex 0 0 0\n")
		sb.WriteString("      vertex 0 0 0\n")
		sb.WriteString("      vertex 0 0 0\n")
		sb.WriteString("    endloop\n")
		sb.WriteString("  endfacet\n")
	}
	sb.WriteString("endsolid " + name + "\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("stub export failed: %w", err)
	}
	return nil
}
