// Package memdesign provides an in-memory implementation of the cad
// interfaces. It is used throughout the repository's tests as a substitute
// for a live CAD host: designs are assembled programmatically and the
// exporter writes stub STL files (or injected failures) instead of real
// tessellated geometry.
package memdesign
