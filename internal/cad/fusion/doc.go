// Package fusion is the HTTP bridge client to the CAD host add-in.
//
// The add-in runs inside the host application and exposes the active design
// and its export manager over a loopback HTTP listener. This package
// fetches a read-only snapshot of the component and occurrence tree
// (implementing the cad.Design interface) and forwards STL export requests
// to the host, which performs the tessellation and file writing itself.
package fusion
