// Package cad defines the contract between stlexport and the host CAD
// application. The host owns all design entities and performs the actual
// geometry tessellation and STL encoding; this package only describes how
// designs are read and how export requests are issued.
//
// Implementations live in subpackages: fusion provides the HTTP bridge to a
// running host add-in, memdesign provides an in-memory design used by tests.
package cad
