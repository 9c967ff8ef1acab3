// Package config provides configuration structures and utilities for
// stlexport. It defines export behavior options (host address, output
// location, mesh refinement, traversal strategy) and loads per-component
// overrides from the .stlexport YAML file.
package config
