package config

import "path"

// ComponentConfig holds per-component export settings.
// Component names from the design are matched against the keys of
// File.Components; keys may use glob syntax (path.Match).
type ComponentConfig struct {
	// Skip excludes matching components (and occurrences of them) from the
	// export entirely. They are recorded as skipped in the report.
	Skip bool `yaml:"skip,omitempty"`

	// Refinement overrides the global mesh refinement for matching
	// components. One of "low", "medium", "high". Empty means use the
	// global setting.
	Refinement string `yaml:"refinement,omitempty"`
}

// File represents the structure of the .stlexport configuration file.
type File struct {
	// Components maps component name patterns to their settings.
	// Patterns use glob syntax and are matched against display names
	// before filename sanitization.
	Components map[string]ComponentConfig `yaml:"components,omitempty"`

	// Defaults contains settings applied to all components unless
	// overridden by a matching entry in Components.
	Defaults ComponentConfig `yaml:"defaults,omitempty"`
}

// ComponentConfigFor returns the settings for the named component,
// merging defaults with the first matching pattern entry.
func (cf *File) ComponentConfigFor(name string) ComponentConfig {
	result := cf.Defaults

	// Exact match wins over pattern match
	if cc, ok := cf.Components[name]; ok {
		return mergeComponentConfig(result, cc)
	}

	for pattern, cc := range cf.Components {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return mergeComponentConfig(result, cc)
		}
	}

	return result
}

// mergeComponentConfig overlays non-zero override values on the defaults.
func mergeComponentConfig(defaults, override ComponentConfig) ComponentConfig {
	result := defaults
	if override.Skip {
		result.Skip = true
	}
	if override.Refinement != "" {
		result.Refinement = override.Refinement
	}
	return result
}
