package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/cadkit/stlexport/internal/cad"
)

// Default configuration values.
const (
	// DefaultHostAddress is the address the host add-in's bridge listens on.
	// The bridge binds to loopback only; the host application and stlexport
	// always run on the same machine.
	DefaultHostAddress = "127.0.0.1:9301"

	// DefaultTimeout bounds a single host request. Tessellating a dense
	// component at high refinement can take tens of seconds, so this is
	// deliberately generous.
	DefaultTimeout = 120 * time.Second

	// DefaultJobs of 1 preserves the strictly sequential export order:
	// every host call completes before the next item starts. Values above 1
	// let the host process several export requests at once.
	DefaultJobs = 1

	// DefaultRefinement is high because exported files are typically fed to
	// slicers for 3D printing, where coarse meshes show as visible facets.
	DefaultRefinement = cad.MeshRefinementHigh

	// FolderPrefix is the export folder name prefix. The full folder name is
	// FolderPrefix plus a YYYYMMDD_HHMMSS timestamp, so two runs started
	// more than one second apart never collide.
	FolderPrefix = "Fusion_STL_Export_"

	// SummaryFileName is the name of the per-run summary report file.
	SummaryFileName = "EXPORT_SUMMARY.txt"

	// AppName is the application name used for XDG directory paths.
	AppName = "stlexport"
)

// Config holds all options for an export run.
// It is populated from CLI flags and passed through the application via
// dependency injection rather than global state.
type Config struct {
	// HostAddress is the "host:port" address of the CAD host bridge.
	HostAddress string

	// Timeout bounds each individual host request (design fetch, one export).
	Timeout time.Duration

	// OutputRoot is the directory the timestamped export folder is created
	// under. Empty means the user's desktop.
	OutputRoot string

	// Refinement is the mesh refinement level requested from the host.
	Refinement cad.MeshRefinement

	// ASCII requests ASCII STL output instead of the binary default.
	ASCII bool

	// Shallow selects the shallow traversal strategy: only the root
	// component and its direct child occurrences, non-recursive.
	Shallow bool

	// Jobs is the number of concurrent export requests. 1 means strictly
	// sequential.
	Jobs int

	// Verify enables read-back verification of exported binary STL files.
	Verify bool

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is an explicit .stlexport file path. Empty means
	// search the current directory and then the home directory.
	ConfigFilePath string

	// Overrides holds per-component settings loaded from the config file.
	Overrides *File

	// JSONReport and MarkdownReport select the terminal report format.
	// Mutually exclusive; the default is a human-readable text report.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the terminal report to a file instead of stdout.
	ReportFile string

	// SaveToDB persists the run to the history database.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a Config with default values.
//
// Design decision: a constructor instead of zero values because most
// defaults are non-zero (timeout, jobs, refinement, host address). It also
// documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		HostAddress: DefaultHostAddress,
		Timeout:     DefaultTimeout,
		Jobs:        DefaultJobs,
		Refinement:  DefaultRefinement,
		SaveToDB:    true,
		DBDir:       XDGDataDir(),
	}
}

// Validate checks the configuration and returns the first problem found.
// Called once after flag parsing, before any host communication.
func (c *Config) Validate() error {
	if c.HostAddress == "" {
		return ErrNoHostAddress
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Jobs <= 0 {
		return ErrInvalidJobs
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.Refinement < cad.MeshRefinementLow || c.Refinement > cad.MeshRefinementHigh {
		return ErrInvalidRefinement
	}
	return nil
}

// StrategyName returns the traversal strategy name for reports.
func (c *Config) StrategyName() string {
	if c.Shallow {
		return "shallow"
	}
	return "full"
}

// DesktopDir returns the user's desktop directory, the default location for
// export folders. It prefers the XDG user directory and falls back to
// ~/Desktop when the platform does not report one.
func DesktopDir() string {
	if xdg.UserDirs.Desktop != "" {
		return xdg.UserDirs.Desktop
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "Desktop"
	}
	return filepath.Join(home, "Desktop")
}

// XDGDataDir returns the XDG data directory for stlexport.
// On Linux: ~/.local/share/stlexport
// On macOS: ~/Library/Application Support/stlexport
// On Windows: %LOCALAPPDATA%\stlexport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
