package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cadkit/stlexport/internal/config"
)

// folderTimestampLayout formats the folder timestamp as YYYYMMDD_HHMMSS.
const folderTimestampLayout = "20060102_150405"

// CreateFolder creates the timestamped export folder under root and returns
// its absolute path. The folder is named
//
//	Fusion_STL_Export_<YYYYMMDD_HHMMSS>
//
// so runs started more than one second apart never collide. Two runs within
// the same second share a folder; the second run's files overwrite the
// first's. Creation errors (permissions, disk full) propagate to the caller.
func CreateFolder(root string, now time.Time) (string, error) {
	name := config.FolderPrefix + now.Format(folderTimestampLayout)
	path := filepath.Join(root, name)

	if err := os.MkdirAll(path, 0750); err != nil {
		return "", fmt.Errorf("failed to create export folder: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve export folder path: %w", err)
	}
	return abs, nil
}
