// Package hibernate reports and toggles Windows hibernation, whose
// hiberfil.sys file commonly pins several gigabytes on the system drive.
package hibernate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/lakshaymaurya-felt/winsweep/internal/config"
)

// powercfgTimeout is the maximum time to wait for powercfg.
const powercfgTimeout = 30 * time.Second

// Info describes the hibernation file's current state.
type Info struct {
	Enabled   bool   `json:"enabled"`
	SizeBytes int64  `json:"sizeBytes"`
	Path      string `json:"path"`
}

// Query inspects hiberfil.sys on the system drive. A missing file means
// hibernation is off; any other stat failure is surfaced.
func Query() (Info, error) {
	path := filepath.Join(config.SystemDriveMount(), "hiberfil.sys")
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return Info{Enabled: true, SizeBytes: info.Size(), Path: path}, nil
	case errors.Is(err, fs.ErrNotExist):
		return Info{Enabled: false, SizeBytes: 0, Path: path}, nil
	default:
		return Info{}, err
	}
}

// SetEnabled toggles hibernation via powercfg and re-queries the result.
// Requires elevation; the powercfg failure message says so.
func SetEnabled(ctx context.Context, enabled bool) (Info, error) {
	arg := "off"
	if enabled {
		arg = "on"
	}

	ctx, cancel := context.WithTimeout(ctx, powercfgTimeout)
	defer cancel()

	cmd := commandContext(ctx, "powercfg", "/hibernate", arg)
	if err := cmd.Run(); err != nil {
		return Info{}, fmt.Errorf("powercfg /hibernate %s failed (try running as administrator): %w", arg, err)
	}
	return Query()
}
