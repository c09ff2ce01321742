// Package disk reports capacity information for the target volume.
package disk

import (
	"errors"
	"fmt"
	"strings"

	gdisk "github.com/shirou/gopsutil/v4/disk"
	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows"

	"github.com/lakshaymaurya-felt/winsweep/internal/config"
)

// ErrVolumeUnavailable indicates the volume's capacity counters could not
// be read. Fatal to the inspection call only; safe to retry.
var ErrVolumeUnavailable = errors.New("volume unavailable")

// VolumeInfo is a point-in-time capacity snapshot of one volume.
// Recreated on every inspection call, never cached.
type VolumeInfo struct {
	MountPoint string `json:"mountPoint"`
	Label      string `json:"label,omitempty"`
	TotalBytes uint64 `json:"totalBytes"`
	FreeBytes  uint64 `json:"freeBytes"`
	UsedBytes  uint64 `json:"usedBytes"`
}

// UsedPercent returns used capacity as a percentage of total.
// Derived, not stored, so it can never drift from the byte counters.
func (v VolumeInfo) UsedPercent() float64 {
	if v.TotalBytes == 0 {
		return 0
	}
	return float64(v.UsedBytes) / float64(v.TotalBytes) * 100
}

// win32LogicalDisk is the subset of the WMI Win32_LogicalDisk class used
// to resolve the volume label.
type win32LogicalDisk struct {
	DeviceID   string
	VolumeName string
}

// GetVolumeInfo reads the system drive's capacity counters at call time.
// Idempotent; callers may poll it freely.
func GetVolumeInfo() (VolumeInfo, error) {
	mount := config.SystemDriveMount()

	usage, err := gdisk.Usage(mount)
	if err != nil {
		// gopsutil occasionally fails on restricted volumes; fall back
		// to the raw Win32 call before giving up.
		return volumeInfoFromWin32(mount, err)
	}

	info := VolumeInfo{
		MountPoint: mount,
		TotalBytes: usage.Total,
		FreeBytes:  usage.Free,
		UsedBytes:  usage.Total - usage.Free,
	}
	info.Label = volumeLabel(mount)
	return info, nil
}

// volumeInfoFromWin32 queries GetDiskFreeSpaceEx directly.
func volumeInfoFromWin32(mount string, cause error) (VolumeInfo, error) {
	pathp, err := windows.UTF16PtrFromString(mount)
	if err != nil {
		return VolumeInfo{}, fmt.Errorf("%w: %v", ErrVolumeUnavailable, cause)
	}
	var free, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(pathp, &free, &total, &totalFree); err != nil {
		return VolumeInfo{}, fmt.Errorf("%w: %v", ErrVolumeUnavailable, cause)
	}
	info := VolumeInfo{
		MountPoint: mount,
		TotalBytes: total,
		FreeBytes:  totalFree,
		UsedBytes:  total - totalFree,
	}
	info.Label = volumeLabel(mount)
	return info, nil
}

// volumeLabel resolves the volume's display label via WMI. Best effort —
// an empty label is fine, capacity reporting never depends on it.
func volumeLabel(mount string) string {
	deviceID := strings.TrimSuffix(mount, `\`)
	var disks []win32LogicalDisk
	query := wmi.CreateQuery(&disks, fmt.Sprintf("WHERE DeviceID = '%s'", deviceID))
	if err := wmi.Query(query, &disks); err != nil || len(disks) == 0 {
		return ""
	}
	return disks[0].VolumeName
}
