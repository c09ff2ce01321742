package clean

import (
	"fmt"
	"syscall"
	"unsafe"
)

// ─── Shell32 Syscalls ────────────────────────────────────────────────────────

var (
	modShell32          = syscall.NewLazyDLL("shell32.dll")
	procEmptyRecycleBin = modShell32.NewProc("SHEmptyRecycleBinW")
	procQueryRecycleBin = modShell32.NewProc("SHQueryRecycleBinW")
)

const (
	sherbNoConfirmation = 0x00000001
	sherbNoProgressUI   = 0x00000002
	sherbNoSound        = 0x00000004
)

// shQueryRBInfo mirrors the Windows SHQUERYRBINFO struct.
// Go's natural alignment adds padding after cbSize on AMD64,
// matching the C struct layout on both 32-bit and 64-bit.
type shQueryRBInfo struct {
	cbSize      uint32
	i64Size     int64
	i64NumItems int64
}

// queryRecycleBin returns the total size and item count of the Windows
// Recycle Bin across all drives via the SHQueryRecycleBinW Shell API.
func queryRecycleBin() (sizeBytes, itemCount int64, err error) {
	var info shQueryRBInfo
	info.cbSize = uint32(unsafe.Sizeof(info))

	ret, _, _ := procQueryRecycleBin.Call(
		0, // NULL = query all drives
		uintptr(unsafe.Pointer(&info)),
	)
	if ret != 0 {
		return 0, 0, fmt.Errorf("SHQueryRecycleBinW failed: HRESULT 0x%08x", uint32(ret))
	}

	return info.i64Size, info.i64NumItems, nil
}

// emptyRecycleBinAllDrives empties the Recycle Bin on all drives via the
// SHEmptyRecycleBinW Shell API.
func emptyRecycleBinAllDrives() error {
	flags := uintptr(sherbNoConfirmation | sherbNoProgressUI | sherbNoSound)
	ret, _, _ := procEmptyRecycleBin.Call(0, 0, flags)

	hr := uint32(ret)
	// S_OK (0) = success, E_UNEXPECTED (0x8000FFFF) = bin already empty.
	if hr != 0 && hr != 0x8000FFFF {
		return fmt.Errorf("SHEmptyRecycleBinW failed: HRESULT 0x%08x", hr)
	}

	return nil
}

// fastClearRecycleBin snapshots the bin's stats and then empties it in one
// Shell API call, instead of walking $Recycle.Bin file by file. Used only
// when the recycle_bin category has no per-path exclusions.
func fastClearRecycleBin() Result {
	sizeBytes, itemCount, err := queryRecycleBin()
	if err != nil {
		// Stats are accounting only; emptying can still proceed.
		sizeBytes, itemCount = 0, 0
	}
	if err := emptyRecycleBinAllDrives(); err != nil {
		return Result{Failed: []Error{{Path: `$Recycle.Bin`, Message: err.Error()}}}
	}
	return Result{DeletedBytes: sizeBytes, DeletedCount: itemCount}
}
