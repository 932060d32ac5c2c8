//go:build unix

// Package blockdevice detects raw optical-drive block devices so the CLI
// driver can read a disc directly (e.g. -i /dev/sr0) instead of a BIN file.
package blockdevice

import (
	"strings"

	"golang.org/x/sys/unix"
)

// Is reports whether path names a block device, the way an optical drive is
// exposed on Unix (e.g. /dev/sr0).
func Is(path string) bool {
	if !strings.HasPrefix(path, "/dev/") {
		return false
	}
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT == unix.S_IFBLK
}
