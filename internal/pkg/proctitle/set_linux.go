//go:build linux

package proctitle

import (
	"errors"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Set renames the process via PR_SET_NAME and rewrites os.Args[0]. It
// returns the title actually applied.
func Set(title string) (string, error) {
	title = normalize(title)
	if title == "" {
		return "", errors.New("empty process title")
	}
	if len(os.Args) > 0 {
		os.Args[0] = title
	}

	b := make([]byte, maxLen+1)
	copy(b, title)
	return title, unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&b[0])), 0, 0, 0)
}
