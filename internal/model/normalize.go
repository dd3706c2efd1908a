package model

import "strings"

// wslMount is the POSIX-style mount prefix WSL uses for drive C.
const wslMount = "/mnt/c/"

// Normalize converts an OS-flavored path string into the canonical form
// stored inside .pth files: forward slashes only, WSL mounts rewritten to
// drive-letter form. Pure and idempotent. Unknown prefixes pass through
// with slash normalization only.
func Normalize(raw string) string {
	if strings.HasPrefix(raw, wslMount) {
		raw = "C:/" + strings.TrimPrefix(raw, wslMount)
	}
	return strings.ReplaceAll(raw, "\\", "/")
}
