package storage

import "os"

// filePerm matches the permission bits the teacher repo's lock.go /
// internal/fs/real.go use for files it creates.
const filePerm = 0o644

// Real is the production [FS], a passthrough to the [os] package.
type Real struct{}

// NewReal returns a new [Real] filesystem.
func NewReal() *Real { return &Real{} }

// OpenFile opens path read-write, creating it if absent, never truncating.
func (Real) OpenFile(path string) (File, error) {
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE, filePerm) //nolint:gosec // path is caller-supplied by design
}

// Compile-time interface checks.
var (
	_ FS   = Real{}
	_ File = (*os.File)(nil)
)
