// Package storage is the byte-addressable random-access file abstraction
// blockcache's engine is built on (spec §1: "the spec assumes only a
// byte-addressable random-access file with seek/read/write/truncate and
// atomic append-beyond-EOF behavior" — operating-system file I/O
// primitives themselves are an external collaborator, out of the core's
// scope).
//
// Two implementations are provided, mirroring the teacher repo's
// internal/fs package:
//   - [Real]: production use, a thin wrapper over [os.File].
//   - [Chaos]: test use, injects I/O failures so the engine's CACHE_KO
//     propagation paths can be exercised deterministically.
package storage

import (
	"io"
)

// File is the surface blockcache needs from an open backing file.
type File interface {
	io.ReadWriteCloser
	io.Seeker

	// Sync commits the file's contents to the storage device. Called at
	// the end of a successful Cache.Sync so that "durable after Sync
	// completes" (spec §5) means more than a buffered write.
	Sync() error
}

// FS opens the single backing file a Cache is given at Create.
type FS interface {
	// OpenFile opens path for reading and writing, creating it if it does
	// not already exist. An existing file is never truncated (spec §4.3
	// Create: "Open the file for read+write, creating it if absent").
	OpenFile(path string) (File, error)
}
