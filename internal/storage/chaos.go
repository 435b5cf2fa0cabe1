package storage

import (
	"errors"
	"io"
	"math/rand"
	"syscall"
)

// ChaosConfig controls fault injection probabilities for [Chaos].
//
// Each rate is a float64 in [0.0, 1.0]. The zero value disables all
// injection. Trimmed from the teacher repo's internal/fs.ChaosConfig down
// to the narrower surface blockcache's engine actually exercises
// (open/read/write/seek/sync); directory and rename faults have no
// counterpart here because the engine only ever touches one already-named
// file.
type ChaosConfig struct {
	// OpenFailRate controls how often OpenFile fails outright.
	OpenFailRate float64

	// ReadFailRate controls how often Read fails entirely (EIO).
	ReadFailRate float64

	// PartialReadRate controls how often Read returns fewer bytes than
	// requested with a nil error — valid io.Reader behavior, exercising
	// the engine's use of io.ReadFull rather than a single Read.
	PartialReadRate float64

	// WriteFailRate controls how often Write fails entirely (ENOSPC).
	WriteFailRate float64

	// ShortWriteRate controls how often Write reports fewer bytes written
	// than given, without a syscall error (io.ErrShortWrite).
	ShortWriteRate float64

	// SeekFailRate controls how often Seek fails (EIO).
	SeekFailRate float64

	// SyncFailRate controls how often Sync fails (EIO), simulating a
	// delayed write error surfacing only at fsync time.
	SyncFailRate float64
}

// ChaosError marks an error as intentionally injected by [Chaos]. It wraps
// the underlying error so errors.Is/As continue to work.
type ChaosError struct {
	Err error
}

func (e *ChaosError) Error() string { return "storage: injected fault: " + e.Err.Error() }
func (e *ChaosError) Unwrap() error { return e.Err }

// IsInjected reports whether err (or any error it wraps) was injected by a
// [Chaos] FS, as opposed to a real I/O failure.
func IsInjected(err error) bool {
	var injected *ChaosError

	return errors.As(err, &injected)
}

// Chaos wraps an [FS] (and the [File] handles it opens) with deterministic
// fault injection, for testing how blockcache's engine propagates
// CACHE_KO-class errors from the backing store.
type Chaos struct {
	fs     FS
	rng    *rand.Rand
	config ChaosConfig
}

// NewChaos wraps fs with fault injection. seed makes injection
// reproducible across test runs.
func NewChaos(fs FS, seed int64, config ChaosConfig) *Chaos {
	return &Chaos{fs: fs, rng: rand.New(rand.NewSource(seed)), config: config}
}

// SetConfig replaces the active fault-injection rates. Safe to call between
// operations on a single-threaded test to change behavior partway through a
// scenario (e.g. let a write succeed, then start failing Syncs).
func (c *Chaos) SetConfig(config ChaosConfig) {
	c.config = config
}

func (c *Chaos) chance(rate float64) bool {
	return rate > 0 && c.rng.Float64() < rate
}

func (c *Chaos) inject(errno syscall.Errno) error {
	return &ChaosError{Err: errno}
}

// OpenFile opens the underlying file, occasionally failing per
// Config.OpenFailRate.
func (c *Chaos) OpenFile(path string) (File, error) {
	if c.chance(c.config.OpenFailRate) {
		return nil, c.inject(syscall.EIO)
	}

	f, err := c.fs.OpenFile(path)
	if err != nil {
		return nil, err
	}

	return &chaosFile{f: f, c: c}, nil
}

type chaosFile struct {
	f File
	c *Chaos
}

func (cf *chaosFile) Read(p []byte) (int, error) {
	if cf.c.chance(cf.c.config.ReadFailRate) {
		return 0, cf.c.inject(syscall.EIO)
	}

	if cf.c.chance(cf.c.config.PartialReadRate) && len(p) > 1 {
		short := 1 + cf.c.rng.Intn(len(p)-1)

		return cf.f.Read(p[:short])
	}

	return cf.f.Read(p)
}

func (cf *chaosFile) Write(p []byte) (int, error) {
	if cf.c.chance(cf.c.config.WriteFailRate) {
		return 0, cf.c.inject(syscall.ENOSPC)
	}

	if cf.c.chance(cf.c.config.ShortWriteRate) && len(p) > 1 {
		short := 1 + cf.c.rng.Intn(len(p)-1)

		n, err := cf.f.Write(p[:short])
		if err != nil {
			return n, err
		}

		return n, &ChaosError{Err: io.ErrShortWrite}
	}

	return cf.f.Write(p)
}

func (cf *chaosFile) Seek(offset int64, whence int) (int64, error) {
	if cf.c.chance(cf.c.config.SeekFailRate) {
		return 0, cf.c.inject(syscall.EIO)
	}

	return cf.f.Seek(offset, whence)
}

func (cf *chaosFile) Sync() error {
	if cf.c.chance(cf.c.config.SyncFailRate) {
		return cf.c.inject(syscall.EIO)
	}

	return cf.f.Sync()
}

func (cf *chaosFile) Close() error {
	return cf.f.Close()
}

var (
	_ FS   = (*Chaos)(nil)
	_ File = (*chaosFile)(nil)
)
