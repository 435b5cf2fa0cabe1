package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/nmeurgues/blockcache"
)

// Profile holds the cache parameters that would otherwise have to be
// re-typed on every invocation's command line. Loaded from a JSONC (JSON
// with comments) file so operators can annotate a saved profile.
type Profile struct {
	NBlocks    int    `json:"nblocks"`
	NRecords   int    `json:"nrecords"`
	RecordSize int    `json:"recordsize"`
	Strategy   string `json:"strategy,omitempty"` // "fifo", "lru", or "nur"
	NDeref     int    `json:"nderef,omitempty"`
	NSync      int    `json:"nsync,omitempty"`
}

var errProfileStrategy = errors.New("blockcachectl: unknown strategy in profile")

// LoadProfile reads and parses a JSONC profile file. A missing path is not
// an error; it returns the zero Profile so command-line flags are the sole
// source of configuration.
func LoadProfile(path string) (Profile, error) {
	if path == "" {
		return Profile{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is operator-supplied by design
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, nil
		}

		return Profile{}, fmt.Errorf("blockcachectl: reading profile %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Profile{}, fmt.Errorf("blockcachectl: invalid JSONC in %s: %w", path, err)
	}

	var p Profile

	if err := json.Unmarshal(standardized, &p); err != nil {
		return Profile{}, fmt.Errorf("blockcachectl: invalid JSON in %s: %w", path, err)
	}

	return p, nil
}

func (p Profile) strategyKind() (blockcache.StrategyKind, error) {
	switch p.Strategy {
	case "", "fifo", "FIFO":
		return blockcache.FIFO, nil
	case "lru", "LRU":
		return blockcache.LRU, nil
	case "nur", "NUR":
		return blockcache.NUR, nil
	default:
		return 0, fmt.Errorf("%w: %q", errProfileStrategy, p.Strategy)
	}
}
