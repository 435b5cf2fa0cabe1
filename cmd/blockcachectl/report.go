package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/natefinch/atomic"

	"github.com/nmeurgues/blockcache"
)

// Report is a point-in-time dump of a cache's instrumentation and block
// table, written to disk for later inspection (e.g. diffing two runs).
type Report struct {
	Timestamp  string                     `json:"timestamp"`
	Strategy   string                     `json:"strategy"`
	Instrument blockcache.Instrument      `json:"instrument"`
	Blocks     []blockcache.BlockSnapshot `json:"blocks"`
}

// writeReport serializes r as indented JSON and writes it to path as a
// single atomic rename, so a reader never observes a half-written report
// even if blockcachectl is killed mid-write.
func writeReport(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("blockcachectl: encoding report: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("blockcachectl: writing report %s: %w", path, err)
	}

	return nil
}

func reportTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
