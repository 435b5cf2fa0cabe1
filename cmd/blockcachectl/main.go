// blockcachectl is an interactive shell over a [blockcache.Cache].
//
// Usage:
//
//	blockcachectl [flags] <cache-file>
//
// Flags:
//
//	-n, --nblocks      number of in-memory block slots (default 4)
//	-r, --nrecords     records per block (default 16)
//	-s, --recordsize   bytes per record (default 64)
//	    --strategy     fifo | lru | nur (default fifo)
//	    --nderef       NUR sweep period, 0 disables sweeping
//	    --nsync        periodic-sync period (default 1)
//	-c, --config       JSONC profile file; flags override its values
//
// Commands (in the REPL):
//
//	read <i>              read record i and print it as hex
//	write <i> <hex>       write record i from a hex-encoded payload
//	sync                  flush dirty blocks to disk
//	invalidate            sync, then drop every block's validity
//	stats                 print and reset the instrumentation counters
//	blocks                print the current block table
//	snapshot [path]        write a JSON report (default ./blockcache-report.json)
//	help                  show this help
//	exit / quit / q       leave the shell
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/nmeurgues/blockcache"
)

var errUsage = errors.New("blockcachectl: missing cache file argument")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "blockcachectl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("blockcachectl", flag.ContinueOnError)

	nblocks := fs.IntP("nblocks", "n", 4, "number of in-memory block slots")
	nrecords := fs.IntP("nrecords", "r", 16, "records per block")
	recordsize := fs.IntP("recordsize", "s", 64, "bytes per record")
	strategyName := fs.String("strategy", "fifo", "fifo | lru | nur")
	nderef := fs.Int("nderef", 4, "NUR sweep period, 0 disables sweeping")
	nsync := fs.Int("nsync", blockcache.DefaultNSync, "periodic-sync period")
	configPath := fs.StringP("config", "c", "", "JSONC profile file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return errUsage
	}

	profile, err := LoadProfile(*configPath)
	if err != nil {
		return err
	}

	opts, err := resolveOptions(fs.Args()[0], profile, *nblocks, *nrecords, *recordsize, *strategyName, *nderef, *nsync, fs)
	if err != nil {
		return err
	}

	cache, err := blockcache.Create(opts)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}

	defer cache.Close()

	return newShell(cache, opts.RecordSize).run()
}

// resolveOptions merges a loaded profile with explicit flags. A flag that
// was actually passed on the command line always wins over the profile;
// otherwise the profile's value is used if it is non-zero.
func resolveOptions(
	path string, p Profile, nblocks, nrecords, recordsize int, strategyName string, nderef, nsync int, fs *flag.FlagSet,
) (blockcache.Options, error) {
	if !fs.Changed("nblocks") && p.NBlocks != 0 {
		nblocks = p.NBlocks
	}

	if !fs.Changed("nrecords") && p.NRecords != 0 {
		nrecords = p.NRecords
	}

	if !fs.Changed("recordsize") && p.RecordSize != 0 {
		recordsize = p.RecordSize
	}

	if !fs.Changed("nderef") && p.NDeref != 0 {
		nderef = p.NDeref
	}

	if !fs.Changed("nsync") && p.NSync != 0 {
		nsync = p.NSync
	}

	if !fs.Changed("strategy") && p.Strategy != "" {
		strategyName = p.Strategy
	}

	kind, err := (Profile{Strategy: strategyName}).strategyKind()
	if err != nil {
		return blockcache.Options{}, err
	}

	return blockcache.Options{
		Path:       path,
		NBlocks:    nblocks,
		NRecords:   nrecords,
		RecordSize: recordsize,
		Strategy:   kind,
		NDeref:     nderef,
		NSync:      nsync,
	}, nil
}

// shell is a REPL over an open cache, modeled on the teacher's sloty
// runner: a liner.State for input, a history file, and a table of command
// handlers.
type shell struct {
	cache                *blockcache.Cache
	liner                *liner.State
	configuredRecordSize int
}

func newShell(c *blockcache.Cache, recordSize int) *shell {
	return &shell{cache: c, configuredRecordSize: recordSize}
}

func (s *shell) historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".blockcachectl_history")
}

func (s *shell) run() error {
	s.liner = liner.NewLiner()
	defer s.liner.Close()

	s.liner.SetCtrlCAborts(true)

	if histPath := s.historyPath(); histPath != "" {
		if f, err := os.Open(histPath); err == nil { //nolint:gosec // fixed, user-home-relative path
			_, _ = s.liner.ReadHistory(f)
			_ = f.Close()
		}
	}

	for {
		line, err := s.liner.Prompt("blockcachectl> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.liner.AppendHistory(line)

		if s.dispatch(line) {
			break
		}
	}

	if histPath := s.historyPath(); histPath != "" {
		if f, err := os.Create(histPath); err == nil { //nolint:gosec // fixed, user-home-relative path
			_, _ = s.liner.WriteHistory(f)
			_ = f.Close()
		}
	}

	return nil
}

// dispatch runs one command line, returning true if the shell should exit.
func (s *shell) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, rest := fields[0], fields[1:]

	var err error

	switch cmd {
	case "exit", "quit", "q":
		return true
	case "help":
		printHelp()
	case "read":
		err = s.cmdRead(rest)
	case "write":
		err = s.cmdWrite(rest)
	case "sync":
		err = s.cache.Sync()
	case "invalidate":
		err = s.cache.Invalidate()
	case "stats":
		s.cmdStats()
	case "blocks":
		s.cmdBlocks()
	case "snapshot":
		err = s.cmdSnapshot(rest)
	default:
		fmt.Printf("unknown command %q, try 'help'\n", cmd)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}

	return false
}

func (s *shell) cmdRead(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: read <i>")
	}

	i, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("parsing index: %w", err)
	}

	buf := make([]byte, s.recordSize())

	if err := s.cache.Read(i, buf); err != nil {
		return err
	}

	fmt.Println(hex.EncodeToString(buf))

	return nil
}

func (s *shell) cmdWrite(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: write <i> <hex>")
	}

	i, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("parsing index: %w", err)
	}

	data, err := hex.DecodeString(args[1])
	if err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}

	return s.cache.Write(i, data)
}

func (s *shell) cmdStats() {
	i := s.cache.GetInstrument()
	fmt.Printf("reads=%d writes=%d hits=%d syncs=%d derefs=%d\n", i.Reads, i.Writes, i.Hits, i.Syncs, i.Derefs)
}

func (s *shell) cmdBlocks() {
	for _, b := range s.cache.DebugBlocks() {
		fmt.Printf("slot=%d file=%d valid=%t dirty=%t ref=%t\n", b.CacheIndex, b.FileBlock, b.Valid, b.Dirty, b.Referenced)
	}
}

func (s *shell) cmdSnapshot(args []string) error {
	path := "blockcache-report.json"
	if len(args) == 1 {
		path = args[0]
	}

	return writeReport(path, Report{
		Timestamp:  reportTimestamp(),
		Strategy:   s.cache.StrategyName(),
		Instrument: s.cache.GetInstrument(),
		Blocks:     s.cache.DebugBlocks(),
	})
}

// recordSize returns the size used to build Read/Write scratch buffers.
// Cache has no direct accessor for it, so the shell keeps its own copy from
// the Options it was constructed with.
func (s *shell) recordSize() int {
	return s.configuredRecordSize
}

func printHelp() {
	fmt.Print(`commands:
  read <i>              read record i and print it as hex
  write <i> <hex>       write record i from a hex-encoded payload
  sync                  flush dirty blocks to disk
  invalidate            sync, then drop every block's validity
  stats                 print and reset the instrumentation counters
  blocks                print the current block table
  snapshot [path]       write a JSON report (default ./blockcache-report.json)
  help                  show this help
  exit / quit / q       leave the shell
`)
}
