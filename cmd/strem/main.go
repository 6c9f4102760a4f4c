/*
Strem matches a spatial regular expression against a stream of
perception frames.

Usage:

	strem [flags] PATTERN [DATASTREAM...]

PATTERN is a spatial regular expression (its grammar is implemented
by the parser in internal/compiler). DATASTREAM names one or more JSON frame-record files to
match against; if none are given, frames are read from stdin.

The flags are:

	-o, --online
		Match incrementally as frames arrive instead of buffering the
		whole stream and searching offline.

	-c, --count
		Print a summary table of match counts instead of one line per
		match.

	-l, --limit NUM
		Stop after reporting NUM matches. Defaults to the config file's
		value, or unbounded.

	-F, --format FMT
		Render each match with FMT instead of the default "start..end"
		form. %m expands to "start..end", %c to the first channel name,
		%% to a literal percent.

	--channel NAME
		Restrict matching to the named sample channel. Repeatable.

	--capacity NUM
		Online mode's frame window size; the oldest frame is evicted
		once the window exceeds it. Ignored in offline mode.

	--config FILE
		Load defaults from FILE (TOML) instead of ./strem.toml.

	-d, --draw DIR
		Export an annotated image per match into DIR. Requires a binary
		built with the "draw" build tag; absent that, reports an error.

	-v, --version
		Print the version and exit.

Exit codes: 0 success, 1 compilation/lexical fatal error, 2 parse
syntax error.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/strem/internal/config"
	"github.com/dekarrin/strem/internal/controller"
	"github.com/dekarrin/strem/internal/datastream"
	"github.com/dekarrin/strem/internal/listener"
	"github.com/dekarrin/strem/internal/matcher"
	"github.com/dekarrin/strem/internal/printer"
	"github.com/dekarrin/strem/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitCompileError indicates a fatal lexical or compilation error.
	ExitCompileError

	// ExitSyntaxError indicates a parse syntax error.
	ExitSyntaxError
)

var (
	returnCode int = ExitSuccess

	flagVersion  = pflag.BoolP("version", "v", false, "Print the version and exit")
	flagOnline   = pflag.BoolP("online", "o", false, "Match incrementally instead of buffering the whole stream")
	flagCount    = pflag.BoolP("count", "c", false, "Print a summary table of match counts")
	flagLimit    = pflag.IntP("limit", "l", 0, "Stop after reporting this many matches")
	flagFormat   = pflag.StringP("format", "F", "", "Format string for rendering a match")
	flagChannels = pflag.StringArray("channel", nil, "Restrict matching to this sample channel (repeatable)")
	flagCapacity = pflag.Int("capacity", 0, "Online mode's frame window size")
	flagConfig   = pflag.String("config", "strem.toml", "Path to a TOML config file")
	flagDraw     = pflag.StringP("draw", "d", "", "Export an annotated image per match into this directory")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "strem: error: PATTERN is required")
		returnCode = ExitSyntaxError
		return
	}
	pattern := args[0]
	dataFiles := args[1:]

	fromFile, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strem: error: %s\n", err.Error())
		returnCode = ExitCompileError
		return
	}
	cfg := config.Default.FillDefaults().Merge(fromFile).Merge(config.Config{
		Limit:    *flagLimit,
		Channels: *flagChannels,
		Capacity: *flagCapacity,
	})

	l := listener.NewCollectingListener()
	compiled, err := matcher.Compile(pattern, l)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strem: error: %s\n", err.Error())
		if ce, ok := err.(*listener.CompileError); ok {
			returnCode = ce.ExitCode()
		} else {
			returnCode = ExitCompileError
		}
		return
	}
	for _, w := range l.Warnings {
		fmt.Fprintf(os.Stderr, "strem: warning: %s\n", w.Error())
	}

	ctl, err := controller.New(compiled, cfg.Channels, cfg.Limit, cfg.Capacity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strem: error: %s\n", err.Error())
		returnCode = ExitCompileError
		return
	}

	reader, closeReader, err := openReader(dataFiles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strem: error: %s\n", err.Error())
		returnCode = ExitCompileError
		return
	}
	defer closeReader()

	var hits []controller.Hit
	cb := func(h controller.Hit) bool {
		if *flagDraw != "" {
			if drawErr := printer.Draw(*flagDraw, h); drawErr != nil {
				fmt.Fprintf(os.Stderr, "strem: warning: %s\n", drawErr.Error())
			}
		}
		if *flagCount {
			hits = append(hits, h)
		} else {
			fmt.Println(printer.Format(*flagFormat, h))
		}
		return true
	}

	if *flagOnline {
		err = ctl.RunOnline(reader, cb)
	} else {
		err = ctl.RunOffline(reader, cb)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "strem: error: %s\n", err.Error())
		returnCode = ExitCompileError
		return
	}

	if *flagCount {
		fmt.Println(printer.CountTable(hits))
	}
}

// openReader opens the configured data files in sequence (each as a
// JSON frame record stream) or stdin if none are given, and returns a
// single FrameReader over their concatenation plus a cleanup func.
func openReader(paths []string) (datastream.FrameReader, func(), error) {
	if len(paths) == 0 {
		return datastream.NewJSONReader(os.Stdin), func() {}, nil
	}

	readers := make([]*os.File, 0, len(paths))
	closeAll := func() {
		for _, f := range readers {
			f.Close()
		}
	}

	frs := make([]datastream.FrameReader, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("open %q: %w", p, err)
		}
		readers = append(readers, f)
		frs = append(frs, datastream.NewJSONReader(f))
	}

	return &multiReader{readers: frs}, closeAll, nil
}

// multiReader chains several FrameReaders into one, re-indexing Frame
// fields so the concatenated stream's indices stay monotonically
// increasing across file boundaries.
type multiReader struct {
	readers []datastream.FrameReader
	current int
	next    uint64
}

func (m *multiReader) Next() (datastream.Frame, bool, error) {
	for m.current < len(m.readers) {
		f, ok, err := m.readers[m.current].Next()
		if err != nil {
			return datastream.Frame{}, false, err
		}
		if !ok {
			m.current++
			continue
		}
		f.Index = m.next
		m.next++
		return f, true, nil
	}
	return datastream.Frame{}, false, nil
}
