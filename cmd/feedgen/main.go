package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"

	"github.com/stickerdash/stickerdash-backend/internal/feed"
	"github.com/stickerdash/stickerdash-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "feedgen"})

	in := flag.String("in", "", "gallery HTML file (defaults to stdin)")
	out := flag.String("out", "", "feed JSON output file (defaults to stdout)")
	flag.Parse()

	ctx := logg.WithFields(context.Background(), map[string]any{"in": *in, "out": *out})

	count, err := run(*in, *out)
	if err != nil {
		logg.Error(ctx, "feed generation failed", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "entries", count), "feed generated")
}

func run(inPath, outPath string) (int, error) {
	var src io.Reader = os.Stdin
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return 0, fmt.Errorf("open gallery: %w", err)
		}
		defer f.Close()
		src = f
	}

	entries, err := feed.ParseGallery(src)
	if err != nil {
		return 0, fmt.Errorf("parse gallery: %w", err)
	}

	if outPath == "" {
		if err := writeFeed(os.Stdout, entries); err != nil {
			return 0, err
		}
		return len(entries), nil
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	if err := writeAndClose(f, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// writeAndClose reports a failed close as well, since buffered data may only
// be flushed there.
func writeAndClose(w io.WriteCloser, entries []feed.Entry) error {
	err := writeFeed(w, entries)
	if cerr := w.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("close output: %w", cerr))
	}
	return err
}

func writeFeed(w io.Writer, entries []feed.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	return nil
}
