package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"film-decolorizer/internal/batch"
	"film-decolorizer/internal/imgio"
	"film-decolorizer/internal/preview"
	"film-decolorizer/negative"
)

type convertCmd struct {
	commonFlags
	thumbDir string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "Crop, invert and colour correct a directory of negatives" }
func (*convertCmd) Usage() string {
	return `convert -path DIR [options]:
  Convert every RAW negative under DIR into a positive image, written to
  <dir of file>/<YYYY-MM-DD>_export/ unless -output-dir is given.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.StringVar(&c.cfg.Format, "type", c.cfg.Format, "Output format: tif, png or jpg")
	f.IntVar(&c.cfg.Quality, "quality", c.cfg.Quality, "Output quality 0-100 (png: compression, jpg: quality)")
	f.IntVar(&c.cfg.Workers, "workers", c.cfg.Workers, "Number of files converted at once")
	f.StringVar(&c.cfg.OutputDir, "output-dir", "", "Write every result to this directory")
	f.BoolVar(&c.cfg.Preview.Show, "show", false, "Display each result in a window")
	f.StringVar(&c.thumbDir, "thumbnails", "", "Write JPEG previews of each result to this directory")
}

func (c *convertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.thumbDir != "" {
		c.cfg.Preview.Thumbnails = true
		c.cfg.Preview.Dir = c.thumbDir
	}
	cfg, err := c.load(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	log := newLogger(c.verbose)

	format, err := imgio.ParseFormat(cfg.Format)
	if err != nil {
		return fail("%v", err)
	}

	files, err := batch.Discover(cfg.Path, cfg.Suffix, log)
	if err != nil {
		return fail("failed to list directory '%s': %v", cfg.Path, err)
	}
	if len(files) == 0 {
		log.Warn("no input files found", "path", cfg.Path, "suffix", cfg.Suffix)
		return subcommands.ExitSuccess
	}

	proc := newProcessor(cfg, log)

	var window *preview.Window
	if cfg.Preview.Show {
		window = preview.NewWindow("filmneg", 0, log)
		defer window.Close()
		cfg.Workers = 1
	}
	var thumbs negative.Observer
	if cfg.Preview.Thumbnails {
		thumbs = &preview.Thumbnails{Dir: cfg.Preview.Dir, Size: cfg.Preview.Size, Logger: log}
	}
	if window != nil {
		proc.Observer = preview.Multi(window, thumbs)
	} else {
		proc.Observer = preview.Multi(thumbs)
	}

	runner := &batch.Runner{
		Processor: proc,
		Encoder:   imgio.Encoder{Format: format, Quality: cfg.Quality},
		Workers:   cfg.Workers,
		OutputDir: cfg.OutputDir,
		Logger:    log,
		Progress:  os.Stdout,
		Metadata:  c.verbose,
	}
	report := runner.Run(ctx, files)

	fmt.Printf("converted %d of %d files (run %s)\n", len(report.Saved), len(files), report.RunID)
	for _, res := range report.Failed {
		fmt.Printf("  failed %s at %s: %v\n", res.Source, res.Stage, res.Err)
	}
	if len(report.Saved) == 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
