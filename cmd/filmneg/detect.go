package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"film-decolorizer/internal/batch"
)

type detectCmd struct {
	commonFlags
	writeTxt bool
}

func (*detectCmd) Name() string     { return "detect" }
func (*detectCmd) Synopsis() string { return "Print the detected frame and crop of each negative" }
func (*detectCmd) Usage() string {
	return `detect -path DIR [options]:
  Dry run: locate the film frame in every RAW negative under DIR and print
  the border and the shrunk crop rectangle without writing images.
`
}

func (c *detectCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.BoolVar(&c.writeTxt, "write-txt", false, "Write the crop as x, y, w, h to <file>.txt")
}

func (c *detectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.load(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	log := newLogger(c.verbose)

	files, err := batch.Discover(cfg.Path, cfg.Suffix, log)
	if err != nil {
		return fail("failed to list directory '%s': %v", cfg.Path, err)
	}

	proc := newProcessor(cfg, log)
	total := len(files)
	located := 0
	for idx, filename := range files {
		if ctx.Err() != nil {
			break
		}
		status := fmt.Sprintf("[%d/%d] ", idx+1, total)

		border, crop, err := proc.Locate(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%sWARNING: Skipping '%s': %v\n", status, filename, err)
			continue
		}
		located++

		retained := 100 * float64(crop.Dx()*crop.Dy()) / float64(max(1, border.Dx()*border.Dy()))
		fmt.Printf("%sborder %v crop %v (%.0f%% of frame) %s\n", status, border, crop, retained, filepath.Base(filename))

		if c.writeTxt {
			txtPath := filename + ".txt"
			if err := writeCropData(txtPath, crop); err != nil {
				log.Warn("failed to write crop data", "file", txtPath, "err", err)
			}
		}
	}

	if total > 0 && located == 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func writeCropData(filename string, r image.Rectangle) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	for _, value := range []int{r.Min.X, r.Min.Y, r.Dx(), r.Dy()} {
		fmt.Fprintf(file, "%d\r\n", value)
	}
	return file.Close()
}
