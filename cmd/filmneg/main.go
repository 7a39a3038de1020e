// filmneg turns RAW photographs of colour film negatives into cropped,
// colour corrected positives.
//
//	filmneg convert -path ~/scans/roll12 -shrink 0.85 -type jpg -quality 95
//	filmneg detect -path ~/scans/roll12 -write-txt
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"film-decolorizer/internal/config"
	"film-decolorizer/internal/imgio"
	"film-decolorizer/negative"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&convertCmd{}, "")
	subcommands.Register(&detectCmd{}, "")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(int(subcommands.Execute(ctx)))
}

// commonFlags are shared by every command that reads a batch.
type commonFlags struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

func (c *commonFlags) register(f *flag.FlagSet) {
	c.cfg = config.Default()
	f.StringVar(&c.configPath, "config", "", "YAML configuration file; flags override its values")
	f.BoolVar(&c.verbose, "verbose", false, "Print debug information")
	f.StringVar(&c.cfg.Path, "path", "", "Directory of RAW negatives, searched recursively (required)")
	f.StringVar(&c.cfg.Suffix, "suffix", c.cfg.Suffix, "File name suffix of the inputs")
	f.Float64Var(&c.cfg.ShrinkRatio, "shrink", c.cfg.ShrinkRatio, "Fraction of the detected frame to keep, 0.7-0.9 trims sprocket holes")
	f.StringVar(&c.cfg.Decoder.Command, "decoder", c.cfg.Decoder.Command, "dcraw compatible RAW converter")
}

// load applies the config file under the flags that were set explicitly,
// then validates the result.
func (c *commonFlags) load(f *flag.FlagSet) (*config.Config, error) {
	cfg := c.cfg
	if c.configPath != "" {
		fromFile, err := config.Load(c.configPath)
		if err != nil {
			return nil, err
		}
		set := map[string]bool{}
		f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
		overrideSetFlags(fromFile, cfg, set)
		cfg = fromFile
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overrideSetFlags copies the flag backed fields of flags into dst when
// the corresponding flag was given on the command line.
func overrideSetFlags(dst, flags *config.Config, set map[string]bool) {
	if set["path"] {
		dst.Path = flags.Path
	}
	if set["suffix"] {
		dst.Suffix = flags.Suffix
	}
	if set["shrink"] {
		dst.ShrinkRatio = flags.ShrinkRatio
	}
	if set["decoder"] {
		dst.Decoder.Command = flags.Decoder.Command
	}
	if set["type"] {
		dst.Format = flags.Format
	}
	if set["quality"] {
		dst.Quality = flags.Quality
	}
	if set["workers"] {
		dst.Workers = flags.Workers
	}
	if set["output-dir"] {
		dst.OutputDir = flags.OutputDir
	}
	if set["show"] {
		dst.Preview.Show = flags.Preview.Show
	}
	if set["thumbnails"] {
		dst.Preview.Thumbnails = flags.Preview.Thumbnails
		dst.Preview.Dir = flags.Preview.Dir
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newProcessor picks the OpenCV reader for developed scans and the
// external converter for everything else.
func newProcessor(cfg *config.Config, log *slog.Logger) *negative.Processor {
	var dec negative.Decoder = imgio.DcrawDecoder{Command: cfg.Decoder.Command, Args: cfg.Decoder.Args}
	if imgio.IsImageFile("x" + cfg.Suffix) {
		dec = imgio.ImageDecoder{}
	}
	return &negative.Processor{
		Decoder:     dec,
		ShrinkRatio: cfg.ShrinkRatio,
		Logger:      log,
	}
}

func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
	return subcommands.ExitFailure
}
