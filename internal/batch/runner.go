package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"

	"film-decolorizer/internal/imgio"
	"film-decolorizer/negative"
)

// Stage names added to the negative pipeline stages.
const (
	StageEncode    = "encode"
	StagePanic     = "panic"
	StageCancelled = "cancelled"
)

// Processor is satisfied by *negative.Processor.
type Processor interface {
	Process(path string) (gocv.Mat, error)
}

// Encoder is satisfied by imgio.Encoder.
type Encoder interface {
	Encode(rgb gocv.Mat, base string) (string, error)
}

// Runner converts a list of files, one failure never stopping the rest.
type Runner struct {
	Processor Processor
	Encoder   Encoder
	Workers   int
	OutputDir string
	Day       time.Time // names the export directory; defaults to today
	Logger    *slog.Logger
	Progress  io.Writer // receives one line per saved file
	Metadata  bool      // log EXIF capture info for every file
}

// Result is the outcome for one source file.
type Result struct {
	Source string
	Output string
	Stage  string
	Err    error
}

// Report summarises a run. Saved and Failed keep input order.
type Report struct {
	RunID  string
	Saved  []Result
	Failed []Result
}

// Run processes files with at most Workers running at once. Cancelling ctx
// stops new files from starting; files already running finish.
func (r *Runner) Run(ctx context.Context, files []string) Report {
	id := uuid.NewString()
	log := r.logger().With("run", id)
	day := r.Day
	if day.IsZero() {
		day = time.Now()
	}
	workers := max(1, r.Workers)

	log.Info("batch started", "files", len(files), "workers", workers)

	results := make([]Result, len(files))
	bases := PlanOutputs(files, r.OutputDir, day)
	for i, src := range files {
		if bases[i] != OutputBase(src, ExportDir(src, r.OutputDir, day)) {
			log.Warn("output name taken by another file", "file", src, "output", bases[i])
		}
	}
	var progress sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range files {
		if ctx.Err() != nil {
			results[i] = Result{Source: src, Stage: StageCancelled, Err: ctx.Err()}
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = Result{Source: src, Stage: StageCancelled, Err: ctx.Err()}
				return nil
			}
			res := r.convert(src, bases[i], log)
			results[i] = res

			status := fmt.Sprintf("[%d/%d]", i+1, len(files))
			if res.Err != nil {
				log.Error("skipping file", "progress", status, "file", src, "stage", res.Stage, "err", res.Err)
				return nil
			}
			if r.Progress != nil {
				progress.Lock()
				fmt.Fprintf(r.Progress, "%s saved %s -> %s\n", status, src, res.Output)
				progress.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	report := Report{RunID: id}
	for _, res := range results {
		if res.Err != nil {
			report.Failed = append(report.Failed, res)
		} else {
			report.Saved = append(report.Saved, res)
		}
	}
	log.Info("batch finished", "saved", len(report.Saved), "failed", len(report.Failed))
	return report
}

// convert runs one file end to end. OpenCV panics are turned into a
// failed Result.
func (r *Runner) convert(src, base string, log *slog.Logger) (res Result) {
	res.Source = src
	defer func() {
		if rec := recover(); rec != nil {
			res.Output = ""
			res.Stage = StagePanic
			res.Err = fmt.Errorf("recovered: %v", rec)
		}
	}()

	if r.Metadata {
		if info, err := imgio.ReadCaptureInfo(src); err == nil {
			log.Debug("capture info", "file", src, "make", info.Make, "model", info.Model, "taken", info.Taken)
		} else {
			log.Debug("no capture info", "file", src, "err", err)
		}
	}

	rgb, err := r.Processor.Process(src)
	if err != nil {
		res.Stage, res.Err = stageOf(err), err
		return res
	}
	defer rgb.Close()

	if err := ensureDir(filepath.Dir(base)); err != nil {
		res.Stage, res.Err = StageEncode, fmt.Errorf("%w: %v", imgio.ErrEncode, err)
		return res
	}

	out, err := r.Encoder.Encode(rgb, base)
	if err != nil {
		res.Stage, res.Err = StageEncode, err
		return res
	}
	res.Output = out
	return res
}

func stageOf(err error) string {
	var perr *negative.ProcessingError
	if errors.As(err, &perr) {
		return perr.Stage
	}
	return "unknown"
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
