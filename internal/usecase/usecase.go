package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/forPelevin/timelapse/internal/domain/timelapse"
	"github.com/forPelevin/timelapse/internal/ports"
	"github.com/forPelevin/timelapse/internal/types"
)

// IntermediateName is the sped-up clip inside the run's temp dir. The
// extension decides the container ffmpeg writes.
const IntermediateName = "speedup.mp4"

type Deps struct {
	Video ports.VideoTool
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Job types.Job
	// TempDir is the parent of the per-run work dir. Empty means os.TempDir().
	TempDir string
	Logf    func(format string, args ...any)
}

type Result struct {
	Report types.Report
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	started := time.Now()

	if err := u.d.Video.Check(ctx); err != nil {
		return Result{}, err
	}

	src, err := u.d.Video.ProbeDuration(ctx, in.Job.InputPath)
	if err != nil {
		return Result{}, err
	}
	logf("input duration: %s", src)

	factor, err := timelapse.ScaleFactor(src, in.Job.Length)
	if err != nil {
		return Result{}, err
	}
	filter := timelapse.SetPTSFilter(factor)
	trim := timelapse.TrimLength(in.Job.Length)

	workDir, err := os.MkdirTemp(in.TempDir, "timelapse-*")
	if err != nil {
		return Result{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)
	intermediate := filepath.Join(workDir, IntermediateName)

	logf("creating the timelapse (%s)", filter)
	if err := u.d.Video.SpeedUp(ctx, in.Job.InputPath, intermediate, filter); err != nil {
		return Result{}, fmt.Errorf("speed up: %w", err)
	}

	logf("trimming the timelapse to %s", trim)
	if err := u.d.Video.Trim(ctx, intermediate, 0, trim, in.Job.OutputPath); err != nil {
		return Result{}, fmt.Errorf("trim: %w", err)
	}

	return Result{Report: types.Report{
		Input:          in.Job.InputPath,
		Output:         in.Job.OutputPath,
		SourceSec:      src.Seconds(),
		LengthSec:      in.Job.Length.Seconds(),
		Factor:         factor,
		Filter:         filter,
		TrimSec:        trim.Seconds(),
		ElapsedSeconds: time.Since(started).Seconds(),
	}}, nil
}
