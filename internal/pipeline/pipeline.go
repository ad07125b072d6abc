package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/forPelevin/timelapse/internal/ports"
	"github.com/forPelevin/timelapse/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/timelapse/internal/types"
	"github.com/forPelevin/timelapse/internal/usecase"
)

type Config struct {
	Input  string
	Output string
	// Length is the wanted timelapse duration.
	Length time.Duration

	Logf   func(format string, args ...any)
	Debugf func(format string, args ...any)

	// TempDir holds the intermediate clip. If empty, defaults to os.TempDir().
	TempDir string

	FFmpegPath  string
	FFprobePath string
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	st, err := os.Stat(c.Input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if st.IsDir() {
		return fmt.Errorf("input %s is a directory", c.Input)
	}
	if c.Output == "" {
		return errors.New("output is empty")
	}
	if st, err := os.Stat(c.Output); err == nil && st.IsDir() {
		return fmt.Errorf("output %s is a directory", c.Output)
	}
	if samePath(c.Input, c.Output) {
		return errors.New("output must differ from input")
	}
	if c.Length <= 0 {
		return fmt.Errorf("length must be > 0")
	}
	if c.TempDir != "" {
		st, err := os.Stat(c.TempDir)
		if err != nil {
			return fmt.Errorf("stat temp dir: %w", err)
		}
		if !st.IsDir() {
			return fmt.Errorf("temp dir %s is not a directory", c.TempDir)
		}
	}
	return nil
}

// LengthFromSeconds converts a CLI length to a Duration, rejecting values
// that cannot be represented.
func LengthFromSeconds(sec float64) (time.Duration, error) {
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return 0, fmt.Errorf("length %v is not finite", sec)
	}
	if sec > float64(math.MaxInt64)/float64(time.Second) {
		return 0, fmt.Errorf("length %v is too large", sec)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func Run(ctx context.Context, cfg Config) (types.Report, error) {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	// adapters
	v := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath, ffmpeg.WithDebugf(cfg.Debugf))

	uc := usecase.New(usecase.Deps{Video: v})

	if dir := filepath.Dir(cfg.Output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return types.Report{}, err
		}
	}

	res, err := uc.Run(ctx, usecase.Input{
		Job: types.Job{
			InputPath:  cfg.Input,
			OutputPath: cfg.Output,
			Length:     cfg.Length,
		},
		TempDir: cfg.TempDir,
		Logf:    logf,
	})
	if err != nil {
		return types.Report{}, err
	}
	logf("timelapse written (%.1fs from %.1fs, factor %g): %s",
		res.Report.LengthSec, res.Report.SourceSec, res.Report.Factor, res.Report.Output)
	return res.Report, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
