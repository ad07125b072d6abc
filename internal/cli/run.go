package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/forPelevin/timelapse/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func run(cmd *cobra.Command) error {
	lengthSec, _ := cmd.Flags().GetFloat64("length")
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	asJSON, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	logger, err := newLogger(quiet, verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	length, err := pipeline.LengthFromSeconds(lengthSec)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	cfg := pipeline.Config{
		Input:  input,
		Output: output,
		Length: length,
		Logf:   log.Infof,
		Debugf: log.Debugf,

		TempDir: os.Getenv("TIMELAPSE_TMPDIR"),

		FFmpegPath:  getenvDefault("TIMELAPSE_FFMPEG", "ffmpeg"),
		FFprobePath: getenvDefault("TIMELAPSE_FFPROBE", "ffprobe"),
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	report, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return nil
}

// newLogger writes plain console lines to stderr.
func newLogger(quiet, verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	switch {
	case verbose:
		level = zapcore.DebugLevel
	case quiet:
		level = zapcore.WarnLevel
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = ""
	zc.EncoderConfig.CallerKey = ""
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
