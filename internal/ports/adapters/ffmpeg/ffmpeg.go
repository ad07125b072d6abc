package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/timelapse/internal/domain/timelapse"
)

const InstallURL = "https://ffmpeg.org/download.html"

// DependencyError is returned by Check when a binary cannot be started.
type DependencyError struct {
	Name       string
	InstallURL string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("'%s' binary not found (%v). Install from: %s", e.Name, e.Err, e.InstallURL)
}

func (e *DependencyError) Unwrap() error { return e.Err }

type Option func(*Adapter)

// WithDebugf receives every command line before it is executed.
func WithDebugf(f func(format string, args ...any)) Option {
	return func(a *Adapter) {
		if f != nil {
			a.debugf = f
		}
	}
}

type Adapter struct {
	ffmpeg  string
	ffprobe string
	debugf  func(format string, args ...any)
}

func New(ffmpegPath, ffprobePath string, opts ...Option) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	a := &Adapter{
		ffmpeg:  ffmpegPath,
		ffprobe: ffprobePath,
		debugf:  func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Check(ctx context.Context) error {
	for _, bin := range []string{a.ffmpeg, a.ffprobe} {
		if err := startable(ctx, bin); err != nil {
			return &DependencyError{Name: bin, InstallURL: InstallURL, Err: err}
		}
	}
	return nil
}

// startable runs bin -h with output discarded. A non-zero exit still means
// the binary exists.
func startable(ctx context.Context, bin string) error {
	cmd := exec.CommandContext(ctx, bin, "-h")
	err := cmd.Run()
	var exitErr *exec.ExitError
	if err == nil || errors.As(err, &exitErr) {
		return nil
	}
	return err
}

func (a *Adapter) ProbeDuration(ctx context.Context, inPath string) (time.Duration, error) {
	args := probeArgs(inPath)
	a.debugf("exec: %s %s", a.ffprobe, strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.ffprobe, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, stderr.String())
	}
	d, err := parseDuration(stdout.Bytes())
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, stderr.String())
	}
	return d, nil
}

func (a *Adapter) SpeedUp(ctx context.Context, inPath, outPath, filter string) error {
	args := speedUpArgs(inPath, outPath, filter)
	a.debugf("exec: %s %s", a.ffmpeg, strings.Join(args, " "))

	b, err := exec.CommandContext(ctx, a.ffmpeg, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg speed up: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) Trim(ctx context.Context, inPath string, start, length time.Duration, outPath string) error {
	args := trimArgs(inPath, start, length, outPath)
	a.debugf("exec: %s %s", a.ffmpeg, strings.Join(args, " "))

	b, err := exec.CommandContext(ctx, a.ffmpeg, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg trim: %w\n%s", err, string(b))
	}
	return nil
}

func probeArgs(inPath string) []string {
	return []string{
		"-v", "error",
		"-i", inPath,
		"-show_entries", "format=duration",
		"-print_format", "csv=p=0",
	}
}

func speedUpArgs(inPath, outPath, filter string) []string {
	return []string{
		"-i", inPath,
		"-filter:v", filter,
		outPath,
	}
}

func trimArgs(inPath string, start, length time.Duration, outPath string) []string {
	return []string{
		"-i", inPath,
		"-ss", fmtSeconds(start),
		"-t", fmtSeconds(length),
		"-y",
		outPath,
	}
}

// parseDuration reads the first line of ffprobe output as seconds.
func parseDuration(out []byte) (time.Duration, error) {
	line, err := bufio.NewReader(bytes.NewReader(out)).ReadString('\n')
	s := strings.TrimSpace(line)
	if s == "" {
		if err != nil && len(out) == 0 {
			return 0, errors.New("no duration in output")
		}
		return 0, fmt.Errorf("empty duration line in %q", string(out))
	}
	sec, perr := strconv.ParseFloat(s, 64)
	if perr != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, perr)
	}
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec < 0 {
		return 0, fmt.Errorf("parse duration %q: %w", s, timelapse.ErrInvalidDuration)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func fmtSeconds(d time.Duration) string {
	return timelapse.FormatSeconds(d.Seconds())
}
