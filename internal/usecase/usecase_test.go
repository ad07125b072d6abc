package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/forPelevin/timelapse/internal/domain/timelapse"
	"github.com/forPelevin/timelapse/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVideoTool struct {
	checkErr   error
	duration   time.Duration
	probeErr   error
	speedUpErr error
	trimErr    error
	trimPanic  bool

	calls        []string
	filters      []string
	intermediate string
	trimStart    time.Duration
	trimLength   time.Duration
	trimOut      string
}

func (f *fakeVideoTool) Check(_ context.Context) error {
	f.calls = append(f.calls, "check")
	return f.checkErr
}

func (f *fakeVideoTool) ProbeDuration(_ context.Context, _ string) (time.Duration, error) {
	f.calls = append(f.calls, "probe")
	return f.duration, f.probeErr
}

func (f *fakeVideoTool) SpeedUp(_ context.Context, _, outPath, filter string) error {
	f.calls = append(f.calls, "speedup")
	f.filters = append(f.filters, filter)
	f.intermediate = outPath
	if err := os.WriteFile(outPath, []byte("partial"), 0o644); err != nil {
		return err
	}
	return f.speedUpErr
}

func (f *fakeVideoTool) Trim(_ context.Context, inPath string, start, length time.Duration, outPath string) error {
	f.calls = append(f.calls, "trim")
	if _, err := os.Stat(inPath); err != nil {
		return err
	}
	f.trimStart, f.trimLength, f.trimOut = start, length, outPath
	if f.trimPanic {
		panic("trim exploded")
	}
	return f.trimErr
}

func newInput(t *testing.T, length time.Duration) (Input, string) {
	t.Helper()
	tmp := t.TempDir()
	work := filepath.Join(tmp, "work")
	require.NoError(t, os.MkdirAll(work, 0o755))
	return Input{
		Job: types.Job{
			InputPath:  filepath.Join(tmp, "in.mp4"),
			OutputPath: filepath.Join(tmp, "out.mp4"),
			Length:     length,
		},
		TempDir: work,
	}, work
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp dir should be cleaned up")
}

func TestRun_ThirtyToTen(t *testing.T) {
	t.Parallel()

	in, work := newInput(t, 10*time.Second)
	var logs []string
	in.Logf = func(format string, _ ...any) { logs = append(logs, format) }

	video := &fakeVideoTool{duration: 30 * time.Second}
	res, err := New(Deps{Video: video}).Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []string{"check", "probe", "speedup", "trim"}, video.calls)
	assert.Equal(t, []string{"setpts=0.3333333333333333*PTS"}, video.filters)
	assert.Equal(t, IntermediateName, filepath.Base(video.intermediate))
	assert.Equal(t, time.Duration(0), video.trimStart)
	assert.Equal(t, 11*time.Second, video.trimLength)
	assert.Equal(t, in.Job.OutputPath, video.trimOut)

	assert.InDelta(t, 10.0/30.0, res.Report.Factor, 1e-12)
	assert.Equal(t, 30.0, res.Report.SourceSec)
	assert.Equal(t, 11.0, res.Report.TrimSec)
	assert.Len(t, logs, 3)

	assertEmptyDir(t, work)
}

func TestRun_SlowDown(t *testing.T) {
	t.Parallel()

	in, _ := newInput(t, 30*time.Second)
	video := &fakeVideoTool{duration: 10 * time.Second}
	_, err := New(Deps{Video: video}).Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []string{"setpts=3.0*PTS"}, video.filters)
	assert.Equal(t, 31*time.Second, video.trimLength)
}

func TestRun_Failures(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	cases := []struct {
		name      string
		length    time.Duration
		video     *fakeVideoTool
		wantCalls []string
		wantIs    error
	}{
		{
			name:      "preflight fails",
			length:    10 * time.Second,
			video:     &fakeVideoTool{checkErr: boom, duration: 30 * time.Second},
			wantCalls: []string{"check"},
			wantIs:    boom,
		},
		{
			name:      "probe fails",
			length:    10 * time.Second,
			video:     &fakeVideoTool{probeErr: boom},
			wantCalls: []string{"check", "probe"},
			wantIs:    boom,
		},
		{
			name:      "zero length",
			length:    0,
			video:     &fakeVideoTool{duration: 30 * time.Second},
			wantCalls: []string{"check", "probe"},
			wantIs:    timelapse.ErrInvalidDuration,
		},
		{
			name:      "zero source duration",
			length:    10 * time.Second,
			video:     &fakeVideoTool{duration: 0},
			wantCalls: []string{"check", "probe"},
			wantIs:    timelapse.ErrInvalidDuration,
		},
		{
			name:      "speed up fails",
			length:    10 * time.Second,
			video:     &fakeVideoTool{duration: 30 * time.Second, speedUpErr: boom},
			wantCalls: []string{"check", "probe", "speedup"},
			wantIs:    boom,
		},
		{
			name:      "trim fails",
			length:    10 * time.Second,
			video:     &fakeVideoTool{duration: 30 * time.Second, trimErr: boom},
			wantCalls: []string{"check", "probe", "speedup", "trim"},
			wantIs:    boom,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in, work := newInput(t, tc.length)
			_, err := New(Deps{Video: tc.video}).Run(context.Background(), in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantIs), "got %v", err)
			assert.Equal(t, tc.wantCalls, tc.video.calls)
			assertEmptyDir(t, work)
		})
	}
}

func TestRun_CleanupOnPanic(t *testing.T) {
	t.Parallel()

	in, work := newInput(t, 10*time.Second)
	video := &fakeVideoTool{duration: 30 * time.Second, trimPanic: true}

	func() {
		defer func() {
			assert.NotNil(t, recover())
		}()
		_, _ = New(Deps{Video: video}).Run(context.Background(), in)
	}()

	assertEmptyDir(t, work)
}

func TestRun_TempDirMissing(t *testing.T) {
	t.Parallel()

	in, _ := newInput(t, 10*time.Second)
	in.TempDir = filepath.Join(in.TempDir, "does-not-exist")
	video := &fakeVideoTool{duration: 30 * time.Second}

	_, err := New(Deps{Video: video}).Run(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create temp dir")
	assert.NotContains(t, video.calls, "speedup")
}
