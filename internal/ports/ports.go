package ports

import (
	"context"
	"time"
)

type VideoTool interface {
	// Check reports an error if a required binary cannot be started.
	Check(ctx context.Context) error
	ProbeDuration(ctx context.Context, inPath string) (time.Duration, error)
	SpeedUp(ctx context.Context, inPath, outPath, filter string) error
	Trim(ctx context.Context, inPath string, start, length time.Duration, outPath string) error
}
