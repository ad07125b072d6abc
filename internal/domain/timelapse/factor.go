package timelapse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration is returned when a source or target duration cannot
// produce a usable scale factor.
var ErrInvalidDuration = errors.New("invalid duration")

// TrimMargin is added to the requested length when cutting the sped-up clip.
const TrimMargin = time.Second

// ScaleFactor returns the PTS multiplier that makes a clip of length source
// play back in target.
func ScaleFactor(source, target time.Duration) (float64, error) {
	if source <= 0 {
		return 0, fmt.Errorf("%w: source duration %s must be > 0", ErrInvalidDuration, source)
	}
	if target <= 0 {
		return 0, fmt.Errorf("%w: target length %s must be > 0", ErrInvalidDuration, target)
	}
	factor := source.Seconds() / target.Seconds()
	factor = 1 / factor
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return 0, fmt.Errorf("%w: factor %v is not usable", ErrInvalidDuration, factor)
	}
	return factor, nil
}

// SetPTSFilter renders the video filter that rescales timestamps by factor.
func SetPTSFilter(factor float64) string {
	return "setpts=" + FormatSeconds(factor) + "*PTS"
}

// TrimLength is the duration requested from the trim step.
func TrimLength(target time.Duration) time.Duration {
	return target + TrimMargin
}

// FormatSeconds prints v as the shortest decimal that round-trips, always
// with a fractional part ("3.0", "0.25").
func FormatSeconds(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
