//go:build integration

package itest

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeData struct {
	Format probeFormat `json:"format"`
}

// probeDurationSeconds reads the container duration through ffprobe's JSON
// writer, independent of the csv path the adapter uses.
func probeDurationSeconds(path string) (float64, error) {
	b, err := exec.Command("ffprobe", "-v", "error", "-show_format", "-of", "json", path).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	var pd probeData
	if err := json.Unmarshal(b, &pd); err != nil {
		return 0, fmt.Errorf("decode ffprobe json: %w", err)
	}
	sec, err := strconv.ParseFloat(pd.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", pd.Format.Duration, err)
	}
	return sec, nil
}
