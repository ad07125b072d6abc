package types

import "time"

type Job struct {
	InputPath  string
	OutputPath string
	Length     time.Duration
}

type Report struct {
	Input          string  `json:"input"`
	Output         string  `json:"output"`
	SourceSec      float64 `json:"source_sec"`
	LengthSec      float64 `json:"length_sec"`
	Factor         float64 `json:"factor"`
	Filter         string  `json:"filter"`
	TrimSec        float64 `json:"trim_sec"`
	ElapsedSeconds float64 `json:"elapsed_sec"`
}
