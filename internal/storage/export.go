package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/particles/internal/dynamo"
)

type ExportFrame struct {
	Step      int       `json:"step"`
	Time      float64   `json:"time"`
	Positions []float64 `json:"positions"`
}

type ExportData struct {
	Scene      string               `json:"scene"`
	Integrator string               `json:"integrator"`
	Policy     string               `json:"policy"`
	Dt         float64              `json:"dt"`
	Steps      int                  `json:"steps"`
	StepsTaken int                  `json:"steps_taken"`
	Collisions int                  `json:"collisions"`
	Frames     []ExportFrame        `json:"frames"`
	Series     map[string][]float64 `json:"series,omitempty"`
	Metrics    map[string]float64   `json:"metrics"`
}

func NewExportData(info RunInfo, result *dynamo.Result) ExportData {
	data := ExportData{
		Scene:      info.Scene,
		Integrator: info.Integrator,
		Policy:     info.Policy,
		Dt:         info.Dt,
		Steps:      info.Steps,
		StepsTaken: result.StepsTaken,
		Collisions: result.Collisions,
		Frames:     make([]ExportFrame, len(result.Frames)),
		Series:     make(map[string][]float64, len(result.Series)),
		Metrics:    finiteMetrics(result.Metrics),
	}

	for i, f := range result.Frames {
		data.Frames[i] = ExportFrame{Step: f.Step, Time: f.Time, Positions: f.Positions}
	}
	for name, series := range result.Series {
		if finiteSeries(series) {
			data.Series[name] = series
		}
	}
	return data
}

// ExportJSON writes the run as indented JSON. Non-finite series are dropped;
// non-finite positions only occur with state validation off and fail encoding.
func ExportJSON(w io.Writer, info RunInfo, result *dynamo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(info, result))
}

func finiteSeries(s []float64) bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
