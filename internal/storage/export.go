package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/konacodes/fluidsim/internal/config"
	"github.com/konacodes/fluidsim/internal/fluid"
	"github.com/konacodes/fluidsim/internal/runner"
)

type ExportData struct {
	Preset   string               `json:"preset"`
	Width    float64              `json:"width"`
	Height   float64              `json:"height"`
	Dt       float64              `json:"dt"`
	Seed     int64                `json:"seed"`
	Frames   int                  `json:"frames"`
	Times    []float64            `json:"times"`
	Series   map[string][]float64 `json:"series"`
	Metrics  map[string]float64   `json:"metrics"`
	Snapshot []fluid.View         `json:"snapshot"`
}

func exportData(preset string, cfg *config.Config, result *runner.Result) ExportData {
	return ExportData{
		Preset:   preset,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Dt:       cfg.Params.Dt,
		Seed:     cfg.Params.Seed,
		Frames:   result.FramesRun,
		Times:    result.Times,
		Series:   result.Series,
		Metrics:  result.Metrics,
		Snapshot: result.FinalSnapshot,
	}
}

func writeExport(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportJSON(path, preset string, cfg *config.Config, result *runner.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, exportData(preset, cfg, result))
}

func ExportJSONStdout(preset string, cfg *config.Config, result *runner.Result) error {
	return writeExport(os.Stdout, exportData(preset, cfg, result))
}
