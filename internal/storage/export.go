package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/sim"
)

type ExportData struct {
	RunInfo
	Steps       int                `json:"steps"`
	VolumeDrift float64            `json:"volume_drift"`
	Metrics     map[string]float64 `json:"metrics"`
	Snapshots   []*fluid.Snapshot  `json:"snapshots"`
}

func newExport(info RunInfo, result *sim.Result) ExportData {
	return ExportData{
		RunInfo:     info,
		Steps:       result.StepsTaken,
		VolumeDrift: result.VolumeDrift,
		Metrics:     result.Metrics,
		Snapshots:   result.Snapshots,
	}
}

// WriteJSON encodes the whole result, snapshots included.
func WriteJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExport(info, result))
}

func ExportJSON(path string, info RunInfo, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, info, result)
}

func ExportJSONStdout(info RunInfo, result *sim.Result) error {
	return WriteJSON(os.Stdout, info, result)
}
