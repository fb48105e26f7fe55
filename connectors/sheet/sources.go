package sheet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fleetlens/domain/fleet"
)

// Source names, in upload order. They double as raw table file names.
const (
	SourceCost     = "cost"
	SourceVehicles = "vehicles"
	SourceFreight  = "freight"
	SourceDrivers  = "drivers"
)

// SourceNames lists every source the engine consumes.
var SourceNames = []string{SourceCost, SourceVehicles, SourceFreight, SourceDrivers}

// Payload is one uploaded file: its original name and content.
// A payload without data stands for a source that was not uploaded.
type Payload struct {
	Name string
	Data []byte
}

// DecodeSources decodes the four payloads concurrently. A missing payload
// yields an empty table. All decode failures are reported together.
func DecodeSources(cost, vehicles, freight, drivers Payload) (fleet.Sources, error) {
	var src fleet.Sources
	jobs := []struct {
		source  string
		payload Payload
		dst     *fleet.Table
	}{
		{SourceCost, cost, &src.Cost},
		{SourceVehicles, vehicles, &src.Vehicles},
		{SourceFreight, freight, &src.Freight},
		{SourceDrivers, drivers, &src.Drivers},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(jobs))
	for i, job := range jobs {
		if len(job.payload.Data) == 0 {
			continue
		}
		wg.Add(1)
		go func(i int, source string, p Payload, dst *fleet.Table) {
			defer wg.Done()
			t, err := Decode(p.Name, bytes.NewReader(p.Data))
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", source, err)
				return
			}
			*dst = t
		}(i, job.source, job.payload, job.dst)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return fleet.Sources{}, err
	}
	return src, nil
}

// Tables returns the tables of src keyed by source name.
func Tables(src fleet.Sources) map[string]fleet.Table {
	return map[string]fleet.Table{
		SourceCost:     src.Cost,
		SourceVehicles: src.Vehicles,
		SourceFreight:  src.Freight,
		SourceDrivers:  src.Drivers,
	}
}

// SaveRaw writes every table of src as <dir>/<source>.json.
func SaveRaw(dir string, src fleet.Sources) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, t := range Tables(src) {
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name+".json"), b, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// LoadRaw reads the tables written by SaveRaw. A missing file leaves its
// source empty, so a partial import still aggregates.
func LoadRaw(dir string) (fleet.Sources, error) {
	var src fleet.Sources
	dst := map[string]*fleet.Table{
		SourceCost:     &src.Cost,
		SourceVehicles: &src.Vehicles,
		SourceFreight:  &src.Freight,
		SourceDrivers:  &src.Drivers,
	}
	for _, name := range SourceNames {
		b, err := os.ReadFile(filepath.Join(dir, name+".json"))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fleet.Sources{}, err
		}
		if err := json.Unmarshal(b, dst[name]); err != nil {
			return fleet.Sources{}, fmt.Errorf("decode %s: %w", name, err)
		}
	}
	return src, nil
}
