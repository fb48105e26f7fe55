package cmdimport

import (
	"flag"
	"fleetlens/connectors/config"
	"fleetlens/connectors/sheet"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// RawDir is the sub-directory of the data dir holding decoded source tables.
const RawDir = "raw"

// Run executes the import subcommand. It expects flag arguments like:
// -cost, -vehicles, -freight, -drivers (spreadsheet paths) and -data.
// Sources left out are imported as empty tables.
func Run(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	costPath := fs.String("cost", "", "cost spreadsheet (.xlsx or .csv)")
	vehiclesPath := fs.String("vehicles", "", "vehicle master spreadsheet (optional)")
	freightPath := fs.String("freight", "", "freight spreadsheet")
	driversPath := fs.String("drivers", "", "driver master spreadsheet (optional)")
	dataDir := fs.String("data", "", "output directory (default data.dir from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Resolve()
	if err != nil {
		slog.Error("import.config.error", "error", err)
		return err
	}
	if *dataDir == "" {
		*dataDir = cfg.Data.Dir
	}

	if *costPath == "" && *freightPath == "" {
		fmt.Fprintln(os.Stderr, "at least one of -cost or -freight is required")
		slog.Error("import.validation.error", "reason", "missing cost and freight")
		return fmt.Errorf("missing required -cost or -freight")
	}

	slog.Info("import.start", "cost", *costPath, "vehicles", *vehiclesPath, "freight", *freightPath, "drivers", *driversPath, "data", *dataDir)

	payloads := make([]sheet.Payload, 0, 4)
	for _, p := range []string{*costPath, *vehiclesPath, *freightPath, *driversPath} {
		payload, err := readPayload(p)
		if err != nil {
			slog.Error("import.read.error", "path", p, "error", err)
			return err
		}
		payloads = append(payloads, payload)
	}

	src, err := sheet.DecodeSources(payloads[0], payloads[1], payloads[2], payloads[3])
	if err != nil {
		slog.Error("import.decode.error", "error", err)
		return err
	}

	out := filepath.Join(*dataDir, RawDir)
	if err := sheet.SaveRaw(out, src); err != nil {
		slog.Error("import.write.error", "dir", out, "error", err)
		return err
	}
	slog.Info("import.done",
		"dir", out,
		"cost", src.Cost.Len(),
		"vehicles", src.Vehicles.Len(),
		"freight", src.Freight.Len(),
		"drivers", src.Drivers.Len())
	return nil
}

func readPayload(path string) (sheet.Payload, error) {
	if path == "" {
		return sheet.Payload{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return sheet.Payload{}, err
	}
	return sheet.Payload{Name: filepath.Base(path), Data: b}, nil
}
