package calculate

import (
	"encoding/json"
	"flag"
	cmdimport "fleetlens/command/import"
	"fleetlens/connectors/config"
	ccsv "fleetlens/connectors/csv"
	"fleetlens/connectors/sheet"
	"fleetlens/domain/fleet"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Output files written next to the CSV tables.
const (
	DashboardFile  = "dashboard.json"
	AskContextFile = "ask_context.json"
)

// Run executes the calculate command: it loads the raw tables written by
// import, runs the aggregation engine and writes the dashboard as JSON and
// CSV plus the ask context.
func Run(args []string) error {
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", "", "data directory (default data.dir from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("calculate: unexpected arguments %v", fs.Args())
	}

	if *dataDir == "" {
		cfg, err := config.Resolve()
		if err != nil {
			return err
		}
		*dataDir = cfg.Data.Dir
	}
	return Calculate(*dataDir)
}

// Calculate aggregates <dir>/raw into <dir>.
func Calculate(dir string) error {
	src, err := sheet.LoadRaw(filepath.Join(dir, cmdimport.RawDir))
	if err != nil {
		slog.Error("calculate.load.error", "dir", dir, "error", err)
		return err
	}

	dashboard := fleet.BuildDashboard(src.Cost, src.Vehicles, src.Freight)
	askCtx := fleet.BuildAskContext(src)

	if err := writeJSON(filepath.Join(dir, DashboardFile), dashboard); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, AskContextFile), askCtx); err != nil {
		return err
	}
	if err := ccsv.WriteDashboardCSVs(dir, dashboard); err != nil {
		slog.Error("calculate.csv.error", "dir", dir, "error", err)
		return err
	}

	slog.Info("calculate.done",
		"dir", dir,
		"months", len(dashboard.RevenueVsCosts),
		"truckTypes", len(dashboard.CostByTruckType),
		"fleet", dashboard.KPIs.TotalFleetSize,
		"joinMatched", askCtx.RevenueByDrive.JoinCoverage.Matched,
		"joinTotal", askCtx.RevenueByDrive.JoinCoverage.Total)
	return nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
