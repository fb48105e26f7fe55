package main

import (
	cmdcalculate "fleetlens/command/calculate"
	cmdimport "fleetlens/command/import"
	cmdweb "fleetlens/command/web"
	"fmt"
	"log/slog"
	"os"
)

// Fleet cost and revenue dashboard.
// Usage:
//   go run . import -cost cost.xlsx -freight freight.xlsx [-vehicles vehicles.xlsx] [-drivers drivers.csv]
//   go run . calculate
//   OPENAI_API_KEY=sk-xxx go run . web [-addr :8080]
// Notes:
// - import decodes the spreadsheets into <data>/raw, calculate writes dashboard.json,
//   ask_context.json and one CSV per dashboard table, web serves uploads, the dashboard
//   and the streamed question answering.
// - Without any cost or freight data the dashboard shows the demonstration dataset.

func main() {
	args := os.Args
	// Initialize slog logger (text to stderr, INFO level)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))

	if len(args) > 1 {
		sub := args[1]
		rest := append([]string{}, args[2:]...)
		switch sub {
		case "import":
			if err := cmdimport.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "calculate":
			if err := cmdcalculate.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "web":
			if err := cmdweb.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: fleetlens import -cost <file> -freight <file> [-vehicles <file>] [-drivers <file>] [-data ./data] | calculate [-data ./data] | web [-addr :8080] [-data ./data] [-ui ./ui/dist]\nENV: set CONFIG_PATH to point to a YAML config file (default ./config.yml), OPENAI_API_KEY and OPENAI_MODEL for questions")
	os.Exit(2)
}
