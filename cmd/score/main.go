// Package main scores room detection results against a generated test
// suite and reports aggregate accuracy metrics.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/blueplan/roomsight/internal/scoring"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	suiteDir := flag.String("suite", "", "path to the test suite directory (required)")
	resultsDir := flag.String("results", "", "path to the detection results directory (required)")
	output := flag.String("output", "", "file to write the JSON report to (default: stdout)")
	flag.Parse()

	if *help {
		fmt.Println("RoomSight Suite Scorer")
		fmt.Println()
		fmt.Println("Usage: score -suite DIR -results DIR [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// Keep stdout clean for the report.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *suiteDir == "" || *resultsDir == "" {
		logger.Error("both -suite and -results are required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	report, err := scoring.RunSuite(*suiteDir, *resultsDir)
	if err != nil {
		logger.Error("suite scoring failed", "error", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Error("failed to encode report", "error", err)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, data, 0o644); err != nil {
			logger.Error("failed to write report", "path", *output, "error", err)
			os.Exit(1)
		}
		logger.Info("report written",
			"path", *output,
			"blueprints", report.TotalBlueprints,
			"average_iou", report.AverageIoU,
			"average_f1", report.AverageF1Score,
		)
		return
	}

	fmt.Println(string(data))
}
