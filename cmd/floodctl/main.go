package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"floodctl/internal/config"
	"floodctl/internal/pipeline"
	"floodctl/pkg/contracts"
	"floodctl/pkg/contracts/domain"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	inputPath := flag.String("input", "", "input CSV path (overrides config)")
	outputDir := flag.String("out", "", "output directory for reports (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *inputPath != "" {
		cfg.Input.Path = *inputPath
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	runner := pipeline.NewRunner(cfg, logger)
	result, err := runner.Run(context.Background())
	if err != nil {
		logger.Error("Pipeline run failed", "error", err)
		os.Exit(1)
	}

	printDigest(result)
}

// printDigest renders the run summary as an aligned console table after the
// output files are written.
func printDigest(result *pipeline.Result) {
	d := result.Digest
	fmt.Println()
	fmt.Println("Flood Control Reporting Summary")
	fmt.Println("===============================")
	fmt.Printf("%-28s %d-%d\n", "Funding years:", domain.MinFundingYear, domain.MaxFundingYear)
	fmt.Printf("%-28s %d\n", "Projects analyzed:", d.TotalProjects)
	fmt.Printf("%-28s %d\n", "Distinct contractors:", d.TotalContractors)
	fmt.Printf("%-28s %d\n", "Distinct provinces:", d.TotalProvinces)
	fmt.Printf("%-28s %.2f days\n", "Average completion delay:", d.GlobalAvgDelay)
	fmt.Printf("%-28s %s\n", "Total cost savings:", formatThousands(d.GlobalTotalSavings))
	fmt.Printf("%-28s %d rejected of %d read\n", "Row rejections:", result.RunLog.RejectCount(), result.RunLog.RowsSeen)
}

// formatThousands renders a currency amount with comma separators and two
// decimals, matching the workbook's number format.
func formatThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	dot := len(s) - 3
	whole := s[:dot]
	for i := len(whole) - 3; i > 0; i -= 3 {
		whole = whole[:i] + "," + whole[i:]
	}
	if neg {
		return "-" + whole + s[dot:]
	}
	return whole + s[dot:]
}
