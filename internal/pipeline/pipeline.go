// Package pipeline orchestrates one batch run: load, clean, build the three
// reports, build the summary digest, and export every output file.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"floodctl/internal/config"
	"floodctl/internal/dataset"
	apperrors "floodctl/internal/errors"
	"floodctl/internal/exporter"
	"floodctl/internal/report"
	"floodctl/pkg/contracts/domain"
)

// Result holds everything a run produced, for callers that want to render
// the digest after the files are written.
type Result struct {
	Regional    []domain.RegionalEfficiencyRow
	Contractors []domain.ContractorPerformanceRow
	Trends      []domain.AnnualTrendRow
	Digest      domain.SummaryDigest
	RunLog      *apperrors.RunLog
}

// Runner executes the batch pipeline described by its configuration.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunner creates a pipeline runner. A nil logger falls back to
// slog.Default().
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes one full pipeline pass. It returns an error only for fatal
// conditions; row-level and computation-level issues end up in the run log,
// which is written beside the output files.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runLog := apperrors.NewRunLog()

	r.logger.InfoContext(ctx, "starting pipeline run",
		"run_id", runLog.RunID,
		"input", r.cfg.Input.Path,
		"output_dir", r.cfg.Output.Dir)

	rows, err := dataset.NewLoader(r.logger).Load(r.cfg.Input.Path, runLog)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	cleaned := dataset.NewCleaner(domain.MinFundingYear, domain.MaxFundingYear, r.logger).Clean(rows, runLog)
	if len(cleaned) == 0 {
		return nil, apperrors.ErrEmptyDataset
	}

	// Cleaning barrier: from here the cleaned slice is read-only, so the
	// three report builders can run concurrently without synchronization.
	builder := report.NewBuilder(r.logger, runLog)
	result := &Result{RunLog: runLog}

	var g errgroup.Group
	g.Go(func() error {
		result.Regional = builder.RegionalEfficiency(cleaned)
		return nil
	})
	g.Go(func() error {
		result.Contractors = builder.TopContractorPerformance(cleaned)
		return nil
	})
	g.Go(func() error {
		result.Trends = builder.AnnualTrends(cleaned)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build reports: %w", err)
	}

	// The digest reads the cleaned set directly, not the report outputs.
	result.Digest = builder.Summary(cleaned)

	if err := r.export(result); err != nil {
		return nil, err
	}

	runLog.Finish()
	if err := exporter.WriteRunLog(r.cfg.Output.Dir, runLog, r.logger); err != nil {
		return nil, fmt.Errorf("write run log: %w", err)
	}

	r.logger.InfoContext(ctx, "pipeline run completed",
		"run_id", runLog.RunID,
		"duration", time.Since(start),
		"rows_seen", runLog.RowsSeen,
		"rows_retained", runLog.RowsRetained,
		"rows_rejected", runLog.RejectCount())

	return result, nil
}

// export writes the canonical files and, when enabled, the presentation
// workbook.
func (r *Runner) export(result *Result) error {
	csvWriter := exporter.NewCSVWriter(r.cfg.Output.Dir, r.logger)
	if err := csvWriter.WriteRegionalEfficiency(result.Regional); err != nil {
		return fmt.Errorf("write report 1: %w", err)
	}
	if err := csvWriter.WriteContractorPerformance(result.Contractors); err != nil {
		return fmt.Errorf("write report 2: %w", err)
	}
	if err := csvWriter.WriteAnnualTrends(result.Trends); err != nil {
		return fmt.Errorf("write report 3: %w", err)
	}
	if err := exporter.WriteSummary(r.cfg.Output.Dir, result.Digest, r.logger); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if r.cfg.Output.WriteExcel {
		excelWriter := exporter.NewExcelWriter(r.cfg.Output.Dir, r.logger)
		if err := excelWriter.WriteWorkbook(result.Regional, result.Contractors, result.Trends, result.Digest); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
	}
	return nil
}
