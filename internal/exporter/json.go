package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "floodctl/internal/errors"
	"floodctl/internal/stats"
	"floodctl/pkg/contracts/domain"
)

// WriteSummary writes summary.json: a single flat object with the digest's
// numeric values rounded to 2 decimals.
func WriteSummary(outputDir string, digest domain.SummaryDigest, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	rounded := digest
	rounded.GlobalAvgDelay = stats.Round2(digest.GlobalAvgDelay)
	rounded.GlobalTotalSavings = stats.Round2(digest.GlobalTotalSavings)

	path := filepath.Join(outputDir, SummaryFile)
	if err := writeJSON(path, rounded); err != nil {
		return err
	}

	logger.Info("wrote summary digest", slog.String("path", path))
	return nil
}

// WriteRunLog writes the accumulated run log beside the report files.
func WriteRunLog(outputDir string, runLog *apperrors.RunLog, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	path := filepath.Join(outputDir, RunLogFile)
	if err := writeJSON(path, runLog); err != nil {
		return err
	}

	logger.Info("wrote run log",
		slog.String("path", path),
		slog.Int("rejects", runLog.RejectCount()))
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
