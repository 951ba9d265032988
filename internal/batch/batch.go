// Package batch drives classification over a set of files. Files are
// processed strictly sequentially; each file's failure is caught and
// logged under its own run ID so one malformed export never aborts the
// rest of the batch.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bankledger/internal/classifier"
	"bankledger/internal/domain"
	"bankledger/internal/logger"
	"bankledger/internal/reports"
	"bankledger/internal/statement"
)

// Result accumulates the surviving output of a batch.
type Result struct {
	Journal []domain.ClassifiedTransaction
	Market  []domain.MarketRow
	Files   int
	Parsed  int
	Skipped int
}

// ProcessStatements parses and classifies every bank CSV in paths.
// Schema mismatches and I/O failures are logged and skipped per file.
func ProcessStatements(ctx context.Context, paths []string, clf *classifier.Classifier) Result {
	log := logger.FromContext(ctx)

	var res Result
	for _, path := range paths {
		res.Files++
		runID := uuid.NewString()
		flog := log.With().Str("run_id", runID).Str("file", filepath.Base(path)).Logger()

		txs, stats, err := statement.Parse(path)
		if err != nil {
			logParseFailure(flog, err)
			res.Skipped++
			continue
		}

		res.Journal = append(res.Journal, clf.Run(txs)...)
		res.Parsed++
		flog.Info().
			Int("rows", stats.Rows).
			Int("skipped_rows", stats.Skipped).
			Msg("statement classified")
	}
	return res
}

// ProcessReports parses every marketplace XLSX in paths, auto-detecting
// the schema per file.
func ProcessReports(ctx context.Context, paths []string) Result {
	log := logger.FromContext(ctx)

	var res Result
	for _, path := range paths {
		res.Files++
		runID := uuid.NewString()
		flog := log.With().Str("run_id", runID).Str("file", filepath.Base(path)).Logger()

		t, err := reports.ReadXLSX(path)
		if err != nil {
			flog.Error().Err(err).Msg("failed to read report, skipping")
			res.Skipped++
			continue
		}

		name, rows, err := reports.ParseAny(t)
		if err != nil {
			logParseFailure(flog, err)
			res.Skipped++
			continue
		}

		res.Market = append(res.Market, rows...)
		res.Parsed++
		flog.Info().Str("schema", name).Int("rows", len(rows)).Msg("report parsed")
	}
	return res
}

func logParseFailure(flog zerolog.Logger, err error) {
	var se *reports.SchemaError
	if errors.As(err, &se) {
		flog.Warn().Err(err).Msg("schema mismatch, skipping file")
		return
	}
	flog.Error().Err(err).Msg("failed to parse, skipping file")
}

// ExpandPaths resolves arguments into concrete files: directories are
// listed non-recursively and filtered by extension.
func ExpandPaths(args []string, exts ...string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("ExpandPaths: %w", err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("ExpandPaths: listing %s: %w", arg, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if matchesExt(e.Name(), exts) {
				out = append(out, filepath.Join(arg, e.Name()))
			}
		}
	}
	return out, nil
}

func matchesExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
