package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/acervera/expenditure-control/internal/extract"
	"github.com/acervera/expenditure-control/internal/journal"
	"github.com/acervera/expenditure-control/internal/pdftext"
)

// Service runs directory scans: extract page text, match rows, bind schemas,
// persist records. It holds no state between scans; every call returns a
// self-contained BatchResult.
type Service struct {
	extractor pdftext.Extractor
	store     Store
	journal   *journal.Journal
}

// NewService creates a Service. The journal may be nil, which disables
// skip-unchanged bookkeeping.
func NewService(extractor pdftext.Extractor, store Store, j *journal.Journal) *Service {
	return &Service{
		extractor: extractor,
		store:     store,
		journal:   j,
	}
}

// FileFailure records one document that could not be read during a scan.
type FileFailure struct {
	File string
	Err  error
}

// BatchResult is the outcome of one directory scan.
type BatchResult struct {
	RunID        string
	Items        ItemBinding
	Totals       TotalsBinding
	Failures     []FileFailure
	FilesScanned int
	FilesSkipped int
}

// ProcessDirectory scans every PDF in dir, assembles the record tables and
// persists the bound records. An unreadable document is logged and skipped;
// it never aborts the batch. Each document is attempted exactly once.
func (s *Service) ProcessDirectory(ctx context.Context, dir string) (*BatchResult, error) {
	files, err := listPDFs(dir)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{RunID: uuid.NewString()}
	started := time.Now()

	var tables RawTables
	for _, file := range files {
		base := filepath.Base(file)

		if s.journal != nil {
			if seen, err := s.journal.Seen(file); err == nil && seen {
				result.FilesSkipped++
				slog.Info("Skipping unchanged document", "file", base)
				continue
			}
		}

		slog.Info("Processing document", "file", base)
		pagesText, err := s.extractor.ExtractPages(file)
		if err != nil {
			slog.Error("Failed to read document", "file", base, "error", err)
			result.Failures = append(result.Failures, FileFailure{File: base, Err: err})
			continue
		}

		pages := make([]extract.PageData, 0, len(pagesText))
		for _, text := range pagesText {
			pages = append(pages, extract.ScanPage(text))
		}
		tables.AppendPages(pages)
		result.FilesScanned++

		if s.journal != nil {
			if err := s.journal.MarkSeen(file); err != nil {
				slog.Warn("Failed to journal document", "file", base, "error", err)
			}
		}
	}

	result.Items = BindItems(tables.Items)
	result.Totals = BindTotals(tables.Totals)
	for _, colErr := range result.Items.Errors {
		slog.Error("Item column conversion failed", "column", colErr.Column, "error", colErr.Err)
	}
	for _, colErr := range result.Totals.Errors {
		slog.Error("Totals column conversion failed", "column", colErr.Column, "error", colErr.Err)
	}

	if err := s.persist(ctx, result); err != nil {
		return nil, err
	}

	if s.journal != nil {
		run := journal.Run{
			ID:         result.RunID,
			StartedAt:  started,
			FinishedAt: time.Now(),
			Files:      result.FilesScanned,
			Skipped:    result.FilesSkipped,
			Items:      len(result.Items.Records),
			Totals:     len(result.Totals.Records),
		}
		for _, failure := range result.Failures {
			run.Failures = append(run.Failures, failure.File)
		}
		if err := s.journal.RecordRun(run); err != nil {
			slog.Warn("Failed to record run", "run_id", run.ID, "error", err)
		}
	}

	return result, nil
}

func (s *Service) persist(ctx context.Context, result *BatchResult) error {
	if err := s.store.CreateSchema(ctx); err != nil {
		return err
	}
	for _, item := range result.Items.Records {
		if err := s.store.InsertOrReplaceItem(ctx, item); err != nil {
			return err
		}
	}
	for _, total := range result.Totals.Records {
		if err := s.store.InsertOrIgnoreTotal(ctx, total); err != nil {
			return err
		}
	}
	return nil
}

// listPDFs finds every PDF in dir, matching both extension cases.
func listPDFs(dir string) ([]string, error) {
	lower, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("listing PDFs: %w", err)
	}
	upper, err := filepath.Glob(filepath.Join(dir, "*.PDF"))
	if err != nil {
		return nil, fmt.Errorf("listing PDFs: %w", err)
	}

	files := append(lower, upper...)
	sort.Strings(files)
	return files, nil
}
