// Package services contains the invoice processing pipeline: the per-document
// task that runs extraction, inference, reconciliation, and placement, and
// the batch coordinator that fans tasks out under a concurrency cap.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"invoiceflow/internal/fileutil"
	"invoiceflow/internal/models"
	"invoiceflow/internal/vendors"
)

// DefaultMaxConcurrent caps in-flight documents when no limit is configured.
const DefaultMaxConcurrent = 5

// TextExtractor turns a document path into plain text. Implementations must
// collapse every extraction error to "".
type TextExtractor func(path string) string

// ProcessorConfig holds the per-run settings for the pipeline.
type ProcessorConfig struct {
	OutputDir      string
	MoveFiles      bool
	VendorOverride string
	MaxConcurrent  int
}

// Processor orchestrates invoice documents from source PDF to renamed file.
type Processor struct {
	extractor   InvoiceExtractor
	extractText TextExtractor
	registrar   *vendors.Registrar
	config      ProcessorConfig
}

// NewProcessor assembles a pipeline from its collaborators.
func NewProcessor(extractor InvoiceExtractor, extractText TextExtractor, registrar *vendors.Registrar, config ProcessorConfig) *Processor {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = DefaultMaxConcurrent
	}
	return &Processor{
		extractor:   extractor,
		extractText: extractText,
		registrar:   registrar,
		config:      config,
	}
}

// ProcessInvoice runs one document through the full pipeline and returns the
// synthesized filename. Every failure is terminal for this document only.
func (p *Processor) ProcessInvoice(ctx context.Context, filePath string) (string, error) {
	filename := filepath.Base(filePath)
	logCtx := slog.With("file", filename)
	logCtx.Info("Starting processing.")

	start := time.Now()
	defer func() {
		logCtx.Info("Finished processing.", "duration", time.Since(start).Round(10*time.Millisecond).String())
	}()

	text := p.extractText(filePath)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text extracted from %s", filename)
	}

	inv, raw, err := p.extractBoth(ctx, text)
	if err != nil {
		return "", fmt.Errorf("incomplete AI response for %s: %w", filename, err)
	}

	p.reconcileVendor(logCtx, inv, raw)

	newName := inv.Filename()
	if err := p.placeFile(filePath, newName); err != nil {
		return "", err
	}

	if p.config.MoveFiles {
		logCtx.Info("Successfully processed and moved.", "newName", newName)
	} else {
		logCtx.Info("Successfully processed and copied.", "newName", newName)
	}
	return newName, nil
}

// extractBoth issues the two inference calls concurrently and joins them.
// Both must succeed; either failure surfaces as one combined failure before
// any side effect happens.
func (p *Processor) extractBoth(ctx context.Context, text string) (*models.ExtractedInvoice, *models.RawVendorExtract, error) {
	var (
		inv *models.ExtractedInvoice
		raw *models.RawVendorExtract
		eg  errgroup.Group
	)
	eg.Go(func() error {
		var err error
		inv, err = p.extractor.ExtractInvoice(ctx, text)
		return err
	})
	eg.Go(func() error {
		var err error
		raw, err = p.extractor.ExtractRawVendor(ctx, text)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	if inv == nil || raw == nil {
		return nil, nil, fmt.Errorf("extraction returned no payload")
	}
	return inv, raw, nil
}

// reconcileVendor records the observed vendor strings in the registry. With
// an operator override in place, the override becomes the canonical
// candidate and both the AI-detected vendor and the verbatim vendor are
// registered as its aliases within one critical section. Registry write
// failures are logged but never fail the document; the filename is already
// synthesized from in-memory state.
func (p *Processor) reconcileVendor(logCtx *slog.Logger, inv *models.ExtractedInvoice, raw *models.RawVendorExtract) {
	var pairs []vendors.AliasPair

	if p.config.VendorOverride != "" {
		aiVendor := inv.Vendor
		inv.Vendor = p.config.VendorOverride

		pairs = append(pairs, vendors.AliasPair{RawName: aiVendor, NormalizedName: p.config.VendorOverride})
		if raw.VerbatimVendorName != aiVendor {
			pairs = append(pairs, vendors.AliasPair{RawName: raw.VerbatimVendorName, NormalizedName: p.config.VendorOverride})
		}
		logCtx.Info("Using vendor override.", "override", p.config.VendorOverride, "aiDetected", aiVendor)
	} else {
		pairs = append(pairs, vendors.AliasPair{RawName: raw.VerbatimVendorName, NormalizedName: inv.Vendor})
	}

	if _, err := p.registrar.Register(pairs...); err != nil {
		logCtx.Warn("Failed to update vendor registry; continuing.", "error", err)
	}
}

func (p *Processor) placeFile(sourcePath, newName string) error {
	if err := fileutil.EnsureDir(p.config.OutputDir); err != nil {
		return err
	}
	// Identical synthesized names overwrite the existing file.
	destPath := filepath.Join(p.config.OutputDir, newName)
	if p.config.MoveFiles {
		return fileutil.MoveFile(sourcePath, destPath)
	}
	return fileutil.CopyFile(sourcePath, destPath)
}
