package services

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// ProcessBatch runs every document through the pipeline with at most
// MaxConcurrent in flight. One document's failure never aborts its siblings:
// errors are logged at the task boundary and represented as "" in the
// result slice, which matches the order of filePaths.
func (p *Processor) ProcessBatch(ctx context.Context, filePaths []string) []string {
	results := make([]string, len(filePaths))

	var eg errgroup.Group
	eg.SetLimit(p.config.MaxConcurrent)

	for i, filePath := range filePaths {
		// A cancelled context stops new work; in-flight documents finish.
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			newName, err := p.ProcessInvoice(ctx, filePath)
			if err != nil {
				slog.Error("Document failed.", "file", filepath.Base(filePath), "error", err)
				return nil
			}
			results[i] = newName
			return nil
		})
	}

	// Tasks never return errors; Wait only joins them.
	_ = eg.Wait()
	return results
}
