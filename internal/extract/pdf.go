// Package extract pulls plain text out of PDF invoices. Any failure is
// reported as an empty string: the processing pipeline treats unreadable
// documents as "no text" and skips them.
package extract

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Text extracts the text content of all pages of the PDF at path.
// Extraction errors are logged and collapse to "".
func Text(path string) string {
	text, err := fromFile(path)
	if err != nil {
		slog.Error("Failed to extract text from PDF.", "file", filepath.Base(path), "error", err)
		return ""
	}
	return text
}

func fromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(f, cfg)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var b strings.Builder
	for page := 1; page <= ctx.PageCount; page++ {
		r, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil {
			return "", fmt.Errorf("extract page %d content: %w", page, err)
		}
		if r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read page %d content: %w", page, err)
		}
		b.WriteString(pageText(content))
		b.WriteString("\n")
	}
	return b.String(), nil
}
