package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"invoiceflow/internal/gcp"
	"invoiceflow/internal/models"
)

// InvoiceExtractor issues the two extraction requests against the inference
// backend. Both calls are single-attempt and side-effect free; a failure is
// returned, never retried here.
type InvoiceExtractor interface {
	ExtractInvoice(ctx context.Context, text string) (*models.ExtractedInvoice, error)
	ExtractRawVendor(ctx context.Context, text string) (*models.RawVendorExtract, error)
}

// GeminiExtractor implements InvoiceExtractor on top of the Vertex AI
// client's pre-configured JSON-mode models.
type GeminiExtractor struct {
	client *gcp.VertexClient
}

// NewGeminiExtractor wraps a configured Vertex client.
func NewGeminiExtractor(client *gcp.VertexClient) *GeminiExtractor {
	return &GeminiExtractor{client: client}
}

func (g *GeminiExtractor) ExtractInvoice(ctx context.Context, text string) (*models.ExtractedInvoice, error) {
	payload, err := g.generate(ctx, g.client.InvoiceModel, gcp.InvoiceUserPrompt, text)
	if err != nil {
		return nil, err
	}
	return decodeInvoice(payload)
}

func (g *GeminiExtractor) ExtractRawVendor(ctx context.Context, text string) (*models.RawVendorExtract, error) {
	payload, err := g.generate(ctx, g.client.RawVendorModel, gcp.RawVendorUserPrompt, text)
	if err != nil {
		return nil, err
	}
	return decodeRawVendor(payload)
}

// decodeInvoice parses and validates a structured-extraction payload. Every
// field the filename depends on must be present; a payload with an absent
// key decodes to the zero value, so zero values are rejected here rather
// than allowed to surface as a partial filename.
func decodeInvoice(payload string) (*models.ExtractedInvoice, error) {
	var inv models.ExtractedInvoice
	if err := json.Unmarshal([]byte(payload), &inv); err != nil {
		return nil, fmt.Errorf("parse invoice extraction response: %w", err)
	}
	if inv.Vendor == "" {
		return nil, fmt.Errorf("invoice extraction response missing vendor")
	}
	if inv.InvoiceDate.IsZero() {
		return nil, fmt.Errorf("invoice extraction response missing invoice_date")
	}
	if inv.ItemCount < 0 {
		return nil, fmt.Errorf("invoice extraction response has negative item count %d", inv.ItemCount)
	}
	if inv.ItemCategory == "" {
		return nil, fmt.Errorf("invoice extraction response missing item_category")
	}
	return &inv, nil
}

// decodeRawVendor parses and validates a verbatim-vendor payload.
func decodeRawVendor(payload string) (*models.RawVendorExtract, error) {
	var raw models.RawVendorExtract
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("parse raw vendor response: %w", err)
	}
	if raw.VerbatimVendorName == "" {
		return nil, fmt.Errorf("raw vendor response missing verbatim_vendor_name")
	}
	return &raw, nil
}

func (g *GeminiExtractor) generate(ctx context.Context, model *genai.GenerativeModel, prompt, text string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt), genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	payload := responseText(resp)
	if payload == "" {
		return "", fmt.Errorf("empty model response")
	}
	return payload, nil
}

// responseText drains the text parts of the first candidate and strips any
// code fences the model wrapped around the JSON.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}

	s := strings.TrimSpace(b.String())
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
