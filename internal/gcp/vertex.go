package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// --- Invoice Extraction Model Prompts ---
const InvoiceSystemPrompt = "You are an invoice parsing tool. You extract structured billing information from raw invoice text. You must output your response as a single valid JSON object with exactly the requested keys and nothing else."
const InvoiceUserPrompt = `From the invoice text below, extract the required information and output a single JSON object with exactly these keys:

- "vendor": A clean, canonical name for the vendor. For example, if the text says 'Amazon Business EU S.a.r.l, UK Branch', the canonical name should be 'Amazon Business'.
- "invoice_date": The date the invoice was issued, in YYYY-MM-DD format.
- "item_count": The total number of distinct items or services listed, as a non-negative integer.
- "item_category": A brief, general category for the items, e.g. 'books', 'computer hardware', 'software subscription', 'unknown'.
- "total_amount": The final total amount to be paid, as a number.
- "total_vat": The total VAT or sales tax amount, as a number. If not found, use 0.

Example output format:
{"vendor": "Amazon Business", "invoice_date": "2024-03-05", "item_count": 3, "item_category": "books", "total_amount": 42.50, "total_vat": 2.10}

Invoice text follows.`

// --- Raw Vendor Model Prompts ---
const RawVendorSystemPrompt = "You are an invoice parsing tool. You extract the vendor name from raw invoice text exactly as written. You must output your response as a single valid JSON object and nothing else."
const RawVendorUserPrompt = `From the invoice text below, extract the exact, verbatim vendor name as it appears in the document. Do not normalize, abbreviate, or correct it. Output a single JSON object with exactly one key:

- "verbatim_vendor_name": The vendor name exactly as found, including any legal suffixes.

Example output format:
{"verbatim_vendor_name": "Amazon Business EU S.a.r.l, UK Branch"}

Invoice text follows.`

// VertexClient holds the pre-configured generative models for invoice
// processing.
type VertexClient struct {
	InvoiceModel   *genai.GenerativeModel
	RawVendorModel *genai.GenerativeModel
	baseClient     *genai.Client
}

// NewVertexClient creates a client with both extraction models configured
// for deterministic JSON output.
func NewVertexClient(ctx context.Context, projectID, region, modelName string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	invoiceModel := baseClient.GenerativeModel(modelName)
	invoiceModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(InvoiceSystemPrompt)},
	}
	invoiceModel.GenerationConfig = genai.GenerationConfig{
		// Force JSON output. This is a critical setting for these models.
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}
	invoiceModel.SafetySettings = safetyOff()

	rawVendorModel := baseClient.GenerativeModel(modelName)
	rawVendorModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(RawVendorSystemPrompt)},
	}
	rawVendorModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}
	rawVendorModel.SafetySettings = safetyOff()

	return &VertexClient{
		InvoiceModel:   invoiceModel,
		RawVendorModel: rawVendorModel,
		baseClient:     baseClient,
	}, nil
}

// safetyOff disables content blocking; invoice text trips false positives.
func safetyOff() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	}
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
