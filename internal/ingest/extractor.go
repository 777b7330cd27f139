// Package ingest turns supplier order confirmation PDFs into structured
// confirmation records using the OpenAI vision API.
package ingest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"github.com/gen2brain/go-fitz"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
)

// Confirmation documents rarely exceed one page; two pages cover the
// occasional terms annex without ballooning token cost.
const maxVisionPages = 2

// Config holds extractor configuration
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Extractor reads confirmation PDFs and extracts their data via vision.
type Extractor struct {
	client *openai.Client
	cfg    Config
	logger *zap.Logger
}

// NewExtractor creates a new PDF confirmation extractor
func NewExtractor(cfg Config, logger *zap.Logger) *Extractor {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4o
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	return &Extractor{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger,
	}
}

// extractedConfirmation matches the JSON the model is asked to return.
type extractedConfirmation struct {
	ConfirmationNumber string   `json:"confirmation_number"`
	ConfirmationDate   string   `json:"confirmation_date"`
	SupplierName       string   `json:"supplier_name"`
	ArticleNumber      string   `json:"article_number"`
	ArticleDescription string   `json:"article_description"`
	Quantity           *float64 `json:"quantity"`
	Unit               string   `json:"unit"`
	UnitPrice          *float64 `json:"unit_price"`
	TotalPrice         *float64 `json:"total_price"`
	DeliveryDate       string   `json:"delivery_date"`
}

// Extract converts the PDF to page images and asks the vision model for
// the confirmation fields. The returned confirmation carries no order
// reference; linking happens downstream.
func (e *Extractor) Extract(ctx context.Context, pdf []byte) (*entity.OrderConfirmation, error) {
	images, err := e.renderPages(pdf)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no pages rendered from pdf")
	}

	if len(images) > maxVisionPages {
		images = images[:maxVisionPages]
	}

	extracted, err := e.callVision(ctx, images)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	confirmation := &entity.OrderConfirmation{
		ConfirmationNumber: extracted.ConfirmationNumber,
		ConfirmationDate:   parseDate(extracted.ConfirmationDate),
		SupplierName:       extracted.SupplierName,
		ArticleNumber:      extracted.ArticleNumber,
		ArticleDescription: extracted.ArticleDescription,
		Quantity:           extracted.Quantity,
		Unit:               extracted.Unit,
		UnitPrice:          extracted.UnitPrice,
		TotalPrice:         extracted.TotalPrice,
		DeliveryDate:       parseDate(extracted.DeliveryDate),
		ExtractedAt:        &now,
	}

	e.logger.Info("Confirmation extracted",
		zap.String("confirmation_number", confirmation.ConfirmationNumber),
		zap.String("supplier", confirmation.SupplierName))

	return confirmation, nil
}

// renderPages rasterizes every PDF page to JPEG.
func (e *Extractor) renderPages(pdf []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer doc.Close()

	var images [][]byte
	for page := 0; page < doc.NumPage(); page++ {
		img, err := doc.Image(page)
		if err != nil {
			e.logger.Warn("Failed to render page", zap.Int("page", page), zap.Error(err))
			continue
		}

		data, err := encodeJPEG(img)
		if err != nil {
			e.logger.Warn("Failed to encode page", zap.Int("page", page), zap.Error(err))
			continue
		}
		images = append(images, data)
	}
	return images, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Extractor) callVision(ctx context.Context, images [][]byte) (*extractedConfirmation, error) {
	contentParts := []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: visionPrompt,
	}}

	for _, imgData := range images {
		contentParts = append(contentParts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(imgData)),
				Detail: openai.ImageURLDetailHigh,
			},
		})
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You read supplier order confirmations (Auftragsbestätigungen) with perfect accuracy. Always respond with valid JSON.",
			},
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: contentParts,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		e.logger.Error("Vision API call failed", zap.Error(err))
		return nil, fmt.Errorf("vision api call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from vision api")
	}

	content := resp.Choices[0].Message.Content
	var extracted extractedConfirmation
	if err := json.Unmarshal([]byte(content), &extracted); err != nil {
		e.logger.Error("Failed to parse vision response",
			zap.Error(err),
			zap.String("content", content))
		return nil, fmt.Errorf("failed to parse vision response: %w", err)
	}

	return &extracted, nil
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "02.01.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

const visionPrompt = `Examine this supplier order confirmation (Auftragsbestätigung) and extract the confirmed values.

FIELDS:
- confirmation_number (AB-Nummer / Auftragsnummer): the supplier's confirmation number
- confirmation_date (Datum): date of the confirmation, YYYY-MM-DD
- supplier_name (Lieferant): supplier company name
- article_number (Artikelnummer): the confirmed article number
- article_description (Artikelbezeichnung): description of the article
- quantity (Menge): confirmed quantity as a number
- unit (Mengeneinheit): unit of measure, e.g. Stk, kg, m
- unit_price (Einzelpreis): confirmed unit price as a number
- total_price (Gesamtpreis): confirmed total as a number
- delivery_date (Liefertermin): confirmed delivery date, YYYY-MM-DD

Return a JSON object:
{
  "confirmation_number": "string",
  "confirmation_date": "YYYY-MM-DD",
  "supplier_name": "string",
  "article_number": "string",
  "article_description": "string",
  "quantity": number or null,
  "unit": "string",
  "unit_price": number or null,
  "total_price": number or null,
  "delivery_date": "YYYY-MM-DD"
}

IMPORTANT:
- Extract exactly what is printed. Do not guess missing values.
- Use null for numbers that are not present, empty string for missing text.
- Amounts without currency symbols, decimal point notation.`
