package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/shamshirz/thaw/internal/models"
)

const extractionSystemPrompt = "You are a utility bill parser. Respond only with JSON."

const extractionPromptTemplate = `Extract the following information from this electric bill text:
1. Bill date (in YYYY-MM-DD format)
2. Total amount due/paid (as a decimal number)
3. Total kWh used (as a decimal number)

Format the response as a JSON object with keys: date, amount, kwh_used
If any value cannot be found, use null.

Bill text:
%s`

// Extractor pulls billing fields out of free bill text with a hosted
// language model under a JSON-only response contract.
type Extractor struct {
	client openai.Client
	model  string
}

func NewExtractor(apiKey string) (*Extractor, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &Extractor{
		client: client,
		model:  openai.ChatModelGPT4o,
	}, nil
}

// ExtractBill asks the model for the bill's date, amount and usage. The
// result is tagged: any failure, from the API call down to an unparseable
// date, yields a failed extraction rather than an error. Callers log and
// skip failed documents.
func (e *Extractor) ExtractBill(ctx context.Context, text string) models.Extraction {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: e.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(extractionSystemPrompt),
			openai.UserMessage(fmt.Sprintf(extractionPromptTemplate, text)),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return failedExtraction(fmt.Sprintf("completion: %v", err))
	}
	if len(resp.Choices) == 0 {
		return failedExtraction("no completion choices returned")
	}

	return ParseExtractionReply(resp.Choices[0].Message.Content)
}

// ParseExtractionReply turns the model's JSON reply into a tagged
// extraction. The reply is loosely typed, so fields are probed with gjson
// rather than unmarshalled into a struct.
func ParseExtractionReply(reply string) models.Extraction {
	body := strings.TrimSpace(reply)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")

	if !gjson.Valid(body) {
		return failedExtraction("reply is not valid JSON")
	}

	dateField := gjson.Get(body, "date")
	amountField := gjson.Get(body, "amount")
	if !dateField.Exists() || dateField.Type == gjson.Null {
		return failedExtraction("no bill date in reply")
	}
	if !amountField.Exists() || amountField.Type == gjson.Null {
		return failedExtraction("no bill amount in reply")
	}

	date, err := time.Parse("2006-01-02", dateField.String())
	if err != nil {
		return failedExtraction(fmt.Sprintf("bad bill date %q", dateField.String()))
	}

	extraction := models.Extraction{
		Status: models.ExtractionOK,
		Date:   date,
		Amount: amountField.Float(),
	}
	if usage := gjson.Get(body, "kwh_used"); usage.Exists() && usage.Type != gjson.Null {
		extraction.Usage = sql.NullFloat64{Float64: usage.Float(), Valid: true}
	}
	return extraction
}

func failedExtraction(reason string) models.Extraction {
	return models.Extraction{Status: models.ExtractionFailed, Reason: reason}
}

// ProcessBills extracts billing records from every PDF in dir. A document
// that fails text extraction or field extraction is logged and dropped;
// the batch always continues.
func ProcessBills(ctx context.Context, dir string, extractor *Extractor, logger zerolog.Logger) ([]models.BillingRecord, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	if len(paths) == 0 {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("bill directory: %w", err)
		}
	}
	sort.Strings(paths)

	var records []models.BillingRecord
	for _, path := range paths {
		logger.Info().Str("path", path).Msg("processing bill")

		text, err := ExtractPDFText(path)
		if err != nil || strings.TrimSpace(text) == "" {
			logger.Warn().Str("path", path).Err(err).Msg("no text extracted, skipping")
			continue
		}

		extraction := extractor.ExtractBill(ctx, text)
		if extraction.Status != models.ExtractionOK {
			logger.Warn().Str("path", path).Str("reason", extraction.Reason).Msg("could not parse bill, skipping")
			continue
		}

		records = append(records, models.BillingRecord{
			Date:   models.FirstOfMonth(extraction.Date),
			Amount: extraction.Amount,
			Usage:  extraction.Usage,
		})
	}
	return records, nil
}
