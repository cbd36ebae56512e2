package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"price-elasticity/internal/elasticity"
)

// Accepted date layouts. Retail syndicated exports commonly label rows as
// "Week Ending MM-DD-YY".
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"01-02-06",
}

const weekEndingPrefix = "Week Ending "

// CSVSource reads observations from a CSV file using a configured column
// mapping.
type CSVSource struct {
	path    string
	columns Columns
	logger  zerolog.Logger
}

// NewCSVSource constructs a CSV-backed observation source.
func NewCSVSource(path string, columns Columns, logger zerolog.Logger) *CSVSource {
	return &CSVSource{
		path:    path,
		columns: columns,
		logger:  logger.With().Str("component", "csv_source").Logger(),
	}
}

// Load reads the whole file into memory. Rows whose price or quantity cannot
// be parsed are skipped and counted; a malformed header is an error.
func (s *CSVSource) Load(ctx context.Context) ([]elasticity.Observation, error) {
	if s.columns.Price == "" || s.columns.Quantity == "" {
		return nil, fmt.Errorf("price and quantity column names are required")
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	priceIdx, ok := index[s.columns.Price]
	if !ok {
		return nil, fmt.Errorf("price column %q not found in %s", s.columns.Price, s.path)
	}
	quantityIdx, ok := index[s.columns.Quantity]
	if !ok {
		return nil, fmt.Errorf("quantity column %q not found in %s", s.columns.Quantity, s.path)
	}

	groupIdx := -1
	if s.columns.Group != "" {
		if i, ok := index[s.columns.Group]; ok {
			groupIdx = i
		}
	}
	dateIdx := -1
	if s.columns.Date != "" {
		if i, ok := index[s.columns.Date]; ok {
			dateIdx = i
		}
	}

	var obs []elasticity.Observation
	skipped := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}

		price, perr := parseMoney(record[priceIdx])
		quantity, qerr := parseMoney(record[quantityIdx])
		if perr != nil || qerr != nil {
			skipped++
			continue
		}

		o := elasticity.Observation{
			Price:    price.InexactFloat64(),
			Quantity: quantity.InexactFloat64(),
		}
		if groupIdx >= 0 {
			o.Group = strings.TrimSpace(record[groupIdx])
		}
		if dateIdx >= 0 {
			if ts, ok := parseDate(record[dateIdx]); ok {
				o.Date = ts
			}
		}
		obs = append(obs, o)
	}

	s.logger.Info().
		Int("rows", len(obs)).
		Int("skipped", skipped).
		Str("path", s.path).
		Msg("dataset loaded")

	return obs, nil
}

// parseMoney tolerates currency symbols and thousands separators.
func parseMoney(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty value")
	}
	return decimal.NewFromString(cleaned)
}

func parseDate(raw string) (time.Time, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, weekEndingPrefix)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, cleaned); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

var _ Source = (*CSVSource)(nil)
