package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func testColumns() Columns {
	return Columns{
		Price:    "unit_price",
		Quantity: "quantity_sold",
		Group:    "product_name",
		Date:     "date",
	}
}

func TestCSVSourceLoad(t *testing.T) {
	path := writeTempCSV(t, `product_name,date,unit_price,quantity_sold
Cereal,2024-01-06,$4.99,"1,200"
Cereal,2024-01-13,5.49,1100
Soda,Week Ending 01-13-24,1.99,3400
`)

	source := NewCSVSource(path, testColumns(), zerolog.Nop())
	obs, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(obs) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(obs))
	}

	if obs[0].Group != "Cereal" || obs[0].Price != 4.99 || obs[0].Quantity != 1200 {
		t.Fatalf("unexpected first row: %+v", obs[0])
	}

	want := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)
	if !obs[2].Date.Equal(want) {
		t.Fatalf("week-ending date not parsed: %v", obs[2].Date)
	}
}

func TestCSVSourceSkipsMalformedRows(t *testing.T) {
	path := writeTempCSV(t, `unit_price,quantity_sold
4.99,100
not-a-price,100
5.25,
`)

	source := NewCSVSource(path, Columns{Price: "unit_price", Quantity: "quantity_sold"}, zerolog.Nop())
	obs, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("expected malformed rows skipped, got %d rows", len(obs))
	}
}

func TestCSVSourceMissingColumn(t *testing.T) {
	path := writeTempCSV(t, "a,b\n1,2\n")

	source := NewCSVSource(path, Columns{Price: "unit_price", Quantity: "quantity_sold"}, zerolog.Nop())
	if _, err := source.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing price column")
	}
}
