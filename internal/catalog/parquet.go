package catalog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// ParquetProduct is the columnar layout of a product snapshot
type ParquetProduct struct {
	ID          string   `parquet:"id"`
	Name        string   `parquet:"name"`
	Description string   `parquet:"description"`
	Price       int64    `parquet:"price"`
	ImageURL    string   `parquet:"image_url"`
	Category    string   `parquet:"category"`
	Recipients  []string `parquet:"recipients,list"`
	Occasions   []string `parquet:"occasions,list"`
	BudgetRange string   `parquet:"budget_range"`
	AmazonURL   string   `parquet:"amazon_url"`
	RakutenURL  string   `parquet:"rakuten_url"`
	Tags        []string `parquet:"tags,list"`
	Priority    int64    `parquet:"priority"`
	IsPublished bool     `parquet:"is_published"`
	UpdatedAt   string   `parquet:"updated_at"`
}

// ToParquet flattens the document's products for columnar export
func ToParquet(doc *Document) []ParquetProduct {
	rows := make([]ParquetProduct, 0, len(doc.Products))
	for _, p := range doc.Products {
		rows = append(rows, ParquetProduct{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       int64(p.Price),
			ImageURL:    p.ImageURL,
			Category:    p.Category,
			Recipients:  p.Recipients,
			Occasions:   p.Occasions,
			BudgetRange: p.BudgetRange,
			AmazonURL:   linkFor(p.AffiliateLinks, ProviderAmazon),
			RakutenURL:  linkFor(p.AffiliateLinks, ProviderRakuten),
			Tags:        p.Tags,
			Priority:    int64(p.Priority),
			IsPublished: p.IsPublished,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return rows
}

// WriteParquet writes a columnar snapshot of doc to path
func WriteParquet(path string, doc *Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}

	rows := ToParquet(doc)
	writer := parquet.NewGenericWriter[ParquetProduct](file)
	if _, err := writer.Write(rows); err != nil {
		file.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close parquet file: %w", err)
	}

	slog.Debug("Wrote parquet snapshot", "path", path, "rows", len(rows))
	return nil
}

// ReadParquet loads a snapshot written by WriteParquet
func ReadParquet(path string) ([]ParquetProduct, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[ParquetProduct](pf)
	defer reader.Close()

	products := make([]ParquetProduct, reader.NumRows())
	n, err := reader.Read(products)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read parquet rows: %w", err)
	}

	return products[:n], nil
}
