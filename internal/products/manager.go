// Package products implements the catalog workflows behind "giftctl product".
package products

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/akira0907/gift-diagnosis/internal/catalog"
	"github.com/akira0907/gift-diagnosis/internal/classifier"
	"github.com/akira0907/gift-diagnosis/internal/productpage"
)

const (
	amazonHost  = "amazon.co.jp"
	rakutenHost = "rakuten.co.jp"
)

// ErrNoProductInfo means the page could not be read into a product
var ErrNoProductInfo = errors.New("could not fetch product information")

// Fetcher reads a product page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*productpage.PageInfo, error)
}

// Manager works on one CSV/JSON pair
type Manager struct {
	CSVPath  string
	JSONPath string
	Fetcher  Fetcher
	Now      func() time.Time

	// FillDelay spaces out page fetches during Fill
	FillDelay time.Duration
}

// NewManager returns a Manager using the live page fetcher
func NewManager(csvPath, jsonPath string) *Manager {
	return &Manager{
		CSVPath:  csvPath,
		JSONPath: jsonPath,
		Fetcher:  productpage.NewFetcher(),
		Now:      time.Now,

		FillDelay: time.Second,
	}
}

// AddFromURL scrapes url, classifies it and appends the new record to the CSV
func (m *Manager) AddFromURL(ctx context.Context, url string) (*catalog.Record, error) {
	info, err := m.Fetcher.Fetch(ctx, url)
	if err != nil {
		slog.Warn("Unable to fetch product page", "url", url, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrNoProductInfo, err)
	}
	if info == nil || info.Name == "" {
		return nil, ErrNoProductInfo
	}

	t, err := catalog.ReadTableOrEmpty(m.CSVPath)
	if err != nil {
		return nil, err
	}

	c := classifier.Classify(info.Name, info.Price)
	record := &catalog.Record{
		ID:          catalog.NextID(t.IDs()),
		Name:        info.Name,
		Description: info.Name,
		Price:       info.Price,
		ImageURL:    catalog.DefaultImageURL,
		Category:    c.Category,
		Recipients:  c.Recipients,
		Occasions:   c.Occasions,
		BudgetRange: c.BudgetRange,
		Tags:        c.Tags,
		Priority:    c.Priority,
		IsPublished: true,
	}
	record.AmazonURL, record.RakutenURL = shopURLs(url)

	row := record.Row()
	row[catalog.ColumnProductURL] = url
	if err := catalog.AppendRow(m.CSVPath, row); err != nil {
		return nil, fmt.Errorf("failed to append product: %w", err)
	}

	slog.Info("Added product", "id", record.ID, "category", record.Category, "budgetRange", record.BudgetRange)
	return record, nil
}

// FillResult reports one row Fill tried to complete
type FillResult struct {
	URL  string
	ID   string
	Name string
	Err  error
}

// Fill completes rows that have a productUrl but no name. Each page is
// fetched and classified; only blank cells are written, and a blank id gets
// the next free prod_NNN. Rows whose page cannot be read are reported and
// left untouched. The CSV is rewritten only when at least one row was filled.
func (m *Manager) Fill(ctx context.Context) ([]FillResult, error) {
	t, err := catalog.ReadTable(m.CSVPath)
	if err != nil {
		return nil, err
	}
	if err := catalog.CheckHeader(t.Header); err != nil {
		return nil, err
	}
	if !slices.Contains(t.Header, catalog.ColumnProductURL) {
		slog.Debug("CSV has no productUrl column, nothing to fill", "path", m.CSVPath)
		return nil, nil
	}

	var results []FillResult
	filled := 0
	for _, row := range t.Rows {
		url := strings.TrimSpace(row[catalog.ColumnProductURL])
		if url == "" || strings.TrimSpace(row["name"]) != "" {
			continue
		}
		if len(results) > 0 && m.FillDelay > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(m.FillDelay):
			}
		}

		res := FillResult{URL: url}
		info, err := m.Fetcher.Fetch(ctx, url)
		switch {
		case err != nil:
			slog.Warn("Unable to fetch product page", "url", url, "err", err)
			res.Err = fmt.Errorf("%w: %w", ErrNoProductInfo, err)
		case info == nil || info.Name == "":
			res.Err = ErrNoProductInfo
		default:
			if strings.TrimSpace(row["id"]) == "" {
				row["id"] = catalog.NextID(t.IDs())
			}
			fillRow(row, url, info)
			res.ID, res.Name = row["id"], row["name"]
			filled++
		}
		results = append(results, res)
	}

	if filled == 0 {
		return results, nil
	}
	if err := catalog.WriteTable(m.CSVPath, t); err != nil {
		return results, fmt.Errorf("failed to write %s: %w", m.CSVPath, err)
	}

	slog.Info("Filled products from their pages", "path", m.CSVPath, "filled", filled, "failed", len(results)-filled)
	return results, nil
}

// fillRow writes the scraped and classified values into row's blank cells
func fillRow(row catalog.Row, url string, info *productpage.PageInfo) {
	c := classifier.Classify(info.Name, info.Price)
	amazon, rakuten := shopURLs(url)

	price := ""
	if info.Price > 0 {
		price = strconv.Itoa(info.Price)
	}

	defaults := []struct {
		column string
		value  string
	}{
		{"name", info.Name},
		{"description", info.Name},
		{"price", price},
		{"imageUrl", catalog.DefaultImageURL},
		{"category", c.Category},
		{"recipients", strings.Join(c.Recipients, ",")},
		{"occasions", strings.Join(c.Occasions, ",")},
		{"budgetRange", c.BudgetRange},
		{"amazonUrl", amazon},
		{"rakutenUrl", rakuten},
		{"tags", strings.Join(c.Tags, ",")},
		{"priority", strconv.Itoa(c.Priority)},
		{"isPublished", "TRUE"},
	}
	for _, d := range defaults {
		if strings.TrimSpace(row[d.column]) == "" {
			row[d.column] = d.value
		}
	}
}

// shopURLs places url in the affiliate column matching its marketplace
func shopURLs(url string) (amazon, rakuten string) {
	if strings.Contains(url, amazonHost) {
		amazon = url
	}
	if strings.Contains(url, rakutenHost) {
		rakuten = url
	}
	return amazon, rakuten
}

// List returns every CSV row; a missing CSV is an empty catalog
func (m *Manager) List() ([]catalog.Row, error) {
	t, err := catalog.ReadTableOrEmpty(m.CSVPath)
	if err != nil {
		return nil, err
	}
	return t.Rows, nil
}

// Sync regenerates the JSON document from the CSV
func (m *Manager) Sync() (*catalog.Document, error) {
	doc, err := m.document()
	if err != nil {
		return nil, err
	}
	if err := catalog.WriteDocument(m.JSONPath, doc); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", m.JSONPath, err)
	}

	slog.Info("Generated JSON document", "path", m.JSONPath, "products", len(doc.Products))
	return doc, nil
}

// Import regenerates the CSV from the JSON document
func (m *Manager) Import() (*catalog.Table, error) {
	doc, err := catalog.ReadDocument(m.JSONPath)
	if err != nil {
		return nil, err
	}

	t := catalog.NestedToFlat(doc)
	if err := catalog.WriteTable(m.CSVPath, t); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", m.CSVPath, err)
	}

	slog.Info("Generated CSV", "path", m.CSVPath, "products", len(t.Rows))
	return t, nil
}

// ExportParquet writes a columnar snapshot of the CSV catalog and reads it
// back; the returned count is the number of rows found in the file.
func (m *Manager) ExportParquet(path string) (int, error) {
	doc, err := m.document()
	if err != nil {
		return 0, err
	}
	if err := catalog.WriteParquet(path, doc); err != nil {
		return 0, err
	}

	rows, err := catalog.ReadParquet(path)
	if err != nil {
		return 0, fmt.Errorf("failed to verify %s: %w", path, err)
	}
	if len(rows) != len(doc.Products) {
		return len(rows), fmt.Errorf("parquet snapshot %s has %d rows, expected %d", path, len(rows), len(doc.Products))
	}
	return len(rows), nil
}

// CommitMessage is the message used when pushing catalog updates
func (m *Manager) CommitMessage() string {
	return fmt.Sprintf("商品データを更新 - %s\n\nローカル商品管理ツールから自動更新", m.Now().Format(time.DateTime))
}

func (m *Manager) document() (*catalog.Document, error) {
	t, err := catalog.ReadTable(m.CSVPath)
	if err != nil {
		return nil, err
	}
	return catalog.FlatToNested(t, m.Now())
}
