package catalog

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/akira0907/gift-diagnosis/internal/classifier"
)

const idPrefix = "prod_"

// SchemaError reports a CSV header that lacks required columns
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("csv header is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// CheckHeader returns a *SchemaError when any of Columns is absent from header
func CheckHeader(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, col := range Columns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// FlatToNested converts CSV rows into the document read by the web app.
// Timestamps and lastUpdated are always taken from now.
func FlatToNested(t *Table, now time.Time) (*Document, error) {
	if err := CheckHeader(t.Header); err != nil {
		return nil, err
	}

	stamp := now.Format(time.RFC3339)
	doc := &Document{
		Version:     DocumentVersion,
		LastUpdated: now.Format(time.DateOnly),
		Products:    make([]Product, 0, len(t.Rows)),
	}

	for _, row := range t.Rows {
		checkBudgetRange(row["budgetRange"], row["id"])
		p := Product{
			ID:             row["id"],
			Name:           row["name"],
			Description:    row["description"],
			Price:          parseInt(row["price"], 0, "price", row["id"]),
			ImageURL:       row["imageUrl"],
			Category:       row["category"],
			Recipients:     splitList(row["recipients"]),
			Occasions:      splitList(row["occasions"]),
			BudgetRange:    row["budgetRange"],
			AffiliateLinks: affiliateLinks(row),
			Tags:           splitList(row["tags"]),
			Priority:       parseInt(row["priority"], DefaultPriority, "priority", row["id"]),
			IsPublished:    parseBool(row["isPublished"]),
			CreatedAt:      stamp,
			UpdatedAt:      stamp,
		}
		doc.Products = append(doc.Products, p)
	}

	return doc, nil
}

// NestedToFlat converts the web app document back into CSV rows
func NestedToFlat(doc *Document) *Table {
	t := &Table{
		Header: append([]string(nil), Columns...),
		Rows:   make([]Row, 0, len(doc.Products)),
	}

	for _, p := range doc.Products {
		t.Rows = append(t.Rows, Row{
			"id":          p.ID,
			"name":        p.Name,
			"description": p.Description,
			"price":       formatPrice(p.Price),
			"imageUrl":    p.ImageURL,
			"category":    p.Category,
			"recipients":  joinList(p.Recipients),
			"occasions":   joinList(p.Occasions),
			"budgetRange": p.BudgetRange,
			"amazonUrl":   linkFor(p.AffiliateLinks, ProviderAmazon),
			"rakutenUrl":  linkFor(p.AffiliateLinks, ProviderRakuten),
			"tags":        joinList(p.Tags),
			"priority":    formatInt(p.Priority),
			"isPublished": formatBool(p.IsPublished),
		})
	}

	return t
}

// NextID returns the id following the highest prod_NNN in ids.
// Ids outside that pattern are skipped, not rejected.
func NextID(ids []string) string {
	highest := 0
	for _, id := range ids {
		suffix, ok := strings.CutPrefix(id, idPrefix)
		if !ok || !isDigits(suffix) {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", idPrefix, highest+1)
}

func affiliateLinks(row Row) []AffiliateLink {
	links := []AffiliateLink{}
	if u := strings.TrimSpace(row["amazonUrl"]); u != "" {
		links = append(links, AffiliateLink{Provider: ProviderAmazon, URL: u})
	}
	if u := strings.TrimSpace(row["rakutenUrl"]); u != "" {
		links = append(links, AffiliateLink{Provider: ProviderRakuten, URL: u})
	}
	return links
}

// linkFor returns the first link for provider; later duplicates are ignored
func linkFor(links []AffiliateLink, provider string) string {
	for _, l := range links {
		if l.Provider == provider {
			return l.URL
		}
	}
	return ""
}

func splitList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// joinList does no escaping: an item containing a comma will not round-trip
func joinList(items []string) string {
	return strings.Join(items, ",")
}

func parseInt(s string, fallback int, field, id string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		slog.Warn("Unparsable integer in catalog row, using default", "id", id, "field", field, "value", s, "default", fallback)
		return fallback
	}
	if n < 0 {
		slog.Warn("Negative integer in catalog row, using default", "id", id, "field", field, "value", s, "default", fallback)
		return fallback
	}
	return n
}

// checkBudgetRange warns about labels the classifier would never produce.
// The label is still exported as written.
func checkBudgetRange(label, id string) {
	label = strings.TrimSpace(label)
	if label == "" || slices.Contains(classifier.BudgetRanges(), label) {
		return
	}
	slog.Warn("Unknown budget range in catalog row", "id", id, "budgetRange", label)
}

// formatPrice leaves an unknown (zero) price blank
func formatPrice(n int) string {
	if n == 0 {
		return ""
	}
	return formatInt(n)
}

func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "TRUE")
}

func formatInt(n int) string {
	return strconv.Itoa(n)
}

func formatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
