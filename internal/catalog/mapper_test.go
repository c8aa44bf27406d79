package catalog

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleRow() Row {
	return Row{
		"id":          "prod_001",
		"name":        "高級チョコレート詰め合わせ",
		"description": "老舗ショコラティエのアソート",
		"price":       "8000",
		"imageUrl":    "/images/products/choco.jpg",
		"category":    "グルメ",
		"recipients":  "彼女,彼氏,夫,妻,友人女性,友人男性",
		"occasions":   "誕生日,クリスマス,記念日,お中元,お歳暮",
		"budgetRange": "5,000〜10,000円",
		"amazonUrl":   "https://www.amazon.co.jp/dp/B000?tag=gift-22&ref=x",
		"rakutenUrl":  "",
		"tags":        "グルメ",
		"priority":    "80",
		"isPublished": "TRUE",
	}
}

func TestFlatToNested(t *testing.T) {
	table := &Table{Header: Columns, Rows: []Row{sampleRow()}}

	doc, err := FlatToNested(table, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, DocumentVersion, doc.Version)
	assert.Equal(t, "2026-03-14", doc.LastUpdated)
	require.Len(t, doc.Products, 1)

	p := doc.Products[0]
	assert.Equal(t, "prod_001", p.ID)
	assert.Equal(t, 8000, p.Price)
	assert.Equal(t, []string{"グルメ"}, p.Tags)
	assert.Len(t, p.Occasions, 5)
	assert.Equal(t, []AffiliateLink{{Provider: ProviderAmazon, URL: "https://www.amazon.co.jp/dp/B000?tag=gift-22&ref=x"}}, p.AffiliateLinks)
	assert.True(t, p.IsPublished)
	assert.Equal(t, "2026-03-14T09:30:00Z", p.CreatedAt)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestFlatToNestedDefaults(t *testing.T) {
	tests := []struct {
		name      string
		price     string
		priority  string
		published string
		wantPrice int
		wantPrio  int
		wantPub   bool
	}{
		{name: "blank values", price: "", priority: "", published: "", wantPrice: 0, wantPrio: 80, wantPub: false},
		{name: "garbage numbers", price: "abc", priority: "x", published: "yes", wantPrice: 0, wantPrio: 80, wantPub: false},
		{name: "padded values", price: " 1200 ", priority: " 85", published: " true ", wantPrice: 1200, wantPrio: 85, wantPub: true},
		{name: "false literal", price: "0", priority: "90", published: "FALSE", wantPrice: 0, wantPrio: 90, wantPub: false},
		{name: "negative numbers", price: "-500", priority: "-1", published: "TRUE", wantPrice: 0, wantPrio: 80, wantPub: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := sampleRow()
			row["price"] = tt.price
			row["priority"] = tt.priority
			row["isPublished"] = tt.published

			doc, err := FlatToNested(&Table{Header: Columns, Rows: []Row{row}}, fixedNow)
			require.NoError(t, err)

			p := doc.Products[0]
			assert.Equal(t, tt.wantPrice, p.Price)
			assert.Equal(t, tt.wantPrio, p.Priority)
			assert.Equal(t, tt.wantPub, p.IsPublished)
		})
	}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestFlatToNestedWarnsOnNegativeNumbers(t *testing.T) {
	logs := captureLogs(t)
	row := sampleRow()
	row["price"] = "-500"

	doc, err := FlatToNested(&Table{Header: Columns, Rows: []Row{row}}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Products[0].Price)
	assert.Contains(t, logs.String(), "Negative integer in catalog row")
	assert.Contains(t, logs.String(), "field=price")
}

func TestFlatToNestedBudgetRangeCheck(t *testing.T) {
	tests := []struct {
		name  string
		label string
		warn  bool
	}{
		{name: "known label", label: "5,000〜10,000円", warn: false},
		{name: "top bracket", label: "30,000円〜", warn: false},
		{name: "blank", label: "", warn: false},
		{name: "unknown label", label: "5000円くらい", warn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			row := sampleRow()
			row["budgetRange"] = tt.label

			doc, err := FlatToNested(&Table{Header: Columns, Rows: []Row{row}}, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.label, doc.Products[0].BudgetRange)
			assert.Equal(t, tt.warn, strings.Contains(logs.String(), "Unknown budget range"))
		})
	}
}

func TestFlatToNestedLists(t *testing.T) {
	row := sampleRow()
	row["recipients"] = " 彼女 ,, ,母,"
	row["tags"] = ""
	row["amazonUrl"] = "  "
	row["rakutenUrl"] = " https://item.rakuten.co.jp/shop/item/ "

	doc, err := FlatToNested(&Table{Header: Columns, Rows: []Row{row}}, fixedNow)
	require.NoError(t, err)

	p := doc.Products[0]
	assert.Equal(t, []string{"彼女", "母"}, p.Recipients)
	assert.NotNil(t, p.Tags)
	assert.Empty(t, p.Tags)
	assert.Equal(t, []AffiliateLink{{Provider: ProviderRakuten, URL: "https://item.rakuten.co.jp/shop/item/"}}, p.AffiliateLinks)
}

func TestFlatToNestedAffiliateOrder(t *testing.T) {
	row := sampleRow()
	row["rakutenUrl"] = "https://item.rakuten.co.jp/a"

	doc, err := FlatToNested(&Table{Header: Columns, Rows: []Row{row}}, fixedNow)
	require.NoError(t, err)

	links := doc.Products[0].AffiliateLinks
	require.Len(t, links, 2)
	assert.Equal(t, ProviderAmazon, links[0].Provider)
	assert.Equal(t, ProviderRakuten, links[1].Provider)
}

func TestFlatToNestedSchemaError(t *testing.T) {
	header := []string{"id", "name", "description", "price", "imageUrl", "category",
		"recipients", "occasions", "budgetRange", "amazonUrl", "tags", "isPublished"}

	_, err := FlatToNested(&Table{Header: header}, fixedNow)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"rakutenUrl", "priority"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "rakutenUrl, priority")
}

func TestFlatToNestedIgnoresExtraColumns(t *testing.T) {
	row := sampleRow()
	row["productUrl"] = "https://example.com/p"
	header := append(append([]string(nil), Columns...), "productUrl")

	doc, err := FlatToNested(&Table{Header: header, Rows: []Row{row}}, fixedNow)
	require.NoError(t, err)
	assert.Len(t, doc.Products, 1)
}

func TestNestedToFlat(t *testing.T) {
	doc := &Document{
		Version: DocumentVersion,
		Products: []Product{{
			ID:    "prod_007",
			Name:  "アロマキャンドル",
			Price: 3200,
			AffiliateLinks: []AffiliateLink{
				{Provider: ProviderRakuten, URL: "https://r/1"},
				{Provider: ProviderAmazon, URL: "https://a/1"},
				{Provider: ProviderAmazon, URL: "https://a/2"},
				{Provider: "yahoo", URL: "https://y/1"},
			},
			Tags:        []string{"コスメ", "プチギフト"},
			Priority:    85,
			IsPublished: false,
		}},
	}

	table := NestedToFlat(doc)

	assert.Equal(t, Columns, table.Header)
	require.Len(t, table.Rows, 1)

	row := table.Rows[0]
	assert.Equal(t, "https://a/1", row["amazonUrl"])
	assert.Equal(t, "https://r/1", row["rakutenUrl"])
	assert.Equal(t, "コスメ,プチギフト", row["tags"])
	assert.Equal(t, "", row["recipients"])
	assert.Equal(t, "", row["description"])
	assert.Equal(t, "3200", row["price"])
	assert.Equal(t, "85", row["priority"])
	assert.Equal(t, "FALSE", row["isPublished"])
	assert.Len(t, row, len(Columns))
}

func TestNestedToFlatUnknownPrice(t *testing.T) {
	doc := &Document{Products: []Product{{ID: "prod_001", Priority: 80}}}

	row := NestedToFlat(doc).Rows[0]
	assert.Equal(t, "", row["price"])
	assert.Equal(t, "80", row["priority"])

	back, err := FlatToNested(&Table{Header: Columns, Rows: []Row{row}}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 0, back.Products[0].Price)
}

func TestRoundTrip(t *testing.T) {
	second := sampleRow()
	second["id"] = "prod_002"
	second["amazonUrl"] = ""
	second["rakutenUrl"] = "https://item.rakuten.co.jp/shop/x/"
	second["isPublished"] = "FALSE"
	second["tags"] = "コスメ,プチギフト"

	in := &Table{Header: Columns, Rows: []Row{sampleRow(), second}}

	doc, err := FlatToNested(in, fixedNow)
	require.NoError(t, err)

	out := NestedToFlat(doc)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name     string
		ids      []string
		expected string
	}{
		{name: "empty catalog", ids: nil, expected: "prod_001"},
		{name: "gap and custom id", ids: []string{"prod_001", "prod_003", "custom"}, expected: "prod_004"},
		{name: "only foreign ids", ids: []string{"custom", "prod_abc", "prod_"}, expected: "prod_001"},
		{name: "unordered", ids: []string{"prod_010", "prod_002"}, expected: "prod_011"},
		{name: "beyond three digits", ids: []string{"prod_999"}, expected: "prod_1000"},
		{name: "signed suffix ignored", ids: []string{"prod_+5", "prod_-9", "prod_004"}, expected: "prod_005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextID(tt.ids); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestRecordRow(t *testing.T) {
	r := &Record{
		ID:          "prod_005",
		Name:        "スマートウォッチ",
		Price:       15000,
		Recipients:  []string{"彼氏", "夫"},
		Tags:        []string{"ガジェット", "高級"},
		Priority:    90,
		IsPublished: true,
	}

	row := r.Row()
	assert.Equal(t, "15000", row["price"])
	assert.Equal(t, "彼氏,夫", row["recipients"])
	assert.Equal(t, "ガジェット,高級", row["tags"])
	assert.Equal(t, "TRUE", row["isPublished"])
	assert.Len(t, row, len(Columns))
}
