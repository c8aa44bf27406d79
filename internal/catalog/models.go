package catalog

// Columns is the CSV header, in file order
var Columns = []string{
	"id",
	"name",
	"description",
	"price",
	"imageUrl",
	"category",
	"recipients",
	"occasions",
	"budgetRange",
	"amazonUrl",
	"rakutenUrl",
	"tags",
	"priority",
	"isPublished",
}

// ColumnProductURL is an optional column holding the shop page a row was
// (or should be) filled from. It is kept in the CSV but never exported.
const ColumnProductURL = "productUrl"

const (
	// DocumentVersion is written into every generated products.json
	DocumentVersion = "1.0.0"

	// DefaultImageURL is used for products added from a URL
	DefaultImageURL = "/images/products/default.jpg"

	// DefaultPriority applies when the priority column is blank
	DefaultPriority = 80

	ProviderAmazon  = "amazon"
	ProviderRakuten = "rakuten"
)

// Row is one CSV line keyed by column name
type Row map[string]string

// Table is the flat form of the catalog
type Table struct {
	Header []string
	Rows   []Row
}

// IDs returns the id column of every row
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		ids = append(ids, row["id"])
	}
	return ids
}

// AffiliateLink points at a purchase page on a marketplace
type AffiliateLink struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
	Tag      string `json:"tag,omitempty"` // e.g. Amazon associate id
}

// Product is the nested form of a catalog row as read by the web app
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          int             `json:"price"`
	ImageURL       string          `json:"imageUrl"`
	Category       string          `json:"category"`
	Recipients     []string        `json:"recipients"`
	Occasions      []string        `json:"occasions"`
	BudgetRange    string          `json:"budgetRange"`
	AffiliateLinks []AffiliateLink `json:"affiliateLinks"`
	Tags           []string        `json:"tags"`
	Priority       int             `json:"priority"`
	IsPublished    bool            `json:"isPublished"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

// Document is the products.json envelope
type Document struct {
	Version     string    `json:"version"`
	LastUpdated string    `json:"lastUpdated"`
	Products    []Product `json:"products"`
}

// Record is a typed catalog row, as built by add-url
type Record struct {
	ID          string
	Name        string
	Description string
	Price       int
	ImageURL    string
	Category    string
	Recipients  []string
	Occasions   []string
	BudgetRange string
	AmazonURL   string
	RakutenURL  string
	Tags        []string
	Priority    int
	IsPublished bool
}

// Row renders the record in its CSV form
func (r *Record) Row() Row {
	return Row{
		"id":          r.ID,
		"name":        r.Name,
		"description": r.Description,
		"price":       formatInt(r.Price),
		"imageUrl":    r.ImageURL,
		"category":    r.Category,
		"recipients":  joinList(r.Recipients),
		"occasions":   joinList(r.Occasions),
		"budgetRange": r.BudgetRange,
		"amazonUrl":   r.AmazonURL,
		"rakutenUrl":  r.RakutenURL,
		"tags":        joinList(r.Tags),
		"priority":    formatInt(r.Priority),
		"isPublished": formatBool(r.IsPublished),
	}
}
