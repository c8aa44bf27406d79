// Package productpage scrapes the product name and price from a shop page.
package productpage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

const (
	// UnknownName is used when a page has no <title>
	UnknownName = "商品名不明"

	maxNameRunes   = 100
	defaultTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

var (
	priceRegex      = regexp.MustCompile(`[¥￥]?\s*([0-9,]+)\s*円`)
	siteSuffixRegex = regexp.MustCompile(`\s*[-|]\s*.*$`)
)

// PageInfo is what could be read off a product page.
// An empty Name means the fetch failed.
type PageInfo struct {
	Name  string
	Price int
	URL   string
}

// FetchError wraps any transport, status or parse failure
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves product pages
type Fetcher struct {
	http *resty.Client
}

// NewFetcher creates a fetcher with a browser-like user agent and a 10s timeout
func NewFetcher() *Fetcher {
	client := resty.New()
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(defaultTimeout)
	return &Fetcher{http: client}
}

// Fetch downloads url and extracts its name and price. On failure the
// returned PageInfo carries only the URL, alongside a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*PageInfo, error) {
	info := &PageInfo{URL: url}

	res, err := f.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return info, &FetchError{URL: url, Err: err}
	}
	if res.StatusCode() != 200 {
		return info, &FetchError{URL: url, StatusCode: res.StatusCode()}
	}

	name, price, err := Parse(res.Body())
	if err != nil {
		return info, &FetchError{URL: url, Err: err}
	}

	slog.Debug("Parsed product page", "url", url, "name", name, "price", price)
	info.Name = name
	info.Price = price
	return info, nil
}

// Parse extracts the cleaned page title and the first yen price in body
func Parse(body []byte) (name string, price int, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse html: %w", err)
	}

	name = CleanTitle(doc.Find("title").First().Text())
	for _, n := range doc.Nodes {
		if p, ok := findPrice(n); ok {
			price = p
			break
		}
	}

	return name, price, nil
}

// CleanTitle drops a trailing "- site" or "| site" and caps the length
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return UnknownName
	}
	title = siteSuffixRegex.ReplaceAllString(title, "")
	title = strings.TrimSpace(title)

	runes := []rune(title)
	if len(runes) > maxNameRunes {
		title = string(runes[:maxNameRunes])
	}
	return title
}

// ParsePrice reads the first "1,980円" style amount in text
func ParsePrice(text string) (int, bool) {
	groups := priceRegex.FindStringSubmatch(text)
	if len(groups) < 2 {
		return 0, false
	}
	digits := strings.ReplaceAll(groups[1], ",", "")
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// findPrice walks text nodes in document order
func findPrice(node *html.Node) (int, bool) {
	if node == nil {
		return 0, false
	}
	if node.Type == html.TextNode {
		return ParsePrice(node.Data)
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if p, ok := findPrice(child); ok {
			return p, true
		}
	}
	return 0, false
}
