package productpage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{name: "dash suffix", title: "スマートウォッチ X1 - 家電ショップ", expected: "スマートウォッチ X1"},
		{name: "pipe suffix", title: "  ハンドクリーム | コスメ通販 | 公式  ", expected: "ハンドクリーム"},
		{name: "no suffix", title: "高級チョコレート詰め合わせ", expected: "高級チョコレート詰め合わせ"},
		{name: "empty", title: "   ", expected: UnknownName},
		{name: "truncated", title: strings.Repeat("あ", 150), expected: strings.Repeat("あ", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanTitle(tt.title); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		text     string
		expected int
		ok       bool
	}{
		{"価格：¥12,800円（税込）", 12800, true},
		{"1980 円", 1980, true},
		{"￥ 3,000円", 3000, true},
		{"送料無料", 0, false},
		{"$19.99", 0, false},
		{",円", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParsePrice(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.expected, got, tt.text)
	}
}

func TestParse(t *testing.T) {
	body := []byte(`<html><head><title>薔薇の花束 | フラワーショップ</title>
<script>var shipping = "500円";</script></head>
<body><p class="price">4,400円</p></body></html>`)

	name, price, err := Parse(body)
	require.NoError(t, err)
	assert.Equal(t, "薔薇の花束", name)
	assert.Equal(t, 500, price, "the first amount in document order wins")
}

func TestParseWithoutTitleOrPrice(t *testing.T) {
	name, price, err := Parse([]byte(`<html><body><p>coming soon</p></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, UnknownName, name)
	assert.Equal(t, 0, price)
}

func TestFetch(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<title>スマートウォッチ - Shop</title><span>15,000円</span>`))
	}))
	defer server.Close()

	info, err := NewFetcher().Fetch(context.Background(), server.URL+"/item/1")
	require.NoError(t, err)

	assert.Equal(t, "スマートウォッチ", info.Name)
	assert.Equal(t, 15000, info.Price)
	assert.Equal(t, server.URL+"/item/1", info.URL)
	assert.True(t, strings.HasPrefix(gotUA, "Mozilla/5.0"))
}

func TestFetchNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	info, err := NewFetcher().Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Empty(t, info.Name)
	assert.Equal(t, server.URL, info.URL)
}

func TestFetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	info, err := NewFetcher().Fetch(context.Background(), url)
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
	assert.Empty(t, info.Name)
}
