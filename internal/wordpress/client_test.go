package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSite records requests and answers like a minimal wp/v2 API
type fakeSite struct {
	t        *testing.T
	requests []*http.Request
	bodies   []map[string]any
	status   int
	response string
}

func (f *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests = append(f.requests, r)

	body := map[string]any{}
	if r.Method == http.MethodPost {
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
	}
	f.bodies = append(f.bodies, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.response))
}

func newTestClient(t *testing.T, status int, response string) (*Client, *fakeSite, Config) {
	site := &fakeSite{t: t, status: status, response: response}
	server := httptest.NewServer(site)
	t.Cleanup(server.Close)

	cfg := Config{URL: server.URL + "/", Username: "editor", AppPassword: "abcd efgh ijkl"}
	return NewClient(cfg), site, cfg
}

func TestConfigURLs(t *testing.T) {
	cfg := Config{URL: "https://blog.example.com/"}

	assert.Equal(t, "https://blog.example.com/wp-json/wp/v2", cfg.APIBase())
	assert.Equal(t, "https://blog.example.com/wp-admin/post.php?post=42&action=edit", cfg.EditURL(42))
}

func TestTestConnection(t *testing.T) {
	client, site, _ := newTestClient(t, http.StatusOK, `{"id":1,"name":"Akira","slug":"akira"}`)

	user, err := client.TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Akira", user.Name)

	require.Len(t, site.requests, 1)
	req := site.requests[0]
	assert.Equal(t, "/wp-json/wp/v2/users/me", req.URL.Path)

	username, password, ok := req.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "editor", username)
	assert.Equal(t, "abcd efgh ijkl", password)
}

func TestTestConnectionUnauthorized(t *testing.T) {
	client, _, _ := newTestClient(t, http.StatusUnauthorized, `{"code":"rest_not_logged_in"}`)

	_, err := client.TestConnection(context.Background())
	require.Error(t, err)

	var apiErr *RemoteAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, `{"code":"rest_not_logged_in"}`, apiErr.Body)
}

func TestCreateDraftForcesDraftStatus(t *testing.T) {
	client, site, cfg := newTestClient(t, http.StatusCreated, `{"id":123,"status":"draft","link":"https://blog/?p=123"}`)

	result, err := client.CreateDraft(context.Background(), Post{
		Title:      "母の日に贈ったハンドクリーム",
		Content:    "<p>本文</p>",
		Excerpt:    "抜粋",
		Status:     StatusPublish,
		Categories: []int{3},
	})
	require.NoError(t, err)

	assert.Equal(t, 123, result.PostID)
	assert.Equal(t, StatusDraft, result.Status)
	assert.Equal(t, cfg.EditURL(123), result.EditURL)

	require.Len(t, site.bodies, 1)
	body := site.bodies[0]
	assert.Equal(t, "draft", body["status"])
	assert.Equal(t, "母の日に贈ったハンドクリーム", body["title"])
	assert.Equal(t, []any{float64(3)}, body["categories"])
	assert.NotContains(t, body, "tags")
	assert.NotContains(t, body, "featured_media")
	assert.Equal(t, "/wp-json/wp/v2/posts", site.requests[0].URL.Path)
}

func TestCreateDraftRejectsNon201(t *testing.T) {
	client, _, _ := newTestClient(t, http.StatusOK, `{"id":1}`)

	_, err := client.CreateDraft(context.Background(), Post{Title: "t", Content: "c"})
	require.Error(t, err)

	var apiErr *RemoteAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "create post failed: 200")
}

func TestUpdatePost(t *testing.T) {
	client, site, _ := newTestClient(t, http.StatusOK, `{"id":55,"status":"publish"}`)

	status := StatusPublish
	title := "新しいタイトル"
	result, err := client.UpdatePost(context.Background(), 55, PostUpdate{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusPublish, result.Status)

	assert.Equal(t, "/wp-json/wp/v2/posts/55", site.requests[0].URL.Path)
	assert.Equal(t, map[string]any{"title": "新しいタイトル", "status": "publish"}, site.bodies[0])
}

func TestUpdatePostValidation(t *testing.T) {
	client, site, _ := newTestClient(t, http.StatusOK, `{}`)

	_, err := client.UpdatePost(context.Background(), 1, PostUpdate{})
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	bogus := "trash"
	_, err = client.UpdatePost(context.Background(), 1, PostUpdate{Status: &bogus})
	assert.Error(t, err)

	assert.Empty(t, site.requests, "invalid updates must not reach the server")
}

func TestListDrafts(t *testing.T) {
	client, site, cfg := newTestClient(t, http.StatusOK, `[
		{"id":7,"title":{"rendered":"下書きA"}},
		{"id":9,"title":{"rendered":"下書きB"}}
	]`)

	drafts, err := client.ListDrafts(context.Background())
	require.NoError(t, err)

	require.Len(t, drafts, 2)
	assert.Equal(t, Draft{ID: 7, Title: "下書きA", EditURL: cfg.EditURL(7)}, drafts[0])

	query := site.requests[0].URL.Query()
	assert.Equal(t, "draft", query.Get("status"))
	assert.Equal(t, "20", query.Get("per_page"))
}

func TestTerms(t *testing.T) {
	client, site, _ := newTestClient(t, http.StatusOK, `[{"id":2,"name":"ギフト","slug":"gift","count":12}]`)

	cats, err := client.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Term{{ID: 2, Name: "ギフト", Slug: "gift", Count: 12}}, cats)

	_, err = client.Tags(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/wp-json/wp/v2/categories", site.requests[0].URL.Path)
	assert.Equal(t, "/wp-json/wp/v2/tags", site.requests[1].URL.Path)
	assert.Equal(t, "100", site.requests[1].URL.Query().Get("per_page"))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus("draft"))
	assert.True(t, ValidStatus("publish"))
	assert.True(t, ValidStatus("private"))
	assert.False(t, ValidStatus("future"))
}
