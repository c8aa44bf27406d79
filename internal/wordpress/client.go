// Package wordpress is a small client for the WordPress REST API.
//
// New posts are only ever created as drafts: CreateDraft overrides any status
// the caller sets, so nothing already published can be touched from the
// default posting path. Status changes go through UpdatePost explicitly.
package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	StatusDraft   = "draft"
	StatusPublish = "publish"
	StatusPrivate = "private"

	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second

	draftsPerPage = 20
	termsPerPage  = 100
)

// ErrNothingToUpdate is returned by UpdatePost when no field is set
var ErrNothingToUpdate = errors.New("nothing to update")

// Config holds the site URL and application password credentials
type Config struct {
	URL         string `yaml:"url"`
	Username    string `yaml:"username"`
	AppPassword string `yaml:"app_password"`
}

// SiteURL is the configured URL without a trailing slash
func (c Config) SiteURL() string {
	return strings.TrimRight(c.URL, "/")
}

// APIBase is the wp/v2 REST root
func (c Config) APIBase() string {
	return c.SiteURL() + "/wp-json/wp/v2"
}

// EditURL is the admin edit screen for a post
func (c Config) EditURL(postID int) string {
	return fmt.Sprintf("%s/wp-admin/post.php?post=%d&action=edit", c.SiteURL(), postID)
}

// RemoteAPIError is any non-2xx answer from WordPress
type RemoteAPIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("%s failed: %d - %s", e.Operation, e.StatusCode, e.Body)
}

// Post is the payload for a new article
type Post struct {
	Title         string
	Content       string
	Excerpt       string
	Status        string
	Categories    []int
	Tags          []int
	FeaturedMedia int
}

// PostUpdate holds the fields to change; nil fields are left alone
type PostUpdate struct {
	Title   *string
	Content *string
	Excerpt *string
	Status  *string
}

// PostResult identifies a created or updated post
type PostResult struct {
	PostID  int
	Status  string
	Link    string
	EditURL string
}

// User is the authenticated account
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Draft is one entry of ListDrafts
type Draft struct {
	ID      int
	Title   string
	EditURL string
}

// Term is a category or tag
type Term struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

type postResponse struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
	Link   string `json:"link"`
	Title  struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
}

// Client talks to one WordPress site
type Client struct {
	config Config
	http   *resty.Client
}

// NewClient creates a client authenticated with HTTP Basic Auth
func NewClient(config Config) *Client {
	client := resty.New()
	client.SetBaseURL(config.APIBase())
	client.SetBasicAuth(config.Username, config.AppPassword)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")

	return &Client{
		config: config,
		http:   client,
	}
}

// TestConnection fetches the authenticated user
func (c *Client) TestConnection(ctx context.Context) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		Get("/users/me")
	if err != nil {
		return nil, fmt.Errorf("failed to reach WordPress: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, apiError("connection test", res)
	}

	var user User
	if err := json.Unmarshal(res.Body(), &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// CreateDraft creates a new post. Status is always forced to draft.
func (c *Client) CreateDraft(ctx context.Context, post Post) (*PostResult, error) {
	post.Status = StatusDraft

	payload := map[string]any{
		"title":   post.Title,
		"content": post.Content,
		"excerpt": post.Excerpt,
		"status":  post.Status,
	}
	if len(post.Categories) > 0 {
		payload["categories"] = post.Categories
	}
	if len(post.Tags) > 0 {
		payload["tags"] = post.Tags
	}
	if post.FeaturedMedia != 0 {
		payload["featured_media"] = post.FeaturedMedia
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/posts")
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	if res.StatusCode() != http.StatusCreated {
		return nil, apiError("create post", res)
	}

	return c.decodePost(res.Body())
}

// UpdatePost changes the set fields of an existing post, including status
func (c *Client) UpdatePost(ctx context.Context, postID int, update PostUpdate) (*PostResult, error) {
	payload := map[string]any{}
	if update.Title != nil {
		payload["title"] = *update.Title
	}
	if update.Content != nil {
		payload["content"] = *update.Content
	}
	if update.Excerpt != nil {
		payload["excerpt"] = *update.Excerpt
	}
	if update.Status != nil {
		if !ValidStatus(*update.Status) {
			return nil, fmt.Errorf("invalid post status: %q", *update.Status)
		}
		payload["status"] = *update.Status
	}
	if len(payload) == 0 {
		return nil, ErrNothingToUpdate
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/posts/" + strconv.Itoa(postID))
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, apiError("update post", res)
	}

	return c.decodePost(res.Body())
}

// ListDrafts returns the most recent draft posts
func (c *Client) ListDrafts(ctx context.Context) ([]Draft, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"status":   StatusDraft,
			"per_page": strconv.Itoa(draftsPerPage),
		}).
		Get("/posts")
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, apiError("list drafts", res)
	}

	var posts []postResponse
	if err := json.Unmarshal(res.Body(), &posts); err != nil {
		return nil, fmt.Errorf("failed to decode drafts: %w", err)
	}

	drafts := make([]Draft, 0, len(posts))
	for _, p := range posts {
		drafts = append(drafts, Draft{
			ID:      p.ID,
			Title:   p.Title.Rendered,
			EditURL: c.config.EditURL(p.ID),
		})
	}
	return drafts, nil
}

// Categories lists up to 100 categories
func (c *Client) Categories(ctx context.Context) ([]Term, error) {
	return c.terms(ctx, "categories")
}

// Tags lists up to 100 tags
func (c *Client) Tags(ctx context.Context) ([]Term, error) {
	return c.terms(ctx, "tags")
}

func (c *Client) terms(ctx context.Context, taxonomy string) ([]Term, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("per_page", strconv.Itoa(termsPerPage)).
		Get("/" + taxonomy)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", taxonomy, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, apiError("list "+taxonomy, res)
	}

	var terms []Term
	if err := json.Unmarshal(res.Body(), &terms); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", taxonomy, err)
	}
	return terms, nil
}

func (c *Client) decodePost(body []byte) (*PostResult, error) {
	var p postResponse
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to decode post: %w", err)
	}
	return &PostResult{
		PostID:  p.ID,
		Status:  p.Status,
		Link:    p.Link,
		EditURL: c.config.EditURL(p.ID),
	}, nil
}

// ValidStatus reports whether s is a status UpdatePost accepts
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublish, StatusPrivate:
		return true
	}
	return false
}

func apiError(op string, res *resty.Response) error {
	return &RemoteAPIError{
		Operation:  op,
		StatusCode: res.StatusCode(),
		Body:       res.String(),
	}
}
