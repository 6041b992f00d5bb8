package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Video is the subset of Pexels video search fields required by the app.
type Video struct {
	ID         int64       `json:"id"`
	URL        string      `json:"url"`
	Image      string      `json:"image"`
	User       User        `json:"user"`
	VideoFiles []VideoFile `json:"video_files"`
}

type User struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// VideoFile is one downloadable rendition of a video.
type VideoFile struct {
	Quality string `json:"quality"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Link    string `json:"link"`
}

type SearchResult struct {
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	TotalCount int     `json:"total_results"`
	Videos     []Video `json:"videos"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

func (c *Client) Search(ctx context.Context, query string, page, perPage int) (SearchResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 15
	}

	q := make(url.Values)
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	req, err := c.newRequest(ctx, http.MethodGet, "/videos/search?"+q.Encode())
	if err != nil {
		return SearchResult{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("video search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return SearchResult{}, fmt.Errorf("video search failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SearchResult{}, fmt.Errorf("decode video search response: %w", err)
	}
	return result, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	fullURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}
