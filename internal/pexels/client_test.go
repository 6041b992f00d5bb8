package pexels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearch_SendsAuthAndQueryParams(t *testing.T) {
	var gotAuth, gotQuery, gotPage, gotPerPage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("query")
		gotPage = r.URL.Query().Get("page")
		gotPerPage = r.URL.Query().Get("per_page")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 3,
			"per_page": 15,
			"total_results": 120,
			"videos": [
				{
					"id": 101,
					"url": "https://www.pexels.com/video/funny-cat-101/",
					"image": "https://images.example.com/101.jpg",
					"user": {"name": "Sam", "url": "https://www.pexels.com/@sam"},
					"video_files": [
						{"quality": "hd", "width": 1080, "height": 1920, "link": "https://cdn.example.com/101.mp4"}
					]
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", server.Client())
	result, err := client.Search(context.Background(), "funny memes", 3, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "test-key" {
		t.Errorf("expected Authorization header, got %q", gotAuth)
	}
	if gotQuery != "funny memes" {
		t.Errorf("unexpected query param: %q", gotQuery)
	}
	if gotPage != "3" || gotPerPage != "15" {
		t.Errorf("unexpected paging params: page=%s per_page=%s", gotPage, gotPerPage)
	}

	if result.Page != 3 || result.TotalCount != 120 {
		t.Errorf("unexpected result meta: %+v", result)
	}
	if len(result.Videos) != 1 {
		t.Fatalf("expected 1 video, got %d", len(result.Videos))
	}
	v := result.Videos[0]
	if v.ID != 101 || v.User.Name != "Sam" {
		t.Errorf("unexpected video: %+v", v)
	}
	if len(v.VideoFiles) != 1 || v.VideoFiles[0].Link != "https://cdn.example.com/101.mp4" {
		t.Errorf("unexpected video files: %+v", v.VideoFiles)
	}
}

func TestSearch_ClampsInvalidPaging(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("expected page clamped to 1, got %s", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "15" {
			t.Errorf("expected per_page defaulted to 15, got %s", got)
		}
		w.Write([]byte(`{"videos": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", server.Client())
	if _, err := client.Search(context.Background(), "q", 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_ErrorStatusIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", server.Client())
	_, err := client.Search(context.Background(), "q", 1, 15)
	if err == nil {
		t.Fatal("expected an error for status 429")
	}
	if got := err.Error(); !strings.Contains(got, "429") || !strings.Contains(got, "rate limited") {
		t.Fatalf("error should carry status and body: %v", err)
	}
}

func TestSearch_BadJSONFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"videos": [`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", server.Client())
	if _, err := client.Search(context.Background(), "q", 1, 15); err == nil {
		t.Fatal("expected a decode error")
	}
}
