package platform

import "testing"

func TestValidateMediaURL(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"https", "https://cdn.example.com/clip.mp4", "https://cdn.example.com/clip.mp4", false},
		{"http", "http://cdn.example.com/clip.mp4", "http://cdn.example.com/clip.mp4", false},
		{"trims whitespace", "  https://cdn.example.com/clip.mp4  ", "https://cdn.example.com/clip.mp4", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"bad scheme", "ftp://cdn.example.com/clip.mp4", "", true},
		{"no host", "https://", "", true},
		{"not a url", "javascript:alert(1)", "", true},
	}
	for _, tc := range cases {
		got, err := ValidateMediaURL(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected an error for %q", tc.name, tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
