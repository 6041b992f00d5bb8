package social

import "testing"

func TestFormatCount(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1.0K"},
		{1437, "1.4K"},
		{25100, "25.1K"},
		{999999, "1000.0K"},
		{1000000, "1.0M"},
		{1500000, "1.5M"},
	}
	for _, tc := range cases {
		if got := FormatCount(tc.n); got != tc.want {
			t.Fatalf("FormatCount(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
