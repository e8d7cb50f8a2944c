package logger

import (
	"testing"
	"time"
)

func TestRoundMS(t *testing.T) {
	cases := map[time.Duration]time.Duration{
		-time.Second:            0,
		0:                       0,
		1400 * time.Microsecond: time.Millisecond,
		1600 * time.Microsecond: 2 * time.Millisecond,
		3 * time.Second:         3 * time.Second,
	}
	for in, want := range cases {
		if got := RoundMS(in); got != want {
			t.Fatalf("RoundMS(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestPreview(t *testing.T) {
	files := []string{"1_init.up.sql", "2_users.up.sql", "3_index.up.sql"}
	cases := []struct {
		limit int
		want  string
	}{
		{limit: 5, want: "1_init.up.sql, 2_users.up.sql, 3_index.up.sql"},
		{limit: 3, want: "1_init.up.sql, 2_users.up.sql, 3_index.up.sql"},
		{limit: 2, want: "1_init.up.sql, 2_users.up.sql (+1 more)"},
		{limit: 0, want: "(+3 more)"},
		{limit: -1, want: "(+3 more)"},
	}
	for _, tc := range cases {
		if got := Preview(files, tc.limit); got != tc.want {
			t.Fatalf("Preview(limit=%d) = %q, want %q", tc.limit, got, tc.want)
		}
	}
	if got := Preview(nil, 3); got != "" {
		t.Fatalf("empty preview = %q", got)
	}
}
