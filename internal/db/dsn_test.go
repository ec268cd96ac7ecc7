package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" postgres://u:p@localhost:5432/crm ", "postgres://u:p@localhost:5432/crm"},
		{`"host=localhost user=crm dbname=crm"`, "host=localhost user=crm dbname=crm sslmode=disable"},
		{"host=localhost  dbname=crm sslmode=require", "host=localhost dbname=crm sslmode=require"},
		{"crm.db", "crm.db"},
		{"file:crm?mode=memory", "file:crm?mode=memory"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeDSN(c.in); got != c.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsPostgresDSN(t *testing.T) {
	for _, dsn := range []string{"postgres://x", "postgresql://x", "host=localhost dbname=crm"} {
		if !IsPostgresDSN(dsn) {
			t.Errorf("IsPostgresDSN(%q) = false, want true", dsn)
		}
	}
	for _, dsn := range []string{"crm.db", "file::memory:?cache=shared", ""} {
		if IsPostgresDSN(dsn) {
			t.Errorf("IsPostgresDSN(%q) = true, want false", dsn)
		}
	}
}
