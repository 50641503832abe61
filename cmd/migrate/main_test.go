package main

import "testing"

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		filename string
		ok       bool
		version  int
		name     string
	}{
		{"0001_init_tables.sql", true, 1, "init_tables"},
		{"0042_add_tags_column.sql", true, 42, "add_tags_column"},
		{"001_short_version.sql", false, 0, ""},
		{"0001_missing_extension", false, 0, ""},
		{"0001.sql", false, 0, ""},
		{"notes.txt", false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, ok := parseMigrationFilename(tt.filename)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if version != tt.version {
				t.Errorf("version = %d, want %d", version, tt.version)
			}
			if name != tt.name {
				t.Errorf("name = %q, want %q", name, tt.name)
			}
		})
	}
}
