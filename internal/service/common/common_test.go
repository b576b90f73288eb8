package common

import (
	"bytes"
	"strings"
	"testing"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name, pattern string
		want          bool
	}{
		{"data-prod", "", true},
		{"data-prod", "prod", true},
		{"data-prod", "dev", false},
		{"data-prod", "data-*", true},
		{"data-prod", "*-dev", false},
		{"data-1", "data-?", true},
		{"data-prod", "[", false},
	}
	for _, tt := range tests {
		if got := MatchPattern(tt.name, tt.pattern); got != tt.want {
			t.Errorf("MatchPattern(%q, %q) = %v, want %v", tt.name, tt.pattern, got, tt.want)
		}
	}
}

func TestGenerateFilteredTitle(t *testing.T) {
	if got := GenerateFilteredTitle("EBSボリューム"); got != "EBSボリューム一覧" {
		t.Errorf("title = %q", got)
	}
	if got := GenerateFilteredTitle("EBSボリューム", "", "prod環境の"); got != "prod環境のEBSボリューム一覧" {
		t.Errorf("title = %q", got)
	}
}

func TestPrintTableAlignsWideCharacters(t *testing.T) {
	var buf bytes.Buffer
	prev := Output
	Output = &buf
	t.Cleanup(func() { Output = prev })

	PrintTable("", []TableColumn{{Header: "名前"}, {Header: "ID"}}, [][]string{
		{"データ", "vol-1"},
		{"db", "vol-22"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"名前   ID     ",
		"------ ------ ",
		"データ vol-1  ",
		"db     vol-22 ",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestDisplayListEmpty(t *testing.T) {
	var buf bytes.Buffer
	prev := Output
	Output = &buf
	t.Cleanup(func() { Output = prev })

	DisplayList([]string{}, "EBSボリューム", func([]string) ([]TableColumn, [][]string) {
		t.Fatal("toTableData called for empty list")
		return nil, nil
	}, &DisplayOptions{EmptyMessage: "ボリュームが見つかりませんでした"})

	if got := strings.TrimSpace(buf.String()); got != "ボリュームが見つかりませんでした" {
		t.Errorf("output = %q", got)
	}
}

func TestFormatGiB(t *testing.T) {
	if got := FormatGiB(20); got != "20 GiB" {
		t.Errorf("FormatGiB(20) = %q", got)
	}
	if got := FormatGiB(2048); got != "2 TiB" {
		t.Errorf("FormatGiB(2048) = %q", got)
	}
}
