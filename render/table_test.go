package render

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func init() {
	// Box drawing characters are ambiguous-width in East Asian locales.
	runewidth.DefaultCondition.EastAsianWidth = false
}

func TestTableAlignsVietnamese(t *testing.T) {
	tbl := NewTable("Mục", "Số lượng")
	tbl.SetAlignment(1, AlignRight)
	tbl.AddRow("Tổng số bài viết đã quét", "12")
	tbl.AddRow("Thành công", "10")
	tbl.AddRow("Bỏ qua/Lỗi", "2")

	lines := strings.Split(tbl.String(), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d:\n%s", len(lines), tbl.String())
	}

	want := runewidth.StringWidth(lines[0])
	for i, line := range lines {
		if w := runewidth.StringWidth(line); w != want {
			t.Errorf("line %d has width %d, expected %d: %q", i, w, want, line)
		}
	}
	if want != tbl.TotalWidth() {
		t.Errorf("TotalWidth() = %d, rendered width %d", tbl.TotalWidth(), want)
	}
	if !strings.HasSuffix(lines[4], " 10 │") {
		t.Errorf("expected right-aligned count, got %q", lines[4])
	}
}

func TestTableTruncatesWideCells(t *testing.T) {
	tbl := NewTable("Tiêu đề")
	tbl.BoxStyle = ASCIIBox
	tbl.MaxCellWidth = 10
	tbl.AddRow("Một tiêu đề rất dài không vừa cột")

	lines := strings.Split(tbl.String(), "\n")
	if lines[0] != "+------------+" {
		t.Errorf("unexpected border %q", lines[0])
	}
	if !strings.Contains(lines[3], "…") {
		t.Errorf("expected ellipsis, got %q", lines[3])
	}
	if w := runewidth.StringWidth(lines[3]); w != 14 {
		t.Errorf("expected width 14, got %d", w)
	}
}

func TestTableShortRowsArePadded(t *testing.T) {
	tbl := NewTable("a", "b", "c")
	tbl.AddRow("1")
	if len(tbl.Rows[0]) != 3 {
		t.Errorf("expected padded row of 3, got %d", len(tbl.Rows[0]))
	}
}

func TestEmptyTable(t *testing.T) {
	if s := (&Table{}).String(); s != "" {
		t.Errorf("expected empty output, got %q", s)
	}
}
