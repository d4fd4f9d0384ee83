package tui

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestWrapTextShortLineUntouched(t *testing.T) {
	got := wrapText("hello world", 40)
	if len(got) != 1 || got[0] != "hello world" {
		t.Fatalf("got %+v", got)
	}
}

func TestWrapTextWordBoundaries(t *testing.T) {
	got := wrapText("plan the venue and the catering", 14)
	for _, line := range got {
		if runewidth.StringWidth(line) > 14 {
			t.Fatalf("line %q exceeds width", line)
		}
	}
	if len(got) < 2 {
		t.Fatalf("expected multiple lines, got %+v", got)
	}
}

func TestWrapTextBreaksLongWord(t *testing.T) {
	got := wrapText("supercalifragilisticexpialidocious", 10)
	if len(got) < 3 {
		t.Fatalf("long word not broken: %+v", got)
	}
	for _, line := range got {
		if runewidth.StringWidth(line) > 10 {
			t.Fatalf("fragment %q exceeds width", line)
		}
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	// 全角字符占两列
	got := wrapText("婚礼场地预订流程说明", 8)
	for _, line := range got {
		if runewidth.StringWidth(line) > 8 {
			t.Fatalf("line %q exceeds display width", line)
		}
	}
}

func TestWrapTextPreservesBlankLines(t *testing.T) {
	got := wrapText("first\n\nsecond", 40)
	if len(got) != 3 || got[1] != "" {
		t.Fatalf("got %+v", got)
	}
}

func TestWrapTextZeroWidth(t *testing.T) {
	got := wrapText("anything", 0)
	if len(got) != 1 || got[0] != "anything" {
		t.Fatalf("got %+v", got)
	}
}
