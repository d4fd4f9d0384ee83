package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText 按显示宽度做词级换行，宽字符按实际列宽计算。
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if raw == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapLine(raw, width)...)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	var out []string
	current := ""
	for _, word := range strings.Fields(line) {
		switch {
		case current == "":
			if runewidth.StringWidth(word) > width {
				out = append(out, breakLongWord(word, width)...)
				continue
			}
			current = word
		case runewidth.StringWidth(current)+1+runewidth.StringWidth(word) <= width:
			current += " " + word
		default:
			out = append(out, current)
			if runewidth.StringWidth(word) > width {
				out = append(out, breakLongWord(word, width)...)
				current = ""
				continue
			}
			current = word
		}
	}
	if current != "" {
		out = append(out, current)
	}
	if len(out) == 0 {
		return []string{line}
	}
	return out
}

func breakLongWord(word string, width int) []string {
	var out []string
	current := ""
	cols := 0
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if cols+rw > width && current != "" {
			out = append(out, current)
			current = ""
			cols = 0
		}
		current += string(r)
		cols += rw
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}
