package layout

import (
	"math"
	"strings"
	"unicode"
)

// Measurer 提供字体在给定字号下的宽度度量（pt）。
type Measurer interface {
	TextWidth(s string) float64
}

// MeasureFunc adapts a plain function to Measurer.
type MeasureFunc func(s string) float64

func (f MeasureFunc) TextWidth(s string) float64 { return f(s) }

// GreedyWrap 使用贪心算法把文本折成若干行：累积单词直到下一个单词会超出 width 再换行，
// 显式换行符强制断行。单个超宽单词独占一行，不在词内拆分。空文本返回一行空行，
// 保证高度计算不会少算空白备注。
func GreedyWrap(content string, width float64, m Measurer) []TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var lines []TextLine
	var builder strings.Builder
	currentWidth := 0.0
	pending := ""    // 两个单词之间尚未提交的空白
	wrapped := false // 当前行是否由宽度折行产生（此时丢弃行首空白）

	emit := func() {
		lines = append(lines, TextLine{Content: builder.String(), Width: currentWidth})
		builder.Reset()
		currentWidth = 0
	}
	appendToken := func(token string, w float64) {
		builder.WriteString(token)
		currentWidth += w
	}

	for _, token := range tokenizeContent(content) {
		if token == "\n" {
			emit()
			pending = ""
			wrapped = false
			continue
		}
		if isSpaceToken(token) {
			pending += token
			continue
		}

		tokenWidth := m.TextWidth(token)
		gap := 0.0
		if pending != "" {
			gap = m.TextWidth(pending)
		}
		switch {
		case builder.Len() == 0:
			if pending != "" && !wrapped && gap+tokenWidth <= limit {
				appendToken(pending, gap)
			}
			appendToken(token, tokenWidth)
		case currentWidth+gap+tokenWidth > limit:
			emit()
			wrapped = true
			appendToken(token, tokenWidth)
		default:
			appendToken(pending, gap)
			appendToken(token, tokenWidth)
		}
		pending = ""
	}

	emit()
	return lines
}

// tokenizeContent 把文本切成空白段、非空白段与 "\n"，忽略 \r。
func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func isSpaceToken(token string) bool {
	for _, r := range token {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return token != ""
}
