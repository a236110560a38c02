package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// MeasureFunc 返回文本在某个字体下的像素宽度
type MeasureFunc func(s string) float64

// FaceMeasure 基于 text/v2 字体的测量函数
func FaceMeasure(face text.Face) MeasureFunc {
	return func(s string) float64 {
		if s == "" || face == nil {
			return 0
		}
		width, _ := text.Measure(s, face, 0)
		return width
	}
}

// WrapText 将文本按指定宽度自动换行
// 参数:
//   - textStr: 要换行的文本
//   - font: 字体
//   - maxWidth: 最大宽度（像素）
//
// 返回:
//   - []string: 换行后的文本数组（每个元素为一行）
func WrapText(textStr string, font text.Face, maxWidth float64) []string {
	if font == nil {
		return []string{textStr}
	}
	return WrapTextWith(textStr, FaceMeasure(font), maxWidth)
}

// WrapTextWith 使用自定义测量函数换行
//
// 换行规则:
//   - 显式换行符总是断行
//   - 优先在空格处断行
//   - 如果单词太长超过最大宽度，按字符强制断行（中文文本没有空格，也走这条路径）
func WrapTextWith(textStr string, measure MeasureFunc, maxWidth float64) []string {
	if textStr == "" || measure == nil || maxWidth <= 0 {
		return []string{textStr}
	}

	var lines []string
	for _, paragraph := range strings.Split(textStr, "\n") {
		lines = append(lines, wrapParagraph(paragraph, measure, maxWidth)...)
	}
	return lines
}

func wrapParagraph(paragraph string, measure MeasureFunc, maxWidth float64) []string {
	if measure(paragraph) <= maxWidth {
		return []string{paragraph}
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(paragraph) {
		candidate := word
		if currentLine != "" {
			candidate = currentLine + " " + word
		}
		if measure(candidate) <= maxWidth {
			currentLine = candidate
			continue
		}

		if currentLine != "" {
			lines = append(lines, currentLine)
			currentLine = ""
		}

		if measure(word) <= maxWidth {
			currentLine = word
			continue
		}

		// 单词本身超宽，按字符断开，最后一段留在当前行继续拼接
		pieces := breakRunes(word, measure, maxWidth)
		lines = append(lines, pieces[:len(pieces)-1]...)
		currentLine = pieces[len(pieces)-1]
	}

	if currentLine != "" || len(lines) == 0 {
		lines = append(lines, currentLine)
	}
	return lines
}

// breakRunes 按字符断行，至少返回一个元素
func breakRunes(word string, measure MeasureFunc, maxWidth float64) []string {
	var pieces []string
	current := ""

	for len(word) > 0 {
		r, size := utf8.DecodeRuneInString(word)
		word = word[size:]
		char := string(r)

		if current != "" && measure(current+char) > maxWidth {
			pieces = append(pieces, current)
			current = char
			continue
		}
		current += char
	}

	return append(pieces, current)
}
