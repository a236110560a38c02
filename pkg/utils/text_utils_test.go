package utils

import (
	"reflect"
	"testing"
	"unicode/utf8"
)

// fixedWidth 每个字符 10 像素的测量函数
func fixedWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * 10
}

// TestWrapTextWith 测试文本换行功能
func TestWrapTextWith(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth float64
		want     []string
	}{
		{
			name:     "短文本不换行",
			input:    "short",
			maxWidth: 100,
			want:     []string{"short"},
		},
		{
			name:     "在空格处断行",
			input:    "hello there world",
			maxWidth: 100,
			want:     []string{"hello", "there", "world"},
		},
		{
			name:     "多个单词合并到一行",
			input:    "a b c d e",
			maxWidth: 50,
			want:     []string{"a b c", "d e"},
		},
		{
			name:     "长单词强制断行",
			input:    "abcdefghij",
			maxWidth: 40,
			want:     []string{"abcd", "efgh", "ij"},
		},
		{
			name:     "中文按字符断行",
			input:    "豌豆射手攻击僵尸",
			maxWidth: 30,
			want:     []string{"豌豆射", "手攻击", "僵尸"},
		},
		{
			name:     "显式换行",
			input:    "one\ntwo",
			maxWidth: 100,
			want:     []string{"one", "two"},
		},
		{
			name:     "空文本",
			input:    "",
			maxWidth: 100,
			want:     []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapTextWith(tt.input, fixedWidth, tt.maxWidth)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WrapTextWith(%q, %.0f) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

// TestWrapTextEdgeCases 测试边界情况
func TestWrapTextEdgeCases(t *testing.T) {
	if got := WrapTextWith("text", fixedWidth, 0); len(got) != 1 || got[0] != "text" {
		t.Errorf("Zero width should return input unchanged, got %q", got)
	}
	if got := WrapText("text", nil, 100); len(got) != 1 || got[0] != "text" {
		t.Errorf("Nil face should return input unchanged, got %q", got)
	}
	// 单个字符就超宽时仍然输出该字符
	if got := WrapTextWith("ab", fixedWidth, 5); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Narrow width = %q, want [a b]", got)
	}
}
