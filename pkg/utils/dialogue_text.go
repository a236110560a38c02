package utils

import (
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatDialogueLine 生成写入对话日志的文本
// 有说话人时格式为 "说话人大写 - 正文"，否则原样返回正文
// 说话人为空字符串视为没有说话人
func FormatDialogueLine(speaker, body string) string {
	if speaker == "" {
		return body
	}
	// cases.Caser 不是并发安全的，每次调用新建
	return cases.Upper(language.Und).String(speaker) + " - " + body
}

// FormatOptionLabel 生成选项按钮文本 "序号: 正文"，序号从 1 开始
func FormatOptionLabel(index int, body string) string {
	return strconv.Itoa(index) + ": " + body
}
