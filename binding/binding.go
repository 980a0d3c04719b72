// Package binding 在备注文本中替换 ${path.to.value} 形式的占位符。
package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// SlideContext 构造单张幻灯片备注可引用的数据：
// ${title}、${author}、${slide.number}（从 1 开始）与 ${slide.total}。
func SlideContext(title, author string, number, total int) map[string]any {
	return map[string]any{
		"title":  title,
		"author": author,
		"slide": map[string]any{
			"number": number,
			"total":  total,
		},
	}
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值，并返回无法解析的路径。
// 无法解析的占位符原样保留。
func Interpolate(text string, data map[string]any) (string, []string) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := resolvePath(data, path); ok {
			return fmt.Sprint(val)
		}
		missing = append(missing, path)
		return match
	})
	return out, missing
}

// resolvePath 按 "." 逐级进入嵌套 map，不支持下标。
func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		var ok bool
		current, ok = descendMap(current, segment)
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}
