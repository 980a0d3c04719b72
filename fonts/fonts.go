// Package fonts 负责显式加载备注字体，返回可放入 layout.Options 的字体句柄，不做全局注册。
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10regular"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/mcfunley/better-keynote-export/layout"
)

// Default 为未指定 -font 时使用的内置字体。
const Default = "embed:goregular"

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gomono":    gomono.TTF,
	"lmroman10": lmroman10regular.TTF,
	"lmsans10":  lmsans10regular.TTF,
}

// Builtin 返回内置字体名称（按字母序）。
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load 解析字体来源并读取字节。src 可写为 "embed:goregular" 这类内置名称，
// 或 .ttf/.otf 文件路径（相对路径基于 baseDir）。
func Load(src, baseDir string) (layout.FontResource, error) {
	if src == "" {
		src = Default
	}
	if strings.HasPrefix(src, "embed:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "embed:"), "builtin:")
		data, ok := builtin[name]
		if !ok {
			return layout.FontResource{}, fmt.Errorf("找不到内置字体 %s（可选：%s）", name, strings.Join(Builtin(), ", "))
		}
		return layout.FontResource{Name: name, Src: src, Data: data}, nil
	}

	path := src
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return layout.FontResource{}, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return layout.FontResource{Name: name, Src: src, Data: data}, nil
}
