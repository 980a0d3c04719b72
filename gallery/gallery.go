// Package gallery 把配对结果输出为一个静态 HTML 页面，并复制固定的样式表。
package gallery

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcfunley/better-keynote-export/layout"
)

const (
	IndexFile      = "index.html"
	StylesheetFile = "presentation.css"
	defaultTitle   = "Slides"
)

//go:embed assets/site.html.tmpl assets/presentation.css
var assetFS embed.FS

var siteTemplate = template.Must(template.New("site.html.tmpl").Funcs(template.FuncMap{
	"inc":        func(i int) int { return i + 1 },
	"paragraphs": paragraphs,
}).ParseFS(assetFS, "assets/site.html.tmpl"))

// Site 是页面级信息，二者都可以为空：标题回退为 "Slides"，作者为空时不输出署名。
type Site struct {
	Title  string
	Author string // Bluesky handle，可带或不带 @ 前缀
}

// Slide 是模板中的一条记录，Image 为相对于输出目录的 URL 路径。
type Slide struct {
	Image string
	Note  string
}

type page struct {
	Title     string
	Author    string
	AuthorURL string
	Slides    []Slide
}

// Emit 在 outDir 下生成 index.html 与 presentation.css，已存在的文件会被覆盖。
// 模板只对完整的有序列表求值一次，不分页。
func Emit(entries []layout.Entry, site Site, outDir string) error {
	slides, err := Slides(entries, outDir)
	if err != nil {
		return err
	}
	html, err := Render(slides, site)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, IndexFile), html, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", IndexFile, err)
	}
	css, err := assetFS.ReadFile("assets/" + StylesheetFile)
	if err != nil {
		return fmt.Errorf("读取样式表失败: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, StylesheetFile), css, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", StylesheetFile, err)
	}
	return nil
}

// Slides 把图片路径改写为相对 outDir 的斜杠路径，保持配对顺序。
func Slides(entries []layout.Entry, outDir string) ([]Slide, error) {
	root, err := filepath.Abs(outDir)
	if err != nil {
		return nil, fmt.Errorf("解析输出目录失败: %w", err)
	}
	slides := make([]Slide, 0, len(entries))
	for _, e := range entries {
		img := e.Image
		if filepath.IsAbs(img) {
			rel, err := filepath.Rel(root, img)
			if err != nil {
				return nil, fmt.Errorf("计算图片 %s 的相对路径失败: %w", img, err)
			}
			img = rel
		}
		slides = append(slides, Slide{Image: filepath.ToSlash(img), Note: e.Note})
	}
	return slides, nil
}

// Render 执行页面模板。
func Render(slides []Slide, site Site) ([]byte, error) {
	p := page{
		Title:  strings.TrimSpace(site.Title),
		Author: strings.TrimPrefix(strings.TrimSpace(site.Author), "@"),
		Slides: slides,
	}
	if p.Title == "" {
		p.Title = defaultTitle
	}
	if p.Author != "" {
		p.AuthorURL = "https://bsky.app/profile/" + p.Author
	}
	var buf bytes.Buffer
	if err := siteTemplate.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("渲染页面模板失败: %w", err)
	}
	return buf.Bytes(), nil
}

// paragraphs 以空行分段，段内换行交给样式表的 pre-wrap 处理。
func paragraphs(note string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(note, "\r\n", "\n"), "\n\n") {
		if p = strings.Trim(p, "\n"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
