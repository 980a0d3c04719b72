package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mcfunley/better-keynote-export/fonts"
	"github.com/mcfunley/better-keynote-export/gallery"
	"github.com/mcfunley/better-keynote-export/layout"
	"github.com/mcfunley/better-keynote-export/renderer"
	canvasrenderer "github.com/mcfunley/better-keynote-export/renderer/canvas"
	"github.com/mcfunley/better-keynote-export/source"
	"github.com/mcfunley/better-keynote-export/source/keynote"
	"github.com/mcfunley/better-keynote-export/source/offline"
)

const (
	slidesDirName = "slides"
	documentName  = "out.pdf"
)

type cliConfig struct {
	keynote    string
	notes      string
	images     string
	separator  string
	outdir     string
	pageSize   string
	fontSize   float64
	font       string
	leading    string
	title      string
	author     string
	skipBuilds bool
	debug      string
}

func main() {
	var cfg cliConfig
	stringFlag(&cfg.keynote, "", "Keynote 文件路径", "k", "keynote")
	stringFlag(&cfg.outdir, "", "输出目录", "o", "outdir")
	stringFlag(&cfg.pageSize, "1920x1080", "页面尺寸 WIDTHxHEIGHT", "p", "pagesize")
	flag.Float64Var(&cfg.fontSize, "f", 36, "备注字号")
	flag.Float64Var(&cfg.fontSize, "font-size", 36, "备注字号")
	stringFlag(&cfg.title, "", "演示文稿标题", "t", "title")
	stringFlag(&cfg.author, "", "作者的 Bluesky handle", "u", "bluesky-handle")
	flag.BoolVar(&cfg.skipBuilds, "skip-builds", false, "不导出构建阶段")
	flag.StringVar(&cfg.font, "font", fonts.Default, "备注字体：embed:<name> 或 .ttf/.otf 路径")
	flag.StringVar(&cfg.leading, "leading", "", "行距，例如 1.2x 或 40pt（默认 1.2 × 字号）")
	flag.StringVar(&cfg.notes, "notes", "", "离线模式：备注文件（.notes 清单或以分隔行切分的纯文本）")
	flag.StringVar(&cfg.images, "images", "", "离线模式：已导出的幻灯片图片目录")
	flag.StringVar(&cfg.separator, "separator", offline.DefaultSeparator, "离线模式：纯文本备注的分隔行")
	flag.StringVar(&cfg.debug, "debug", "", "版面规划调试 JSON 输出路径")
	flag.Parse()

	if cfg.outdir == "" || (cfg.keynote == "" && cfg.notes == "") {
		flag.Usage()
		os.Exit(2)
	}

	var src source.Source = keynote.New()
	input := cfg.keynote
	if cfg.notes != "" {
		src = &offline.Loader{ImagesDir: cfg.images, Separator: cfg.separator}
		input = cfg.notes
	}

	fmt.Println("Processing", input)
	var r renderer.Renderer = canvasrenderer.NewRenderer("")
	pdfPath, err := run(cfg, input, src, r)
	if err != nil {
		log.Fatalf("导出失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", pdfPath)
}

func stringFlag(p *string, value, usage string, names ...string) {
	for _, name := range names {
		flag.StringVar(p, name, value, usage)
	}
}

// run 串联获取、配对、布局、渲染与画廊输出，返回 PDF 路径。
func run(cfg cliConfig, input string, src source.Source, r renderer.Renderer) (string, error) {
	if r == nil {
		return "", fmt.Errorf("renderer 不能为空")
	}
	ts, ok := r.(layout.Typesetter)
	if !ok {
		return "", fmt.Errorf("renderer 未实现排版接口")
	}

	font, err := fonts.Load(cfg.font, ".")
	if err != nil {
		return "", err
	}
	// 先校验版面配置，避免在调用导出服务之后才发现尺寸无效
	opts, err := layout.NewOptions(layout.Config{
		PageSize:   cfg.pageSize,
		FontSize:   cfg.fontSize,
		Leading:    cfg.leading,
		Font:       font,
		Title:      cfg.title,
		Author:     cfg.author,
		SkipBuilds: cfg.skipBuilds,
	})
	if err != nil {
		return "", err
	}

	outdir, err := filepath.Abs(cfg.outdir)
	if err != nil {
		return "", fmt.Errorf("解析输出目录失败: %w", err)
	}
	slidesDir := filepath.Join(outdir, slidesDirName)
	if err := os.MkdirAll(slidesDir, 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	deck, err := src.Export(input, slidesDir, source.DefaultExportOptions(opts.SkipBuilds))
	if err != nil {
		return "", fmt.Errorf("获取幻灯片失败: %w", err)
	}
	for _, w := range deck.Warnings {
		log.Printf("警告: %s", w)
	}
	opts = opts.WithMeta(firstNonEmpty(opts.Title, deck.Title), firstNonEmpty(opts.Author, deck.Author))

	notes := deck.VisibleNotes()
	if d := layout.Mismatch(deck.Images, notes); d != 0 {
		log.Printf("警告: 幻灯片图片 %d 张，备注 %d 条，将按较少者截断", len(deck.Images), len(notes))
	}
	entries := layout.Pair(deck.Images, notes)
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: 没有可配对的幻灯片", source.ErrNoSlides)
	}

	result, err := layout.Build(entries, opts, layout.BuildOptions{Typesetter: ts, DeckNotes: notes})
	if err != nil {
		return "", fmt.Errorf("布局计算失败: %w", err)
	}
	if cfg.debug != "" {
		if err := writeDebug(result, cfg.debug); err != nil {
			return "", err
		}
	}

	pdfBytes, err := r.Render(result)
	if err != nil {
		return "", fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	pdfPath := filepath.Join(outdir, documentName)
	if err := os.WriteFile(pdfPath, pdfBytes, 0o644); err != nil {
		return "", fmt.Errorf("写入 PDF 文件失败: %w", err)
	}

	if err := gallery.Emit(entries, gallery.Site{Title: opts.Title, Author: opts.Author}, outdir); err != nil {
		return "", fmt.Errorf("生成 HTML 失败: %w", err)
	}
	return pdfPath, nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
