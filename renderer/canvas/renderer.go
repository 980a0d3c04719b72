package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/mcfunley/better-keynote-export/fonts"
	"github.com/mcfunley/better-keynote-export/layout"
	"github.com/mcfunley/better-keynote-export/renderer"
)

const defaultRuleWidth = 1.0 // pt

// Renderer draws layout results via github.com/tdewolff/canvas.
// Layout coordinates are pt with a bottom-left origin; canvas works in mm, so every
// value crosses toMm exactly once at the draw call.
type Renderer struct {
	baseDir string

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving relative image paths.
func NewRenderer(baseDir string) *Renderer {
	return &Renderer{
		baseDir:      baseDir,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
}

// Render renders the result into a PDF byte slice, one page per layout page.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, toMm(first.Width), toMm(first.Height), nil)
	writer.SetInfo(result.Meta.Title, result.Meta.Subject, "", result.Meta.Author, result.Meta.Creator)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(toMm(page.Width), toMm(page.Height))
		}
		c := canvas.New(toMm(page.Width), toMm(page.Height))
		ctx := canvas.NewContext(c)
		if err := r.drawPage(ctx, page, result.Font); err != nil {
			return nil, fmt.Errorf("渲染第 %d 页失败: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// LayoutLines 实现 layout.Typesetter 接口：用字体的真实宽度度量做贪心换行。
// width 与 fontSize 均为 pt；canvas 返回的宽度为 mm，在度量处换算回 pt。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize float64) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, fontSize, layout.Black)
	if err != nil {
		return nil, err
	}
	m := layout.MeasureFunc(func(s string) float64 { return toPt(face.TextWidth(s)) })
	return layout.GreedyWrap(content, width, m), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, font layout.FontResource) error {
	r.drawRect(ctx, page.Background)
	if err := r.drawImage(ctx, page.Image); err != nil {
		return err
	}
	r.drawLine(ctx, page.Rule)
	if page.Note != nil {
		if err := r.drawTextBox(ctx, *page.Note, font); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawRect(ctx *canvas.Context, rc layout.Rect) {
	ctx.SetFillColor(colorFromLayout(rc.Fill))
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.DrawPath(toMm(rc.X), toMm(rc.Y), canvas.Rectangle(toMm(rc.Width), toMm(rc.Height)))
}

// drawLine 绘制分隔线
func (r *Renderer) drawLine(ctx *canvas.Context, ln layout.Line) {
	w := ln.Width
	if w <= 0 {
		w = defaultRuleWidth
	}
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeColor(colorFromLayout(ln.Color))
	ctx.SetStrokeWidth(toMm(w))
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(toMm(ln.X2-ln.X1), toMm(ln.Y2-ln.Y1))
	ctx.DrawPath(toMm(ln.X1), toMm(ln.Y1), p)
}

// drawImage 按原始宽高比把图片缩放进图片区域，锚定区域左下角。
func (r *Renderer) drawImage(ctx *canvas.Context, box layout.ImageBox) error {
	img, err := r.loadImage(box.Path)
	if err != nil {
		return err
	}
	w, h := fitImage(img.Bounds().Dx(), img.Bounds().Dy(), box.Width, box.Height)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("图片 %s 尺寸无效", box.Path)
	}
	dpmm := float64(img.Bounds().Dx()) / toMm(w)
	ctx.DrawImage(toMm(box.X), toMm(box.Y), img, canvas.DPMM(dpmm))
	return nil
}

func (r *Renderer) loadImage(orig string) (image.Image, error) {
	if orig == "" {
		return nil, fmt.Errorf("缺少幻灯片图片路径")
	}
	path := orig
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", orig, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", orig, err)
	}
	return img, nil
}

// fitImage 返回 px 尺寸的图片在 boxW×boxH（pt）内保持宽高比的最大绘制尺寸。
func fitImage(px, py int, boxW, boxH float64) (float64, float64) {
	if px <= 0 || py <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0
	}
	scale := min(boxW/float64(px), boxH/float64(py))
	return float64(px) * scale, float64(py) * scale
}

// drawTextBox 自备注区顶部向下逐行绘制，行间距固定为 Leading。
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, font layout.FontResource) error {
	face, err := r.fontFace(font, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}
	ascent := toPt(face.Metrics().Ascent)
	for i, line := range tb.Lines {
		if line.Content == "" {
			continue
		}
		baseline := tb.Top - ascent - float64(i)*tb.Leading
		ctx.DrawText(toMm(tb.X), toMm(baseline), canvas.NewTextLine(face, line.Content, canvas.Left))
	}
	return nil
}

func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), parseFontStyle(font.Style), canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, error) {
	if len(font.Data) == 0 {
		return r.fallback()
	}
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, nil
	}
	name := font.Name
	if name == "" {
		name = "Notes"
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(font.Data, 0, parseFontStyle(font.Style)); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", font.Src, err)
	}
	r.fontFamilies[key] = family
	return family, nil
}

func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	res, err := fonts.Load(fonts.Default, "")
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("notes-fallback")
	if err := family.LoadFont(res.Data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载后备字体失败: %w", err)
	}
	r.fallbackFamily = family
	return family, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s|%d", font.Name, font.Src, font.Style, len(font.Data))
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
