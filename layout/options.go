package layout

import (
	"errors"
	"fmt"
)

// NotePadding 为备注区四周的固定内边距（pt）。
const NotePadding = 10.0

// ErrInvalidOptions 表示版面配置不可用（例如页面宽度不足以容纳备注）。
var ErrInvalidOptions = errors.New("版面配置无效")

// Options 是一次导出运行的不可变配置快照，由 NewOptions 构造后在几何计算与渲染之间按值共享。
type Options struct {
	PageWidth  float64
	PageHeight float64
	FontSize   float64
	Leading    float64
	Padding    float64
	Font       FontResource
	Title      string
	Author     string
	SkipBuilds bool
}

// Config 是构造 Options 所需的原始输入，通常来自命令行。
type Config struct {
	PageSize   string // WIDTHxHEIGHT
	FontSize   float64
	Leading    string // 为空时取 1.2 × 字号
	Font       FontResource
	Title      string
	Author     string
	SkipBuilds bool
}

// NewOptions 校验配置并一次性推导出 leading/padding，返回的 Options 之后不应再被修改。
func NewOptions(cfg Config) (Options, error) {
	w, h, err := ParsePageSize(cfg.PageSize)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if cfg.FontSize <= 0 {
		return Options{}, fmt.Errorf("%w: 字号必须为正数，当前 %g", ErrInvalidOptions, cfg.FontSize)
	}
	lh, err := ParseLineHeight(cfg.Leading)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	opts := Options{
		PageWidth:  w,
		PageHeight: h,
		FontSize:   cfg.FontSize,
		Leading:    lh.Resolve(cfg.FontSize),
		Padding:    NotePadding,
		Font:       cfg.Font,
		Title:      cfg.Title,
		Author:     cfg.Author,
		SkipBuilds: cfg.SkipBuilds,
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate 检查页面几何是否可用，避免生成退化画布。
func (o Options) Validate() error {
	if o.PageWidth <= 0 || o.PageHeight <= 0 {
		return fmt.Errorf("%w: 页面尺寸必须为正数，当前 %gx%g", ErrInvalidOptions, o.PageWidth, o.PageHeight)
	}
	if o.FontSize <= 0 || o.Leading <= 0 {
		return fmt.Errorf("%w: 字号与行距必须为正数", ErrInvalidOptions)
	}
	if o.Padding < 0 {
		return fmt.Errorf("%w: 内边距不能为负数", ErrInvalidOptions)
	}
	if o.NoteWidth() <= 0 {
		return fmt.Errorf("%w: 页面宽度 %g 不足以容纳两侧 %g 的内边距", ErrInvalidOptions, o.PageWidth, o.Padding)
	}
	return nil
}

// NoteWidth 为备注文本的可用宽度（页面宽度减去左右内边距）。
func (o Options) NoteWidth() float64 { return o.PageWidth - 2*o.Padding }

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
	// DeckNotes 是整份文稿去掉跳过幻灯片后的全部备注，用于确定共享备注区高度。
	// 备注多于图片时，未配对的备注同样参与计算；为 nil 时退回到 entries 中的备注。
	DeckNotes []string
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64) ([]TextLine, error)
}

// WithMeta 返回替换了标题与作者的副本，原值不变。
func (o Options) WithMeta(title, author string) Options {
	o.Title = title
	o.Author = author
	return o
}
