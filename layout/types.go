package layout

// 该文件定义布局结果与资源描述，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与尺寸均以 pt 为单位，原点位于页面左下角，y 轴向上。

// Result 保存整个文稿的版面规划：共享几何、逐页元素与文档元信息。
type Result struct {
	Geometry Geometry     `json:"geometry"`
	Font     FontResource `json:"font"`
	Pages    []Page       `json:"pages"`
	Meta     DocumentMeta `json:"meta"`
}

// Geometry 是整份文稿共享的画布尺寸，在绘制第一页之前一次性算出。
type Geometry struct {
	PageWidth   float64 `json:"pageWidth"`  // 画布宽度（= 幻灯片宽度）
	PageHeight  float64 `json:"pageHeight"` // 画布高度（= 幻灯片高度 + 备注区高度）
	SlideWidth  float64 `json:"slideWidth"`
	SlideHeight float64 `json:"slideHeight"`
	NoteHeight  float64 `json:"noteHeight"`
	NoteWidth   float64 `json:"noteWidth"`
	Tallest     int     `json:"tallest"` // 全部备注中最多的折行数
}

// FontResource 描述备注字体。Data 为已加载的字体字节，由 fonts 包显式初始化后传入，不做全局注册。
type FontResource struct {
	Name  string `json:"name"`
	Src   string `json:"src"`
	Style string `json:"style,omitempty"`
	Data  []byte `json:"-"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var (
	White = Color{R: 255, G: 255, B: 255}
	Black = Color{}
)

// Page 记录单页需要绘制的全部元素，绘制顺序为 Background → Image → Rule → Note。
type Page struct {
	Index      int      `json:"index"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Background Rect     `json:"background"`
	Image      ImageBox `json:"image"`
	Rule       Line     `json:"rule"`
	Note       *TextBox `json:"note,omitempty"` // 备注为空时不绘制文本，但页面仍保留备注区
}

// Rect 表示一个实心填充矩形。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   Color   `json:"fill"`
}

// ImageBox 是幻灯片图片可占用的区域，渲染时按原始宽高比缩放并锚定左下角。
type ImageBox struct {
	Path   string  `json:"path"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（pt），<=0 时由渲染器给默认值
}

// TextBox 表示一个已经排好坐标的备注文本块。X/Top 为首行顶部左端点。
type TextBox struct {
	Content  string     `json:"content"`
	X        float64    `json:"x"`
	Top      float64    `json:"top"`
	Width    float64    `json:"width"`
	FontSize float64    `json:"fontSize"`
	Leading  float64    `json:"leading"`
	Color    Color      `json:"color"`
	Lines    []TextLine `json:"lines"`
}

// TextLine 表示折行后的一行文本内容及其宽度（pt）。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
	Creator string `json:"creator"`
}
