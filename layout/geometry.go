package layout

import "fmt"

// NoteHeight 遍历整份文稿的全部备注，按 NoteWidth 折行后取最大行数 tallest，
// 返回 (tallest + 1) × leading + 2 × padding。多出的一行用于避免下行字母被裁切。
// 没有任何备注时 tallest 按 0 计算，得到最小备注区高度。
func NoteHeight(notes []string, opts Options, ts Typesetter) (float64, error) {
	tallest, err := tallestNote(notes, opts, ts)
	if err != nil {
		return 0, err
	}
	return noteHeightFor(tallest, opts), nil
}

// ComputeGeometry 计算整份文稿共享的画布尺寸。必须在绘制任何一页之前调用。
func ComputeGeometry(notes []string, opts Options, ts Typesetter) (Geometry, error) {
	if err := opts.Validate(); err != nil {
		return Geometry{}, err
	}
	tallest, err := tallestNote(notes, opts, ts)
	if err != nil {
		return Geometry{}, err
	}
	noteHeight := noteHeightFor(tallest, opts)
	return Geometry{
		PageWidth:   opts.PageWidth,
		PageHeight:  opts.PageHeight + noteHeight,
		SlideWidth:  opts.PageWidth,
		SlideHeight: opts.PageHeight,
		NoteHeight:  noteHeight,
		NoteWidth:   opts.NoteWidth(),
		Tallest:     tallest,
	}, nil
}

func tallestNote(notes []string, opts Options, ts Typesetter) (int, error) {
	if ts == nil {
		return 0, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	width := opts.NoteWidth()
	if width <= 0 {
		return 0, fmt.Errorf("%w: 备注宽度 %g 不可用", ErrInvalidOptions, width)
	}
	tallest := -1
	for i, n := range notes {
		lines, err := ts.LayoutLines(n, width, opts.Font, opts.FontSize)
		if err != nil {
			return 0, fmt.Errorf("测量第 %d 条备注失败: %w", i+1, err)
		}
		tallest = max(tallest, len(lines))
	}
	return max(tallest, 0), nil
}

func noteHeightFor(tallest int, opts Options) float64 {
	return float64(tallest+1)*opts.Leading + 2*opts.Padding
}
