package layout

import (
	"fmt"
)

const (
	ruleWidth = 1.0
	creator   = "better-keynote-export"
)

// Build 分两遍生成版面规划：第一遍遍历全部备注确定共享画布高度，
// 第二遍按幻灯片顺序为每个配对生成一页（背景、图片区域、分隔线、备注文本）。
func Build(entries []Entry, opts Options, bo BuildOptions) (*Result, error) {
	if bo.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	notes := bo.DeckNotes
	if notes == nil {
		notes = Notes(entries)
	}
	geo, err := ComputeGeometry(notes, opts, bo.Typesetter)
	if err != nil {
		return nil, err
	}

	pages := make([]Page, 0, len(entries))
	for i, entry := range entries {
		page, err := buildPage(i, entry, geo, opts, bo.Typesetter)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	return &Result{
		Geometry: geo,
		Font:     opts.Font,
		Pages:    pages,
		Meta: DocumentMeta{
			Title:   opts.Title,
			Author:  opts.Author,
			Subject: opts.Title,
			Creator: creator,
		},
	}, nil
}

func buildPage(index int, entry Entry, geo Geometry, opts Options, ts Typesetter) (Page, error) {
	page := Page{
		Index:  index,
		Width:  geo.PageWidth,
		Height: geo.PageHeight,
		// 整页铺满不透明背景，避免上一页内容透出
		Background: Rect{Width: geo.PageWidth, Height: geo.PageHeight, Fill: White},
		Image: ImageBox{
			Path:   entry.Image,
			X:      0,
			Y:      geo.NoteHeight,
			Width:  geo.SlideWidth,
			Height: geo.SlideHeight,
		},
		Rule: Line{
			X1:    0,
			Y1:    geo.NoteHeight,
			X2:    geo.PageWidth,
			Y2:    geo.NoteHeight,
			Color: Black,
			Width: ruleWidth,
		},
	}
	if entry.Note == "" {
		return page, nil
	}

	lines, err := ts.LayoutLines(entry.Note, geo.NoteWidth, opts.Font, opts.FontSize)
	if err != nil {
		return Page{}, fmt.Errorf("第 %d 页备注排版失败: %w", index+1, err)
	}
	page.Note = &TextBox{
		Content:  entry.Note,
		X:        opts.Padding,
		Top:      geo.NoteHeight - opts.Padding,
		Width:    geo.NoteWidth,
		FontSize: opts.FontSize,
		Leading:  opts.Leading,
		Color:    Black,
		Lines:    lines,
	}
	return page, nil
}

// Height 返回文本块占用的总高度（行数 × 行距）。
func (tb TextBox) Height() float64 {
	return float64(len(tb.Lines)) * tb.Leading
}
