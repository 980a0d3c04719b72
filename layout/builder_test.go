package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

// stubTypesetter 是一个最小实现，仅用于测试，避免引入 renderer 造成循环依赖。
// 每个字符宽度取 fontSize/2，与等宽字体的度量接近。
type stubTypesetter struct {
	calls int
}

func (s *stubTypesetter) LayoutLines(content string, width float64, font FontResource, fontSize float64) ([]TextLine, error) {
	s.calls++
	m := MeasureFunc(func(v string) float64 {
		return float64(utf8.RuneCountInString(v)) * fontSize / 2
	})
	return GreedyWrap(content, width, m), nil
}

type failingTypesetter struct{}

func (failingTypesetter) LayoutLines(string, float64, FontResource, float64) ([]TextLine, error) {
	return nil, fmt.Errorf("字体不可用")
}

func testOptions(t *testing.T) Options {
	t.Helper()
	opts, err := NewOptions(Config{PageSize: "1920x1080", FontSize: 36, Title: "Deck"})
	if err != nil {
		t.Fatalf("NewOptions 失败: %v", err)
	}
	return opts
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNoteHeightEmptyDeckIsMinimumPanel(t *testing.T) {
	opts := testOptions(t)
	want := 1*opts.Leading + 2*opts.Padding

	got, err := NoteHeight(nil, opts, &stubTypesetter{})
	if err != nil {
		t.Fatalf("NoteHeight 失败: %v", err)
	}
	if !approx(got, want) {
		t.Fatalf("空备注集合的高度期望 %g，实际 %g", want, got)
	}
}

// 全部为空备注时，每条备注按一行空行计，高度为 2 × leading + 2 × padding。
func TestNoteHeightAllBlankNotes(t *testing.T) {
	opts := testOptions(t)
	got, err := NoteHeight([]string{"", "", ""}, opts, &stubTypesetter{})
	if err != nil {
		t.Fatalf("NoteHeight 失败: %v", err)
	}
	if want := 2*opts.Leading + 2*opts.Padding; !approx(got, want) {
		t.Fatalf("空白备注高度期望 %g，实际 %g", want, got)
	}
}

func TestNoteHeightMonotonicInLongestNote(t *testing.T) {
	opts := testOptions(t)
	ts := &stubTypesetter{}
	prev := -1.0
	for lines := 0; lines < 8; lines++ {
		note := strings.Repeat("line\n", lines)
		got, err := NoteHeight([]string{"short", note, ""}, opts, ts)
		if err != nil {
			t.Fatalf("NoteHeight 失败: %v", err)
		}
		if got < prev {
			t.Fatalf("备注区高度不应随行数增加而减小: %d 行时 %g < %g", lines, got, prev)
		}
		prev = got
	}
}

func TestNoteHeightUsesWholeDeck(t *testing.T) {
	opts := testOptions(t)
	notes := []string{"a", "b\nc\nd", "e"}
	got, err := NoteHeight(notes, opts, &stubTypesetter{})
	if err != nil {
		t.Fatalf("NoteHeight 失败: %v", err)
	}
	if want := 4*opts.Leading + 2*opts.Padding; !approx(got, want) {
		t.Fatalf("高度应由最长的备注决定: 期望 %g，实际 %g", want, got)
	}
}

// 备注多于图片时，未配对的备注仍决定共享备注区高度。
func TestBuildMeasuresUnpairedNotes(t *testing.T) {
	opts := testOptions(t)
	deckNotes := []string{"a", "b\nc\nd\ne\nf"}
	entries := Pair([]string{"a.jpeg"}, deckNotes)
	if len(entries) != 1 {
		t.Fatalf("期望 1 个配对，实际 %d", len(entries))
	}

	res, err := Build(entries, opts, BuildOptions{Typesetter: &stubTypesetter{}, DeckNotes: deckNotes})
	if err != nil {
		t.Fatalf("Build 失败: %v", err)
	}
	if res.Geometry.Tallest != 5 {
		t.Fatalf("最长备注应为 5 行，实际 %d", res.Geometry.Tallest)
	}
	if want := 6*opts.Leading + 2*opts.Padding; !approx(res.Geometry.NoteHeight, want) {
		t.Fatalf("备注区高度期望 %g，实际 %g", want, res.Geometry.NoteHeight)
	}
	if len(res.Pages) != 1 || res.Pages[0].Height != res.Geometry.PageHeight {
		t.Fatalf("页面仍只按配对生成，实际 %d 页", len(res.Pages))
	}

	pairedOnly, err := Build(entries, opts, BuildOptions{Typesetter: &stubTypesetter{}})
	if err != nil {
		t.Fatalf("Build 失败: %v", err)
	}
	if pairedOnly.Geometry.Tallest != 1 {
		t.Fatalf("未提供 DeckNotes 时按配对备注计算，实际 %d", pairedOnly.Geometry.Tallest)
	}
}

func TestNoteHeightPropagatesMeasureError(t *testing.T) {
	opts := testOptions(t)
	if _, err := NoteHeight([]string{"x"}, opts, failingTypesetter{}); err == nil {
		t.Fatalf("排版失败时应返回错误")
	}
}

func TestComputeGeometryRejectsZeroWidth(t *testing.T) {
	opts := testOptions(t)
	opts.PageWidth = 0
	_, err := ComputeGeometry([]string{"x"}, opts, &stubTypesetter{})
	if !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("零宽页面应返回 ErrInvalidOptions，实际 %v", err)
	}
}

// 3 张幻灯片，备注 ["", "Hello\nWorld", 长文本]：三页共享同一高度，第一页备注区为空但高度不变。
func TestBuildThreeSlideScenario(t *testing.T) {
	opts := testOptions(t)
	long := strings.TrimSpace(strings.Repeat("xxxx ", 100))
	entries := Pair(
		[]string{"slides/c.jpeg", "slides/a.jpeg", "slides/b.jpeg"},
		[]string{"", "Hello\nWorld", long},
	)
	ts := &stubTypesetter{}

	res, err := Build(entries, opts, BuildOptions{Typesetter: ts})
	if err != nil {
		t.Fatalf("Build 失败: %v", err)
	}
	if len(res.Pages) != 3 {
		t.Fatalf("期望 3 页，实际 %d", len(res.Pages))
	}

	longLines := len(GreedyWrap(long, opts.NoteWidth(), MeasureFunc(func(v string) float64 {
		return float64(utf8.RuneCountInString(v)) * opts.FontSize / 2
	})))
	if longLines <= 2 {
		t.Fatalf("测试前提不成立：长备注应折成多于 2 行，实际 %d", longLines)
	}
	if res.Geometry.Tallest != longLines {
		t.Fatalf("tallest 应来自第三条备注: 期望 %d，实际 %d", longLines, res.Geometry.Tallest)
	}
	wantNote := float64(longLines+1)*opts.Leading + 2*opts.Padding
	if !approx(res.Geometry.NoteHeight, wantNote) {
		t.Fatalf("备注区高度期望 %g，实际 %g", wantNote, res.Geometry.NoteHeight)
	}

	for i, p := range res.Pages {
		if !approx(p.Height, opts.PageHeight+wantNote) || p.Width != opts.PageWidth {
			t.Fatalf("第 %d 页尺寸不一致: %gx%g", i+1, p.Width, p.Height)
		}
		if !approx(p.Rule.Y1, wantNote) || !approx(p.Image.Y, wantNote) {
			t.Fatalf("第 %d 页分隔线/图片应位于 y=%g", i+1, wantNote)
		}
		if p.Background.Width != p.Width || p.Background.Height != p.Height || p.Background.Fill != White {
			t.Fatalf("第 %d 页背景应铺满整页", i+1)
		}
	}

	wantOrder := []string{"slides/a.jpeg", "slides/b.jpeg", "slides/c.jpeg"}
	for i, p := range res.Pages {
		if p.Image.Path != wantOrder[i] {
			t.Fatalf("第 %d 页图片顺序错误: %s", i+1, p.Image.Path)
		}
	}

	if res.Pages[0].Note != nil {
		t.Fatalf("空备注页不应包含文本块")
	}
	second := res.Pages[1].Note
	if second == nil || len(second.Lines) != 2 || second.Lines[0].Content != "Hello" {
		t.Fatalf("第二页备注应折成 Hello/World 两行，实际 %+v", second)
	}
	if !approx(second.Top, wantNote-opts.Padding) || second.X != opts.Padding {
		t.Fatalf("备注文本应在分隔线下方内缩 padding，实际 x=%g top=%g", second.X, second.Top)
	}
	if second.Height() > wantNote-2*opts.Padding {
		t.Fatalf("备注文本高度 %g 超出备注区", second.Height())
	}
}

func TestBuildRequiresTypesetter(t *testing.T) {
	if _, err := Build(nil, testOptions(t), BuildOptions{}); err == nil {
		t.Fatalf("缺少 Typesetter 时应报错")
	}
}

func TestBuildCarriesMeta(t *testing.T) {
	opts := testOptions(t)
	opts.Author = "someone.bsky.social"
	res, err := Build([]Entry{{Image: "a.jpeg"}}, opts, BuildOptions{Typesetter: &stubTypesetter{}})
	if err != nil {
		t.Fatalf("Build 失败: %v", err)
	}
	if res.Meta.Title != "Deck" || res.Meta.Author != opts.Author || res.Meta.Creator == "" {
		t.Fatalf("文档元信息不完整: %+v", res.Meta)
	}
}
