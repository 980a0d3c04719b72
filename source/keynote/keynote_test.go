package keynote

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcfunley/better-keynote-export/source"
)

// fakeKeynote 模拟 osascript：把图片写入导出目录并返回备注 JSON。
func fakeKeynote(t *testing.T, images []string, output string, gotArgs *[]string) Runner {
	return func(name string, args ...string) ([]byte, error) {
		*gotArgs = append([]string{name}, args...)
		dir := args[5]
		for _, img := range images {
			if err := os.WriteFile(filepath.Join(dir, img), []byte("jpeg"), 0o644); err != nil {
				t.Fatalf("写入图片失败: %v", err)
			}
		}
		return []byte(output), nil
	}
}

func presentation(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.key")
	if err := os.WriteFile(path, []byte("key"), 0o644); err != nil {
		t.Fatalf("写入演示文稿失败: %v", err)
	}
	return path
}

func TestExportReadsNotesAndSkipFlags(t *testing.T) {
	slides := filepath.Join(t.TempDir(), "slides")
	var args []string
	e := &Exporter{Command: "osascript", Run: fakeKeynote(t,
		[]string{"deck.002.jpeg", "deck.001.jpeg"},
		`{"notes":["n1","n2","n3"],"skipped":[false,true,false]}`+"\n",
		&args,
	)}

	deck, err := e.Export(presentation(t), slides, source.DefaultExportOptions(true))
	if err != nil {
		t.Fatalf("Export 失败: %v", err)
	}
	if len(deck.Images) != 2 || filepath.Base(deck.Images[0]) != "deck.001.jpeg" {
		t.Fatalf("图片应按路径排序，实际 %q", deck.Images)
	}
	if got := deck.VisibleNotes(); len(got) != 2 || got[0] != "n1" || got[1] != "n3" {
		t.Fatalf("可见备注应为 [n1 n3]，实际 %q", got)
	}
	if args[0] != "osascript" || args[1] != "-l" || args[2] != "JavaScript" {
		t.Fatalf("命令参数不符: %q", args[:3])
	}
	if strings.Join(args[7:], " ") != "0.9 false JPEG" {
		t.Fatalf("导出配置未正确传递: %q", args[7:])
	}
}

func TestExportMissingPresentation(t *testing.T) {
	e := &Exporter{Run: func(string, ...string) ([]byte, error) {
		t.Fatalf("不应调用外部命令")
		return nil, nil
	}}
	if _, err := e.Export(filepath.Join(t.TempDir(), "nope.key"), t.TempDir(), source.DefaultExportOptions(false)); err == nil {
		t.Fatalf("演示文稿不存在时应报错")
	}
}

func TestExportPropagatesScriptFailure(t *testing.T) {
	e := &Exporter{Run: func(string, ...string) ([]byte, error) {
		return nil, errors.New("Keynote got an error")
	}}
	if _, err := e.Export(presentation(t), t.TempDir(), source.DefaultExportOptions(false)); err == nil {
		t.Fatalf("脚本失败时应报错")
	}
}

func TestExportRejectsMisalignedFlags(t *testing.T) {
	var args []string
	e := &Exporter{Run: fakeKeynote(t, []string{"a.jpeg"}, `{"notes":["a","b"],"skipped":[false]}`, &args)}
	if _, err := e.Export(presentation(t), t.TempDir(), source.DefaultExportOptions(false)); err == nil {
		t.Fatalf("备注与跳过标记数量不一致时应报错")
	}
}

func TestExportWithoutImages(t *testing.T) {
	var args []string
	e := &Exporter{Run: fakeKeynote(t, nil, `{"notes":[],"skipped":[]}`, &args)}
	_, err := e.Export(presentation(t), t.TempDir(), source.DefaultExportOptions(false))
	if !errors.Is(err, source.ErrNoSlides) {
		t.Fatalf("没有图片时应返回 ErrNoSlides，实际 %v", err)
	}
}

func TestExportIgnoresImagesFromPreviousRun(t *testing.T) {
	slides := filepath.Join(t.TempDir(), "slides")
	if err := os.MkdirAll(slides, 0o755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	// 上一次带构建阶段的导出留下了更多帧
	for _, name := range []string{"deck.001.jpeg", "deck.002.jpeg", "deck.003.jpeg"} {
		if err := os.WriteFile(filepath.Join(slides, name), []byte("old"), 0o644); err != nil {
			t.Fatalf("写入旧图片失败: %v", err)
		}
	}
	var args []string
	e := &Exporter{Run: fakeKeynote(t,
		[]string{"deck.001.jpeg"},
		`{"notes":["only"],"skipped":[false]}`,
		&args,
	)}
	deck, err := e.Export(presentation(t), slides, source.DefaultExportOptions(true))
	if err != nil {
		t.Fatalf("Export 失败: %v", err)
	}
	if len(deck.Images) != 1 || filepath.Base(deck.Images[0]) != "deck.001.jpeg" {
		t.Fatalf("只应收集本次导出的图片，实际 %q", deck.Images)
	}
	data, err := os.ReadFile(deck.Images[0])
	if err != nil || string(data) != "jpeg" {
		t.Fatalf("图片应为本次导出的内容: %q %v", data, err)
	}
}
