// Package offline 从已导出的图片目录与备注文件构建 Deck，无需 Keynote。
//
// 备注文件有两种格式：扩展名为 .notes 的清单（见 dsl 包），或纯文本，
// 以单独一行的分隔符（默认 "---"）分隔每张幻灯片的备注。
package offline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcfunley/better-keynote-export/binding"
	"github.com/mcfunley/better-keynote-export/dsl"
	"github.com/mcfunley/better-keynote-export/source"
)

// DefaultSeparator 为纯文本备注文件的默认分隔行。
const DefaultSeparator = "---"

// Loader 实现 source.Source。Export 的 presentation 参数为备注文件路径。
type Loader struct {
	ImagesDir string
	Separator string
}

var _ source.Source = (*Loader)(nil)

// Export 读取备注文件，并把 ImagesDir 中的图片复制到 slidesDir。
// 图片已预先导出，因此 opts 中的压缩与构建阶段配置不起作用。
func (l *Loader) Export(notesPath, slidesDir string, _ source.ExportOptions) (*source.Deck, error) {
	deck, err := ReadNotes(notesPath, l.Separator)
	if err != nil {
		return nil, err
	}
	if l.ImagesDir == "" {
		return nil, fmt.Errorf("离线模式需要指定图片目录")
	}
	images, err := source.CollectImages(l.ImagesDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(slidesDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建幻灯片目录失败: %w", err)
	}
	copied, err := copyImages(images, slidesDir)
	if err != nil {
		return nil, err
	}
	deck.Images = copied
	return deck, nil
}

// ReadNotes 根据扩展名选择解析方式，返回只含备注与跳过标记的 Deck。
func ReadNotes(path, separator string) (*source.Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开备注文件 %s: %w", path, err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".notes") {
		doc, err := dsl.Parse(file)
		if err != nil {
			return nil, fmt.Errorf("解析备注清单失败: %w", err)
		}
		return FromManifest(doc)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("读取备注文件失败: %w", err)
	}
	notes := SplitNotes(string(data), separator)
	return &source.Deck{Notes: notes, Skipped: make([]bool, len(notes))}, nil
}

// SplitNotes 以单独成行的 separator 切分备注文本。
func SplitNotes(text, separator string) []string {
	if separator == "" {
		separator = DefaultSeparator
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var notes []string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == separator {
			notes = append(notes, strings.Join(current, "\n"))
			current = nil
			continue
		}
		current = append(current, line)
	}
	last := strings.Join(current, "\n")
	if strings.TrimSpace(last) != "" || len(notes) == 0 {
		notes = append(notes, last)
	}
	return source.NormalizeNotes(trimBlankEdges(notes))
}

func trimBlankEdges(notes []string) []string {
	for i, n := range notes {
		notes[i] = strings.Trim(n, "\n")
	}
	return notes
}

// FromManifest 把备注清单转换为 Deck。备注中的 ${title}、${author}、
// ${slide.number}、${slide.total} 会被替换；无法解析的占位符记入 Warnings。
func FromManifest(doc *dsl.Document) (*source.Deck, error) {
	if doc == nil {
		return nil, fmt.Errorf("备注清单为空")
	}
	deck := &source.Deck{}
	var slides []*dsl.SlideSection
	for _, sec := range doc.Sections {
		switch sec.Kind() {
		case "meta":
			meta := sec.Meta.Block.Assignments()
			deck.Title = meta["title"]
			deck.Author = meta["author"]
		case "slide":
			slides = append(slides, sec.Slide)
		}
	}

	for i, s := range slides {
		attrs := s.Block.Assignments()
		skip := s.HasFlag("skip") || strings.EqualFold(attrs["skip"], "true")
		data := binding.SlideContext(deck.Title, deck.Author, i+1, len(slides))
		note, missing := binding.Interpolate(strings.Join(s.Block.Texts(), "\n"), data)
		for _, m := range missing {
			deck.Warnings = append(deck.Warnings, fmt.Sprintf("第 %d 张幻灯片（第 %d 行）的占位符 ${%s} 无法解析", i+1, s.Pos.Line, m))
		}
		deck.Notes = append(deck.Notes, source.NormalizeNote(note))
		deck.Skipped = append(deck.Skipped, skip)
	}
	return deck, nil
}

func copyImages(images []string, dir string) ([]string, error) {
	out := make([]string, 0, len(images))
	for _, src := range images {
		dst := filepath.Join(dir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return nil, err
		}
		out = append(out, dst)
	}
	return out, nil
}

func copyFile(src, dst string) error {
	srcAbs, _ := filepath.Abs(src)
	dstAbs, _ := filepath.Abs(dst)
	if srcAbs == dstAbs {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("读取图片 %s 失败: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("写入图片 %s 失败: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("复制图片 %s 失败: %w", src, err)
	}
	return out.Close()
}
