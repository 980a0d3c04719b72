// Package source 定义幻灯片图片与演讲者备注的获取契约。
// 具体实现（Keynote 脚本桥接、离线备注文件）只需满足 (images, notes, skipped) 三元组。
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mcfunley/better-keynote-export/layout"
)

// ErrNoSlides 表示导出后找不到任何幻灯片图片。
var ErrNoSlides = errors.New("没有导出任何幻灯片图片")

// ImageExtensions 为收集幻灯片图片时识别的扩展名。
var ImageExtensions = []string{".jpeg", ".jpg", ".png", ".webp"}

// Deck 是一次获取的结果。Notes 与 Skipped 按幻灯片原始顺序对齐（包含被跳过的幻灯片），
// Images 只包含实际导出的图片。
type Deck struct {
	Images  []string
	Notes   []string
	Skipped []bool
	Title   string // 来源自带的标题，可为空
	Author  string // 来源自带的作者，可为空

	Warnings []string // 不影响导出的问题，由调用方记录日志
}

// VisibleNotes 返回去掉跳过幻灯片后的备注，与 Images 一一对应。
func (d *Deck) VisibleNotes() []string {
	return layout.FilterSkipped(d.Notes, d.Skipped)
}

// ExportOptions 是传给导出服务的配置。
type ExportOptions struct {
	Compression float64 // 0-1，图片压缩系数
	Format      string  // 固定为 JPEG
	AllStages   bool    // 是否导出每个构建阶段
}

// DefaultExportOptions 返回默认导出配置；skipBuilds 为 true 时不导出构建阶段。
func DefaultExportOptions(skipBuilds bool) ExportOptions {
	return ExportOptions{Compression: 0.9, Format: "JPEG", AllStages: !skipBuilds}
}

// Source 从演示文稿中获取幻灯片图片（写入 slidesDir）与备注。
type Source interface {
	Export(presentation, slidesDir string, opts ExportOptions) (*Deck, error)
}

// CollectImages 收集 dir 下的幻灯片图片并按路径升序返回。
func CollectImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取幻灯片目录 %s 失败: %w", dir, err)
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		images = append(images, filepath.Join(dir, e.Name()))
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSlides, dir)
	}
	sort.Strings(images)
	return images, nil
}

// ClearImages 删除 dir 下上一次导出遗留的幻灯片图片，其他文件与子目录保持不变。
// dir 不存在时视为已清空。
func ClearImages(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("读取幻灯片目录 %s 失败: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("清理旧幻灯片图片失败: %w", err)
		}
	}
	return nil
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// NormalizeNote 统一备注文本：NFC 规范化、CRLF/CR 转为 LF、去掉结尾空白。
// 脚本桥接返回的文本可能是分解形式（NFD），不规范化会让同一字符的宽度度量不一致。
func NormalizeNote(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimRight(norm.NFC.String(s), " \t\n")
}

// NormalizeNotes 对每条备注调用 NormalizeNote。
func NormalizeNotes(notes []string) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = NormalizeNote(n)
	}
	return out
}
