// Package keynote 通过 osascript 脚本桥接让 Keynote 导出幻灯片图片，并读取演讲者备注与跳过标记。
package keynote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/mcfunley/better-keynote-export/source"
)

// exportScript 以 JavaScript for Automation 编写，输出 {"notes": [...], "skipped": [...]}。
const exportScript = `function run(argv) {
  var keynote = Application("Keynote");
  var doc = keynote.open(Path(argv[0]));
  try {
    var slides = doc.slides();
    var notes = [], skipped = [];
    for (var i = 0; i < slides.length; i++) {
      notes.push(slides[i].presenterNotes() || "");
      skipped.push(slides[i].skipped());
    }
    keynote.export(doc, {
      to: Path(argv[1]),
      as: "slide images",
      withProperties: {
        imageFormat: argv[4],
        compressionFactor: parseFloat(argv[2]),
        allStages: argv[3] === "true",
        skippedSlides: false
      }
    });
    return JSON.stringify({notes: notes, skipped: skipped});
  } finally {
    doc.close({saving: "no"});
  }
}`

// Runner 执行外部命令并返回标准输出。测试中可替换为假实现。
type Runner func(name string, args ...string) ([]byte, error)

// Exporter 实现 source.Source。
type Exporter struct {
	Command string
	Run     Runner
}

var _ source.Source = (*Exporter)(nil)

// New 返回使用系统 osascript 的导出器。
func New() *Exporter {
	return &Exporter{Command: "osascript", Run: execRunner}
}

type scriptResult struct {
	Notes   []string `json:"notes"`
	Skipped []bool   `json:"skipped"`
}

// Export 打开演示文稿，导出幻灯片图片到 slidesDir，并返回备注与跳过标记。
func (e *Exporter) Export(presentation, slidesDir string, opts source.ExportOptions) (*source.Deck, error) {
	abs, err := filepath.Abs(presentation)
	if err != nil {
		return nil, fmt.Errorf("解析演示文稿路径失败: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("无法访问演示文稿 %s: %w", presentation, err)
	}
	if err := os.MkdirAll(slidesDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建幻灯片目录失败: %w", err)
	}
	// 只有本次导出的图片才能与备注配对
	if err := source.ClearImages(slidesDir); err != nil {
		return nil, err
	}
	run := e.Run
	if run == nil {
		run = execRunner
	}
	command := e.Command
	if command == "" {
		command = "osascript"
	}
	format := opts.Format
	if format == "" {
		format = "JPEG"
	}

	out, err := run(command, "-l", "JavaScript", "-e", exportScript,
		abs,
		slidesDir,
		strconv.FormatFloat(opts.Compression, 'f', -1, 64),
		strconv.FormatBool(opts.AllStages),
		format,
	)
	if err != nil {
		return nil, fmt.Errorf("Keynote 导出失败: %w", err)
	}

	var res scriptResult
	if err := json.Unmarshal(bytes.TrimSpace(out), &res); err != nil {
		return nil, fmt.Errorf("解析 Keynote 备注失败: %w", err)
	}
	if len(res.Skipped) != len(res.Notes) {
		return nil, fmt.Errorf("Keynote 返回的备注数 %d 与跳过标记数 %d 不一致", len(res.Notes), len(res.Skipped))
	}

	images, err := source.CollectImages(slidesDir)
	if err != nil {
		return nil, err
	}
	return &source.Deck{
		Images:  images,
		Notes:   source.NormalizeNotes(res.Notes),
		Skipped: res.Skipped,
	}, nil
}

func execRunner(name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("找不到 %s，Keynote 导出仅支持 macOS: %w", name, err)
	}
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w, output: %s", name, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out, nil
}
