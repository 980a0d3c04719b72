package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// DebugReport 是写入调试 JSON 的内容：完整版面规划加上每页备注的占用情况。
type DebugReport struct {
	Result *Result     `json:"result"`
	Notes  []NoteUsage `json:"notes"`
}

// NoteUsage 描述单页备注占用的行数与剩余高度。Overflow 为 true 表示文本超出了备注区。
type NoteUsage struct {
	Page      int     `json:"page"`
	Lines     int     `json:"lines"`
	Height    float64 `json:"height"`
	Remaining float64 `json:"remaining"`
	Overflow  bool    `json:"overflow"`
}

// NewDebugReport 汇总每页备注在共享备注区中的占用。空备注记为 0 行。
func NewDebugReport(res *Result) DebugReport {
	report := DebugReport{Result: res}
	if res == nil {
		return report
	}
	available := res.Geometry.NoteHeight - 2*NotePadding
	for _, p := range res.Pages {
		usage := NoteUsage{Page: p.Index + 1, Remaining: available}
		if p.Note != nil {
			usage.Lines = len(p.Note.Lines)
			usage.Height = p.Note.Height()
			usage.Remaining = available - usage.Height
		}
		usage.Overflow = usage.Remaining < 0
		report.Notes = append(report.Notes, usage)
	}
	return report
}

// WriteDebugJSON 将版面规划与备注占用输出为 JSON，便于核对共享几何与折行结果。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(NewDebugReport(res), "", "  ")
	if err != nil {
		return fmt.Errorf("序列化版面规划失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
