package layout

import "sort"

// Entry 是一次渲染的单位：一张幻灯片图片及其备注。
type Entry struct {
	Image string `json:"image"`
	Note  string `json:"note"`
}

// FilterSkipped 去掉被标记为跳过的幻灯片对应的备注，保持其余备注的相对顺序。
// skipped 比 notes 短时，缺失的标记视为未跳过。
func FilterSkipped(notes []string, skipped []bool) []string {
	out := make([]string, 0, len(notes))
	for i, n := range notes {
		if i < len(skipped) && skipped[i] {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Pair 将按路径升序排序后的图片与备注逐一配对，长度取两者较短者。
// 传入的 images 不会被修改。
func Pair(images, notes []string) []Entry {
	sorted := append([]string(nil), images...)
	sort.Strings(sorted)

	n := min(len(sorted), len(notes))
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, Entry{Image: sorted[i], Note: notes[i]})
	}
	return entries
}

// Mismatch 返回图片数与备注数之差（图片多为正），用于在截断时给出提示。
func Mismatch(images, notes []string) int {
	return len(images) - len(notes)
}

// Notes 按顺序取出配对结果中的备注。
func Notes(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Note
	}
	return out
}
