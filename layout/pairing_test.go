package layout

import "testing"

func TestPairTruncatesToShorter(t *testing.T) {
	entries := Pair([]string{"i1", "i2", "i3"}, []string{"n1"})
	if len(entries) != 1 || entries[0] != (Entry{Image: "i1", Note: "n1"}) {
		t.Fatalf("期望仅 [(i1,n1)]，实际 %+v", entries)
	}
	if d := Mismatch([]string{"i1", "i2", "i3"}, []string{"n1"}); d != 2 {
		t.Fatalf("数量差期望 2，实际 %d", d)
	}
}

func TestPairSortsImagesWithoutMutatingInput(t *testing.T) {
	images := []string{"s/003.jpeg", "s/001.jpeg", "s/002.jpeg"}
	entries := Pair(images, []string{"a", "b", "c"})
	for i, want := range []string{"s/001.jpeg", "s/002.jpeg", "s/003.jpeg"} {
		if entries[i].Image != want {
			t.Fatalf("第 %d 项图片应为 %s，实际 %s", i, want, entries[i].Image)
		}
	}
	if images[0] != "s/003.jpeg" {
		t.Fatalf("Pair 不应修改调用方的切片")
	}
}

func TestFilterSkippedPreservesAlignment(t *testing.T) {
	got := FilterSkipped([]string{"n1", "n2", "n3"}, []bool{false, true, false})
	if len(got) != 2 || got[0] != "n1" || got[1] != "n3" {
		t.Fatalf("过滤结果应为 [n1 n3]，实际 %q", got)
	}
}

func TestFilterSkippedShortFlags(t *testing.T) {
	got := FilterSkipped([]string{"n1", "n2", "n3"}, []bool{true})
	if len(got) != 2 || got[0] != "n2" || got[1] != "n3" {
		t.Fatalf("缺失的标记应视为未跳过，实际 %q", got)
	}
}

func TestPairEmptyInputs(t *testing.T) {
	if entries := Pair(nil, []string{"a"}); len(entries) != 0 {
		t.Fatalf("没有图片时不应产生配对，实际 %+v", entries)
	}
}
