package chat

import (
	"strings"
	"testing"
)

func TestEndsTerminated(t *testing.T) {
	for _, tc := range []struct {
		s    string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"جملة كاملة.", true},
		{"هل فهمت؟", true},
		{"رائع!", true},
		{"يتبع…", true},
		{"جملة مقطوعة", false},
		{"تنتهي بنقطة.  \n", true},
		{"نقطة في الوسط. ثم كلام", false},
	} {
		if got := EndsTerminated(tc.s); got != tc.want {
			t.Errorf("EndsTerminated(%q) = %v, want %v", tc.s, got, tc.want)
		}
	}
}

func TestCutAtSentenceShortText(t *testing.T) {
	head, tail := CutAtSentence("قصير.", 100)
	if head != "قصير." || tail != "" {
		t.Fatalf("got %q / %q", head, tail)
	}
}

func TestCutAtSentencePrefersTerminal(t *testing.T) {
	text := "الأولى. الثانية. الثالثة بلا نهاية"
	head, tail := CutAtSentence(text, runeLen("الأولى. الثانية. الثال"))
	if head != "الأولى. الثانية." {
		t.Fatalf("head = %q", head)
	}
	if head+tail != text {
		t.Fatalf("round trip broken: %q + %q", head, tail)
	}
}

func TestCutAtSentenceNewlineFallback(t *testing.T) {
	text := "سطر أول بلا نقطة\nسطر ثانٍ طويل جداً"
	head, tail := CutAtSentence(text, runeLen(text)-3)
	if !strings.HasSuffix(head, "\n") {
		t.Fatalf("head = %q, want newline cut", head)
	}
	if head+tail != text {
		t.Fatalf("round trip broken")
	}
}

func TestCutAtSentenceSpaceFallback(t *testing.T) {
	text := "كلمات بلا أي علامة وقف هنا"
	head, tail := CutAtSentence(text, runeLen(text)-2)
	if strings.HasSuffix(head, " ") {
		t.Fatalf("head keeps trailing space: %q", head)
	}
	if !strings.HasPrefix(tail, " ") {
		t.Fatalf("tail lost the space: %q", tail)
	}
	if head+tail != text {
		t.Fatalf("round trip broken")
	}
}

func TestCutAtSentenceHardCut(t *testing.T) {
	text := strings.Repeat("ب", 50)
	head, tail := CutAtSentence(text, 30)
	if runeLen(head) != 30 || head+tail != text {
		t.Fatalf("hard cut: head=%d runes", runeLen(head))
	}
}

func TestCutAtSentenceRoundTrip(t *testing.T) {
	texts := []string{
		"جملة. أخرى. ثم ثالثة بلا نقطة نهائية",
		"سطر\nسطر آخر\nثالث",
		strings.Repeat("كلمة ", 100),
		strings.Repeat("x", 10),
	}
	for _, text := range texts {
		for max := 1; max <= runeLen(text)+1; max++ {
			head, tail := CutAtSentence(text, max)
			if head+tail != text {
				t.Fatalf("round trip broken for max=%d on %q", max, text[:20])
			}
			if runeLen(head) > max {
				t.Fatalf("head exceeds window: max=%d len=%d", max, runeLen(head))
			}
		}
	}
}
