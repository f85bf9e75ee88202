package quiz

import (
	"encoding/json"
	"testing"
)

func mustSource(t *testing.T, raw string) SourceQuestion {
	t.Helper()
	var s SourceQuestion
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("source decode: %v", err)
	}
	return s
}

func TestNormalizeAnswerOptions(t *testing.T) {
	src := mustSource(t, `{
		"id": 7,
		"question_text": "ما دالة الطباعة؟",
		"answerOptions": [
			{"text": "echo", "isCorrect": false},
			{"text": "print", "isCorrect": true},
			{"text": "write", "isCorrect": false}
		]
	}`)
	q := Normalize(src, 0)
	if q.ID != "7" {
		t.Errorf("id = %q, want 7", q.ID)
	}
	if q.Correct != 1 || q.Kind != KindMultiple || q.CorrectUnresolved {
		t.Errorf("got correct=%d kind=%s unresolved=%v", q.Correct, q.Kind, q.CorrectUnresolved)
	}
	if len(q.Options) != 3 || q.Options[1] != "print" {
		t.Errorf("options = %v", q.Options)
	}
}

func TestNormalizeAnswerOptionsBooleanHeuristic(t *testing.T) {
	src := mustSource(t, `{
		"question": "القوائم قابلة للتعديل",
		"answerOptions": [
			{"text": "صح، يمكن تعديلها", "is_correct": true},
			{"text": "خطأ، لا يمكن", "isCorrect": false}
		]
	}`)
	q := Normalize(src, 0)
	if q.Kind != KindBoolean {
		t.Errorf("kind = %s, want boolean", q.Kind)
	}
	if q.Correct != 0 {
		t.Errorf("correct = %d, want 0", q.Correct)
	}
}

func TestNormalizeAnswerDataBool(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want int
	}{
		{`{"text": "س1", "answer_data": {"correct_answer": true}}`, 0},
		{`{"text": "س2", "answer_data": {"correct_answer": false}}`, 1},
	} {
		q := Normalize(mustSource(t, tc.raw), 0)
		if q.Kind != KindBoolean || q.Correct != tc.want || q.CorrectUnresolved {
			t.Errorf("Normalize(%s): correct=%d kind=%s unresolved=%v, want correct=%d",
				tc.raw, q.Correct, q.Kind, q.CorrectUnresolved, tc.want)
		}
		if len(q.Options) != 2 || q.Options[0] != TokenTrue || q.Options[1] != TokenFalse {
			t.Errorf("options = %v, want canonical pair", q.Options)
		}
	}
}

func TestNormalizeAnswerDataString(t *testing.T) {
	src := mustSource(t, `{
		"question_text": "أي دالة تفتح ملفاً؟",
		"answer_data": {
			"options": ["open", "read", "close"],
			"correct_answer": "open"
		}
	}`)
	q := Normalize(src, 0)
	if q.Correct != 0 || q.Kind != KindMultiple || q.CorrectUnresolved {
		t.Errorf("got correct=%d kind=%s unresolved=%v", q.Correct, q.Kind, q.CorrectUnresolved)
	}
}

func TestNormalizeFlatMultiple(t *testing.T) {
	src := mustSource(t, `{"question_text": "2+2=؟", "options": ["3", "4"], "correct_answer": "4"}`)
	q := Normalize(src, 3)
	if q.ID != "3" {
		t.Errorf("fallback id = %q, want positional 3", q.ID)
	}
	if q.Correct != 1 || q.Kind != KindMultiple || q.CorrectUnresolved {
		t.Errorf("got correct=%d kind=%s unresolved=%v", q.Correct, q.Kind, q.CorrectUnresolved)
	}
}

func TestNormalizeFlatNumericCorrect(t *testing.T) {
	// A numeric correct value must compare equal to its string option.
	src := mustSource(t, `{"question_text": "كم عنصراً؟", "options": ["14", "15"], "correct": 14}`)
	q := Normalize(src, 0)
	if q.Correct != 0 || q.CorrectUnresolved {
		t.Errorf("got correct=%d unresolved=%v", q.Correct, q.CorrectUnresolved)
	}
}

func TestNormalizeFlatBoolean(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  string
		want int
	}{
		{"canonical pair with token answer", `{"text": "س", "options": ["صح", "خطأ"], "correct_answer": "صح"}`, 0},
		{"canonical pair with false answer", `{"text": "س", "options": ["صح", "خطأ"], "correct_answer": false}`, 1},
		{"true_false tag without options", `{"text": "س", "question_type": "true_false", "correct_answer": true}`, 0},
		{"true_false with index correct", `{"text": "س", "question_type": "true_false", "correct": "0"}`, 0},
		{"reversed canonical pair", `{"text": "س", "options": ["خطأ", "صح"], "correct": "صح"}`, 0},
	} {
		q := Normalize(mustSource(t, tc.raw), 0)
		if q.Kind != KindBoolean {
			t.Errorf("%s: kind = %s, want boolean", tc.name, q.Kind)
		}
		if q.Correct != tc.want || q.CorrectUnresolved {
			t.Errorf("%s: correct=%d unresolved=%v, want %d", tc.name, q.Correct, q.CorrectUnresolved, tc.want)
		}
		if len(q.Options) != 2 || q.Options[0] != TokenTrue || q.Options[1] != TokenFalse {
			t.Errorf("%s: options = %v", tc.name, q.Options)
		}
	}
}

func TestNormalizeUnresolved(t *testing.T) {
	src := mustSource(t, `{"question_text": "بدون إجابة", "options": ["أ", "ب"], "correct_answer": "ج"}`)
	q := Normalize(src, 0)
	if !q.CorrectUnresolved || q.Correct != 0 {
		t.Errorf("got correct=%d unresolved=%v, want 0/true", q.Correct, q.CorrectUnresolved)
	}
}

func TestNormalizeQuestionNumberID(t *testing.T) {
	src := mustSource(t, `{"questionNumber": 12, "question": "س", "options": ["أ"], "correct_answer": "أ"}`)
	if q := Normalize(src, 0); q.ID != "12" {
		t.Errorf("id = %q, want 12", q.ID)
	}
}

func TestRedacted(t *testing.T) {
	src := mustSource(t, `{"question_text": "س", "options": ["أ", "ب"], "correct_answer": "ب", "hint": "تلميح"}`)
	q := Normalize(src, 0)
	red := q.Redacted()
	if red.Correct != -1 || red.Raw != nil {
		t.Errorf("redacted leaks: correct=%d raw=%s", red.Correct, red.Raw)
	}
	if red.Hint != "تلميح" || red.Text != q.Text {
		t.Errorf("redaction dropped display fields")
	}
	if q.Correct != 1 || q.Raw == nil {
		t.Errorf("Redacted mutated the original")
	}
}
