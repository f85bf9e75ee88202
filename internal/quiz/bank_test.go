package quiz

import "testing"

func TestLocalBanksLoad(t *testing.T) {
	for lessonID := 1; lessonID <= 6; lessonID++ {
		qs, ok, err := LocalBank(lessonID)
		if err != nil {
			t.Fatalf("lesson %d: %v", lessonID, err)
		}
		if !ok {
			t.Fatalf("lesson %d: no embedded bank", lessonID)
		}
		if len(qs) == 0 {
			t.Fatalf("lesson %d: empty bank", lessonID)
		}
		for _, q := range qs {
			if q.Text == "" {
				t.Errorf("lesson %d question %s: empty text", lessonID, q.ID)
			}
			if len(q.Options) < 2 {
				t.Errorf("lesson %d question %s: %d options", lessonID, q.ID, len(q.Options))
			}
			if q.Correct < 0 || q.Correct >= len(q.Options) {
				t.Errorf("lesson %d question %s: correct=%d out of range", lessonID, q.ID, q.Correct)
			}
			if q.CorrectUnresolved {
				t.Errorf("lesson %d question %s: correct answer unresolved", lessonID, q.ID)
			}
			if q.Kind == KindBoolean {
				if len(q.Options) != 2 {
					t.Errorf("lesson %d question %s: boolean with %d options", lessonID, q.ID, len(q.Options))
				}
			}
		}
	}
}

func TestLocalBankMissing(t *testing.T) {
	if _, ok, err := LocalBank(99); ok || err != nil {
		t.Fatalf("LocalBank(99) = ok=%v err=%v, want absent", ok, err)
	}
}

func TestParseQuestions(t *testing.T) {
	qs, err := ParseQuestions([]byte(`[{"question_text":"س","options":["أ","ب"],"correct_answer":"ب"}]`), 7)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(qs) != 1 || qs[0].Correct != 1 {
		t.Fatalf("got %+v", qs)
	}

	if _, err := ParseQuestions([]byte(`{not json`), 7); err == nil {
		t.Fatal("expected error on malformed payload")
	}
	if qs, err := ParseQuestions(nil, 7); err != nil || qs != nil {
		t.Fatalf("empty payload: %v %v", qs, err)
	}
}
