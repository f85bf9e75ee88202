package quiz

import (
	"embed"
	"encoding/json"
	"fmt"
	"log"
)

// The first six lessons ship with local question banks; later lessons keep
// their questions in the lessons table. The files intentionally preserve the
// bank shapes they were authored in, so Normalize sees real variety.
//
//go:embed bank/lesson_*.json
var bankFS embed.FS

type bankFile struct {
	UnitTitle string           `json:"unit_title"`
	Questions []SourceQuestion `json:"questions"`
}

// LocalBank returns the normalized question set for a lesson's embedded
// bank, or ok=false when the lesson has no local bank.
func LocalBank(lessonID int) (qs []Question, ok bool, err error) {
	data, ferr := bankFS.ReadFile(fmt.Sprintf("bank/lesson_%d.json", lessonID))
	if ferr != nil {
		return nil, false, nil
	}
	var bf bankFile
	if err := json.Unmarshal(data, &bf); err != nil {
		return nil, false, fmt.Errorf("lesson %d bank: %w", lessonID, err)
	}
	return normalizeAndWarn(bf.Questions, lessonID), true, nil
}

// ParseQuestions normalizes a bare JSON array of source records, as stored
// in lessons.questions_json.
func ParseQuestions(data []byte, lessonID int) ([]Question, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var srcs []SourceQuestion
	if err := json.Unmarshal(data, &srcs); err != nil {
		return nil, fmt.Errorf("lesson %d questions_json: %w", lessonID, err)
	}
	return normalizeAndWarn(srcs, lessonID), nil
}

func normalizeAndWarn(srcs []SourceQuestion, lessonID int) []Question {
	qs := NormalizeAll(srcs)
	for _, q := range qs {
		if q.CorrectUnresolved {
			log.Printf("quiz: lesson %d question %s has no resolvable correct answer, defaulting to option 0", lessonID, q.ID)
		}
	}
	return qs
}
