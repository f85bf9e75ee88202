package quiz

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SourceQuestion decodes any of the question-bank shapes that accumulated
// over the lessons: an explicit answerOptions list, a structured answer_data
// block, or flat options/correct fields. Field names are legacy and must not
// be renamed; Normalize reconciles them into one Question.
type SourceQuestion struct {
	ID             json.RawMessage `json:"id"`
	QuestionNumber json.RawMessage `json:"questionNumber"`

	QuestionText string `json:"question_text"`
	QuestionAlt  string `json:"question"`
	TextAlt      string `json:"text"`

	QuestionType string `json:"question_type"` // "true_false" in lesson-3 era banks
	Type         string `json:"type"`          // "boolean" | "multiple"

	AnswerOptions []answerOption `json:"answerOptions"`
	AnswerData    *answerData    `json:"answer_data"`

	Options     []json.RawMessage `json:"options"`
	OptionsList []json.RawMessage `json:"options_list"`

	CorrectAnswer json.RawMessage `json:"correct_answer"`
	Correct       json.RawMessage `json:"correct"`

	Hint      string          `json:"hint"`
	Rationale json.RawMessage `json:"rationale"`

	raw json.RawMessage
}

type answerOption struct {
	Text         json.RawMessage `json:"text"`
	IsCorrect    bool            `json:"isCorrect"`
	IsCorrectAlt bool            `json:"is_correct"`
}

func (o answerOption) correct() bool { return o.IsCorrect || o.IsCorrectAlt }

type answerData struct {
	Options       []json.RawMessage `json:"options"`
	CorrectAnswer json.RawMessage   `json:"correct_answer"`
}

func (s *SourceQuestion) UnmarshalJSON(b []byte) error {
	type plain SourceQuestion
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = SourceQuestion(p)
	s.raw = append(json.RawMessage(nil), b...)
	return nil
}

// Normalize maps one source record to its canonical form. Pure and
// deterministic: no I/O, same input always yields the same output, never
// errors. idx is the record's position in its bank and backs the id when the
// source has none. An unresolvable correct answer defaults to index 0 and
// sets CorrectUnresolved instead of failing.
func Normalize(src SourceQuestion, idx int) Question {
	q := Question{
		ID:        sourceID(src, idx),
		Text:      firstNonEmpty(src.QuestionText, src.QuestionAlt, src.TextAlt),
		Hint:      src.Hint,
		Rationale: src.Rationale,
		Raw:       src.raw,
	}

	boolKind := src.QuestionType == "true_false" || src.Type == "boolean"
	resolved := false

	switch {
	case len(src.AnswerOptions) > 0:
		opts := make([]string, len(src.AnswerOptions))
		for i, ao := range src.AnswerOptions {
			opts[i] = scalarString(ao.Text)
		}
		q.Options = opts
		for i, ao := range src.AnswerOptions {
			if ao.correct() {
				q.Correct = i
				resolved = true
				break
			}
		}
		if looksLikeBooleanPair(opts) {
			boolKind = true
		}

	case src.AnswerData != nil:
		opts := scalarStrings(src.AnswerData.Options)
		switch v := decodeScalar(src.AnswerData.CorrectAnswer).(type) {
		case bool:
			q.Options = []string{TokenTrue, TokenFalse}
			if !v {
				q.Correct = 1
			}
			resolved = true
			boolKind = true
		case string:
			q.Options = opts
			for i, o := range opts {
				if o == v {
					q.Correct = i
					resolved = true
					break
				}
			}
		default:
			q.Options = opts
		}

	default:
		opts := scalarStrings(src.Options)
		if len(opts) == 0 {
			opts = scalarStrings(src.OptionsList)
		}
		if boolKind || isCanonicalPair(opts) {
			boolKind = true
			q.Options = []string{TokenTrue, TokenFalse}
			if isJSONTrue(src.CorrectAnswer) || scalarString(src.CorrectAnswer) == TokenTrue ||
				scalarString(src.Correct) == "0" || scalarString(src.Correct) == TokenTrue {
				q.Correct = 0
			} else {
				q.Correct = 1
			}
			resolved = true
		} else {
			q.Options = opts
			want := scalarString(src.CorrectAnswer)
			if want == "" {
				want = scalarString(src.Correct)
			}
			if want != "" {
				for i, o := range opts {
					if o == want {
						q.Correct = i
						resolved = true
						break
					}
				}
			}
		}
	}

	if boolKind {
		q.Kind = KindBoolean
	} else {
		q.Kind = KindMultiple
	}
	q.CorrectUnresolved = !resolved
	return q
}

// NormalizeAll normalizes a whole bank, assigning positional fallback ids.
func NormalizeAll(srcs []SourceQuestion) []Question {
	out := make([]Question, len(srcs))
	for i, s := range srcs {
		out[i] = Normalize(s, i)
	}
	return out
}

func sourceID(src SourceQuestion, idx int) string {
	if s := scalarString(src.ID); s != "" {
		return s
	}
	if s := scalarString(src.QuestionNumber); s != "" {
		return s
	}
	return strconv.Itoa(idx)
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// isCanonicalPair reports whether opts is exactly the two canonical boolean
// tokens, in either order. This is the implicit true/false convention of the
// flat bank shape.
func isCanonicalPair(opts []string) bool {
	if len(opts) != 2 {
		return false
	}
	for _, o := range opts {
		if o != TokenTrue && o != TokenFalse {
			return false
		}
	}
	return opts[0] != opts[1]
}

// looksLikeBooleanPair is the looser heuristic the explicit-option shape
// uses: two options whose texts each mention a canonical token.
func looksLikeBooleanPair(opts []string) bool {
	if len(opts) != 2 {
		return false
	}
	for _, o := range opts {
		if !strings.Contains(o, TokenTrue) && !strings.Contains(o, TokenFalse) {
			return false
		}
	}
	return true
}

func decodeScalar(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// scalarString renders a JSON scalar the way the banks compare option
// values: strings verbatim, numbers without a trailing ".0".
func scalarString(raw json.RawMessage) string {
	switch v := decodeScalar(raw).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func scalarStrings(raws []json.RawMessage) []string {
	if len(raws) == 0 {
		return nil
	}
	out := make([]string, len(raws))
	for i, r := range raws {
		out[i] = scalarString(r)
	}
	return out
}

func isJSONTrue(raw json.RawMessage) bool {
	b, ok := decodeScalar(raw).(bool)
	return ok && b
}
