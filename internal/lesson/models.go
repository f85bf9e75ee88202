package lesson

type Lesson struct {
	ID                int    `json:"id"`
	LessonNumber      int    `json:"lesson_number"`
	LessonTitle       string `json:"lesson_title"`
	LessonDescription string `json:"lesson_description,omitempty"`
	VideoURL          string `json:"video_url,omitempty"`
	QuestionCount     int    `json:"question_count"`
}
