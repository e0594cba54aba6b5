package models

// AnswerRecord is a snapshot of one answered question, captured at answer
// time. It survives later edits or deletion of the question it came from.
type AnswerRecord struct {
	QuestionID     string `bson:"question_id" json:"question_id"`
	QuestionText   string `bson:"question" json:"question"`
	SelectedAnswer string `bson:"selected_answer" json:"selected_answer"`
	CorrectAnswer  string `bson:"correct_answer" json:"correct_answer"`
	IsCorrect      bool   `bson:"is_correct" json:"is_correct"`
	Explanation    string `bson:"explanation" json:"explanation"`
}

// ProgressEntry is the persisted outcome of one completed quiz run. A retake
// replaces the prior entry wholesale; there is no merging.
//
// QuestionIDs records which questions the completed run covered. The
// already-completed check compares this set against the quiz's current
// questions, so an admin edit to the quiz re-opens it for the student.
type ProgressEntry struct {
	UserID      string         `bson:"user_id" json:"user_id"`
	QuizName    string         `bson:"quiz_name" json:"quiz_name"`
	Score       int            `bson:"score" json:"score"`
	Total       int            `bson:"total" json:"total"`
	Attempted   bool           `bson:"attempted" json:"attempted"`
	QuestionIDs []string       `bson:"question_ids" json:"question_ids"`
	AnswersLog  []AnswerRecord `bson:"answers_log" json:"answers_log"`
}

// Accuracy is score over total as a percentage, zero when total is zero.
func (p ProgressEntry) Accuracy() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Score) / float64(p.Total) * 100
}

// CoversQuestions reports whether the entry was recorded against exactly the
// given question-id set, order-insensitive.
func (p ProgressEntry) CoversQuestions(ids []string) bool {
	if len(p.QuestionIDs) != len(ids) {
		return false
	}
	seen := make(map[string]int, len(ids))
	for _, id := range p.QuestionIDs {
		seen[id]++
	}
	for _, id := range ids {
		seen[id]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}
