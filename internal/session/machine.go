package session

import (
	"errors"

	"quiz-platform/internal/models"
)

// State of one quiz attempt. Sessions start in StateInProgress (selection is
// handled by the Manager), alternate with StateAwaitingNext per question, and
// end at StateSaved once the progress write has succeeded.
type State string

const (
	StateInProgress   State = "in_progress"
	StateAwaitingNext State = "awaiting_next"
	StateCompleted    State = "completed"
	StateSaved        State = "saved"
)

var (
	ErrNoSelection     = errors.New("an answer must be selected before submitting")
	ErrAwaitingAdvance = errors.New("answer already submitted, advance to the next question")
	ErrNotAwaiting     = errors.New("no submitted answer to advance from")
	ErrFinished        = errors.New("session is already completed")
)

// Session is the transient state of one student working through one quiz.
// It is never persisted; abandoning it mid-run simply discards it. Questions
// are snapshotted at start, so catalog edits don't shift the running attempt.
type Session struct {
	UserID    string
	QuizName  string
	Questions []models.Question

	Index          int
	Score          int
	AttemptedCount int
	Answers        []models.AnswerRecord
	Selected       string
	State          State
}

func newSession(userID string, quiz models.Quiz) *Session {
	return &Session{
		UserID:    userID,
		QuizName:  quiz.Name,
		Questions: quiz.Questions,
		State:     StateInProgress,
	}
}

// Current returns the question being presented, ok=false once the session
// has moved past the last question.
func (s *Session) Current() (models.Question, bool) {
	if s.Index >= len(s.Questions) {
		return models.Question{}, false
	}
	return s.Questions[s.Index], true
}

// SubmitAnswer grades the selection against the current question. Exact
// string equality; no case or whitespace normalization. Submitting is
// terminal for the question: it cannot be undone or repeated.
func (s *Session) SubmitAnswer(selected string) (models.AnswerRecord, error) {
	switch s.State {
	case StateAwaitingNext:
		return models.AnswerRecord{}, ErrAwaitingAdvance
	case StateCompleted, StateSaved:
		return models.AnswerRecord{}, ErrFinished
	}
	if selected == "" {
		return models.AnswerRecord{}, ErrNoSelection
	}
	question, ok := s.Current()
	if !ok {
		return models.AnswerRecord{}, ErrFinished
	}

	s.AttemptedCount++
	record := models.AnswerRecord{
		QuestionID:     question.ID,
		QuestionText:   question.Text,
		SelectedAnswer: selected,
		CorrectAnswer:  question.CorrectOption,
		IsCorrect:      selected == question.CorrectOption,
		Explanation:    question.Explanation,
	}
	if record.IsCorrect {
		s.Score++
	}
	s.Answers = append(s.Answers, record)
	s.Selected = selected
	s.State = StateAwaitingNext
	return record, nil
}

// Advance moves past the answered question, entering StateCompleted after
// the last one.
func (s *Session) Advance() error {
	switch s.State {
	case StateCompleted, StateSaved:
		return ErrFinished
	case StateInProgress:
		return ErrNotAwaiting
	}
	s.Index++
	s.Selected = ""
	if s.Index >= len(s.Questions) {
		s.State = StateCompleted
	} else {
		s.State = StateInProgress
	}
	return nil
}

// Completed reports whether all questions have been answered and advanced
// past, whether or not the result has been saved yet.
func (s *Session) Completed() bool {
	return s.State == StateCompleted || s.State == StateSaved
}

// Accuracy is score over attempted count as a percentage. Zero attempts
// yield 0, not a division fault.
func (s *Session) Accuracy() float64 {
	if s.AttemptedCount == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.AttemptedCount) * 100
}

// Result builds the ledger entry for a completed session. Total is the
// number of questions in the snapshot, and the covered question ids are
// recorded so later catalog edits re-open the quiz.
func (s *Session) Result() models.ProgressEntry {
	ids := make([]string, 0, len(s.Questions))
	for _, q := range s.Questions {
		ids = append(ids, q.ID)
	}
	answers := make([]models.AnswerRecord, len(s.Answers))
	copy(answers, s.Answers)
	return models.ProgressEntry{
		UserID:      s.UserID,
		QuizName:    s.QuizName,
		Score:       s.Score,
		Total:       len(s.Questions),
		Attempted:   true,
		QuestionIDs: ids,
		AnswersLog:  answers,
	}
}
