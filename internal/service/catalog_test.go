package service

import (
	"context"
	"errors"
	"testing"

	"quiz-platform/internal/models"
	"quiz-platform/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return st
}

func validQuestion() QuestionInput {
	return QuestionInput{
		Text:          "What does gofmt do?",
		Options:       []string{"Formats code", "Runs tests", "Builds binaries"},
		CorrectOption: "Formats code",
		Explanation:   "gofmt rewrites source files into the canonical format.",
	}
}

func TestCreateQuiz(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(newTestStore(t))

	if err := svc.CreateQuiz(ctx, "Networking"); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	quiz, err := svc.GetQuiz(ctx, "Networking")
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if len(quiz.Questions) != 0 {
		t.Errorf("new quiz has %d questions, want 0", len(quiz.Questions))
	}

	if err := svc.CreateQuiz(ctx, "Networking"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate create err = %v, want ErrDuplicateName", err)
	}
	if err := svc.CreateQuiz(ctx, ""); !IsValidation(err) {
		t.Errorf("empty name err = %v, want a validation error", err)
	}
}

func TestAddQuestionValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(newTestStore(t))
	if err := svc.CreateQuiz(ctx, "Networking"); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*QuestionInput)
	}{
		{"empty text", func(in *QuestionInput) { in.Text = "" }},
		{"no options", func(in *QuestionInput) { in.Options = nil }},
		{"only empty options", func(in *QuestionInput) { in.Options = []string{"", ""} }},
		{"correct option not offered", func(in *QuestionInput) { in.CorrectOption = "Ships containers" }},
		{"empty explanation", func(in *QuestionInput) { in.Explanation = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validQuestion()
			tc.mutate(&in)
			if _, err := svc.AddQuestion(ctx, "Networking", in); !IsValidation(err) {
				t.Errorf("err = %v, want a validation error", err)
			}
		})
	}

	// Nothing above may have touched the catalog.
	quiz, err := svc.GetQuiz(ctx, "Networking")
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if len(quiz.Questions) != 0 {
		t.Errorf("quiz has %d questions after rejected adds, want 0", len(quiz.Questions))
	}
}

func TestAddQuestion(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(newTestStore(t))
	if err := svc.CreateQuiz(ctx, "Networking"); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}

	in := validQuestion()
	in.Options = []string{"Formats code", "", "Runs tests"}
	q, err := svc.AddQuestion(ctx, "Networking", in)
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	if q.ID == "" {
		t.Error("added question has no id")
	}
	if len(q.Options) != 2 {
		t.Errorf("options = %v, empty strings should be dropped", q.Options)
	}

	if _, err := svc.AddQuestion(ctx, "No Such Quiz", validQuestion()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown quiz err = %v, want ErrNotFound", err)
	}
}

func TestUpdateQuestion(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(newTestStore(t))
	if err := svc.CreateQuiz(ctx, "Networking"); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	first, err := svc.AddQuestion(ctx, "Networking", validQuestion())
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	second, err := svc.AddQuestion(ctx, "Networking", validQuestion())
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	in := validQuestion()
	in.Text = "What does go vet do?"
	in.Options = []string{"Reports suspicious constructs", "Formats code"}
	in.CorrectOption = "Reports suspicious constructs"
	updated, err := svc.UpdateQuestion(ctx, "Networking", first.ID, in)
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	if updated.ID != first.ID {
		t.Errorf("update changed the id: %q -> %q", first.ID, updated.ID)
	}

	quiz, err := svc.GetQuiz(ctx, "Networking")
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if quiz.Questions[0].Text != in.Text {
		t.Errorf("question[0].Text = %q, update should keep position", quiz.Questions[0].Text)
	}
	if quiz.Questions[1].ID != second.ID {
		t.Error("updating one question disturbed its neighbor")
	}

	if _, err := svc.UpdateQuestion(ctx, "Networking", "missing-id", validQuestion()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}
	in.CorrectOption = "Not an option"
	if _, err := svc.UpdateQuestion(ctx, "Networking", first.ID, in); !IsValidation(err) {
		t.Errorf("invalid update err = %v, want a validation error", err)
	}
}

func TestDeleteQuestion(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(newTestStore(t))
	if err := svc.CreateQuiz(ctx, "Networking"); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	q, err := svc.AddQuestion(ctx, "Networking", validQuestion())
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	if err := svc.DeleteQuestion(ctx, "Networking", q.ID); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	quiz, err := svc.GetQuiz(ctx, "Networking")
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if len(quiz.Questions) != 0 {
		t.Errorf("quiz has %d questions after delete, want 0", len(quiz.Questions))
	}
	if err := svc.DeleteQuestion(ctx, "Networking", q.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteQuizCascades(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewCatalogService(st)
	if err := svc.CreateQuiz(ctx, "Networking"); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if err := svc.CreateQuiz(ctx, "Storage"); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}

	for _, studentID := range []string{"s1", "s2", "s3"} {
		entry := models.ProgressEntry{UserID: studentID, QuizName: "Networking", Score: 1, Total: 2, Attempted: true}
		if err := st.UpsertProgress(ctx, entry); err != nil {
			t.Fatalf("UpsertProgress: %v", err)
		}
	}
	keep := models.ProgressEntry{UserID: "s1", QuizName: "Storage", Score: 2, Total: 2, Attempted: true}
	if err := st.UpsertProgress(ctx, keep); err != nil {
		t.Fatalf("UpsertProgress: %v", err)
	}

	if err := svc.DeleteQuiz(ctx, "Networking"); err != nil {
		t.Fatalf("DeleteQuiz: %v", err)
	}
	if _, err := svc.GetQuiz(ctx, "Networking"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted quiz err = %v, want ErrNotFound", err)
	}
	for _, studentID := range []string{"s1", "s2", "s3"} {
		if _, err := st.GetProgress(ctx, studentID, "Networking"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("progress for %s not cascaded, err = %v", studentID, err)
		}
	}
	if _, err := st.GetProgress(ctx, "s1", "Storage"); err != nil {
		t.Errorf("unrelated progress entry lost: %v", err)
	}

	if err := svc.DeleteQuiz(ctx, "Networking"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
