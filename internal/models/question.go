package models

// Question is a single multiple-choice prompt inside a quiz. The ID is a
// surrogate key assigned when the question is created, so editing or deleting
// other questions never changes how this one is addressed.
type Question struct {
	ID            string   `bson:"id" json:"id"`
	Text          string   `bson:"question" json:"question"`
	Options       []string `bson:"options" json:"options"`
	CorrectOption string   `bson:"correct_option" json:"correct_option"`
	Explanation   string   `bson:"explanation" json:"explanation"`
}

// Quiz is a named, ordered collection of questions. Name is the unique key
// within the catalog.
type Quiz struct {
	Name      string     `bson:"_id" json:"name"`
	Questions []Question `bson:"questions" json:"questions"`
}

// QuestionIDs returns the ids of the quiz's questions in order.
func (q Quiz) QuestionIDs() []string {
	ids := make([]string, 0, len(q.Questions))
	for _, question := range q.Questions {
		ids = append(ids, question.ID)
	}
	return ids
}
