package models

// Outcome is one possible result a player can be assigned by a quiz.
type Outcome struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ColorClass  string `json:"colorClass"`
}

// Answer maps a choice inside a question to an outcome.
type Answer struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	OutcomeID string `json:"outcomeId"`
}

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
}

// Quiz stores its questions and outcomes as JSONB documents on the quiz row,
// matching the shape the web client serializes.
type Quiz struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Questions   []Question `gorm:"type:jsonb;serializer:json" json:"questions"`
	Outcomes    []Outcome  `gorm:"type:jsonb;serializer:json" json:"outcomes"`
	Author      string     `gorm:"size:100;not null" json:"author"`
	UserID      *string    `gorm:"size:36;index" json:"user_id,omitempty"`
	CreatedAt   int64      `gorm:"not null" json:"createdAt"`
	Plays       int        `gorm:"not null;default:0" json:"plays"`
}

// OutcomeByID returns the declared outcome with the given id, or nil.
func (q *Quiz) OutcomeByID(id string) *Outcome {
	for i := range q.Outcomes {
		if q.Outcomes[i].ID == id {
			return &q.Outcomes[i]
		}
	}
	return nil
}
