package models

import "time"

// IrregularVerb is one row of the irregular verb table
type IrregularVerb struct {
	ID             int64     `json:"id"`
	BaseForm       string    `json:"base_form"`
	PastSimple     string    `json:"past_simple"`
	PastParticiple string    `json:"past_participle"`
	Translation    string    `json:"translation"`
	CreatedAt      time.Time `json:"created_at"`
}

// GrammarTopic is a grammar reference article
type GrammarTopic struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Level     string    `json:"level"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotebookEntry is a snippet in the per-language programming notebook
type NotebookEntry struct {
	ID        int64     `json:"id"`
	Language  string    `json:"language"`
	Title     string    `json:"title"`
	Code      string    `json:"code"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactMessage is a message left through the portfolio contact form
type ContactMessage struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	RemoteAddr string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
