package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"lingofolio/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	MaxTermLength        = 200
	MaxTranslationLength = 500
	MaxNoteLength        = 2000
	MaxNameLength        = 100
	MaxTitleLength       = 200
	MaxMessageLength     = 5000
	MaxBodyLength        = 50000
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is, or wraps, a ValidationError
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return MaxLength("name", name, MaxNameLength)
}

// Required fails on blank values
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

// MaxLength bounds a value by its length in characters
func MaxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return ValidationError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, max)}
	}
	return nil
}

func requiredWithin(field, value string, max int) error {
	if err := Required(field, value); err != nil {
		return err
	}
	return MaxLength(field, strings.TrimSpace(value), max)
}

// ValidateVocabularyEntry checks an entry before it is stored
func ValidateVocabularyEntry(e models.VocabularyEntry) error {
	if !e.Type.Valid() {
		return ValidationError{Field: "word_type", Message: "word type must be english or foreign"}
	}
	if err := requiredWithin("term", e.Term, MaxTermLength); err != nil {
		return err
	}
	if err := requiredWithin("translation", e.Translation, MaxTranslationLength); err != nil {
		return err
	}
	if err := MaxLength("definition", e.Definition, MaxNoteLength); err != nil {
		return err
	}
	if err := MaxLength("reading", e.Reading, MaxTermLength); err != nil {
		return err
	}
	return MaxLength("example", e.Example, MaxNoteLength)
}

// ValidateVerb checks an irregular verb
func ValidateVerb(v models.IrregularVerb) error {
	if err := requiredWithin("base_form", v.BaseForm, MaxTermLength); err != nil {
		return err
	}
	if err := requiredWithin("past_simple", v.PastSimple, MaxTermLength); err != nil {
		return err
	}
	if err := requiredWithin("past_participle", v.PastParticiple, MaxTermLength); err != nil {
		return err
	}
	return MaxLength("translation", v.Translation, MaxTranslationLength)
}

// ValidateGrammarTopic checks a grammar topic
func ValidateGrammarTopic(g models.GrammarTopic) error {
	if err := requiredWithin("title", g.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := MaxLength("level", g.Level, 20); err != nil {
		return err
	}
	return MaxLength("body", g.Body, MaxBodyLength)
}

// ValidateNotebookEntry checks a notebook entry
func ValidateNotebookEntry(n models.NotebookEntry) error {
	if err := requiredWithin("language", n.Language, 50); err != nil {
		return err
	}
	if err := requiredWithin("title", n.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := MaxLength("code", n.Code, MaxBodyLength); err != nil {
		return err
	}
	return MaxLength("notes", n.Notes, MaxBodyLength)
}

// ValidateContactMessage checks a contact form submission
func ValidateContactMessage(m models.ContactMessage) error {
	if err := ValidateName(m.Name); err != nil {
		return err
	}
	if err := ValidateEmail(m.Email); err != nil {
		return err
	}
	return requiredWithin("message", m.Message, MaxMessageLength)
}
