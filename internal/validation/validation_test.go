package validation

import (
	"errors"
	"strings"
	"testing"

	"lingofolio/internal/models"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "user@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
		{
			name:    "spaces in email",
			email:   "test @example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "valid name",
			input:   "John Doe",
			wantErr: false,
		},
		{
			name:    "single name",
			input:   "John",
			wantErr: false,
		},
		{
			name:    "empty name",
			input:   "",
			wantErr: true,
		},
		{
			name:    "name too short",
			input:   "J",
			wantErr: true,
		},
		{
			name:    "name with hyphen",
			input:   "Mary-Jane",
			wantErr: false,
		},
		{
			name:    "name with apostrophe",
			input:   "O'Brien",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateVocabularyEntry(t *testing.T) {
	valid := models.VocabularyEntry{Type: models.WordTypeEnglish, Term: "go", Translation: "явах"}

	tests := []struct {
		name      string
		mutate    func(e *models.VocabularyEntry)
		wantField string
	}{
		{
			name:   "valid entry",
			mutate: func(e *models.VocabularyEntry) {},
		},
		{
			name:      "unknown word type",
			mutate:    func(e *models.VocabularyEntry) { e.Type = "latin" },
			wantField: "word_type",
		},
		{
			name:      "blank term",
			mutate:    func(e *models.VocabularyEntry) { e.Term = "   " },
			wantField: "term",
		},
		{
			name:      "missing translation",
			mutate:    func(e *models.VocabularyEntry) { e.Translation = "" },
			wantField: "translation",
		},
		{
			name:      "term too long",
			mutate:    func(e *models.VocabularyEntry) { e.Term = strings.Repeat("я", MaxTermLength+1) },
			wantField: "term",
		},
		{
			name:   "multibyte term at the limit",
			mutate: func(e *models.VocabularyEntry) { e.Term = strings.Repeat("я", MaxTermLength) },
		},
		{
			name:      "definition too long",
			mutate:    func(e *models.VocabularyEntry) { e.Definition = strings.Repeat("a", MaxNoteLength+1) },
			wantField: "definition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := ValidateVocabularyEntry(e)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateVocabularyEntry() unexpected error = %v", err)
				}
				return
			}
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ValidateVocabularyEntry() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("ValidateVocabularyEntry() field = %v, want %v", ve.Field, tt.wantField)
			}
		})
	}
}

func TestValidateContactMessage(t *testing.T) {
	tests := []struct {
		name    string
		msg     models.ContactMessage
		wantErr bool
	}{
		{
			name:    "valid message",
			msg:     models.ContactMessage{Name: "Ann Lee", Email: "ann@example.com", Message: "Hello!"},
			wantErr: false,
		},
		{
			name:    "bad email",
			msg:     models.ContactMessage{Name: "Ann Lee", Email: "ann", Message: "Hello!"},
			wantErr: true,
		},
		{
			name:    "empty message",
			msg:     models.ContactMessage{Name: "Ann Lee", Email: "ann@example.com", Message: " "},
			wantErr: true,
		},
		{
			name:    "message too long",
			msg:     models.ContactMessage{Name: "Ann Lee", Email: "ann@example.com", Message: strings.Repeat("x", MaxMessageLength+1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContactMessage(tt.msg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateContactMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReferenceTools(t *testing.T) {
	if err := ValidateVerb(models.IrregularVerb{BaseForm: "go", PastSimple: "went", PastParticiple: "gone"}); err != nil {
		t.Errorf("ValidateVerb() unexpected error = %v", err)
	}
	if err := ValidateVerb(models.IrregularVerb{BaseForm: "go", PastSimple: "went"}); err == nil {
		t.Error("ValidateVerb() expected error for missing past participle")
	}
	if err := ValidateGrammarTopic(models.GrammarTopic{Title: ""}); err == nil {
		t.Error("ValidateGrammarTopic() expected error for missing title")
	}
	if err := ValidateNotebookEntry(models.NotebookEntry{Language: "go", Title: "goroutines"}); err != nil {
		t.Errorf("ValidateNotebookEntry() unexpected error = %v", err)
	}
	if !IsValidationError(ValidateNotebookEntry(models.NotebookEntry{Title: "x"})) {
		t.Error("IsValidationError() should recognise a missing language")
	}
}
