package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"lingofolio/internal/models"
	"lingofolio/internal/repository"
	"lingofolio/internal/validation"
)

var ErrReferenceNotFound = errors.New("reference item not found")

type VerbStore interface {
	List(ctx context.Context) ([]models.IrregularVerb, error)
	GetByID(ctx context.Context, id int64) (*models.IrregularVerb, error)
	Create(ctx context.Context, v *models.IrregularVerb) error
	Update(ctx context.Context, v *models.IrregularVerb) error
	Delete(ctx context.Context, id int64) error
}

type GrammarStore interface {
	List(ctx context.Context, level string) ([]models.GrammarTopic, error)
	GetByID(ctx context.Context, id int64) (*models.GrammarTopic, error)
	Create(ctx context.Context, g *models.GrammarTopic) error
	Update(ctx context.Context, g *models.GrammarTopic) error
	Delete(ctx context.Context, id int64) error
}

type NotebookStore interface {
	List(ctx context.Context, language string) ([]models.NotebookEntry, error)
	Languages(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id int64) (*models.NotebookEntry, error)
	Create(ctx context.Context, n *models.NotebookEntry) error
	Update(ctx context.Context, n *models.NotebookEntry) error
	Delete(ctx context.Context, id int64) error
}

// ReferenceService manages the irregular verb table, grammar notes and the programming notebook
type ReferenceService struct {
	verbs    VerbStore
	grammar  GrammarStore
	notebook NotebookStore
	logger   *zap.Logger
}

// NewReferenceService creates a new reference service
func NewReferenceService(verbs VerbStore, grammar GrammarStore, notebook NotebookStore, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{
		verbs:    verbs,
		grammar:  grammar,
		notebook: notebook,
		logger:   logger,
	}
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrReferenceNotFound
	}
	return err
}

// Verbs

func (s *ReferenceService) ListVerbs(ctx context.Context) ([]models.IrregularVerb, error) {
	return s.verbs.List(ctx)
}

func (s *ReferenceService) GetVerb(ctx context.Context, id int64) (*models.IrregularVerb, error) {
	v, err := s.verbs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrReferenceNotFound
	}
	return v, nil
}

func trimVerb(v *models.IrregularVerb) {
	v.BaseForm = strings.ToLower(strings.TrimSpace(v.BaseForm))
	v.PastSimple = strings.TrimSpace(v.PastSimple)
	v.PastParticiple = strings.TrimSpace(v.PastParticiple)
	v.Translation = strings.TrimSpace(v.Translation)
}

func (s *ReferenceService) CreateVerb(ctx context.Context, v models.IrregularVerb) (*models.IrregularVerb, error) {
	trimVerb(&v)
	if err := validation.ValidateVerb(v); err != nil {
		return nil, err
	}
	if err := s.verbs.Create(ctx, &v); err != nil {
		return nil, err
	}
	s.logger.Debug("Verb created", zap.Int64("id", v.ID), zap.String("base_form", v.BaseForm))
	return &v, nil
}

func (s *ReferenceService) UpdateVerb(ctx context.Context, v models.IrregularVerb) (*models.IrregularVerb, error) {
	trimVerb(&v)
	if err := validation.ValidateVerb(v); err != nil {
		return nil, err
	}
	if err := s.verbs.Update(ctx, &v); err != nil {
		return nil, notFound(err)
	}
	return s.GetVerb(ctx, v.ID)
}

func (s *ReferenceService) DeleteVerb(ctx context.Context, id int64) error {
	return notFound(s.verbs.Delete(ctx, id))
}

// Grammar

func (s *ReferenceService) ListGrammar(ctx context.Context, level string) ([]models.GrammarTopic, error) {
	return s.grammar.List(ctx, strings.ToUpper(strings.TrimSpace(level)))
}

func (s *ReferenceService) GetGrammar(ctx context.Context, id int64) (*models.GrammarTopic, error) {
	g, err := s.grammar.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrReferenceNotFound
	}
	return g, nil
}

func trimGrammar(g *models.GrammarTopic) {
	g.Title = strings.TrimSpace(g.Title)
	g.Level = strings.ToUpper(strings.TrimSpace(g.Level))
	g.Body = strings.TrimSpace(g.Body)
}

func (s *ReferenceService) CreateGrammar(ctx context.Context, g models.GrammarTopic) (*models.GrammarTopic, error) {
	trimGrammar(&g)
	if err := validation.ValidateGrammarTopic(g); err != nil {
		return nil, err
	}
	if err := s.grammar.Create(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *ReferenceService) UpdateGrammar(ctx context.Context, g models.GrammarTopic) (*models.GrammarTopic, error) {
	trimGrammar(&g)
	if err := validation.ValidateGrammarTopic(g); err != nil {
		return nil, err
	}
	if err := s.grammar.Update(ctx, &g); err != nil {
		return nil, notFound(err)
	}
	return s.GetGrammar(ctx, g.ID)
}

func (s *ReferenceService) DeleteGrammar(ctx context.Context, id int64) error {
	return notFound(s.grammar.Delete(ctx, id))
}

// Notebook

func (s *ReferenceService) ListNotebook(ctx context.Context, language string) ([]models.NotebookEntry, error) {
	return s.notebook.List(ctx, strings.ToLower(strings.TrimSpace(language)))
}

func (s *ReferenceService) NotebookLanguages(ctx context.Context) ([]string, error) {
	return s.notebook.Languages(ctx)
}

func (s *ReferenceService) GetNotebookEntry(ctx context.Context, id int64) (*models.NotebookEntry, error) {
	n, err := s.notebook.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrReferenceNotFound
	}
	return n, nil
}

func trimNotebook(n *models.NotebookEntry) {
	n.Language = strings.ToLower(strings.TrimSpace(n.Language))
	n.Title = strings.TrimSpace(n.Title)
	// Code keeps its indentation; only trailing blank lines go.
	n.Code = strings.TrimRight(n.Code, "\n\r\t ")
	n.Notes = strings.TrimSpace(n.Notes)
}

func (s *ReferenceService) CreateNotebookEntry(ctx context.Context, n models.NotebookEntry) (*models.NotebookEntry, error) {
	trimNotebook(&n)
	if err := validation.ValidateNotebookEntry(n); err != nil {
		return nil, err
	}
	if err := s.notebook.Create(ctx, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *ReferenceService) UpdateNotebookEntry(ctx context.Context, n models.NotebookEntry) (*models.NotebookEntry, error) {
	trimNotebook(&n)
	if err := validation.ValidateNotebookEntry(n); err != nil {
		return nil, err
	}
	if err := s.notebook.Update(ctx, &n); err != nil {
		return nil, notFound(err)
	}
	return s.GetNotebookEntry(ctx, n.ID)
}

func (s *ReferenceService) DeleteNotebookEntry(ctx context.Context, id int64) error {
	return notFound(s.notebook.Delete(ctx, id))
}
