package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lingofolio/internal/models"
	"lingofolio/internal/repository"
	"lingofolio/internal/validation"
)

var (
	ErrEntryNotFound   = errors.New("vocabulary entry not found")
	ErrInvalidWordType = errors.New("invalid word type")
	ErrNothingToImport = errors.New("no importable lines")
)

// VocabularyStore is the persistence the vocabulary manager writes through to
type VocabularyStore interface {
	ListByType(ctx context.Context, wordType models.WordType) ([]models.VocabularyEntry, error)
	Create(ctx context.Context, e *models.VocabularyEntry) error
	CreateBatch(ctx context.Context, entries []*models.VocabularyEntry) error
	Update(ctx context.Context, e *models.VocabularyEntry) error
	Delete(ctx context.Context, id string) error
	MarkMemorized(ctx context.Context, ids []string, memorized bool) (int64, error)
}

// collection is the in-memory copy of one word type, newest first
type collection struct {
	mu      sync.Mutex
	loaded  bool
	entries []models.VocabularyEntry
}

func (c *collection) indexOf(id string) int {
	for i := range c.entries {
		if c.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// command is one optimistic mutation: apply changes the collection and returns how to undo
// it, remote writes it through to the store. id names the single entry the command targets, if
// any; when the store reports that entry missing it is dropped instead of restored.
type command struct {
	name   string
	id     string
	apply  func(c *collection) (undo func(c *collection))
	remote func(ctx context.Context) error
}

// VocabularyService is the vocabulary manager. It loads each word type on first use, serves
// reads from memory and writes through to the store, rolling the local change back if the write
// fails. The cache is dropped on the refresh schedule.
type VocabularyService struct {
	store  VocabularyStore
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	collections map[models.WordType]*collection
}

// NewVocabularyService creates a new vocabulary service
func NewVocabularyService(store VocabularyStore, logger *zap.Logger) *VocabularyService {
	return &VocabularyService{
		store:       store,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		collections: make(map[models.WordType]*collection),
	}
}

// collection returns the loaded collection for wordType, loading it on first use
func (s *VocabularyService) collection(ctx context.Context, wordType models.WordType) (*collection, error) {
	if !wordType.Valid() {
		return nil, ErrInvalidWordType
	}

	s.mu.Lock()
	c, ok := s.collections[wordType]
	if !ok {
		c = &collection{}
		s.collections[wordType] = c
	}
	s.mu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c, nil
	}
	entries, err := s.store.ListByType(ctx, wordType)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s vocabulary: %w", wordType, err)
	}
	c.entries = entries
	c.loaded = true
	s.logger.Debug("Loaded vocabulary", zap.String("word_type", string(wordType)), zap.Int("entries", len(entries)))
	return c, nil
}

// Reload drops the cached collection so the next read goes to the store
func (s *VocabularyService) Reload(wordType models.WordType) {
	s.mu.Lock()
	delete(s.collections, wordType)
	s.mu.Unlock()
}

// ReloadAll drops every cached collection. Writes made by other processes, such as a backup
// import, become visible on the next read.
func (s *VocabularyService) ReloadAll() {
	s.mu.Lock()
	n := len(s.collections)
	s.collections = make(map[models.WordType]*collection)
	s.mu.Unlock()
	if n > 0 {
		s.logger.Debug("Vocabulary cache dropped", zap.Int("collections", n))
	}
}

// ScheduleRefresh registers ReloadAll on c
func (s *VocabularyService) ScheduleRefresh(c *cron.Cron, schedule string) (cron.EntryID, error) {
	return c.AddFunc(schedule, s.ReloadAll)
}

func (s *VocabularyService) run(ctx context.Context, wordType models.WordType, cmd command) error {
	c, err := s.collection(ctx, wordType)
	if err != nil {
		return err
	}

	c.mu.Lock()
	undo := cmd.apply(c)
	c.mu.Unlock()

	if err := cmd.remote(ctx); err != nil {
		c.mu.Lock()
		if cmd.id != "" && errors.Is(err, ErrEntryNotFound) {
			// Gone from the store: forget it rather than restore a stale copy.
			if i := c.indexOf(cmd.id); i >= 0 {
				c.entries = append(c.entries[:i], c.entries[i+1:]...)
			}
		} else {
			undo(c)
		}
		c.mu.Unlock()
		s.logger.Warn("Vocabulary write failed, local change rolled back",
			zap.String("command", cmd.name),
			zap.String("word_type", string(wordType)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// snapshot copies the entries of wordType that pass filter, sorted as requested
func (s *VocabularyService) snapshot(ctx context.Context, filter models.VocabularyFilter) ([]models.VocabularyEntry, error) {
	c, err := s.collection(ctx, filter.Type)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	matched := make([]models.VocabularyEntry, 0, len(c.entries))
	for _, e := range c.entries {
		if filter.Matches(e) {
			matched = append(matched, e)
		}
	}
	c.mu.Unlock()

	sortEntries(matched, filter.Sort)
	return matched, nil
}

func sortEntries(entries []models.VocabularyEntry, order models.SortOrder) {
	switch order {
	case models.SortAlpha:
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Term) < strings.ToLower(entries[j].Term)
		})
	case models.SortOldest:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		})
	}
}

// List returns one page of the filtered collection
func (s *VocabularyService) List(ctx context.Context, filter models.VocabularyFilter) (models.VocabularyPage, error) {
	filter = filter.Normalize()
	matched, err := s.snapshot(ctx, filter)
	if err != nil {
		return models.VocabularyPage{}, err
	}

	page := models.VocabularyPage{
		Total:    len(matched),
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	page.TotalPages = (page.Total + page.PageSize - 1) / page.PageSize

	start := (filter.Page - 1) * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	page.Entries = matched[start:end]
	return page, nil
}

// Pool returns every entry passing filter, ignoring pagination. It feeds practice sessions.
func (s *VocabularyService) Pool(ctx context.Context, filter models.VocabularyFilter) ([]models.VocabularyEntry, error) {
	filter = filter.Normalize()
	return s.snapshot(ctx, filter)
}

// Get returns one entry
func (s *VocabularyService) Get(ctx context.Context, wordType models.WordType, id string) (models.VocabularyEntry, error) {
	c, err := s.collection(ctx, wordType)
	if err != nil {
		return models.VocabularyEntry{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return models.VocabularyEntry{}, ErrEntryNotFound
	}
	return c.entries[i], nil
}

func normalizeEntry(e *models.VocabularyEntry) {
	e.Term = strings.TrimSpace(e.Term)
	e.Translation = strings.TrimSpace(e.Translation)
	e.Definition = strings.TrimSpace(e.Definition)
	e.Reading = strings.TrimSpace(e.Reading)
	e.Example = strings.TrimSpace(e.Example)
}

// Create validates and stores a new entry
func (s *VocabularyService) Create(ctx context.Context, e models.VocabularyEntry) (models.VocabularyEntry, error) {
	normalizeEntry(&e)
	if err := validation.ValidateVocabularyEntry(e); err != nil {
		return models.VocabularyEntry{}, err
	}
	e.ID = uuid.NewString()
	e.CreatedAt = s.now()
	e.UpdatedAt = e.CreatedAt

	err := s.run(ctx, e.Type, command{
		name: "create",
		apply: func(c *collection) func(*collection) {
			c.entries = append([]models.VocabularyEntry{e}, c.entries...)
			return func(c *collection) {
				if i := c.indexOf(e.ID); i >= 0 {
					c.entries = append(c.entries[:i], c.entries[i+1:]...)
				}
			}
		},
		remote: func(ctx context.Context) error {
			stored := e
			return s.store.Create(ctx, &stored)
		},
	})
	if err != nil {
		return models.VocabularyEntry{}, err
	}
	return e, nil
}

// Update applies a field patch to an entry
func (s *VocabularyService) Update(ctx context.Context, wordType models.WordType, id string, patch models.VocabularyPatch) (models.VocabularyEntry, error) {
	current, err := s.Get(ctx, wordType, id)
	if err != nil {
		return models.VocabularyEntry{}, err
	}
	updated := patch.Apply(current)
	if err := validation.ValidateVocabularyEntry(updated); err != nil {
		return models.VocabularyEntry{}, err
	}
	updated.UpdatedAt = s.now()

	if err := s.replace(ctx, "update", updated); err != nil {
		return models.VocabularyEntry{}, err
	}
	return updated, nil
}

// ToggleFavorite flips the favorite flag
func (s *VocabularyService) ToggleFavorite(ctx context.Context, wordType models.WordType, id string) (models.VocabularyEntry, error) {
	current, err := s.Get(ctx, wordType, id)
	if err != nil {
		return models.VocabularyEntry{}, err
	}
	current.Favorite = !current.Favorite
	current.UpdatedAt = s.now()
	if err := s.replace(ctx, "toggle_favorite", current); err != nil {
		return models.VocabularyEntry{}, err
	}
	return current, nil
}

// ToggleMemorized flips the memorized flag
func (s *VocabularyService) ToggleMemorized(ctx context.Context, wordType models.WordType, id string) (models.VocabularyEntry, error) {
	current, err := s.Get(ctx, wordType, id)
	if err != nil {
		return models.VocabularyEntry{}, err
	}
	current.Memorized = !current.Memorized
	current.UpdatedAt = s.now()
	if err := s.replace(ctx, "toggle_memorized", current); err != nil {
		return models.VocabularyEntry{}, err
	}
	return current, nil
}

// replace swaps in a modified entry and writes it through
func (s *VocabularyService) replace(ctx context.Context, name string, updated models.VocabularyEntry) error {
	return s.run(ctx, updated.Type, command{
		name: name,
		id:   updated.ID,
		apply: func(c *collection) func(*collection) {
			i := c.indexOf(updated.ID)
			if i < 0 {
				return func(*collection) {}
			}
			previous := c.entries[i]
			c.entries[i] = updated
			return func(c *collection) {
				if i := c.indexOf(previous.ID); i >= 0 {
					c.entries[i] = previous
				}
			}
		},
		remote: func(ctx context.Context) error {
			stored := updated
			err := s.store.Update(ctx, &stored)
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEntryNotFound
			}
			return err
		},
	})
}

// Delete removes an entry locally first, then from the store
func (s *VocabularyService) Delete(ctx context.Context, wordType models.WordType, id string) error {
	if _, err := s.Get(ctx, wordType, id); err != nil {
		return err
	}
	return s.run(ctx, wordType, command{
		name: "delete",
		id:   id,
		apply: func(c *collection) func(*collection) {
			i := c.indexOf(id)
			if i < 0 {
				return func(*collection) {}
			}
			removed := c.entries[i]
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return func(c *collection) {
				if c.indexOf(removed.ID) >= 0 {
					return
				}
				at := i
				if at > len(c.entries) {
					at = len(c.entries)
				}
				c.entries = append(c.entries[:at], append([]models.VocabularyEntry{removed}, c.entries[at:]...)...)
			}
		},
		remote: func(ctx context.Context) error {
			err := s.store.Delete(ctx, id)
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEntryNotFound
			}
			return err
		},
	})
}

// MarkMemorized sets memorized for every known id in one batched write and returns how many
// entries changed. Unknown ids are ignored.
func (s *VocabularyService) MarkMemorized(ctx context.Context, wordType models.WordType, ids []string) (int, error) {
	c, err := s.collection(ctx, wordType)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	var pending []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if i := c.indexOf(id); i >= 0 && !c.entries[i].Memorized {
			pending = append(pending, id)
		}
	}
	c.mu.Unlock()

	if len(pending) == 0 {
		return 0, nil
	}

	now := s.now()
	err = s.run(ctx, wordType, command{
		name: "mark_memorized",
		apply: func(c *collection) func(*collection) {
			var changed []string
			for _, id := range pending {
				if i := c.indexOf(id); i >= 0 && !c.entries[i].Memorized {
					c.entries[i].Memorized = true
					c.entries[i].UpdatedAt = now
					changed = append(changed, id)
				}
			}
			return func(c *collection) {
				for _, id := range changed {
					if i := c.indexOf(id); i >= 0 {
						c.entries[i].Memorized = false
					}
				}
			}
		},
		remote: func(ctx context.Context) error {
			_, err := s.store.MarkMemorized(ctx, pending, true)
			return err
		},
	})
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

// ImportResult summarizes a bulk import
type ImportResult struct {
	Imported []models.VocabularyEntry `json:"imported"`
	Skipped  []ImportSkip             `json:"skipped"`
}

// ImportSkip is a line that was not imported
type ImportSkip struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

var importSeparators = []string{"\t", " - ", " \u2014 ", ","}

// parseImportLine splits one line into term and translation. The first separator found wins.
func parseImportLine(line string) (term, translation string, ok bool) {
	for _, sep := range importSeparators {
		if i := strings.Index(line, sep); i > 0 {
			term = strings.TrimSpace(line[:i])
			translation = strings.TrimSpace(line[i+len(sep):])
			return term, translation, term != "" && translation != ""
		}
	}
	return "", "", false
}

// Import parses one entry per line and stores the new ones in a single transaction. Blank
// lines and lines starting with # are ignored. Terms already in the collection or earlier in
// the batch are skipped, compared case-insensitively.
func (s *VocabularyService) Import(ctx context.Context, wordType models.WordType, text string) (ImportResult, error) {
	c, err := s.collection(ctx, wordType)
	if err != nil {
		return ImportResult{}, err
	}

	c.mu.Lock()
	existing := make(map[string]bool, len(c.entries))
	for _, e := range c.entries {
		existing[strings.ToLower(e.Term)] = true
	}
	c.mu.Unlock()

	var result ImportResult
	var batch []*models.VocabularyEntry
	now := s.now()
	for n, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		skip := func(reason string) {
			result.Skipped = append(result.Skipped, ImportSkip{Line: n + 1, Text: line, Reason: reason})
		}

		term, translation, ok := parseImportLine(line)
		if !ok {
			skip("expected a term and a translation")
			continue
		}
		key := strings.ToLower(term)
		if existing[key] {
			skip("duplicate term")
			continue
		}
		e := models.VocabularyEntry{
			ID:          uuid.NewString(),
			Type:        wordType,
			Term:        term,
			Translation: translation,
			// Keep insertion order stable when sorting by creation time.
			CreatedAt: now.Add(time.Duration(len(batch)) * time.Microsecond),
		}
		e.UpdatedAt = e.CreatedAt
		if err := validation.ValidateVocabularyEntry(e); err != nil {
			skip(err.Error())
			continue
		}
		existing[key] = true
		batch = append(batch, &e)
	}
	if len(batch) == 0 {
		if len(result.Skipped) == 0 {
			return result, ErrNothingToImport
		}
		return result, nil
	}

	imported := make([]models.VocabularyEntry, len(batch))
	for i, e := range batch {
		imported[i] = *e
	}

	err = s.run(ctx, wordType, command{
		name: "import",
		apply: func(c *collection) func(*collection) {
			added := make([]models.VocabularyEntry, 0, len(imported))
			for i := len(imported) - 1; i >= 0; i-- {
				added = append(added, imported[i])
			}
			c.entries = append(added, c.entries...)
			return func(c *collection) {
				ids := make(map[string]bool, len(imported))
				for _, e := range imported {
					ids[e.ID] = true
				}
				kept := c.entries[:0]
				for _, e := range c.entries {
					if !ids[e.ID] {
						kept = append(kept, e)
					}
				}
				c.entries = kept
			}
		},
		remote: func(ctx context.Context) error {
			return s.store.CreateBatch(ctx, batch)
		},
	})
	if err != nil {
		return ImportResult{}, err
	}
	result.Imported = imported
	s.logger.Info("Imported vocabulary",
		zap.String("word_type", string(wordType)),
		zap.Int("imported", len(imported)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}
