package practice

import "errors"

var (
	ErrSessionClosed       = errors.New("practice session has ended")
	ErrNotActive           = errors.New("practice session is not in progress")
	ErrNotFinished         = errors.New("practice session is not finished")
	ErrEmptyDeck           = errors.New("no words to practice")
	ErrCardNotRevealed     = errors.New("flip the card before classifying it")
	ErrNothingMissed       = errors.New("no missed words to practice")
	ErrInsufficientEntries = errors.New("not enough words for this game")
	ErrDirectionAlreadySet = errors.New("quiz direction already selected")
	ErrInvalidDirection    = errors.New("invalid quiz direction")
	ErrUnknownOption       = errors.New("option is not part of this question")
	ErrUnknownItem         = errors.New("unknown match item")
	ErrItemAlreadyMatched  = errors.New("item is already matched")
	ErrNoSourceSelected    = errors.New("select a source word first")
)
