// Package extract turns free text or a web article into candidate vocabulary.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200

	maxBodySize = 10 * 1024 * 1024 // 10 MB limit for fetched HTML
)

var (
	ErrEmptySource = errors.New("either text or url is required")
	ErrInvalidURL  = errors.New("url must be an absolute http(s) address")
)

// Source is the input of an extraction. URL wins over Text when both are set.
type Source struct {
	Text     string `json:"text"`
	URL      string `json:"url"`
	Language string `json:"language"`
	Limit    int    `json:"limit"`
}

// Word is one extracted candidate, most frequent first
type Word struct {
	Term    string `json:"term"`
	Reading string `json:"reading,omitempty"`
	Count   int    `json:"count"`
}

// Extractor is safe for concurrent use
type Extractor struct {
	client     *http.Client
	publicOnly bool
	logger     *zap.Logger

	jaOnce sync.Once
	ja     *tokenizer.Tokenizer
	jaErr  error
}

// New creates an extractor. A nil client gets one with a 30 second timeout that refuses
// non-public addresses.
func New(client *http.Client, logger *zap.Logger) *Extractor {
	if client == nil {
		return &Extractor{client: newPublicClient(30 * time.Second), publicOnly: true, logger: logger}
	}
	return &Extractor{client: client, logger: logger}
}

// Extract returns up to src.Limit distinct words from the source
func (e *Extractor) Extract(ctx context.Context, src Source) ([]Word, error) {
	text := src.Text
	if strings.TrimSpace(src.URL) != "" {
		article, err := e.fetchArticle(ctx, strings.TrimSpace(src.URL))
		if err != nil {
			return nil, err
		}
		text = article
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySource
	}

	limit := src.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var words []Word
	switch strings.ToLower(src.Language) {
	case "ja", "japanese":
		t, err := e.japanese()
		if err != nil {
			return nil, err
		}
		words = japaneseWords(t, text)
	default:
		words = letterWords(text)
	}

	if len(words) > limit {
		words = words[:limit]
	}
	return words, nil
}

func (e *Extractor) japanese() (*tokenizer.Tokenizer, error) {
	e.jaOnce.Do(func() {
		e.ja, e.jaErr = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		if e.jaErr != nil {
			e.jaErr = fmt.Errorf("failed to load japanese dictionary: %w", e.jaErr)
		}
	})
	return e.ja, e.jaErr
}

// fetchArticle downloads a page and reduces it to its readable text
func (e *Extractor) fetchArticle(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", ErrInvalidURL
	}
	if e.publicOnly {
		if err := checkHost(parsed.Hostname()); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrForbiddenAddress) {
			return "", ErrForbiddenAddress
		}
		return "", fmt.Errorf("failed to fetch %s: %w", parsed.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s: status %d", parsed.Host, resp.StatusCode)
	}
	if resp.ContentLength > maxBodySize {
		return "", fmt.Errorf("page is larger than %d bytes", maxBodySize)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}
	if len(body) > maxBodySize {
		return "", fmt.Errorf("page is larger than %d bytes", maxBodySize)
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return "", fmt.Errorf("failed to extract article: %w", err)
	}
	e.logger.Debug("Extracted article",
		zap.String("title", article.Title),
		zap.Int("length", len(article.TextContent)),
	)
	return article.TextContent, nil
}

// counter keeps words in order of first appearance so ties sort stably
type counter struct {
	words []Word
	index map[string]int
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(term, reading string) {
	if i, ok := c.index[term]; ok {
		c.words[i].Count++
		return
	}
	c.index[term] = len(c.words)
	c.words = append(c.words, Word{Term: term, Reading: reading, Count: 1})
}

func (c *counter) ranked() []Word {
	sort.SliceStable(c.words, func(i, j int) bool {
		return c.words[i].Count > c.words[j].Count
	})
	return c.words
}

// letterWords splits on anything that is not a letter, keeping inner apostrophes and hyphens
func letterWords(text string) []Word {
	c := newCounter()
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsMark(r) && r != '\'' && r != '-'
	})
	for _, f := range fields {
		term := strings.ToLower(strings.Trim(f, "'-"))
		if utf8.RuneCountInString(term) < 2 || isStopWord(term) {
			continue
		}
		c.add(term, "")
	}
	return c.ranked()
}

var contentPOS = map[string]bool{
	"名詞":  true,
	"動詞":  true,
	"形容詞": true,
}

var skippedSubPOS = map[string]bool{
	"数":   true,
	"非自立": true,
	"代名詞": true,
	"接尾":  true,
}

// japaneseWords keeps nouns, verbs and adjectives in their dictionary form
func japaneseWords(t *tokenizer.Tokenizer, text string) []Word {
	c := newCounter()
	for _, token := range t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY || strings.TrimSpace(token.Surface) == "" {
			continue
		}
		features := token.Features()
		if len(features) == 0 || !contentPOS[features[0]] {
			continue
		}
		if len(features) > 1 && skippedSubPOS[features[1]] {
			continue
		}

		base := token.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}
		if utf8.RuneCountInString(base) < 2 && !hasHan(base) {
			continue
		}
		c.add(base, reading)
	}
	return c.ranked()
}

func hasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
