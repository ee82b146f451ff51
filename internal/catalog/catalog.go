// Package catalog holds the static subject list and the canned question banks used as fallback.
package catalog

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"smarttest-quiz-service/internal/domain"
)

// Subject is a curriculum topic clients may request.
type Subject struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Catalog maps subject keys to labels and fallback banks.
type Catalog struct {
	subjects   map[string]Subject
	banks      map[string][]domain.QuestionRecord
	defaultKey string

	mu  sync.Mutex
	rnd *rand.Rand
}

// New builds a catalog. Invalid bank records are dropped so they can never be served.
func New(subjects []Subject, banks map[string][]domain.QuestionRecord, defaultKey string) *Catalog {
	c := &Catalog{
		subjects:   make(map[string]Subject, len(subjects)),
		banks:      make(map[string][]domain.QuestionRecord, len(banks)),
		defaultKey: strings.ToLower(defaultKey),
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, s := range subjects {
		s.Key = strings.ToLower(s.Key)
		c.subjects[s.Key] = s
	}
	for key, bank := range banks {
		valid := make([]domain.QuestionRecord, 0, len(bank))
		for _, q := range bank {
			if q.Validate() == nil {
				valid = append(valid, q)
			}
		}
		c.banks[strings.ToLower(key)] = valid
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(defaultSubjects, defaultBanks(), DefaultSubject)
}

// WithBanks returns a copy whose banks are overlaid by the given ones; subjects without an
// overlay keep their current bank.
func (c *Catalog) WithBanks(overlay map[string][]domain.QuestionRecord) *Catalog {
	banks := make(map[string][]domain.QuestionRecord, len(c.banks))
	for key, bank := range c.banks {
		banks[key] = bank
	}
	for key, bank := range overlay {
		if len(bank) > 0 {
			banks[strings.ToLower(key)] = bank
		}
	}
	subjects := make([]Subject, 0, len(c.subjects))
	for _, s := range c.subjects {
		subjects = append(subjects, s)
	}
	return New(subjects, banks, c.defaultKey)
}

// Subjects lists the known subjects ordered by key.
func (c *Catalog) Subjects() []Subject {
	out := make([]Subject, 0, len(c.subjects))
	for _, s := range c.subjects {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ListSubjects returns the known subject keys in sorted order.
func (c *Catalog) ListSubjects() []string {
	subjects := c.Subjects()
	keys := make([]string, len(subjects))
	for i, s := range subjects {
		keys[i] = s.Key
	}
	return keys
}

// Lookup resolves a subject key case-insensitively.
func (c *Catalog) Lookup(key string) (Subject, bool) {
	s, ok := c.subjects[strings.ToLower(strings.TrimSpace(key))]
	return s, ok
}

// GetBank returns a copy of the subject's bank.
func (c *Catalog) GetBank(key string) ([]domain.QuestionRecord, error) {
	s, ok := c.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSubject, key)
	}
	return cloneRecords(c.banks[s.Key]), nil
}

// Sample returns min(count, bank size) distinct records in uniformly shuffled order.
// Unknown subjects and empty banks fall back to the default subject's bank.
func (c *Catalog) Sample(key string, count int) []domain.QuestionRecord {
	bank := c.banks[strings.ToLower(strings.TrimSpace(key))]
	if len(bank) == 0 {
		bank = c.banks[c.defaultKey]
	}
	if count <= 0 || len(bank) == 0 {
		return nil
	}

	shuffled := cloneRecords(bank)
	c.Shuffle(shuffled)
	if count < len(shuffled) {
		shuffled = shuffled[:count]
	}
	return shuffled
}

// Shuffle permutes records in place using the catalog's source.
func (c *Catalog) Shuffle(records []domain.QuestionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rnd.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
}

func cloneRecords(records []domain.QuestionRecord) []domain.QuestionRecord {
	out := make([]domain.QuestionRecord, len(records))
	for i, q := range records {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
