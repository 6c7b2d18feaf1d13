package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/pau-interconnect/cv-analyzer/internal/domain/users"
)

// Store keeps every user record in one JSON document on disk, keyed by
// normalized email. The whole file is re-read and rewritten on each append;
// a single mutex serializes the read-modify-write so concurrent requests
// cannot drop each other's entries.
type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Store { return &Store{path: path} }

// AppendAnalysis creates the user on first write (keeping the first submitted
// name thereafter) and appends the entry to the user's history.
func (s *Store) AppendAnalysis(_ context.Context, name, email string, entry users.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	key := users.NormalizeEmail(email)
	u, ok := records[key]
	if !ok {
		u = &users.User{Name: name, Email: email}
		records[key] = u
	}
	u.Analyses = append(u.Analyses, entry)

	return s.save(records)
}

// Get returns the record for an email, or nil when none exists.
func (s *Store) Get(_ context.Context, email string) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	return records[users.NormalizeEmail(email)], nil
}

func (s *Store) load() (map[string]*users.User, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]*users.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	records := map[string]*users.User{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.path, err)
		}
	}
	return records, nil
}

func (s *Store) save(records map[string]*users.User) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
