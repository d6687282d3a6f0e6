package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"testforge/internal/domain"
	"testforge/internal/domain/models/testcase"
	"testforge/internal/domain/repositories"
)

// DataFileName is the document holding every test case
const DataFileName = "test-cases.json"

// TestCaseStore keeps all test cases in one pretty-printed JSON array.
//
// Every mutation is a full read-modify-write. Mutations are serialized by mu and the
// file is replaced with an atomic rename, so in-process writers never interleave and a
// failed write leaves the previous document intact. Separate processes sharing the
// same file are still last-write-wins.
type TestCaseStore struct {
	dir    string
	path   string
	mu     sync.Mutex
	now    func() time.Time
	logger *slog.Logger
}

// NewTestCaseStore creates a store under dataDir. The directory is created on first write.
func NewTestCaseStore(dataDir string, logger *slog.Logger) *TestCaseStore {
	return &TestCaseStore{
		dir:    dataDir,
		path:   filepath.Join(dataDir, DataFileName),
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

var _ repositories.TestCaseRepository = (*TestCaseStore)(nil)

// Path returns the backing file location
func (s *TestCaseStore) Path() string {
	return s.path
}

// GetAll returns every record in storage order
func (s *TestCaseStore) GetAll(ctx context.Context) ([]testcase.TestCase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.load()
}

// GetByID scans all records for id
func (s *TestCaseStore) GetByID(ctx context.Context, id string) (*testcase.TestCase, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("test case %s: %w", id, domain.ErrNotFound)
}

// Save appends cases to the stored set and returns only the appended records.
// An id that is already stored, or repeated within cases, fails the whole batch.
func (s *TestCaseStore) Save(ctx context.Context, cases []testcase.TestCase) ([]testcase.TestCase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(existing)+len(cases))
	for _, tc := range existing {
		seen[tc.ID] = struct{}{}
	}
	for _, tc := range cases {
		if _, ok := seen[tc.ID]; ok {
			return nil, fmt.Errorf("%w: test case %s already exists", domain.ErrValidation, tc.ID)
		}
		seen[tc.ID] = struct{}{}
	}

	combined := make([]testcase.TestCase, 0, len(existing)+len(cases))
	combined = append(combined, existing...)
	combined = append(combined, cases...)

	if err := s.writeAll(combined); err != nil {
		return nil, err
	}

	s.logger.Debug("test cases appended",
		"added", len(cases),
		"total", len(combined),
	)

	added := make([]testcase.TestCase, len(cases))
	copy(added, cases)
	return added, nil
}

// Update merges patch over the record with id and bumps UpdatedAt
func (s *TestCaseStore) Update(ctx context.Context, id string, patch *testcase.Patch) (*testcase.TestCase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}

	idx := indexOf(all, id)
	if idx < 0 {
		return nil, fmt.Errorf("test case %s: %w", id, domain.ErrNotFound)
	}

	patch.Apply(&all[idx], s.now())

	if err := s.writeAll(all); err != nil {
		return nil, err
	}

	updated := all[idx]
	return &updated, nil
}

// Delete removes the record with id. Nothing is written when it does not exist.
func (s *TestCaseStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return false, err
	}

	filtered := make([]testcase.TestCase, 0, len(all))
	for _, tc := range all {
		if tc.ID != id {
			filtered = append(filtered, tc)
		}
	}
	if len(filtered) == len(all) {
		return false, nil
	}

	if err := s.writeAll(filtered); err != nil {
		return false, err
	}
	return true, nil
}

// load reads the whole document. A missing file is an empty store.
func (s *TestCaseStore) load() ([]testcase.TestCase, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []testcase.TestCase{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var cases []testcase.TestCase
	if err := json.Unmarshal(raw, &cases); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if cases == nil {
		cases = []testcase.TestCase{}
	}
	return cases, nil
}

// writeAll replaces the document atomically via a temp file in the same directory
func (s *TestCaseStore) writeAll(cases []testcase.TestCase) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	payload, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		return fmt.Errorf("encode test cases: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, DataFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func indexOf(cases []testcase.TestCase, id string) int {
	for i := range cases {
		if cases[i].ID == id {
			return i
		}
	}
	return -1
}
