package testcase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"testforge/internal/config"
	"testforge/internal/domain"
	"testforge/internal/domain/models/testcase"
	"testforge/internal/domain/repositories"
	tcSvc "testforge/internal/domain/services/testcase"
)

// testCaseService implements the TestCaseService interface
type testCaseService struct {
	repo   repositories.TestCaseRepository
	logger *slog.Logger
}

// NewService creates a new test case service
func NewService(repo repositories.TestCaseRepository, logger *slog.Logger) tcSvc.TestCaseService {
	return &testCaseService{
		repo:   repo,
		logger: logger,
	}
}

// List returns stored test cases matching filter
func (s *testCaseService) List(ctx context.Context, filter testcase.Filter) ([]testcase.TestCase, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(all), nil
}

// Get returns one test case
func (s *testCaseService) Get(ctx context.Context, id string) (*testcase.TestCase, error) {
	return s.repo.GetByID(ctx, id)
}

// GetMany returns the stored cases whose id is listed, in storage order.
// An empty ids list selects everything.
func (s *testCaseService) GetMany(ctx context.Context, ids []string) ([]testcase.TestCase, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return all, nil
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	out := make([]testcase.TestCase, 0, len(ids))
	for _, tc := range all {
		if _, ok := wanted[tc.ID]; ok {
			out = append(out, tc)
		}
	}
	return out, nil
}

// Save validates every record before anything is written
func (s *testCaseService) Save(ctx context.Context, cases []testcase.TestCase) ([]testcase.TestCase, error) {
	if len(cases) == 0 {
		return nil, &domain.FieldError{
			Message: "at least one test case is required",
			Fields:  map[string]string{"testCases": "cannot be blank"},
		}
	}

	fields := make(map[string]string)
	seen := make(map[string]int, len(cases))
	for i := range cases {
		normalize(&cases[i])
		if err := validateTestCase(&cases[i]); err != nil {
			var fe *domain.FieldError
			if !errors.As(err, &fe) {
				return nil, err
			}
			for k, v := range fe.Fields {
				fields[fmt.Sprintf("testCases.%d.%s", i, k)] = v
			}
		}
		if first, dup := seen[cases[i].ID]; dup && cases[i].ID != "" {
			fields[fmt.Sprintf("testCases.%d.id", i)] = fmt.Sprintf("duplicates testCases.%d.id", first)
			continue
		}
		seen[cases[i].ID] = i
	}
	if len(fields) > 0 {
		return nil, &domain.FieldError{Message: "Invalid test cases", Fields: fields}
	}

	saved, err := s.repo.Save(ctx, cases)
	if err != nil {
		return nil, err
	}

	s.logger.Info("test cases saved", "count", len(saved))
	return saved, nil
}

// Update validates the patch and applies it to the stored record
func (s *testCaseService) Update(ctx context.Context, id string, patch *testcase.Patch) (*testcase.TestCase, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("test case updated", "id", id, "status", updated.Status)
	return updated, nil
}

// Delete removes a test case, returning ErrNotFound when it does not exist
func (s *testCaseService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("test case %s: %w", id, domain.ErrNotFound)
	}

	s.logger.Info("test case deleted", "id", id)
	return nil
}

// BulkDelete deletes each id on its own. A failing id is reported and the rest continue.
// Duplicate ids are processed once.
func (s *testCaseService) BulkDelete(ctx context.Context, ids []string) (*testcase.BulkDeleteResult, error) {
	err := validation.Validate(ids,
		validation.Required,
		validation.Length(1, config.MaxBulkDeleteIDs),
	)
	if err != nil {
		return nil, &domain.FieldError{
			Message: fmt.Sprintf("ids: %v", err),
			Fields:  map[string]string{"ids": err.Error()},
		}
	}

	result := &testcase.BulkDeleteResult{Results: make([]testcase.ItemResult, 0, len(ids))}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if err := ctx.Err(); err != nil {
			result.Add(testcase.ItemResult{ID: id, Outcome: testcase.OutcomeFailed, Error: err.Error()})
			continue
		}

		removed, err := s.repo.Delete(ctx, id)
		switch {
		case err != nil:
			s.logger.Warn("bulk delete item failed", "id", id, "error", err)
			result.Add(testcase.ItemResult{ID: id, Outcome: testcase.OutcomeFailed, Error: err.Error()})
		case removed:
			result.Add(testcase.ItemResult{ID: id, Outcome: testcase.OutcomeDeleted})
		default:
			result.Add(testcase.ItemResult{ID: id, Outcome: testcase.OutcomeNotFound})
		}
	}

	s.logger.Info("bulk delete finished",
		"attempted", result.Attempted,
		"deleted", result.Deleted,
		"not_found", result.NotFound,
		"failed", result.Failed,
	)
	return result, nil
}

// normalize turns absent lists into empty ones so stored records always carry arrays
func normalize(tc *testcase.TestCase) {
	if tc.Tags == nil {
		tc.Tags = []string{}
	}
	if tc.Steps == nil {
		tc.Steps = []string{}
	}
}

func validateTestCase(tc *testcase.TestCase) error {
	err := validation.ValidateStruct(tc,
		validation.Field(&tc.ID, validation.Required, validation.By(isUUID)),
		validation.Field(&tc.Title, validation.Required, validation.RuneLength(1, config.MaxTitleLength)),
		validation.Field(&tc.Steps, validation.Required),
		validation.Field(&tc.ExpectedResult, validation.Required),
		validation.Field(&tc.Priority, validation.By(validPriority)),
		validation.Field(&tc.Type, validation.By(validType)),
		validation.Field(&tc.Status, validation.By(validStatus)),
		validation.Field(&tc.CreatedAt, validation.Required),
		validation.Field(&tc.UpdatedAt, validation.Required, validation.By(notBefore(tc.CreatedAt))),
	)
	return domain.NewFieldError("invalid test case", err)
}

// notBefore rejects a timestamp earlier than start
func notBefore(start time.Time) validation.RuleFunc {
	return func(value interface{}) error {
		if t, _ := value.(time.Time); t.Before(start) {
			return errors.New("must not be before createdAt")
		}
		return nil
	}
}

func validatePatch(p *testcase.Patch) error {
	if p == nil || p.IsEmpty() {
		return &domain.FieldError{
			Message: "At least one field must be provided for update",
			Fields:  map[string]string{},
		}
	}

	err := validation.ValidateStruct(p,
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.RuneLength(1, config.MaxTitleLength)),
		validation.Field(&p.Steps, validation.NilOrNotEmpty),
		validation.Field(&p.ExpectedResult, validation.NilOrNotEmpty),
		validation.Field(&p.Priority, validation.When(p.Priority != nil, validation.By(validPriority))),
		validation.Field(&p.Type, validation.When(p.Type != nil, validation.By(validType))),
		validation.Field(&p.Status, validation.When(p.Status != nil, validation.By(validStatus))),
	)
	return domain.NewFieldError("invalid update", err)
}

func isUUID(value interface{}) error {
	s, _ := value.(string)
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid UUID")
	}
	return nil
}

func validPriority(value interface{}) error {
	if p, _ := indirect(value).(testcase.Priority); !p.Valid() {
		return errors.New("must be one of Critical, High, Medium, Low")
	}
	return nil
}

func validType(value interface{}) error {
	if t, _ := indirect(value).(testcase.TestType); !t.Valid() {
		return errors.New("must be one of Functional, Edge Case, Negative, Performance, Security, Usability")
	}
	return nil
}

func validStatus(value interface{}) error {
	if s, _ := indirect(value).(testcase.Status); !s.Valid() {
		return errors.New("must be one of Draft, Review, Approved")
	}
	return nil
}

// indirect unwraps the pointer fields of a Patch
func indirect(value interface{}) interface{} {
	switch v := value.(type) {
	case *testcase.Priority:
		if v != nil {
			return *v
		}
	case *testcase.TestType:
		if v != nil {
			return *v
		}
	case *testcase.Status:
		if v != nil {
			return *v
		}
	}
	return value
}
