package testcase

import (
	"slices"
	"strings"
	"time"
)

// Priority ranks the business impact of a test case
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// Priorities lists every valid priority in display order
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// TestType classifies what a test case exercises
type TestType string

const (
	TypeFunctional  TestType = "Functional"
	TypeEdgeCase    TestType = "Edge Case"
	TypeNegative    TestType = "Negative"
	TypePerformance TestType = "Performance"
	TypeSecurity    TestType = "Security"
	TypeUsability   TestType = "Usability"
)

// TestTypes lists every valid test type in display order
var TestTypes = []TestType{TypeFunctional, TypeEdgeCase, TypeNegative, TypePerformance, TypeSecurity, TypeUsability}

// Status is the review lifecycle state of a stored test case
type Status string

const (
	StatusDraft    Status = "Draft"
	StatusReview   Status = "Review"
	StatusApproved Status = "Approved"
)

// Statuses lists every valid status in lifecycle order
var Statuses = []Status{StatusDraft, StatusReview, StatusApproved}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool { return slices.Contains(Priorities, p) }

// Valid reports whether t is one of the known test types
func (t TestType) Valid() bool { return slices.Contains(TestTypes, t) }

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool { return slices.Contains(Statuses, s) }

// TestCase is the unit of persistence.
// ID and CreatedAt never change after creation; UpdatedAt is bumped on every mutation.
type TestCase struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Preconditions     string    `json:"preconditions"`
	Steps             []string  `json:"steps"`
	ExpectedResult    string    `json:"expectedResult"`
	Priority          Priority  `json:"priority"`
	Type              TestType  `json:"type"`
	Status            Status    `json:"status"`
	Tags              []string  `json:"tags"`
	SourceRequirement string    `json:"sourceRequirement"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Patch holds the mutable fields of a partial update.
// Nil fields are left untouched.
type Patch struct {
	Title             *string   `json:"title,omitempty"`
	Description       *string   `json:"description,omitempty"`
	Preconditions     *string   `json:"preconditions,omitempty"`
	Steps             *[]string `json:"steps,omitempty"`
	ExpectedResult    *string   `json:"expectedResult,omitempty"`
	Priority          *Priority `json:"priority,omitempty"`
	Type              *TestType `json:"type,omitempty"`
	Status            *Status   `json:"status,omitempty"`
	Tags              *[]string `json:"tags,omitempty"`
	SourceRequirement *string   `json:"sourceRequirement,omitempty"`
}

// IsEmpty reports whether the patch sets no field at all
func (p *Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Preconditions == nil &&
		p.Steps == nil && p.ExpectedResult == nil && p.Priority == nil &&
		p.Type == nil && p.Status == nil && p.Tags == nil && p.SourceRequirement == nil
}

// Apply merges the patch over tc and stamps UpdatedAt with now.
// UpdatedAt never moves before CreatedAt.
func (p *Patch) Apply(tc *TestCase, now time.Time) {
	if p.Title != nil {
		tc.Title = *p.Title
	}
	if p.Description != nil {
		tc.Description = *p.Description
	}
	if p.Preconditions != nil {
		tc.Preconditions = *p.Preconditions
	}
	if p.Steps != nil {
		tc.Steps = slices.Clone(*p.Steps)
	}
	if p.ExpectedResult != nil {
		tc.ExpectedResult = *p.ExpectedResult
	}
	if p.Priority != nil {
		tc.Priority = *p.Priority
	}
	if p.Type != nil {
		tc.Type = *p.Type
	}
	if p.Status != nil {
		tc.Status = *p.Status
	}
	if p.Tags != nil {
		tc.Tags = slices.Clone(*p.Tags)
	}
	if p.SourceRequirement != nil {
		tc.SourceRequirement = *p.SourceRequirement
	}

	if now.Before(tc.CreatedAt) {
		now = tc.CreatedAt
	}
	tc.UpdatedAt = now
}

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Status   Status
	Priority Priority
	Type     TestType
	Tag      string
}

// Matches reports whether tc passes every set criterion.
// Tags compare case-insensitively; enums compare exactly.
func (f Filter) Matches(tc *TestCase) bool {
	if f.Status != "" && tc.Status != f.Status {
		return false
	}
	if f.Priority != "" && tc.Priority != f.Priority {
		return false
	}
	if f.Type != "" && tc.Type != f.Type {
		return false
	}
	if f.Tag != "" {
		return slices.ContainsFunc(tc.Tags, func(t string) bool {
			return strings.EqualFold(t, f.Tag)
		})
	}
	return true
}

// Apply returns the subset of cases matching f, preserving order
func (f Filter) Apply(cases []TestCase) []TestCase {
	out := make([]TestCase, 0, len(cases))
	for i := range cases {
		if f.Matches(&cases[i]) {
			out = append(out, cases[i])
		}
	}
	return out
}
