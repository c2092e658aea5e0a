package db

import (
	"time"

	"github.com/google/uuid"
)

// Job is a posted job opening.
type Job struct {
	ID                  uuid.UUID `json:"id"`
	RecruiterID         uuid.UUID `json:"recruiter_id"`
	RecruiterName       string    `json:"recruiter_name,omitempty"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	CompanyName         string    `json:"company_name"`
	Location            string    `json:"location"`
	JobType             string    `json:"job_type"`
	SalaryRange         string    `json:"salary_range,omitempty"`
	MinCGPA             float64   `json:"min_cgpa"`
	EligibleBranches    []string  `json:"eligible_branches"`
	ApplicationDeadline time.Time `json:"application_deadline"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	// ApplicationCount is populated by recruiter-facing listings.
	ApplicationCount int `json:"application_count,omitempty"`
}

// JobInput carries a job create or full update.
type JobInput struct {
	Title               string
	Description         string
	CompanyName         string
	Location            string
	JobType             string
	SalaryRange         string
	MinCGPA             float64
	EligibleBranches    []string
	ApplicationDeadline time.Time
}

// JobFilters narrows job listings. Zero values mean no constraint.
type JobFilters struct {
	Search   string
	Location string
	JobType  string
	Company  string
	Branch   string
	// MaxMinCGPA keeps only jobs whose CGPA cutoff is at or below the
	// student's own CGPA.
	MaxMinCGPA *float64
}

// JobFilterOptions are the distinct values available for listing filters.
type JobFilterOptions struct {
	Locations []string `json:"locations"`
	JobTypes  []string `json:"job_types"`
	Companies []string `json:"companies"`
	Branches  []string `json:"branches"`
}
