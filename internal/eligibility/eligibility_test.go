package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/careerbridge/careerbridge/internal/db"
)

func testStudent(cgpa float64, branch string) *db.Student {
	return &db.Student{
		ProfileComplete: true,
		CGPA:            &cgpa,
		Branch:          branch,
	}
}

func testJob(minCGPA float64, branches []string, deadline time.Time) *db.Job {
	return &db.Job{
		MinCGPA:             minCGPA,
		EligibleBranches:    branches,
		ApplicationDeadline: deadline,
	}
}

func TestCheckEligible(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	res := Check(testStudent(8.2, "CSE"), testJob(7.5, []string{"CSE", "IT"}, deadline), now)
	assert.True(t, res.Eligible)
	assert.Empty(t, res.Reasons)
}

func TestCheckDeadlineInclusive(t *testing.T) {
	deadline := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	onDeadline := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	res := Check(testStudent(8.0, "CSE"), testJob(0, nil, deadline), onDeadline)
	assert.True(t, res.Eligible)

	dayAfter := time.Date(2026, 3, 16, 0, 1, 0, 0, time.UTC)
	res = Check(testStudent(8.0, "CSE"), testJob(0, nil, deadline), dayAfter)
	assert.False(t, res.Eligible)
	assert.Contains(t, res.Reasons, ReasonDeadlinePassed)
}

func TestCheckCGPABelowMinimum(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	res := Check(testStudent(6.9, "CSE"), testJob(7.0, nil, deadline), now)
	assert.False(t, res.Eligible)
	assert.Equal(t, []string{ReasonCGPABelowMinimum}, res.Reasons)
}

func TestCheckMissingCGPA(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	student := &db.Student{ProfileComplete: true, Branch: "CSE"}
	res := Check(student, testJob(7.0, nil, deadline), now)
	assert.False(t, res.Eligible)
	assert.Contains(t, res.Reasons, ReasonCGPABelowMinimum)
}

func TestCheckBranchMatching(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	// Case and whitespace are not significant.
	res := Check(testStudent(9.0, "cse"), testJob(0, []string{" CSE ", "ECE"}, deadline), now)
	assert.True(t, res.Eligible)

	res = Check(testStudent(9.0, "MECH"), testJob(0, []string{"CSE", "ECE"}, deadline), now)
	assert.False(t, res.Eligible)
	assert.Contains(t, res.Reasons, ReasonBranchNotEligible)

	// Empty branch list means open to all.
	res = Check(testStudent(9.0, "MECH"), testJob(0, nil, deadline), now)
	assert.True(t, res.Eligible)
}

func TestCheckIncompleteProfile(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	student := testStudent(9.0, "CSE")
	student.ProfileComplete = false
	res := Check(student, testJob(0, nil, deadline), now)
	assert.False(t, res.Eligible)
	assert.Contains(t, res.Reasons, ReasonIncompleteProfile)
}

func TestCheckCollectsAllReasons(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	student := testStudent(5.0, "CIVIL")
	student.ProfileComplete = false
	res := Check(student, testJob(7.0, []string{"CSE"}, deadline), now)
	assert.False(t, res.Eligible)
	assert.Len(t, res.Reasons, 4)
}
