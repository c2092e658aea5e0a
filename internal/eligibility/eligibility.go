// Package eligibility decides whether a student may apply to a job.
package eligibility

import (
	"strings"
	"time"

	"github.com/careerbridge/careerbridge/internal/db"
)

// Reason codes explaining an ineligible result.
const (
	ReasonIncompleteProfile = "incomplete_profile"
	ReasonDeadlinePassed    = "deadline_passed"
	ReasonCGPABelowMinimum  = "cgpa_below_minimum"
	ReasonBranchNotEligible = "branch_not_eligible"
)

// Result is an eligibility decision with the reasons it failed, if any.
type Result struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Check evaluates the student against the job's criteria. An empty
// eligible_branches list means all branches qualify. The deadline is
// inclusive of its final day.
func Check(student *db.Student, job *db.Job, now time.Time) Result {
	var reasons []string

	if !student.ProfileComplete {
		reasons = append(reasons, ReasonIncompleteProfile)
	}
	if now.After(endOfDay(job.ApplicationDeadline)) {
		reasons = append(reasons, ReasonDeadlinePassed)
	}
	if job.MinCGPA > 0 {
		if student.CGPA == nil || *student.CGPA < job.MinCGPA {
			reasons = append(reasons, ReasonCGPABelowMinimum)
		}
	}
	if !branchEligible(student.Branch, job.EligibleBranches) {
		reasons = append(reasons, ReasonBranchNotEligible)
	}

	return Result{Eligible: len(reasons) == 0, Reasons: reasons}
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

func branchEligible(branch string, eligible []string) bool {
	if len(eligible) == 0 {
		return true
	}
	for _, b := range eligible {
		if strings.EqualFold(strings.TrimSpace(b), strings.TrimSpace(branch)) {
			return true
		}
	}
	return false
}
