package db

import (
	"time"

	"github.com/google/uuid"
)

// Student is a student account with its placement profile.
type Student struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`

	FullName string     `json:"full_name,omitempty"`
	Phone    string     `json:"phone,omitempty"`
	DOB      *time.Time `json:"dob,omitempty"`
	Gender   string     `json:"gender,omitempty"`
	Address  string     `json:"address,omitempty"`

	College         string   `json:"college,omitempty"`
	Branch          string   `json:"branch,omitempty"`
	Degree          string   `json:"degree,omitempty"`
	CurrentYear     string   `json:"current_year,omitempty"`
	GraduationYear  *int     `json:"graduation_year,omitempty"`
	CGPA            *float64 `json:"cgpa,omitempty"`
	TenthMarks      *float64 `json:"tenth_marks,omitempty"`
	TwelfthMarks    *float64 `json:"twelfth_marks,omitempty"`
	Backlogs        int      `json:"backlogs"`
	TechnicalSkills string   `json:"technical_skills,omitempty"`
	SoftSkills      string   `json:"soft_skills,omitempty"`
	Certifications  string   `json:"certifications,omitempty"`

	ResumeKey       string     `json:"resume_key,omitempty"`
	ResumeFilename  string     `json:"resume_filename,omitempty"`
	ResumeUpdatedAt *time.Time `json:"resume_updated_at,omitempty"`
	PhotoKey        string     `json:"photo_key,omitempty"`
	PhotoUpdatedAt  *time.Time `json:"photo_updated_at,omitempty"`

	ProfileComplete bool       `json:"profile_complete"`
	IsAdmin         bool       `json:"is_admin"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Recruiter is a recruiter account with its company profile.
type Recruiter struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`

	FullName       string `json:"full_name,omitempty"`
	Phone          string `json:"phone,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
	CompanyWebsite string `json:"company_website,omitempty"`
	LinkedInURL    string `json:"linkedin_url,omitempty"`
	Industry       string `json:"industry,omitempty"`
	Designation    string `json:"designation,omitempty"`

	PhotoKey       string     `json:"photo_key,omitempty"`
	PhotoUpdatedAt *time.Time `json:"photo_updated_at,omitempty"`

	ProfileComplete bool       `json:"profile_complete"`
	IsAdmin         bool       `json:"is_admin"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// AccountSummary is the projection of either account type used by admin
// listings and the dashboard.
type AccountSummary struct {
	ID              uuid.UUID  `json:"id"`
	Role            string     `json:"role"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	CompanyName     string     `json:"company_name,omitempty"`
	IsAdmin         bool       `json:"is_admin"`
	ProfileComplete bool       `json:"profile_complete"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// StudentProfileUpdate carries a full student profile write. All fields are
// written together; optional academic marks stay NULL when nil.
type StudentProfileUpdate struct {
	ID              uuid.UUID
	FullName        string
	Phone           string
	DOB             time.Time
	Gender          string
	Address         string
	College         string
	Branch          string
	Degree          string
	CurrentYear     string
	GraduationYear  int
	CGPA            float64
	TenthMarks      *float64
	TwelfthMarks    *float64
	Backlogs        int
	TechnicalSkills string
	SoftSkills      string
	Certifications  string
}

// RecruiterProfileUpdate carries a full recruiter profile write.
type RecruiterProfileUpdate struct {
	ID             uuid.UUID
	FullName       string
	Phone          string
	CompanyName    string
	CompanyWebsite string
	LinkedInURL    string
	Industry       string
	Designation    string
}
