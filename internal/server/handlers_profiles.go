package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge/internal/db"
	"github.com/careerbridge/careerbridge/internal/server/middleware"
	"github.com/careerbridge/careerbridge/internal/sms"
	"github.com/careerbridge/careerbridge/internal/storage"
)

// StudentProfileRequest is the payload for a student profile update. The
// form is submitted as a whole, so every required field must be present.
type StudentProfileRequest struct {
	FullName        string   `json:"full_name" validate:"required,max=100"`
	Phone           string   `json:"phone" validate:"required"`
	DOB             string   `json:"dob" validate:"required"`
	Gender          string   `json:"gender" validate:"required,oneof=Male Female Other"`
	Address         string   `json:"address" validate:"required,max=500"`
	College         string   `json:"college" validate:"required,max=200"`
	Branch          string   `json:"branch" validate:"required,max=100"`
	Degree          string   `json:"degree" validate:"required,max=100"`
	CurrentYear     string   `json:"current_year" validate:"required"`
	GraduationYear  int      `json:"graduation_year" validate:"required,min=2000,max=2100"`
	CGPA            float64  `json:"cgpa" validate:"required,min=0,max=10"`
	TenthMarks      *float64 `json:"tenth_marks" validate:"omitempty,min=0,max=100"`
	TwelfthMarks    *float64 `json:"twelfth_marks" validate:"omitempty,min=0,max=100"`
	Backlogs        int      `json:"backlogs" validate:"min=0"`
	TechnicalSkills string   `json:"technical_skills" validate:"max=1000"`
	SoftSkills      string   `json:"soft_skills" validate:"max=1000"`
	Certifications  string   `json:"certifications" validate:"max=1000"`
}

// RecruiterProfileRequest is the payload for a recruiter profile update.
type RecruiterProfileRequest struct {
	FullName       string `json:"full_name" validate:"required,max=100"`
	Phone          string `json:"phone" validate:"required"`
	CompanyName    string `json:"company_name" validate:"required,max=200"`
	CompanyWebsite string `json:"company_website" validate:"omitempty,url,max=300"`
	LinkedInURL    string `json:"linkedin_url" validate:"omitempty,url,max=300"`
	Industry       string `json:"industry" validate:"max=100"`
	Designation    string `json:"designation" validate:"max=100"`
}

// handleGetProfile returns the caller's own profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	switch identity.Role {
	case db.RoleStudent:
		student, err := s.db.GetStudent(r.Context(), identity.UserID)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		if student == nil {
			s.serviceError(w, &ErrAccountNotFound{ID: identity.UserID})
			return
		}
		s.jsonResponse(w, http.StatusOK, student)
	case db.RoleRecruiter:
		recruiter, err := s.db.GetRecruiter(r.Context(), identity.UserID)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		if recruiter == nil {
			s.serviceError(w, &ErrAccountNotFound{ID: identity.UserID})
			return
		}
		s.jsonResponse(w, http.StatusOK, recruiter)
	default:
		s.errorResponse(w, http.StatusForbidden, "unknown role")
	}
}

// handleUpdateStudentProfile saves the full student profile and marks it
// complete, unlocking job applications.
func (s *Server) handleUpdateStudentProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req StudentProfileRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if !sms.ValidIndianMobile(req.Phone) {
		s.serviceError(w, &ErrValidation{Field: "phone", Message: "must be a 10-digit mobile number starting with 6-9"})
		return
	}
	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		s.serviceError(w, &ErrValidation{Field: "dob", Message: "must be YYYY-MM-DD"})
		return
	}

	phone := strings.TrimSpace(req.Phone)
	taken, err := s.db.StudentPhoneTaken(r.Context(), identity.UserID, phone)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if taken {
		s.serviceError(w, &ErrConflict{Message: "phone number already registered"})
		return
	}

	update := &db.StudentProfileUpdate{
		ID:              identity.UserID,
		FullName:        req.FullName,
		Phone:           phone,
		DOB:             dob,
		Gender:          req.Gender,
		Address:         req.Address,
		College:         req.College,
		Branch:          req.Branch,
		Degree:          req.Degree,
		CurrentYear:     req.CurrentYear,
		GraduationYear:  req.GraduationYear,
		CGPA:            req.CGPA,
		TenthMarks:      req.TenthMarks,
		TwelfthMarks:    req.TwelfthMarks,
		Backlogs:        req.Backlogs,
		TechnicalSkills: req.TechnicalSkills,
		SoftSkills:      req.SoftSkills,
		Certifications:  req.Certifications,
	}
	if err := s.db.UpdateStudentProfile(r.Context(), update); err != nil {
		s.serviceError(w, err)
		return
	}

	student, err := s.db.GetStudent(r.Context(), identity.UserID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, student)
}

// handleUpdateRecruiterProfile saves the recruiter profile.
func (s *Server) handleUpdateRecruiterProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req RecruiterProfileRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if !sms.ValidIndianMobile(req.Phone) {
		s.serviceError(w, &ErrValidation{Field: "phone", Message: "must be a 10-digit mobile number starting with 6-9"})
		return
	}

	phone := strings.TrimSpace(req.Phone)
	taken, err := s.db.RecruiterPhoneTaken(r.Context(), identity.UserID, phone)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if taken {
		s.serviceError(w, &ErrConflict{Message: "phone number already registered"})
		return
	}

	update := &db.RecruiterProfileUpdate{
		ID:             identity.UserID,
		FullName:       req.FullName,
		Phone:          phone,
		CompanyName:    req.CompanyName,
		CompanyWebsite: req.CompanyWebsite,
		LinkedInURL:    req.LinkedInURL,
		Industry:       req.Industry,
		Designation:    req.Designation,
	}
	if err := s.db.UpdateRecruiterProfile(r.Context(), update); err != nil {
		s.serviceError(w, err)
		return
	}

	recruiter, err := s.db.GetRecruiter(r.Context(), identity.UserID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, recruiter)
}

var resumeExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".jpg": true, ".jpeg": true,
}

var photoExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
}

// readUpload pulls the named file out of a multipart form, enforcing the
// size cap and allowed extensions.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string, allowed map[string]bool) (data []byte, filename string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize+4096)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "file too large or malformed form")
		return nil, "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("missing %q file field", field))
		return nil, "", false
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowed[ext] {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("file type %s not allowed", ext))
		return nil, "", false
	}

	data, err = io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read uploaded file")
		return nil, "", false
	}
	if int64(len(data)) > s.cfg.MaxUploadSize {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "file too large")
		return nil, "", false
	}
	return data, header.Filename, true
}

func contentTypeForExt(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// handleUploadResume stores a new resume for the student, replacing any
// previous one.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	data, filename, ok := s.readUpload(w, r, "resume", resumeExtensions)
	if !ok {
		return
	}

	student, err := s.db.GetStudent(r.Context(), identity.UserID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if student == nil {
		s.serviceError(w, &ErrAccountNotFound{ID: identity.UserID})
		return
	}

	key := storage.NewKey("resumes", filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if err := s.store.Put(r.Context(), key, data, contentTypeForExt(ext)); err != nil {
		s.serviceError(w, err)
		return
	}
	if err := s.db.SetStudentResume(r.Context(), identity.UserID, key, filename); err != nil {
		s.serviceError(w, err)
		return
	}
	if student.ResumeKey != "" {
		// The new resume is already live; a failed delete only leaves an orphan.
		if err := s.store.Delete(r.Context(), student.ResumeKey); err != nil {
			log.Printf("Failed to delete old resume %s: %v", student.ResumeKey, err)
		}
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{
		"resume_key":      key,
		"resume_filename": filename,
	})
}

// handleUploadPhoto stores a profile photo for either role.
func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	data, filename, ok := s.readUpload(w, r, "photo", photoExtensions)
	if !ok {
		return
	}

	key := storage.NewKey("photos", filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if err := s.store.Put(r.Context(), key, data, contentTypeForExt(ext)); err != nil {
		s.serviceError(w, err)
		return
	}

	switch identity.Role {
	case db.RoleStudent:
		err = s.db.SetStudentPhoto(r.Context(), identity.UserID, key)
	case db.RoleRecruiter:
		err = s.db.SetRecruiterPhoto(r.Context(), identity.UserID, key)
	default:
		s.errorResponse(w, http.StatusForbidden, "unknown role")
		return
	}
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"photo_key": key})
}

// resumeDownloadName builds the display filename for a resume download,
// e.g. "Priya_Sharma_Resume.pdf".
func resumeDownloadName(student *db.Student) string {
	ext := strings.ToLower(filepath.Ext(student.ResumeFilename))
	name := strings.TrimSpace(student.FullName)
	if name == "" {
		name = student.Username
	}
	return strings.ReplaceAll(name, " ", "_") + "_Resume" + ext
}

func (s *Server) serveResume(w http.ResponseWriter, r *http.Request, student *db.Student) {
	if student.ResumeKey == "" {
		s.serviceError(w, &ErrNotFound{Resource: "resume"})
		return
	}
	data, err := s.store.Get(r.Context(), student.ResumeKey)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	ext := strings.ToLower(filepath.Ext(student.ResumeFilename))
	disposition := "attachment"
	// Word documents cannot render in the browser, so they always download.
	if r.URL.Query().Get("inline") == "true" && ext != ".doc" && ext != ".docx" {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", contentTypeForExt(ext))
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, resumeDownloadName(student)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleDownloadOwnResume lets the student download their stored resume.
func (s *Server) handleDownloadOwnResume(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	student, err := s.db.GetStudent(r.Context(), identity.UserID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if student == nil {
		s.serviceError(w, &ErrAccountNotFound{ID: identity.UserID})
		return
	}
	s.serveResume(w, r, student)
}

// handleDownloadStudentResume lets recruiters download an applicant's
// resume. Only recruiters who received an application from the student may
// read it.
func (s *Server) handleDownloadStudentResume(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	studentID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	if !identity.IsAdmin {
		applied, err := s.studentAppliedToRecruiter(r, studentID, identity.UserID)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		if !applied {
			s.serviceError(w, &ErrForbidden{Message: "student has not applied to your jobs"})
			return
		}
	}

	student, err := s.db.GetStudent(r.Context(), studentID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if student == nil {
		s.serviceError(w, &ErrNotFound{Resource: "student"})
		return
	}
	s.serveResume(w, r, student)
}

// handleGetStudent shows a student profile. Recruiters and admins may view
// any student; students only themselves.
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	studentID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	if identity.Role == db.RoleStudent && !identity.IsAdmin && studentID != identity.UserID {
		s.serviceError(w, &ErrForbidden{Message: "students may only view their own profile"})
		return
	}

	student, err := s.db.GetStudent(r.Context(), studentID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if student == nil {
		s.serviceError(w, &ErrNotFound{Resource: "student"})
		return
	}
	s.jsonResponse(w, http.StatusOK, student)
}

// handleServePhoto streams a stored profile photo. Keys come from profile
// responses, so any authenticated account may view them. The URL carries the
// key's filename part; the photos/ prefix is fixed so no other category of
// blob is reachable here.
func (s *Server) handleServePhoto(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("key")
	if name == "" || strings.Contains(name, "..") {
		s.serviceError(w, &ErrNotFound{Resource: "photo"})
		return
	}
	key := "photos/" + name
	data, err := s.store.Get(r.Context(), key)
	if err != nil {
		s.serviceError(w, &ErrNotFound{Resource: "photo"})
		return
	}
	w.Header().Set("Content-Type", contentTypeForExt(strings.ToLower(filepath.Ext(key))))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) studentAppliedToRecruiter(r *http.Request, studentID, recruiterID uuid.UUID) (bool, error) {
	jobs, err := s.db.ListJobsByRecruiter(r.Context(), recruiterID)
	if err != nil {
		return false, err
	}
	for _, job := range jobs {
		app, err := s.db.GetApplicationByJobAndStudent(r.Context(), job.ID, studentID)
		if err != nil {
			return false, err
		}
		if app != nil {
			return true, nil
		}
	}
	return false, nil
}
