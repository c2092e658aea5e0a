package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/careerbridge/careerbridge/internal/config"
	"github.com/careerbridge/careerbridge/internal/db"
	"github.com/careerbridge/careerbridge/internal/llm"
	"github.com/careerbridge/careerbridge/internal/notify"
	"github.com/careerbridge/careerbridge/internal/resume"
	"github.com/careerbridge/careerbridge/internal/server/middleware"
	"github.com/careerbridge/careerbridge/internal/server/ratelimit"
	"github.com/careerbridge/careerbridge/internal/sms"
	"github.com/careerbridge/careerbridge/internal/storage"
)

// Server is the HTTP API server and its wired dependencies.
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	db          Database
	store       storage.Store
	analyzer    *resume.Analyzer
	llmClient   llm.Client
	notifier    Notifications
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	accounts    *AccountService
	validator   *validator.Validate
}

// New wires the server from configuration: database, blob storage, SMS,
// and the Gemini analyzer when an API key is configured.
func New(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		db:        database,
		validator: validator.New(),
	}

	if cfg.UseS3() {
		s.store, err = storage.NewS3Store(ctx, storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	} else {
		s.store, err = storage.NewLocalStore(cfg.UploadDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		s.llmClient = client
		s.analyzer = resume.NewAnalyzer(client)
	}

	var sender sms.Sender = sms.NopSender{}
	if cfg.Twilio.Enabled {
		sender = sms.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
	}
	s.notifier = notify.New(database, sender)

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.accounts = NewAccountService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the ServeMux with role-gated middleware chains.
func (s *Server) routes() http.Handler {
	auth := middleware.Auth(s.jwtService)
	student := func(h http.HandlerFunc) http.Handler {
		return auth(middleware.RequireRole(db.RoleStudent)(h))
	}
	recruiter := func(h http.HandlerFunc) http.Handler {
		return auth(middleware.RequireRole(db.RoleRecruiter)(h))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return auth(middleware.RequireAdmin(h))
	}
	any := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Authentication
	mux.HandleFunc("POST /auth/{role}/register", s.handleRegister)
	mux.HandleFunc("POST /auth/{role}/login", s.handleLogin)
	mux.Handle("PUT /auth/password", any(s.handleChangePassword))

	// Profiles and uploads
	mux.Handle("GET /profile/me", any(s.handleGetProfile))
	mux.Handle("PUT /profile/student", student(s.handleUpdateStudentProfile))
	mux.Handle("PUT /profile/recruiter", recruiter(s.handleUpdateRecruiterProfile))
	mux.Handle("POST /profile/resume", student(s.handleUploadResume))
	mux.Handle("GET /profile/resume", student(s.handleDownloadOwnResume))
	mux.Handle("POST /profile/photo", any(s.handleUploadPhoto))
	mux.Handle("GET /students/{id}", any(s.handleGetStudent))
	mux.Handle("GET /students/{id}/resume", recruiter(s.handleDownloadStudentResume))
	mux.Handle("GET /photos/{key}", any(s.handleServePhoto))

	// Jobs
	mux.Handle("GET /jobs", any(s.handleListJobs))
	mux.Handle("GET /jobs/options", any(s.handleJobOptions))
	mux.Handle("GET /jobs/mine", recruiter(s.handleMyJobs))
	mux.Handle("POST /jobs", recruiter(s.handleCreateJob))
	mux.Handle("POST /jobs/import", recruiter(s.handleImportJob))
	mux.Handle("GET /jobs/{id}", any(s.handleGetJob))
	mux.Handle("PUT /jobs/{id}", recruiter(s.handleUpdateJob))
	mux.Handle("DELETE /jobs/{id}", recruiter(s.handleDeleteJob))
	mux.Handle("GET /jobs/{id}/applications", recruiter(s.handleJobApplications))

	// Applications
	mux.Handle("POST /jobs/{id}/apply", student(s.handleApply))
	mux.Handle("GET /applications/mine", student(s.handleMyApplications))
	mux.Handle("GET /applications/{id}", any(s.handleGetApplication))
	mux.Handle("PUT /applications/{id}/status", recruiter(s.handleUpdateApplicationStatus))
	mux.Handle("POST /applications/{id}/resume-analysis", recruiter(s.handleResumeAnalysis))

	// Interviews
	mux.Handle("POST /applications/{id}/interviews", recruiter(s.handleScheduleInterview))
	mux.Handle("GET /interviews", any(s.handleListInterviews))
	mux.Handle("GET /interviews/{id}", any(s.handleGetInterview))
	mux.Handle("PUT /interviews/{id}/result", recruiter(s.handleInterviewResult))

	// Notifications
	mux.Handle("GET /notifications", any(s.handleListNotifications))
	mux.Handle("GET /notifications/unread-count", any(s.handleUnreadCount))
	mux.Handle("PUT /notifications/{id}/read", any(s.handleMarkRead))
	mux.Handle("PUT /notifications/read-all", any(s.handleMarkAllRead))

	// Admin console
	mux.Handle("GET /admin/stats", admin(s.handleAdminStats))
	mux.Handle("GET /admin/users", admin(s.handleAdminListUsers))
	mux.Handle("PUT /admin/users/{role}/{id}", admin(s.handleAdminUpdateUser))
	mux.Handle("DELETE /admin/users/{role}/{id}", admin(s.handleAdminDeleteUser))
	mux.Handle("PUT /admin/users/{role}/{id}/admin", admin(s.handleAdminSetAdmin))
	mux.Handle("GET /admin/audit", admin(s.handleAdminAudit))
	mux.Handle("GET /admin/activity", admin(s.handleAdminActivity))

	return mux
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit enforces per-client limits before routing.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientIP(r), r.URL.Path, r.Method)

		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
		}

		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
			}
			log.Printf("[rate-limit] %s exceeded limit on %s %s", clientIP(r), r.Method, r.URL.Path)
			s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
				"error":   "rate_limit_exceeded",
				"message": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address for rate limiting and audit entries.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// audit records an audit event. Failures are logged, never surfaced.
func (s *Server) audit(r *http.Request, eventType, userEmail, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	if err := s.db.RecordAuditEvent(r.Context(), eventType, message, userEmail, clientIP(r)); err != nil {
		log.Printf("Failed to record audit event: %v", err)
	}
}
