package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-fuego/fuego"
	"github.com/go-fuego/fuego/option"
)

// Server represents the Fuego API server.
type Server struct {
	fuego *fuego.Server
	deps  *Dependencies
	port  int
}

// Dependencies contains all service dependencies.
type Dependencies struct {
	JobsRepo          JobsRepository
	CandidatesRepo    CandidatesRepository
	ProfilesRepo      ProfilesRepository
	AnnouncementsRepo AnnouncementsRepository
	Store             BlobStore
	Analysis          AnalysisService
	Hub               HubBroadcaster
}

// Config holds API server configuration.
type Config struct {
	Port        int
	Title       string
	Description string
	Version     string
}

// NewServer creates a new Fuego API server.
func NewServer(cfg *Config, deps *Dependencies) *Server {
	s := fuego.NewServer(
		fuego.WithAddr(fmt.Sprintf(":%d", cfg.Port)),
		fuego.WithEngineOptions(
			fuego.WithOpenAPIConfig(fuego.OpenAPIConfig{
				PrettyFormatJSON: true,
				JSONFilePath:     "openapi.json",
				SwaggerURL:       "/docs",
				SpecURL:          "/openapi.json",
				UIHandler: func(specURL string) http.Handler {
					return ScalarHandler(specURL, cfg.Title, cfg.Description)
				},
			}),
		),
	)

	// Set OpenAPI info
	s.OpenAPI.Description().Info.Title = cfg.Title
	s.OpenAPI.Description().Info.Description = cfg.Description
	s.OpenAPI.Description().Info.Version = cfg.Version

	// Add Chi middleware (Fuego is net/http compatible)
	fuego.Use(s, middleware.RequestID)
	fuego.Use(s, middleware.RealIP)
	fuego.Use(s, middleware.Logger)
	fuego.Use(s, middleware.Recoverer)
	fuego.Use(s, cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	srv := &Server{
		fuego: s,
		deps:  deps,
		port:  cfg.Port,
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) registerRoutes() {
	// Health check
	fuego.Get(s.fuego, "/health", s.healthCheck,
		option.Summary("Health Check"),
		option.Description("Returns the health status of the API"),
		option.Tags("System"),
	)

	// Jobs API
	jobsGroup := fuego.Group(s.fuego, "/api/v1/jobs",
		option.Tags("Jobs"),
	)

	fuego.Get(jobsGroup, "/", s.listJobs,
		option.Summary("List Jobs"),
		option.Description("Returns the jobs owned by a recruiter profile"),
		option.Query("owner_id", "Recruiter profile ID (required)"),
	)

	fuego.Post(jobsGroup, "/", s.createJob,
		option.Summary("Create Job"),
		option.Description("Creates a job opening with a fresh public application link"),
	)

	fuego.Get(jobsGroup, "/{id}", s.getJob,
		option.Summary("Get Job"),
		option.Description("Returns a single job by ID"),
	)

	fuego.Delete(jobsGroup, "/{id}", s.deleteJob,
		option.Summary("Delete Job"),
		option.Description("Deletes a job and its candidates"),
	)

	fuego.Get(jobsGroup, "/{id}/candidates", s.listCandidates,
		option.Summary("List Candidates"),
		option.Description("Returns all candidates of a job, oldest first"),
	)

	fuego.Post(jobsGroup, "/{id}/candidates", s.uploadCandidate,
		option.Summary("Upload Résumé"),
		option.Description("Stores a résumé file and queues the candidate for analysis"),
	)

	fuego.Post(jobsGroup, "/{id}/analyze", s.startAnalysis,
		option.Summary("Start Analysis"),
		option.Description("Starts an analysis batch over the job's pending candidates"),
		option.DefaultStatusCode(http.StatusAccepted),
	)

	fuego.Get(jobsGroup, "/{id}/metrics", s.getAnalysisMetrics,
		option.Summary("Get Analysis Metrics"),
		option.Description("Returns progress of the job's current analysis batch"),
	)

	// Candidates API
	candidatesGroup := fuego.Group(s.fuego, "/api/v1/candidates",
		option.Tags("Candidates"),
	)

	fuego.Get(candidatesGroup, "/{id}/resume", s.getCandidateResumeURL,
		option.Summary("Get Résumé URL"),
		option.Description("Returns a time-limited URL to view the candidate's résumé file"),
	)

	fuego.Patch(candidatesGroup, "/{id}/selected", s.selectCandidate,
		option.Summary("Shortlist Candidate"),
		option.Description("Toggles the recruiter's shortlist flag"),
	)

	fuego.Delete(candidatesGroup, "/{id}", s.deleteCandidate,
		option.Summary("Delete Candidate"),
		option.Description("Removes a candidate and its analysis"),
	)

	// Public application API
	applyGroup := fuego.Group(s.fuego, "/api/v1/apply",
		option.Tags("Public Application"),
	)

	fuego.Get(applyGroup, "/{token}", s.getPublicJob,
		option.Summary("Get Public Job"),
		option.Description("Returns the public view of a job behind a share token"),
	)

	fuego.Post(applyGroup, "/{token}", s.publicApply,
		option.Summary("Apply to Job"),
		option.Description("Submits a résumé through the public application link"),
	)

	// Profiles API
	fuego.Get(s.fuego, "/api/v1/profiles/{id}", s.getProfile,
		option.Summary("Get Profile"),
		option.Description("Returns a recruiter profile with quota usage"),
		option.Tags("Profiles"),
	)

	// Announcements API
	fuego.Get(s.fuego, "/api/v1/announcements", s.listActiveAnnouncements,
		option.Summary("List Active Announcements"),
		option.Description("Returns announcements currently shown to users"),
		option.Tags("Announcements"),
	)

	// Admin API
	adminGroup := fuego.Group(s.fuego, "/api/v1/admin",
		option.Tags("Admin"),
	)

	fuego.Get(adminGroup, "/profiles", s.listProfiles,
		option.Summary("List Profiles"),
		option.Description("Returns recruiter profiles for plan administration"),
		option.Query("limit", "Maximum profiles to return (default: 100, max: 500)"),
	)

	fuego.Patch(adminGroup, "/profiles/{id}/plan", s.updateProfilePlan,
		option.Summary("Update Profile Plan"),
		option.Description("Changes a profile's plan and résumé quota"),
	)

	fuego.Get(adminGroup, "/announcements", s.listAnnouncements,
		option.Summary("List All Announcements"),
		option.Description("Returns every announcement, active or not"),
	)

	fuego.Post(adminGroup, "/announcements", s.createAnnouncement,
		option.Summary("Create Announcement"),
		option.Description("Creates an announcement"),
	)

	fuego.Put(adminGroup, "/announcements/{id}", s.updateAnnouncement,
		option.Summary("Update Announcement"),
		option.Description("Updates an existing announcement"),
	)

	fuego.Delete(adminGroup, "/announcements/{id}", s.deleteAnnouncement,
		option.Summary("Delete Announcement"),
		option.Description("Deletes an announcement"),
	)
}

// Start starts the API server.
func (s *Server) Start() error {
	return s.fuego.Run()
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	// Fuego uses net/http server internally
	return nil
}

// Mux returns the underlying ServeMux for mounting additional routes.
func (s *Server) Mux() *http.ServeMux {
	return s.fuego.Mux
}
