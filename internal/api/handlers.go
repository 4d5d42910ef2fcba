// Package api provides HTTP handlers for the REST API.
package api

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-fuego/fuego"
	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/analyzer"
	"github.com/talentsift/talentsift/internal/document"
	"github.com/talentsift/talentsift/internal/logger"
	"github.com/talentsift/talentsift/internal/models"
	"github.com/talentsift/talentsift/internal/web"
)

const signedURLTTLSec = 3600

const adminProfileHeader = "X-Profile-ID"

var allowedResumeExt = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ============================================================================
// Health
// ============================================================================

func (s *Server) healthCheck(c fuego.ContextNoBody) (HealthResponse, error) {
	return HealthResponse{
		Status:  "ok",
		Version: "dev",
	}, nil
}

// ============================================================================
// Jobs Handlers
// ============================================================================

func (s *Server) listJobs(c fuego.ContextNoBody) (JobsListResponse, error) {
	ownerIDStr := c.QueryParam("owner_id")
	if ownerIDStr == "" {
		return JobsListResponse{}, fuego.BadRequestError{Detail: "owner_id query parameter is required"}
	}

	ownerID, err := uuid.Parse(ownerIDStr)
	if err != nil {
		return JobsListResponse{}, fuego.BadRequestError{Detail: "Invalid owner_id format"}
	}

	jobs, err := s.deps.JobsRepo.ListByOwner(c.Context(), ownerID)
	if err != nil {
		return JobsListResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return JobsListResponse{
		Jobs:  JobsFromModel(jobs),
		Total: len(jobs),
	}, nil
}

func (s *Server) createJob(c fuego.ContextWithBody[JobCreateRequest]) (JobResponse, error) {
	body, err := c.Body()
	if err != nil {
		return JobResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	if strings.TrimSpace(body.Title) == "" {
		return JobResponse{}, fuego.BadRequestError{Detail: "Title is required"}
	}
	if body.OwnerID == uuid.Nil {
		return JobResponse{}, fuego.BadRequestError{Detail: "owner_id is required"}
	}

	job := &models.Job{
		OwnerID:  body.OwnerID,
		Title:    body.Title,
		Criteria: body.Criteria,
	}

	if err := s.deps.JobsRepo.Create(c.Context(), job); err != nil {
		return JobResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return JobFromModel(job), nil
}

func (s *Server) getJob(c fuego.ContextNoBody) (JobResponse, error) {
	id, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return JobResponse{}, fuego.BadRequestError{Detail: "Invalid job ID"}
	}

	job, err := s.deps.JobsRepo.GetByID(c.Context(), id)
	if err != nil {
		return JobResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if job == nil {
		return JobResponse{}, fuego.NotFoundError{Detail: "Job not found"}
	}

	return JobFromModel(job), nil
}

func (s *Server) deleteJob(c fuego.ContextNoBody) (any, error) {
	id, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return nil, fuego.BadRequestError{Detail: "Invalid job ID"}
	}

	if err := s.deps.JobsRepo.Delete(c.Context(), id); err != nil {
		return nil, fuego.InternalServerError{Detail: err.Error()}
	}

	return map[string]string{"status": "deleted"}, nil
}

// ============================================================================
// Candidates Handlers
// ============================================================================

func (s *Server) listCandidates(c fuego.ContextNoBody) (CandidatesListResponse, error) {
	jobID, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return CandidatesListResponse{}, fuego.BadRequestError{Detail: "Invalid job ID"}
	}

	candidates, err := s.deps.CandidatesRepo.ListByJob(c.Context(), jobID)
	if err != nil {
		return CandidatesListResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return CandidatesListResponse{
		Candidates: CandidatesFromModel(candidates),
		Total:      len(candidates),
	}, nil
}

func (s *Server) uploadCandidate(c fuego.ContextWithBody[CandidateUploadRequest]) (CandidateResponse, error) {
	jobID, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return CandidateResponse{}, fuego.BadRequestError{Detail: "Invalid job ID"}
	}

	job, err := s.deps.JobsRepo.GetByID(c.Context(), jobID)
	if err != nil {
		return CandidateResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if job == nil {
		return CandidateResponse{}, fuego.NotFoundError{Detail: "Job not found"}
	}

	body, err := c.Body()
	if err != nil {
		return CandidateResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	return s.storeResume(c.Context(), job, body)
}

// storeResume decodes, persists and uploads one résumé, leaving the
// candidate in PENDING on success.
func (s *Server) storeResume(ctx context.Context, job *models.Job, body CandidateUploadRequest) (CandidateResponse, error) {
	ext := strings.ToLower(filepath.Ext(body.Filename))
	contentType, ok := allowedResumeExt[ext]
	if !ok {
		return CandidateResponse{}, fuego.BadRequestError{Detail: "Unsupported file type, expected .pdf, .doc or .docx"}
	}

	data, err := decodeFilePayload(body.FileBase64)
	if err != nil {
		return CandidateResponse{}, fuego.BadRequestError{Detail: "Invalid base64 file content"}
	}
	if len(data) == 0 {
		return CandidateResponse{}, fuego.BadRequestError{Detail: "Empty file"}
	}

	candidate := &models.Candidate{
		JobID:    job.ID,
		Filename: body.Filename,
		Status:   models.CandidateStatusUploading,
	}

	// extraction is best effort; scoring falls back to the inline file
	if text, err := document.ExtractText(body.Filename, data); err == nil && text != "" {
		candidate.ExtractedText = &text
	} else if err != nil {
		logger.Get().Warn().Err(err).Str("filename", body.Filename).Msg("resume text extraction failed")
	}

	if err := s.deps.CandidatesRepo.Create(ctx, candidate); err != nil {
		return CandidateResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	path := job.ID.String() + "/" + candidate.ID.String() + ext
	if _, err := s.deps.Store.Upload(ctx, path, data, contentType); err != nil {
		if uerr := s.deps.CandidatesRepo.UpdateStatus(ctx, candidate.ID, models.CandidateStatusError); uerr != nil {
			logger.Get().Error().Err(uerr).Str("candidate_id", candidate.ID.String()).Msg("failed to mark upload error")
		}
		return CandidateResponse{}, fuego.InternalServerError{Detail: "Failed to store resume file"}
	}

	if err := s.deps.CandidatesRepo.SetFilePath(ctx, candidate.ID, path); err != nil {
		return CandidateResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	candidate.FilePath = &path
	candidate.Status = models.CandidateStatusPending

	if s.deps.Hub != nil {
		s.deps.Hub.Broadcast(web.CandidateUpdatedEvent(candidate.ID, job.ID, candidate.Status, nil))
	}

	return CandidateFromModel(candidate), nil
}

func (s *Server) getCandidateResumeURL(c fuego.ContextNoBody) (ResumeURLResponse, error) {
	id, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return ResumeURLResponse{}, fuego.BadRequestError{Detail: "Invalid candidate ID"}
	}

	candidate, err := s.deps.CandidatesRepo.GetByID(c.Context(), id)
	if err != nil {
		return ResumeURLResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if candidate == nil {
		return ResumeURLResponse{}, fuego.NotFoundError{Detail: "Candidate not found"}
	}
	if candidate.FilePath == nil {
		return ResumeURLResponse{}, fuego.NotFoundError{Detail: "Candidate has no stored resume"}
	}

	url, err := s.deps.Store.SignedURL(*candidate.FilePath, signedURLTTLSec)
	if err != nil {
		return ResumeURLResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return ResumeURLResponse{URL: url}, nil
}

func (s *Server) selectCandidate(c fuego.ContextWithBody[CandidateSelectRequest]) (any, error) {
	id, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return nil, fuego.BadRequestError{Detail: "Invalid candidate ID"}
	}

	body, err := c.Body()
	if err != nil {
		return nil, fuego.BadRequestError{Detail: err.Error()}
	}

	if err := s.deps.CandidatesRepo.SetSelected(c.Context(), id, body.Selected); err != nil {
		return nil, fuego.InternalServerError{Detail: err.Error()}
	}

	return map[string]string{"status": "updated"}, nil
}

func (s *Server) deleteCandidate(c fuego.ContextNoBody) (any, error) {
	id, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return nil, fuego.BadRequestError{Detail: "Invalid candidate ID"}
	}

	if err := s.deps.CandidatesRepo.Delete(c.Context(), id); err != nil {
		return nil, fuego.InternalServerError{Detail: err.Error()}
	}

	return map[string]string{"status": "deleted"}, nil
}

// ============================================================================
// Analysis Handlers
// ============================================================================

func (s *Server) startAnalysis(c fuego.ContextNoBody) (AnalysisStartResponse, error) {
	jobID, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return AnalysisStartResponse{}, fuego.BadRequestError{Detail: "Invalid job ID"}
	}

	job, err := s.deps.JobsRepo.GetByID(c.Context(), jobID)
	if err != nil {
		return AnalysisStartResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if job == nil {
		return AnalysisStartResponse{}, fuego.NotFoundError{Detail: "Job not found"}
	}

	if s.deps.Analysis.Metrics(jobID).Running {
		return AnalysisStartResponse{}, fuego.ConflictError{Detail: "An analysis batch is already running for this job"}
	}

	profileID := job.OwnerID
	go func() {
		ctx := context.Background()
		if err := s.deps.Analysis.RunBatch(ctx, jobID, profileID); err != nil && !errors.Is(err, analyzer.ErrBatchRunning) {
			logger.Get().Error().Err(err).Str("job_id", jobID.String()).Msg("analysis batch failed")
		}
	}()

	return AnalysisStartResponse{
		Status:  "started",
		Message: "Analysis started for job " + job.Title,
	}, nil
}

func (s *Server) getAnalysisMetrics(c fuego.ContextNoBody) (AnalysisMetricsResponse, error) {
	jobID, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return AnalysisMetricsResponse{}, fuego.BadRequestError{Detail: "Invalid job ID"}
	}

	m := s.deps.Analysis.Metrics(jobID)
	return AnalysisMetricsResponse{
		Running:      m.Running,
		Total:        m.Total,
		Processed:    m.Processed,
		Errored:      m.Errored,
		TimeTakenSec: m.TimeTakenSec,
	}, nil
}

// ============================================================================
// Public Application Handlers
// ============================================================================

func (s *Server) getPublicJob(c fuego.ContextNoBody) (PublicJobResponse, error) {
	job, err := s.deps.JobsRepo.GetByShareToken(c.Context(), c.PathParam("token"))
	if err != nil {
		return PublicJobResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if job == nil {
		return PublicJobResponse{}, fuego.NotFoundError{Detail: "Job not found"}
	}

	return PublicJobResponse{Title: job.Title}, nil
}

func (s *Server) publicApply(c fuego.ContextWithBody[CandidateUploadRequest]) (PublicApplyResponse, error) {
	job, err := s.deps.JobsRepo.GetByShareToken(c.Context(), c.PathParam("token"))
	if err != nil {
		return PublicApplyResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if job == nil {
		return PublicApplyResponse{}, fuego.NotFoundError{Detail: "Job not found"}
	}

	body, err := c.Body()
	if err != nil {
		return PublicApplyResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	candidate, err := s.storeResume(c.Context(), job, body)
	if err != nil {
		return PublicApplyResponse{}, err
	}

	return PublicApplyResponse{
		CandidateID: candidate.ID,
		Status:      "received",
	}, nil
}

// ============================================================================
// Profiles Handlers
// ============================================================================

func (s *Server) getProfile(c fuego.ContextNoBody) (ProfileResponse, error) {
	id, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return ProfileResponse{}, fuego.BadRequestError{Detail: "Invalid profile ID"}
	}

	profile, err := s.deps.ProfilesRepo.GetByID(c.Context(), id)
	if err != nil {
		return ProfileResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if profile == nil {
		return ProfileResponse{}, fuego.NotFoundError{Detail: "Profile not found"}
	}

	return ProfileFromModel(profile), nil
}

func (s *Server) requireAdmin(ctx context.Context, r *http.Request) error {
	profileID, err := uuid.Parse(r.Header.Get(adminProfileHeader))
	if err != nil {
		return fuego.UnauthorizedError{Detail: "Missing or invalid " + adminProfileHeader + " header"}
	}

	profile, err := s.deps.ProfilesRepo.GetByID(ctx, profileID)
	if err != nil {
		return fuego.InternalServerError{Detail: "Failed to load profile"}
	}
	if profile == nil || !profile.IsAdmin {
		return fuego.ForbiddenError{Detail: "Administrator access required"}
	}
	return nil
}

func (s *Server) listProfiles(c fuego.ContextNoBody) (ProfilesListResponse, error) {
	if err := s.requireAdmin(c.Context(), c.Request()); err != nil {
		return ProfilesListResponse{}, err
	}

	limit := parseIntWithDefault(c.QueryParam("limit"), 100)
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	profiles, err := s.deps.ProfilesRepo.List(c.Context(), limit)
	if err != nil {
		return ProfilesListResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return ProfilesListResponse{
		Profiles: ProfilesFromModel(profiles),
		Total:    len(profiles),
	}, nil
}

func (s *Server) updateProfilePlan(c fuego.ContextWithBody[ProfileUpdatePlanRequest]) (ProfileResponse, error) {
	if err := s.requireAdmin(c.Context(), c.Request()); err != nil {
		return ProfileResponse{}, err
	}

	id, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return ProfileResponse{}, fuego.BadRequestError{Detail: "Invalid profile ID"}
	}

	body, err := c.Body()
	if err != nil {
		return ProfileResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	if !models.IsValidPlan(body.Plan) {
		return ProfileResponse{}, fuego.BadRequestError{Detail: "Invalid plan"}
	}

	profile, err := s.deps.ProfilesRepo.GetByID(c.Context(), id)
	if err != nil {
		return ProfileResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if profile == nil {
		return ProfileResponse{}, fuego.NotFoundError{Detail: "Profile not found"}
	}

	if err := s.deps.ProfilesRepo.UpdatePlan(c.Context(), id, body.Plan, body.ResumeLimit); err != nil {
		return ProfileResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	profile.Plan = body.Plan
	profile.ResumeLimit = body.ResumeLimit
	return ProfileFromModel(profile), nil
}

// ============================================================================
// Announcements Handlers
// ============================================================================

func (s *Server) listActiveAnnouncements(c fuego.ContextNoBody) (AnnouncementsListResponse, error) {
	announcements, err := s.deps.AnnouncementsRepo.ListActive(c.Context())
	if err != nil {
		return AnnouncementsListResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return AnnouncementsListResponse{
		Announcements: AnnouncementsFromModel(announcements),
		Total:         len(announcements),
	}, nil
}

func (s *Server) listAnnouncements(c fuego.ContextNoBody) (AnnouncementsListResponse, error) {
	if err := s.requireAdmin(c.Context(), c.Request()); err != nil {
		return AnnouncementsListResponse{}, err
	}

	announcements, err := s.deps.AnnouncementsRepo.List(c.Context())
	if err != nil {
		return AnnouncementsListResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return AnnouncementsListResponse{
		Announcements: AnnouncementsFromModel(announcements),
		Total:         len(announcements),
	}, nil
}

func (s *Server) createAnnouncement(c fuego.ContextWithBody[AnnouncementCreateRequest]) (AnnouncementResponse, error) {
	if err := s.requireAdmin(c.Context(), c.Request()); err != nil {
		return AnnouncementResponse{}, err
	}

	body, err := c.Body()
	if err != nil {
		return AnnouncementResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	if strings.TrimSpace(body.Title) == "" {
		return AnnouncementResponse{}, fuego.BadRequestError{Detail: "Title is required"}
	}

	a := &models.Announcement{
		Title:    body.Title,
		Body:     body.Body,
		ImageURL: body.ImageURL,
		Active:   body.Active,
	}

	if err := s.deps.AnnouncementsRepo.Create(c.Context(), a); err != nil {
		return AnnouncementResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return AnnouncementFromModel(a), nil
}

func (s *Server) updateAnnouncement(c fuego.ContextWithBody[AnnouncementUpdateRequest]) (AnnouncementResponse, error) {
	if err := s.requireAdmin(c.Context(), c.Request()); err != nil {
		return AnnouncementResponse{}, err
	}

	id, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return AnnouncementResponse{}, fuego.BadRequestError{Detail: "Invalid announcement ID"}
	}

	a, err := s.deps.AnnouncementsRepo.GetByID(c.Context(), id)
	if err != nil {
		return AnnouncementResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}
	if a == nil {
		return AnnouncementResponse{}, fuego.NotFoundError{Detail: "Announcement not found"}
	}

	body, err := c.Body()
	if err != nil {
		return AnnouncementResponse{}, fuego.BadRequestError{Detail: err.Error()}
	}

	if body.Title != "" {
		a.Title = body.Title
	}
	if body.Body != "" {
		a.Body = body.Body
	}
	if body.ImageURL != "" {
		a.ImageURL = body.ImageURL
	}
	if body.Active != nil {
		a.Active = *body.Active
	}

	if err := s.deps.AnnouncementsRepo.Update(c.Context(), a); err != nil {
		return AnnouncementResponse{}, fuego.InternalServerError{Detail: err.Error()}
	}

	return AnnouncementFromModel(a), nil
}

func (s *Server) deleteAnnouncement(c fuego.ContextNoBody) (any, error) {
	if err := s.requireAdmin(c.Context(), c.Request()); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(c.PathParam("id"))
	if err != nil {
		return nil, fuego.BadRequestError{Detail: "Invalid announcement ID"}
	}

	if err := s.deps.AnnouncementsRepo.Delete(c.Context(), id); err != nil {
		return nil, fuego.InternalServerError{Detail: err.Error()}
	}

	return map[string]string{"status": "deleted"}, nil
}

// ============================================================================
// Helpers
// ============================================================================

// decodeFilePayload decodes base64 content, tolerating data-URI prefixes the
// browser's FileReader produces.
func decodeFilePayload(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.Index(payload, ";base64,"); idx >= 0 {
			payload = payload[idx+len(";base64,"):]
		}
	}
	return base64.StdEncoding.DecodeString(payload)
}

// Helper to parse int with default
func parseIntWithDefault(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
