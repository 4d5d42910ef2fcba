package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/models"
)

// ============================================================================
// Common Types
// ============================================================================

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Details string `json:"details,omitempty" description:"Additional error details"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status" example:"ok" description:"Health status"`
	Version string `json:"version" example:"dev" description:"Application version"`
}

// ============================================================================
// Jobs Types
// ============================================================================

// JobResponse represents a job opening in API responses.
type JobResponse struct {
	ID         uuid.UUID `json:"id" description:"Job unique identifier"`
	OwnerID    uuid.UUID `json:"owner_id" description:"Recruiter profile ID"`
	Title      string    `json:"title" description:"Job title"`
	Criteria   string    `json:"criteria" description:"Free-text screening criteria"`
	ShareToken string    `json:"share_token" description:"Token embedded in the public application link"`
	CreatedAt  time.Time `json:"created_at" description:"Record creation timestamp"`
	UpdatedAt  time.Time `json:"updated_at" description:"Last update timestamp"`
}

// JobsListResponse contains the jobs owned by one recruiter.
type JobsListResponse struct {
	Jobs  []JobResponse `json:"jobs" description:"List of jobs"`
	Total int           `json:"total" description:"Total number of jobs"`
}

// JobCreateRequest contains the request body for creating a job.
type JobCreateRequest struct {
	OwnerID  uuid.UUID `json:"owner_id" validate:"required" description:"Recruiter profile ID"`
	Title    string    `json:"title" validate:"required" description:"Job title"`
	Criteria string    `json:"criteria" description:"Free-text screening criteria"`
}

// ============================================================================
// Candidates Types
// ============================================================================

// CandidateResponse represents a candidate résumé in API responses.
type CandidateResponse struct {
	ID         uuid.UUID              `json:"id" description:"Candidate unique identifier"`
	JobID      uuid.UUID              `json:"job_id" description:"Associated job ID"`
	Filename   string                 `json:"filename" description:"Original résumé filename"`
	Status     string                 `json:"status" description:"Candidate status: UPLOADING, PENDING, ANALYZING, COMPLETED, ERROR"`
	Result     *models.AnalysisResult `json:"analysis_result,omitempty" description:"Structured analysis result (COMPLETED only)"`
	MatchScore *float64               `json:"match_score,omitempty" description:"Match score 0-10"`
	IsSelected bool                   `json:"is_selected" description:"Shortlist flag"`
	ResumeURL  string                 `json:"resume_url,omitempty" description:"Time-limited URL to view the résumé file"`
	CreatedAt  time.Time              `json:"created_at" description:"Record creation timestamp"`
	UpdatedAt  time.Time              `json:"updated_at" description:"Last update timestamp"`
}

// CandidatesListResponse contains the candidates of one job.
type CandidatesListResponse struct {
	Candidates []CandidateResponse `json:"candidates" description:"List of candidates"`
	Total      int                 `json:"total" description:"Total number of candidates"`
}

// CandidateUploadRequest contains the request body for uploading a résumé.
// FileBase64 carries the file content; data-URI prefixes are accepted.
type CandidateUploadRequest struct {
	Filename   string `json:"filename" validate:"required" description:"Résumé filename (.pdf, .doc, .docx)"`
	FileBase64 string `json:"file_base64" validate:"required" description:"Base64-encoded file content"`
}

// ResumeURLResponse contains a time-limited URL to view a résumé file.
type ResumeURLResponse struct {
	URL string `json:"url" description:"Signed URL, valid for one hour"`
}

// CandidateSelectRequest contains the request body for shortlisting.
type CandidateSelectRequest struct {
	ID       uuid.UUID `path:"id" description:"Candidate ID"`
	Selected bool      `json:"selected" description:"Shortlist flag"`
}

// ============================================================================
// Analysis Types
// ============================================================================

// AnalysisStartResponse contains the response after triggering a batch.
type AnalysisStartResponse struct {
	Status  string `json:"status" example:"started" description:"Batch status"`
	Message string `json:"message" description:"Status message"`
}

// AnalysisMetricsResponse contains batch progress for a job.
type AnalysisMetricsResponse struct {
	Running   bool `json:"running" description:"Whether a batch is currently running"`
	Total     int  `json:"total" description:"Candidates in the current batch"`
	Processed int  `json:"processed" description:"Candidates analyzed successfully"`
	Errored   int  `json:"errored" description:"Candidates that failed analysis"`

	TimeTakenSec float64 `json:"time_taken_sec" description:"Elapsed batch time in seconds"`
}

// ============================================================================
// Public Application Types
// ============================================================================

// PublicJobResponse is the job view shown on the public application page.
// It deliberately omits the screening criteria.
type PublicJobResponse struct {
	Title string `json:"title" description:"Job title"`
}

// PublicApplyResponse contains the response after a public application.
type PublicApplyResponse struct {
	CandidateID uuid.UUID `json:"candidate_id" description:"Created candidate ID"`
	Status      string    `json:"status" example:"received" description:"Application status"`
}

// ============================================================================
// Profiles Types
// ============================================================================

// ProfileResponse represents a recruiter profile in API responses.
type ProfileResponse struct {
	ID          uuid.UUID `json:"id" description:"Profile unique identifier"`
	Email       string    `json:"email" description:"Account email"`
	Name        string    `json:"name" description:"Display name"`
	Plan        string    `json:"plan" description:"Subscription plan"`
	ResumeUsage int       `json:"resume_usage" description:"Résumés analyzed to completion"`
	ResumeLimit int       `json:"resume_limit" description:"Résumé quota; negative means unlimited"`
	IsAdmin     bool      `json:"is_admin" description:"Administrator flag"`
}

// ProfilesListResponse contains a page of profiles.
type ProfilesListResponse struct {
	Profiles []ProfileResponse `json:"profiles" description:"List of profiles"`
	Total    int               `json:"total" description:"Number of profiles returned"`
}

// ProfileUpdatePlanRequest contains the request body for changing a plan.
type ProfileUpdatePlanRequest struct {
	ID          uuid.UUID `path:"id" description:"Profile ID"`
	Plan        string    `json:"plan" validate:"required" description:"New plan name"`
	ResumeLimit int       `json:"resume_limit" description:"New résumé quota; negative means unlimited"`
}

// ============================================================================
// Announcements Types
// ============================================================================

// AnnouncementResponse represents an announcement in API responses.
type AnnouncementResponse struct {
	ID        uuid.UUID `json:"id" description:"Announcement unique identifier"`
	Title     string    `json:"title" description:"Announcement title"`
	Body      string    `json:"body" description:"Announcement body"`
	ImageURL  string    `json:"image_url,omitempty" description:"Optional illustration URL"`
	Active    bool      `json:"active" description:"Whether the announcement is shown to users"`
	CreatedAt time.Time `json:"created_at" description:"Record creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" description:"Last update timestamp"`
}

// AnnouncementsListResponse contains a list of announcements.
type AnnouncementsListResponse struct {
	Announcements []AnnouncementResponse `json:"announcements" description:"List of announcements"`
	Total         int                    `json:"total" description:"Number of announcements"`
}

// AnnouncementCreateRequest contains the request body for creating an announcement.
type AnnouncementCreateRequest struct {
	Title    string `json:"title" validate:"required" description:"Announcement title"`
	Body     string `json:"body" validate:"required" description:"Announcement body"`
	ImageURL string `json:"image_url,omitempty" description:"Optional illustration URL"`
	Active   bool   `json:"active" description:"Whether the announcement is shown to users"`
}

// AnnouncementUpdateRequest contains the request body for updating an announcement.
type AnnouncementUpdateRequest struct {
	ID       uuid.UUID `path:"id" description:"Announcement ID"`
	Title    string    `json:"title,omitempty" description:"Announcement title"`
	Body     string    `json:"body,omitempty" description:"Announcement body"`
	ImageURL string    `json:"image_url,omitempty" description:"Optional illustration URL"`
	Active   *bool     `json:"active,omitempty" description:"Whether the announcement is shown to users"`
}

// ============================================================================
// Conversion Helpers
// ============================================================================

// JobFromModel converts models.Job to JobResponse.
func JobFromModel(j *models.Job) JobResponse {
	return JobResponse{
		ID:         j.ID,
		OwnerID:    j.OwnerID,
		Title:      j.Title,
		Criteria:   j.Criteria,
		ShareToken: j.ShareToken,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
}

// JobsFromModel converts a slice of models.Job to JobResponse values.
func JobsFromModel(jobs []models.Job) []JobResponse {
	result := make([]JobResponse, len(jobs))
	for i := range jobs {
		result[i] = JobFromModel(&jobs[i])
	}
	return result
}

// CandidateFromModel converts models.Candidate to CandidateResponse.
func CandidateFromModel(c *models.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:         c.ID,
		JobID:      c.JobID,
		Filename:   c.Filename,
		Status:     string(c.Status),
		Result:     c.Result,
		MatchScore: c.MatchScore,
		IsSelected: c.IsSelected,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// CandidatesFromModel converts a slice of models.Candidate to CandidateResponse values.
func CandidatesFromModel(candidates []models.Candidate) []CandidateResponse {
	result := make([]CandidateResponse, len(candidates))
	for i := range candidates {
		result[i] = CandidateFromModel(&candidates[i])
	}
	return result
}

// ProfileFromModel converts models.Profile to ProfileResponse.
func ProfileFromModel(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Email:       p.Email,
		Name:        p.Name,
		Plan:        p.Plan,
		ResumeUsage: p.ResumeUsage,
		ResumeLimit: p.ResumeLimit,
		IsAdmin:     p.IsAdmin,
	}
}

// ProfilesFromModel converts a slice of models.Profile to ProfileResponse values.
func ProfilesFromModel(profiles []models.Profile) []ProfileResponse {
	result := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		result[i] = ProfileFromModel(&profiles[i])
	}
	return result
}

// AnnouncementFromModel converts models.Announcement to AnnouncementResponse.
func AnnouncementFromModel(a *models.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		ImageURL:  a.ImageURL,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AnnouncementsFromModel converts a slice of models.Announcement to AnnouncementResponse values.
func AnnouncementsFromModel(announcements []models.Announcement) []AnnouncementResponse {
	result := make([]AnnouncementResponse, len(announcements))
	for i := range announcements {
		result[i] = AnnouncementFromModel(&announcements[i])
	}
	return result
}
