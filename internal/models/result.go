package models

// Sentinel strings used in analysis results. The product targets Brazilian
// recruiters, hence the pt-BR copy.
const (
	UnknownLocation       = "Não informado"
	FallbackCandidateName = "Candidato sem nome"
	FailedCandidateName   = "Erro na Análise"
	FailedProcessingNote  = "Falha de processamento. Tente novamente."
)

// WorkHistoryEntry is one job held by the candidate.
type WorkHistoryEntry struct {
	Company  string `json:"company"`
	Role     string `json:"role"`
	Duration string `json:"duration"`
}

// AnalysisResult is the structured output of scoring one résumé against a
// job. It is produced whole by the AI client or not at all; it is never
// partially written.
type AnalysisResult struct {
	CandidateName   string             `json:"candidateName"`
	MatchScore      float64            `json:"matchScore"`
	Summary         string             `json:"summary"`
	City            string             `json:"city"`
	Neighborhood    string             `json:"neighborhood"`
	PhoneNumbers    []string           `json:"phoneNumbers"`
	Pros            []string           `json:"pros"`
	Cons            []string           `json:"cons"`
	YearsExperience string             `json:"yearsExperience,omitempty"`
	WorkHistory     []WorkHistoryEntry `json:"workHistory"`
}

// FailedAnalysisResult returns the sentinel result used when every model in
// the fallback chain has been exhausted. Downstream code gets a uniform
// result shape instead of an error.
func FailedAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		CandidateName: FailedCandidateName,
		MatchScore:    0,
		Summary:       FailedProcessingNote,
		City:          UnknownLocation,
		Neighborhood:  UnknownLocation,
		PhoneNumbers:  []string{},
		Pros:          []string{},
		Cons:          []string{FailedProcessingNote},
		WorkHistory:   []WorkHistoryEntry{},
	}
}

// IsFailure reports whether the result is the terminal-fallback sentinel.
func (r *AnalysisResult) IsFailure() bool {
	return r.CandidateName == FailedCandidateName && r.MatchScore == 0
}
