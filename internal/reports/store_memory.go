package reports

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ats-checker/internal/gibson"
)

// MemoryStore keeps records in memory and is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	resumes map[int64]gibson.Resume
	jds     map[int64]gibson.JobDescription
	reports map[int64]gibson.AnalysisReport
	summary map[int64]gibson.AnalysisSummary
	scores  map[int64][]gibson.AnalysisScore
	recs    map[int64][]gibson.AnalysisRecommendation

	now func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resumes: make(map[int64]gibson.Resume),
		jds:     make(map[int64]gibson.JobDescription),
		reports: make(map[int64]gibson.AnalysisReport),
		summary: make(map[int64]gibson.AnalysisSummary),
		scores:  make(map[int64][]gibson.AnalysisScore),
		recs:    make(map[int64][]gibson.AnalysisRecommendation),
		now:     time.Now,
	}
}

func (s *MemoryStore) allocate() (int64, string, string) {
	s.nextID++
	return s.nextID, uuid.NewString(), s.now().UTC().Format(time.RFC3339)
}

func (s *MemoryStore) CreateResume(ctx context.Context, input gibson.ResumeInput) (gibson.Resume, error) {
	if err := ctx.Err(); err != nil {
		return gibson.Resume{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, uid, created := s.allocate()
	resume := gibson.Resume{
		ID:            id,
		UUID:          uid,
		Summary:       input.Summary,
		Title:         input.Title,
		UserProfileID: input.UserProfileID,
		DateCreated:   created,
	}
	s.resumes[id] = resume
	return resume, nil
}

func (s *MemoryStore) GetResume(ctx context.Context, id int64) (gibson.Resume, error) {
	if err := ctx.Err(); err != nil {
		return gibson.Resume{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	resume, ok := s.resumes[id]
	if !ok {
		return gibson.Resume{}, ErrNotFound
	}
	return resume, nil
}

func (s *MemoryStore) CreateJobDescription(ctx context.Context, input gibson.JobDescriptionInput) (gibson.JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return gibson.JobDescription{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, uid, created := s.allocate()
	jd := gibson.JobDescription{
		ID:          id,
		UUID:        uid,
		CompanyName: input.CompanyName,
		Description: input.Description,
		Title:       input.Title,
		DateCreated: created,
	}
	if input.Location != "" {
		loc := input.Location
		jd.Location = &loc
	}
	s.jds[id] = jd
	return jd, nil
}

func (s *MemoryStore) GetJobDescription(ctx context.Context, id int64) (gibson.JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return gibson.JobDescription{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	jd, ok := s.jds[id]
	if !ok {
		return gibson.JobDescription{}, ErrNotFound
	}
	return jd, nil
}

func (s *MemoryStore) CreateReport(ctx context.Context, input gibson.AnalysisReportInput) (gibson.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return gibson.AnalysisReport{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	status := input.Status
	if status == "" {
		status = gibson.StatusNotApplied
	}
	id, uid, created := s.allocate()
	report := gibson.AnalysisReport{
		ID:               id,
		UUID:             uid,
		AnalyzedBy:       input.AnalyzedBy,
		JobDescriptionID: input.JobDescriptionID,
		ResumeID:         input.ResumeID,
		Status:           status,
		DateCreated:      created,
	}
	s.reports[id] = report
	return report, nil
}

func (s *MemoryStore) ListReports(ctx context.Context, analyzedBy int64) ([]gibson.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []gibson.AnalysisReport
	for _, report := range s.reports {
		if report.AnalyzedBy == analyzedBy {
			out = append(out, report)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateReportStatus(ctx context.Context, reportID int64, status gibson.ReportStatus) (gibson.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return gibson.AnalysisReport{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[reportID]
	if !ok {
		return gibson.AnalysisReport{}, ErrNotFound
	}
	report.Status = status
	updated := s.now().UTC().Format(time.RFC3339)
	report.DateUpdated = &updated
	s.reports[reportID] = report
	return report, nil
}

func (s *MemoryStore) DeleteReport(ctx context.Context, reportID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[reportID]; !ok {
		return ErrNotFound
	}
	delete(s.reports, reportID)
	delete(s.summary, reportID)
	delete(s.scores, reportID)
	delete(s.recs, reportID)
	return nil
}

func (s *MemoryStore) CreateSummary(ctx context.Context, input gibson.AnalysisSummaryInput) (gibson.AnalysisSummary, error) {
	if err := ctx.Err(); err != nil {
		return gibson.AnalysisSummary{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, uid, created := s.allocate()
	summary := gibson.AnalysisSummary{
		ID:          id,
		UUID:        uid,
		ReportID:    input.ReportID,
		SummaryText: input.SummaryText,
		DateCreated: created,
	}
	s.summary[input.ReportID] = summary
	return summary, nil
}

func (s *MemoryStore) SummaryByReport(ctx context.Context, reportID int64) (*gibson.AnalysisSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.summary[reportID]
	if !ok {
		return nil, nil
	}
	return &summary, nil
}

func (s *MemoryStore) CreateScore(ctx context.Context, input gibson.AnalysisScoreInput) (gibson.AnalysisScore, error) {
	if err := ctx.Err(); err != nil {
		return gibson.AnalysisScore{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, uid, created := s.allocate()
	score := gibson.AnalysisScore{
		ID:          id,
		UUID:        uid,
		ReportID:    input.ReportID,
		Score:       input.Score,
		Section:     input.Section,
		DateCreated: created,
	}
	s.scores[input.ReportID] = append(s.scores[input.ReportID], score)
	return score, nil
}

func (s *MemoryStore) ScoresByReport(ctx context.Context, reportID int64) ([]gibson.AnalysisScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gibson.AnalysisScore(nil), s.scores[reportID]...), nil
}

func (s *MemoryStore) CreateRecommendation(ctx context.Context, input gibson.AnalysisRecommendationInput) (gibson.AnalysisRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return gibson.AnalysisRecommendation{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, uid, created := s.allocate()
	rec := gibson.AnalysisRecommendation{
		ID:                 id,
		UUID:               uid,
		ReportID:           input.ReportID,
		Category:           input.Category,
		RecommendationText: input.RecommendationText,
		DateCreated:        created,
	}
	s.recs[input.ReportID] = append(s.recs[input.ReportID], rec)
	return rec, nil
}

func (s *MemoryStore) RecommendationsByReport(ctx context.Context, reportID int64) ([]gibson.AnalysisRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gibson.AnalysisRecommendation(nil), s.recs[reportID]...), nil
}
