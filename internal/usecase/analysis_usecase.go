package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"skill-gap/internal/domain/analysis"
	"skill-gap/internal/domain/gap"
	"skill-gap/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UploadInput struct {
	Employees    io.Reader
	Requirements io.Reader
	// Replaces optionally names the analysis this upload supersedes.
	Replaces string
}

// ViewParams are per-request selections. They are never stored.
type ViewParams struct {
	Departments gap.Selector
	Roles       gap.Selector
}

type AnalysisView struct {
	ID           uuid.UUID              `json:"id"`
	CreatedAt    time.Time              `json:"created_at"`
	ExpiresAt    time.Time              `json:"expires_at"`
	Notice       string                 `json:"notice,omitempty"`
	Unmatched    int                    `json:"unmatched"`
	Columns      []string               `json:"columns"`
	Gaps         []gap.GapRecord        `json:"gaps"`
	TrainingPlan []gap.TrainingPlanItem `json:"training_plan"`
	Summary      gap.Summary            `json:"summary"`
	Charts       gap.Charts             `json:"charts"`
	Filters      gap.FilterOptions      `json:"filters"`
}

type AnalysisUsecase interface {
	Analyze(ctx context.Context, in UploadInput) (AnalysisView, error)
	View(ctx context.Context, id string, p ViewParams) (AnalysisView, error)
	Gaps(ctx context.Context, id string, p ViewParams) (gap.Table, string, error)
	TrainingPlan(ctx context.Context, id string, p ViewParams) ([]gap.TrainingPlanItem, string, error)
	ExportTrainingPlan(ctx context.Context, id string, p ViewParams) ([]byte, error)
	Summary(ctx context.Context, id string, p ViewParams) (gap.Summary, error)
	Charts(ctx context.Context, id string, p ViewParams) (gap.Charts, error)
	FilterOptions(ctx context.Context, id string) (gap.FilterOptions, error)
	Delete(ctx context.Context, id string) error
}

type Analysis struct {
	store    repository.AnalysisRepository
	courses  gap.CourseLookup
	notifier Notifier
	logger   *zap.Logger

	opts gap.Options
	ttl  time.Duration
	now  func() time.Time
}

func NewAnalysisUsecase(
	store repository.AnalysisRepository,
	courses gap.CourseLookup,
	notifier Notifier,
	logger *zap.Logger,
	opts gap.Options,
	ttl time.Duration,
) *Analysis {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.UnnamedPattern == nil {
		opts = gap.DefaultOptions()
	}
	return &Analysis{
		store:    store,
		courses:  courses,
		notifier: notifier,
		logger:   logger,
		opts:     opts,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (u *Analysis) Analyze(ctx context.Context, in UploadInput) (AnalysisView, error) {
	if in.Employees == nil || in.Requirements == nil {
		return AnalysisView{}, ErrInvalidInput
	}

	var replaces uuid.UUID
	if raw := strings.TrimSpace(in.Replaces); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return AnalysisView{}, ErrInvalidInput
		}
		replaces = id
	}

	emps, err := gap.ParseEmployees(in.Employees)
	if err != nil {
		return AnalysisView{}, err
	}
	reqs, err := gap.ParseRequirements(in.Requirements)
	if err != nil {
		return AnalysisView{}, err
	}

	table := gap.Compute(emps, reqs, u.opts)
	unmatched := gap.Unmatched(emps, reqs)

	now := u.now().UTC()
	a := analysis.Analysis{
		ID:             uuid.New(),
		CreatedAt:      now,
		TotalEmployees: gap.DistinctEmployees(emps),
		EmployeeRows:   len(emps.Records),
		RequiredRows:   len(reqs.Records),
		Unmatched:      unmatched,
		Table:          table,
	}
	if u.ttl > 0 {
		a.ExpiresAt = now.Add(u.ttl)
	}

	if unmatched > 0 {
		u.logger.Info("employee rows without a matching requirement dropped",
			zap.String("analysis_id", a.ID.String()),
			zap.Int("unmatched", unmatched),
			zap.Int("employee_rows", a.EmployeeRows),
		)
	}

	if err := u.store.Save(ctx, a, u.ttl); err != nil {
		u.logger.Error("save analysis failed", zap.String("analysis_id", a.ID.String()), zap.Error(err))
		return AnalysisView{}, ErrInternal
	}

	if replaces != uuid.Nil {
		if err := u.store.Delete(ctx, replaces); err != nil && !errors.Is(err, repository.ErrAnalysisNotFound) {
			u.logger.Warn("delete superseded analysis failed", zap.String("analysis_id", replaces.String()), zap.Error(err))
		}
	}

	u.logger.Info("analysis created",
		zap.String("analysis_id", a.ID.String()),
		zap.Int("rows", a.Table.Len()),
		zap.Int("total_employees", a.TotalEmployees),
	)
	u.notify(EventAnalysisCreated, map[string]any{"id": a.ID, "replaces": nullableID(replaces)})

	return u.view(a, ViewParams{}), nil
}

func (u *Analysis) View(ctx context.Context, id string, p ViewParams) (AnalysisView, error) {
	a, err := u.load(ctx, id)
	if err != nil {
		return AnalysisView{}, err
	}
	return u.view(a, p), nil
}

func (u *Analysis) Gaps(ctx context.Context, id string, p ViewParams) (gap.Table, string, error) {
	a, err := u.load(ctx, id)
	if err != nil {
		return gap.Table{}, "", err
	}
	filtered := gap.Filter(a.Table, p.Departments, p.Roles)
	gaps := gap.PositiveGaps(filtered)
	return gaps, notice(a.Table, gaps), nil
}

func (u *Analysis) TrainingPlan(ctx context.Context, id string, p ViewParams) ([]gap.TrainingPlanItem, string, error) {
	a, err := u.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	filtered := gap.Filter(a.Table, p.Departments, p.Roles)
	return gap.TrainingPlan(filtered, u.courses), notice(a.Table, gap.PositiveGaps(filtered)), nil
}

func (u *Analysis) ExportTrainingPlan(ctx context.Context, id string, p ViewParams) ([]byte, error) {
	items, _, err := u.TrainingPlan(ctx, id, p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gap.WriteTrainingPlanCSV(&buf, items); err != nil {
		u.logger.Error("write training plan failed", zap.String("analysis_id", id), zap.Error(err))
		return nil, ErrInternal
	}
	return buf.Bytes(), nil
}

func (u *Analysis) Summary(ctx context.Context, id string, p ViewParams) (gap.Summary, error) {
	a, err := u.load(ctx, id)
	if err != nil {
		return gap.Summary{}, err
	}
	return gap.Aggregate(a.TotalEmployees, gap.Filter(a.Table, p.Departments, p.Roles)), nil
}

func (u *Analysis) Charts(ctx context.Context, id string, p ViewParams) (gap.Charts, error) {
	a, err := u.load(ctx, id)
	if err != nil {
		return gap.Charts{}, err
	}
	return gap.BuildCharts(gap.Filter(a.Table, p.Departments, p.Roles)), nil
}

func (u *Analysis) FilterOptions(ctx context.Context, id string) (gap.FilterOptions, error) {
	a, err := u.load(ctx, id)
	if err != nil {
		return gap.FilterOptions{}, err
	}
	return gap.SelectorOptions(a.Table), nil
}

func (u *Analysis) Delete(ctx context.Context, id string) error {
	aid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return ErrAnalysisNotFound
	}
	if err := u.store.Delete(ctx, aid); err != nil {
		if errors.Is(err, repository.ErrAnalysisNotFound) {
			return ErrAnalysisNotFound
		}
		u.logger.Error("delete analysis failed", zap.String("analysis_id", id), zap.Error(err))
		return ErrInternal
	}
	u.notify(EventAnalysisDeleted, map[string]any{"id": aid})
	return nil
}

func (u *Analysis) load(ctx context.Context, id string) (analysis.Analysis, error) {
	aid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return analysis.Analysis{}, ErrAnalysisNotFound
	}
	a, err := u.store.Get(ctx, aid)
	if err != nil {
		if errors.Is(err, repository.ErrAnalysisNotFound) {
			return analysis.Analysis{}, ErrAnalysisNotFound
		}
		u.logger.Error("load analysis failed", zap.String("analysis_id", id), zap.Error(err))
		return analysis.Analysis{}, ErrInternal
	}
	if a.Expired(u.now()) {
		return analysis.Analysis{}, ErrAnalysisNotFound
	}
	return a, nil
}

func (u *Analysis) view(a analysis.Analysis, p ViewParams) AnalysisView {
	filtered := gap.Filter(a.Table, p.Departments, p.Roles)
	gaps := gap.PositiveGaps(filtered)
	return AnalysisView{
		ID:           a.ID,
		CreatedAt:    a.CreatedAt,
		ExpiresAt:    a.ExpiresAt,
		Notice:       notice(a.Table, gaps),
		Unmatched:    a.Unmatched,
		Columns:      a.Table.Columns,
		Gaps:         nonNil(gaps.Rows),
		TrainingPlan: gap.TrainingPlan(filtered, u.courses),
		Summary:      gap.Aggregate(a.TotalEmployees, filtered),
		Charts:       gap.BuildCharts(filtered),
		Filters:      gap.SelectorOptions(a.Table),
	}
}

func (u *Analysis) notify(event string, payload any) {
	if u.notifier != nil {
		u.notifier.Notify(event, payload)
	}
}

// notice explains an empty result. An empty join takes precedence over an
// empty selection.
func notice(all, gaps gap.Table) string {
	if all.Empty() {
		return gap.EmptyResultNotice
	}
	if gaps.Empty() {
		return gap.NoGapsNotice
	}
	return ""
}

func nonNil(rows []gap.GapRecord) []gap.GapRecord {
	if rows == nil {
		return []gap.GapRecord{}
	}
	return rows
}

func nullableID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}
