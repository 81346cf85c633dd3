package scraper

import (
	"context"
	"strings"

	"skill-gap/internal/domain/course"

	"go.uber.org/zap"
)

type EnrichReport struct {
	Attempted int `json:"attempted"`
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Enricher fills missing course summaries from the course pages.
type Enricher struct {
	Fetcher       SummaryFetcher
	Workers       int
	RatePerSecond int
	Logger        *zap.Logger
}

// Enrich returns a copy of courses with summaries fetched for every entry
// that has a URL and, unless force is set, no summary yet. Fetch failures
// leave the entry unchanged and are counted in the report.
func (e Enricher) Enrich(ctx context.Context, courses []course.Course, force bool) ([]course.Course, EnrichReport) {
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}

	out := make([]course.Course, len(courses))
	copy(out, courses)

	var rep EnrichReport
	pending := make([]int, 0, len(out))
	for i, c := range out {
		if strings.TrimSpace(c.URL) == "" || (!force && strings.TrimSpace(c.Summary) != "") {
			rep.Skipped++
			continue
		}
		pending = append(pending, i)
	}
	if len(pending) == 0 || e.Fetcher == nil {
		rep.Skipped += len(pending)
		return out, rep
	}

	workers := e.Workers
	if workers <= 0 {
		workers = 4
	}
	pool := NewWorkerPool(workers, len(pending))
	pool.SetRateLimit(e.RatePerSecond)
	results := pool.Run(ctx)

	// Each task owns exactly one index of out.
	summaries := make([]string, len(out))
	for _, i := range pending {
		pool.Submit(out[i].Skill, func(ctx context.Context) error {
			s, err := e.Fetcher.FetchSummary(ctx, out[i].URL)
			if err != nil {
				return err
			}
			summaries[i] = s
			return nil
		})
	}
	pool.Close()

	for res := range results {
		rep.Attempted++
		if res.Err != nil {
			rep.Failed++
			log.Warn("course summary fetch failed", zap.String("skill", res.Key), zap.Error(res.Err))
			continue
		}
		log.Debug("course summary fetched", zap.String("skill", res.Key))
	}

	for _, i := range pending {
		if summaries[i] != "" {
			out[i].Summary = summaries[i]
			rep.Updated++
		}
	}
	return out, rep
}
