// Package visits records page visits into daily buckets and builds the
// rolling reports shown on the admin dashboard.
package visits

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"campusconnect/internal/domain"
)

const (
	// ReportDays is the length of the dashboard window.
	ReportDays = 7
	// DefaultRetentionDays is the purge horizon used when none is configured.
	DefaultRetentionDays = 30
	// MaxPageLength bounds the page identifier in bytes.
	MaxPageLength = 512
)

// Observer receives outcome notifications. *infra.Metrics satisfies it.
type Observer interface {
	VisitRecorded(err error)
	ReportDegraded()
	SweepFinished(deleted int64, err error)
}

type nopObserver struct{}

func (nopObserver) VisitRecorded(error)        {}
func (nopObserver) ReportDegraded()            {}
func (nopObserver) SweepFinished(int64, error) {}

// Meta carries request-derived attributes stored with an event.
type Meta struct {
	Country string
}

// Options configures a Service. Zero values fall back to sensible defaults.
type Options struct {
	Location *time.Location
	Locale   string
	// Timeout bounds each storage call; zero leaves the caller's deadline alone.
	Timeout  time.Duration
	Now      func() time.Time
	NewID    func() string
	Observer Observer
	Logger   zerolog.Logger
}

// Service owns the visit log and its daily aggregates.
type Service struct {
	repo     domain.VisitRepository
	calendar Calendar
	locale   string
	timeout  time.Duration
	now      func() time.Time
	newID    func() string
	observer Observer
	logger   zerolog.Logger
}

func NewService(repo domain.VisitRepository, opts Options) *Service {
	s := &Service{
		repo:     repo,
		calendar: NewCalendar(opts.Location),
		locale:   opts.Locale,
		timeout:  opts.Timeout,
		now:      opts.Now,
		newID:    opts.NewID,
		observer: opts.Observer,
		logger:   opts.Logger,
	}
	if s.locale == "" {
		s.locale = defaultLocale
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	return s
}

// Calendar exposes the reference-timezone calendar.
func (s *Service) Calendar() Calendar { return s.calendar }

// Today is midnight of the current day in the reference timezone.
func (s *Service) Today() time.Time { return s.calendar.Day(s.now()) }

// RecordVisit appends an event for page and increments today's bucket in one
// atomic storage operation. Writes are never retried, so a repeated call
// counts twice.
func (s *Service) RecordVisit(ctx context.Context, page string, meta Meta) error {
	page = strings.TrimSpace(page)
	if page == "" {
		return domain.InvalidInput("page is required")
	}
	if len(page) > MaxPageLength {
		return domain.InvalidInput("page exceeds %d bytes", MaxPageLength)
	}

	now := s.now()
	day := s.calendar.Key(now)
	event := domain.VisitEvent{
		ID:        s.newID(),
		Page:      page,
		Country:   meta.Country,
		VisitedAt: now.UTC(),
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	total, err := s.repo.RecordVisit(ctx, event, day)
	if err != nil {
		serr := &domain.StorageError{Op: "record_visit", Day: day, Err: err}
		s.logger.Error().Err(err).Str("op", serr.Op).Str("day", day).Str("page", page).Msg("visits: record failed")
		s.observer.VisitRecorded(serr)
		return serr
	}
	s.observer.VisitRecorded(nil)
	s.logger.Debug().Str("day", day).Str("page", page).Int64("total", total).Msg("visits: recorded")
	return nil
}

// BuildWeeklyReport returns the seven days ending at referenceDay, oldest
// first. Days without a bucket count zero.
func (s *Service) BuildWeeklyReport(ctx context.Context, referenceDay time.Time, locale string) (domain.WeeklyReport, error) {
	days := s.window(referenceDay)
	from, to := s.calendar.Key(days[0]), s.calendar.Key(days[len(days)-1])

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	counts, err := s.repo.DailyCounts(ctx, from, to)
	if err != nil {
		return domain.WeeklyReport{}, &domain.StorageError{Op: "daily_counts", Day: to, Err: err}
	}

	byDay := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDay[s.calendar.Key(c.Day)] += c.Total
	}
	return s.assemble(days, byDay, locale), nil
}

// WeeklyReportOrZero retries a failed read once and then degrades to an
// all-zero series. The failure is logged and counted, never returned.
func (s *Service) WeeklyReportOrZero(ctx context.Context, referenceDay time.Time, locale string) (domain.WeeklyReport, bool) {
	report, err := s.BuildWeeklyReport(ctx, referenceDay, locale)
	if err == nil {
		return report, false
	}
	s.logger.Warn().Err(err).Str("op", "daily_counts").Str("day", s.calendar.Key(referenceDay)).Msg("visits: report read failed, retrying")

	if ctx.Err() == nil {
		report, err = s.BuildWeeklyReport(ctx, referenceDay, locale)
		if err == nil {
			return report, false
		}
	}

	s.logger.Error().Err(err).Str("op", "daily_counts").Str("day", s.calendar.Key(referenceDay)).Msg("visits: serving degraded report")
	s.observer.ReportDegraded()
	return s.assemble(s.window(referenceDay), nil, locale), true
}

// PurgeOlderThan deletes events and buckets strictly older than
// referenceDay minus retentionDays. Rows on the cutoff day are kept, so a
// second run with the same arguments deletes nothing. A non-positive
// retentionDays uses DefaultRetentionDays.
func (s *Service) PurgeOlderThan(ctx context.Context, referenceDay time.Time, retentionDays int) (domain.PurgeResult, error) {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	cutoff := s.calendar.AddDays(referenceDay, -retentionDays)
	key := s.calendar.Key(cutoff)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.repo.PurgeBefore(ctx, cutoff, key)
	if err != nil {
		return domain.PurgeResult{}, &domain.StorageError{Op: "purge", Day: key, Err: err}
	}
	s.logger.Info().
		Str("cutoff", key).
		Int64("events", res.Events).
		Int64("days", res.Days).
		Msg("visits: purged")
	return res, nil
}

func (s *Service) window(referenceDay time.Time) []time.Time {
	days := make([]time.Time, ReportDays)
	for i := range days {
		days[i] = s.calendar.AddDays(referenceDay, i-(ReportDays-1))
	}
	return days
}

func (s *Service) assemble(days []time.Time, counts map[string]int64, locale string) domain.WeeklyReport {
	if locale == "" || !SupportedLocale(locale) {
		locale = s.locale
	}
	points := make([]domain.DailyPoint, len(days))
	for i, d := range days {
		points[i] = domain.DailyPoint{
			Day:     d,
			DayName: WeekdayName(locale, d.Weekday()),
			Count:   counts[s.calendar.Key(d)],
		}
	}
	return domain.WeeklyReport{Points: points}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

