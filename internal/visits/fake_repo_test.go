package visits

import (
	"context"
	"sort"
	"sync"
	"time"

	"campusconnect/internal/domain"
)

// memoryRepo mirrors the SQL upsert: the bucket increment happens under the
// same lock as the append.
type memoryRepo struct {
	mu      sync.Mutex
	loc     *time.Location
	events  []domain.VisitEvent
	buckets map[string]int64

	failReads  int
	failWrites error
	failPurge  error
	reads      int
}

func newMemoryRepo(loc *time.Location) *memoryRepo {
	return &memoryRepo{loc: loc, buckets: map[string]int64{}}
}

func (r *memoryRepo) RecordVisit(_ context.Context, event domain.VisitEvent, day string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrites != nil {
		return 0, r.failWrites
	}
	r.events = append(r.events, event)
	r.buckets[day]++
	return r.buckets[day], nil
}

func (r *memoryRepo) DailyCounts(_ context.Context, from, to string) ([]domain.DailyVisitCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if r.failReads > 0 {
		r.failReads--
		return nil, context.DeadlineExceeded
	}
	var keys []string
	for k := range r.buckets {
		if k >= from && k <= to {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]domain.DailyVisitCount, 0, len(keys))
	for _, k := range keys {
		day, _ := time.ParseInLocation(time.DateOnly, k, r.loc)
		out = append(out, domain.DailyVisitCount{Day: day, Total: r.buckets[k]})
	}
	return out, nil
}

func (r *memoryRepo) PurgeBefore(_ context.Context, eventCutoff time.Time, dayCutoff string) (domain.PurgeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failPurge != nil {
		return domain.PurgeResult{}, r.failPurge
	}
	var res domain.PurgeResult
	kept := r.events[:0]
	for _, e := range r.events {
		if e.VisitedAt.Before(eventCutoff) {
			res.Events++
			continue
		}
		kept = append(kept, e)
	}
	r.events = kept
	for k := range r.buckets {
		if k < dayCutoff {
			delete(r.buckets, k)
			res.Days++
		}
	}
	return res, nil
}

func (r *memoryRepo) bucket(day string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buckets[day]
}

func (r *memoryRepo) seed(day string, total int64, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buckets[day] = total
	r.events = append(r.events, domain.VisitEvent{ID: day, Page: "/seed", VisitedAt: at})
}

type recordingObserver struct {
	mu       sync.Mutex
	recorded int
	failed   int
	degraded int
	sweeps   int
	sweepErr int
	purged   int64
}

func (o *recordingObserver) VisitRecorded(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.failed++
		return
	}
	o.recorded++
}

func (o *recordingObserver) ReportDegraded() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.degraded++
}

func (o *recordingObserver) SweepFinished(deleted int64, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sweeps++
	if err != nil {
		o.sweepErr++
	}
	o.purged += deleted
}
