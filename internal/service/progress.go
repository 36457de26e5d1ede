// internal/service/progress.go
package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/walink-backend/internal/metrics"
	"github.com/unclebandit/walink-backend/internal/model"
	"github.com/unclebandit/walink-backend/internal/notify"
)

// ProgressStore defines the writes a progress driver needs
type ProgressStore interface {
	UpdateProgress(ctx context.Context, ownerID, id string, progress int) error
	MarkCompleted(ctx context.Context, ownerID, id string, at time.Time) error
}

// ProgressRun is the handle of one running driver.
type ProgressRun struct {
	CampaignID string
	OwnerID    string

	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel stops the driver. It is safe to call more than once.
func (r *ProgressRun) Cancel() { r.cancel() }

// Done is closed once the driver goroutine has returned.
func (r *ProgressRun) Done() <-chan struct{} { return r.done }

// ProgressSimulator advances campaign progress on a fixed interval until it reaches 100.
// At most one driver runs per campaign.
type ProgressSimulator struct {
	Repo     ProgressStore
	Notifier notify.Notifier
	Step     int
	Interval time.Duration
	Log      *zap.Logger
	Now      func() time.Time

	// OnWrite runs after every successful write, e.g. to drop cached snapshots.
	OnWrite func(ownerID string)

	mu   sync.Mutex
	runs map[string]*ProgressRun
	wg   sync.WaitGroup
}

// Constructor
func NewProgressSimulator(repo ProgressStore, notifier notify.Notifier, step int, interval time.Duration, log *zap.Logger) *ProgressSimulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProgressSimulator{
		Repo:     repo,
		Notifier: notifier,
		Step:     step,
		Interval: interval,
		Log:      log,
		Now:      time.Now,
		runs:     make(map[string]*ProgressRun),
	}
}

// Start launches a driver for c, continuing from c.Progress. Any driver already running for
// the same campaign is cancelled first.
func (s *ProgressSimulator) Start(c model.Campaign) *ProgressRun {
	ctx, cancel := context.WithCancel(context.Background())
	run := &ProgressRun{
		CampaignID: c.ID,
		OwnerID:    c.OwnerID,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	s.mu.Lock()
	if s.runs == nil {
		s.runs = make(map[string]*ProgressRun)
	}
	if prev, ok := s.runs[c.ID]; ok {
		prev.Cancel()
	}
	s.runs[c.ID] = run
	s.wg.Add(1)
	s.mu.Unlock()

	metrics.ProgressDriversActive.Inc()
	go s.drive(ctx, run, c.Name, c.Progress)
	return run
}

// Cancel stops the driver of campaignID, if any, and reports whether one was running.
func (s *ProgressSimulator) Cancel(campaignID string) bool {
	s.mu.Lock()
	run, ok := s.runs[campaignID]
	if ok {
		delete(s.runs, campaignID)
	}
	s.mu.Unlock()

	if ok {
		run.Cancel()
	}
	return ok
}

// Running reports whether a driver is registered for campaignID.
func (s *ProgressSimulator) Running(campaignID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.runs[campaignID]
	return ok
}

// Shutdown cancels every driver and waits for them to return.
func (s *ProgressSimulator) Shutdown() {
	s.mu.Lock()
	for id, run := range s.runs {
		run.Cancel()
		delete(s.runs, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *ProgressSimulator) release(run *ProgressRun) {
	s.mu.Lock()
	if cur, ok := s.runs[run.CampaignID]; ok && cur == run {
		delete(s.runs, run.CampaignID)
	}
	s.mu.Unlock()
	run.cancel()
	close(run.done)
	metrics.ProgressDriversActive.Dec()
	s.wg.Done()
}

func (s *ProgressSimulator) drive(ctx context.Context, run *ProgressRun, name string, progress int) {
	defer s.release(run)

	log := s.Log.With(zap.String("campaign_id", run.CampaignID), zap.String("owner_id", run.OwnerID))
	log.Info("▶️ progress driver started", zap.Int("from", progress))

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("⏸️ progress driver stopped", zap.Int("at", progress))
			return
		case <-ticker.C:
		}

		next := progress + s.Step
		if next < 100 {
			if err := s.Repo.UpdateProgress(ctx, run.OwnerID, run.CampaignID, next); err != nil {
				s.fail(ctx, log, err)
				return
			}
			progress = next
			s.written(run.OwnerID)
			continue
		}

		if err := s.Repo.MarkCompleted(ctx, run.OwnerID, run.CampaignID, s.now()); err != nil {
			s.fail(ctx, log, err)
			return
		}
		s.written(run.OwnerID)
		metrics.CampaignTransitions.WithLabelValues(model.StatusCompleted).Inc()
		log.Info("✅ campaign completed", zap.String("name", name))

		if s.Notifier != nil {
			n := notify.Success("Campaña completada")
			if err := s.Notifier.Notify(context.Background(), run.OwnerID, n); err != nil {
				log.Warn("⚠️ failed to deliver completion notice", zap.Error(err))
			}
		}
		return
	}
}

// fail stops the run after a write error. Errors caused by our own cancellation are not
// failures.
func (s *ProgressSimulator) fail(ctx context.Context, log *zap.Logger, err error) {
	if ctx.Err() != nil {
		log.Info("⏸️ progress driver stopped during write")
		return
	}
	metrics.ProgressWriteFailures.Inc()
	log.Error("❌ progress write failed, stopping driver", zap.Error(err))
}

func (s *ProgressSimulator) written(ownerID string) {
	if s.OnWrite != nil {
		s.OnWrite(ownerID)
	}
}

func (s *ProgressSimulator) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
