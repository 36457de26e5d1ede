// internal/service/stats.go
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/unclebandit/walink-backend/internal/repository"
)

type Stats struct {
	Templates    int `json:"templates"`
	Contacts     int `json:"contacts"`
	Campaigns    int `json:"campaigns"`
	MessagesSent int `json:"messages_sent"`
	LoggedSends  int `json:"logged_sends"`
}

type StatsService struct {
	Sessions    SnapshotSource
	MessageRepo repository.MessageRepositoryInterface
	Log         *zap.Logger
}

// ComputeStats counts the snapshot. MessagesSent is the sum of campaign recipient counts.
func ComputeStats(snap *Snapshot) Stats {
	st := Stats{
		Templates: len(snap.Templates),
		Contacts:  len(snap.Contacts),
		Campaigns: len(snap.Campaigns),
	}
	for _, c := range snap.Campaigns {
		st.MessagesSent += c.ContactsCount
	}
	return st
}

// GetStats returns dashboard counters. A failing send-log count leaves LoggedSends at zero.
func (s *StatsService) GetStats(ctx context.Context, ownerID string) (Stats, error) {
	snap, err := s.Sessions.Load(ctx, ownerID)
	if err != nil {
		return Stats{}, err
	}
	st := ComputeStats(snap)

	if s.MessageRepo != nil {
		n, err := s.MessageRepo.CountByOwner(ctx, ownerID)
		if err != nil {
			if s.Log != nil {
				s.Log.Warn("⚠️ failed to count send-log", zap.String("owner_id", ownerID), zap.Error(err))
			}
		} else {
			st.LoggedSends = n
		}
	}
	return st, nil
}
