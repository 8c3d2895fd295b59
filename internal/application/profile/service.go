// Package profile aggregates a worker's task history into dashboard statistics.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rezkam/taskdesk/internal/domain"
)

// Default configuration values.
const (
	DefaultWeeks           = 4
	MaxWeeks               = 52
	DefaultActiveTaskLimit = 10
)

// ErrExportDisabled is returned when no report sink is configured.
var ErrExportDisabled = errors.New("profile export is not configured")

// Config holds configuration for the Service.
type Config struct {
	ActiveTaskLimit int
	WeeklyBasis     domain.StatsBasis
}

// Service computes profile statistics.
type Service struct {
	repo   Repository
	sink   ReportStore // Optional
	config Config
	now    func() time.Time
}

// NewService creates a profile service. sink may be nil, which disables exports.
// Applies application defaults for zero or invalid config values.
func NewService(repo Repository, sink ReportStore, config Config) *Service {
	if config.ActiveTaskLimit <= 0 {
		config.ActiveTaskLimit = DefaultActiveTaskLimit
	}
	if config.WeeklyBasis != domain.StatsBasisCompleted {
		config.WeeklyBasis = domain.StatsBasisCreated
	}

	return &Service{
		repo:   repo,
		sink:   sink,
		config: config,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeWeeks maps a requested week count onto [1, MaxWeeks]; non-positive means DefaultWeeks.
func NormalizeWeeks(n int) int {
	if n <= 0 {
		return DefaultWeeks
	}
	return min(n, MaxWeeks)
}

// ComputeProfile returns the dashboard data for the actor.
//
// Anonymous actors get the zero structure and no error. Counters and weekly
// buckets come from a single snapshot; active tasks from one more query. Any
// store failure fails the whole call.
func (s *Service) ComputeProfile(ctx context.Context, actor domain.Actor, weeks int) (*domain.ProfileData, error) {
	m, ok := domain.MemberOf(actor)
	if !ok {
		return emptyProfile(), nil
	}

	windows := WeeklyWindows(Anchor(s.now()), NormalizeWeeks(weeks))

	stats, counts, err := s.repo.WorkerStats(ctx, m.WorkerID, windows, s.config.WeeklyBasis)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate profile stats: %w", err)
	}

	weekly, err := weeklyStats(windows, counts)
	if err != nil {
		return nil, err
	}

	active, assignees, err := s.repo.FindActiveTasks(ctx, m.WorkerID, s.config.ActiveTaskLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load active tasks: %w", err)
	}
	if active == nil {
		active = []domain.Task{}
	}
	if assignees == nil {
		assignees = domain.AssigneeIndex{}
	}

	return &domain.ProfileData{
		AssignedCount:   stats.AssignedCount,
		CreatedCount:    stats.CreatedCount,
		CompletedCount:  stats.CompletedCount,
		StatusStats:     stats.StatusStats,
		ActiveTasks:     active,
		ActiveAssignees: assignees,
		WeeklyStats:     weekly,
	}, nil
}

// ExportProfile renders the actor's profile as JSON and stores it in the report sink.
// Returns the stored object name.
func (s *Service) ExportProfile(ctx context.Context, actor domain.Actor, weeks int) (string, error) {
	m, ok := domain.MemberOf(actor)
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	if s.sink == nil {
		return "", ErrExportDisabled
	}

	data, err := s.ComputeProfile(ctx, actor, weeks)
	if err != nil {
		return "", err
	}

	generated := s.now()
	body, err := json.MarshalIndent(NewSnapshot(m, data, generated), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal profile snapshot: %w", err)
	}

	name := fmt.Sprintf("%s%s.json", exportPrefix(m.WorkerID), generated.Format("20060102T150405Z"))
	if err := s.sink.Put(ctx, name, body); err != nil {
		return "", fmt.Errorf("failed to store profile snapshot: %w", err)
	}

	slog.InfoContext(ctx, "profile snapshot exported",
		slog.Int64("worker_id", m.WorkerID),
		slog.String("object", name))
	return name, nil
}

// ListExports returns the names of the actor's stored snapshots, oldest first.
func (s *Service) ListExports(ctx context.Context, actor domain.Actor) ([]string, error) {
	m, ok := domain.MemberOf(actor)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	if s.sink == nil {
		return nil, ErrExportDisabled
	}

	names, err := s.sink.List(ctx, exportPrefix(m.WorkerID))
	if err != nil {
		return nil, fmt.Errorf("failed to list profile snapshots: %w", err)
	}
	return names, nil
}

// ReadExport returns one of the actor's stored snapshots by file name.
// Names outside the actor's own namespace are reported as domain.ErrNotFound.
func (s *Service) ReadExport(ctx context.Context, actor domain.Actor, file string) ([]byte, error) {
	m, ok := domain.MemberOf(actor)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	if s.sink == nil {
		return nil, ErrExportDisabled
	}
	if file == "" || strings.ContainsAny(file, "/\\") || !strings.HasSuffix(file, ".json") {
		return nil, fmt.Errorf("%w: export %q", domain.ErrNotFound, file)
	}

	data, err := s.sink.Get(ctx, exportPrefix(m.WorkerID)+file)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile snapshot: %w", err)
	}
	return data, nil
}

func exportPrefix(workerID int64) string {
	return fmt.Sprintf("profiles/%d/", workerID)
}

func emptyProfile() *domain.ProfileData {
	return &domain.ProfileData{
		ActiveTasks:     []domain.Task{},
		ActiveAssignees: domain.AssigneeIndex{},
		WeeklyStats:     []domain.WeeklyStat{},
	}
}
