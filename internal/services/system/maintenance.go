// Package system provides system-level services for monitoring and maintenance.
package system

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tuneport/backend/internal/db/mongo/repositories"
	"github.com/tuneport/backend/internal/db/redis/managers"
	"github.com/tuneport/backend/internal/utils"
)

// MaintenanceTask represents a maintenance task to be executed.
type MaintenanceTask struct {
	Name     string
	Interval time.Duration
	LastRun  time.Time
	Fn       func(context.Context) error
}

// MaintenanceConfig contains configuration for the maintenance service.
type MaintenanceConfig struct {
	// Whether to enable automatic maintenance tasks
	Enabled bool
	// Interval for running periodic maintenance tasks
	MaintenanceInterval time.Duration
	// Timeout for individual maintenance tasks
	TaskTimeout time.Duration
}

// DefaultMaintenanceConfig returns the default maintenance configuration.
func DefaultMaintenanceConfig() MaintenanceConfig {
	return MaintenanceConfig{
		Enabled:             true,
		MaintenanceInterval: 1 * time.Hour,
		TaskTimeout:         5 * time.Minute,
	}
}

// MaintenanceService runs recurring housekeeping tasks: expired session
// cleanup and user-count gauge refresh.
type MaintenanceService struct {
	config     MaintenanceConfig
	sessionMgr *managers.SessionManager
	userRepo   repositories.UserRepository
	metrics    *MetricsService
	logger     *utils.Logger
	tasks      []*MaintenanceTask
	stopCh     chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
}

// NewMaintenanceService creates a new maintenance service.
func NewMaintenanceService(
	config MaintenanceConfig,
	sessionMgr *managers.SessionManager,
	userRepo repositories.UserRepository,
	metrics *MetricsService,
	logger *utils.Logger,
) *MaintenanceService {
	s := &MaintenanceService{
		config:     config,
		sessionMgr: sessionMgr,
		userRepo:   userRepo,
		metrics:    metrics,
		logger:     logger.Named("maintenance_service"),
		stopCh:     make(chan struct{}),
		tasks:      make([]*MaintenanceTask, 0),
	}

	// Register default maintenance tasks
	s.RegisterTask("session_cleanup", 15*time.Minute, s.CleanupSessions)
	s.RegisterTask("user_stats_refresh", config.MaintenanceInterval, s.RefreshUserStats)

	return s
}

// RegisterTask registers a new maintenance task.
func (s *MaintenanceService) RegisterTask(name string, interval time.Duration, fn func(context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &MaintenanceTask{
		Name:     name,
		Interval: interval,
		LastRun:  time.Now().Add(-interval), // Schedule to run immediately
		Fn:       fn,
	}

	s.tasks = append(s.tasks, task)
	s.logger.Info("Registered maintenance task", "name", name, "interval", interval)
}

// Start starts the maintenance service.
func (s *MaintenanceService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Maintenance service is disabled")
		return nil
	}

	s.logger.Info("Starting maintenance service")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runDueTasks(ctx)
			case <-s.stopCh:
				s.logger.Info("Stopping maintenance service")
				return
			case <-ctx.Done():
				s.logger.Info("Context cancelled, stopping maintenance service")
				return
			}
		}
	}()

	return nil
}

// Stop stops the maintenance service.
func (s *MaintenanceService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// RunAllTasks runs all maintenance tasks immediately.
func (s *MaintenanceService) RunAllTasks(ctx context.Context) error {
	s.logger.Info("Running all maintenance tasks")

	var errs []error
	for _, task := range s.tasks {
		if err := s.runTask(ctx, task); err != nil {
			errs = append(errs, fmt.Errorf("task %s failed: %w", task.Name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("some maintenance tasks failed: %v", errs)
	}

	return nil
}

// runDueTasks runs all maintenance tasks whose interval has elapsed.
func (s *MaintenanceService) runDueTasks(ctx context.Context) {
	s.mu.Lock()
	due := make([]*MaintenanceTask, 0, len(s.tasks))
	now := time.Now()
	for _, task := range s.tasks {
		if now.Sub(task.LastRun) >= task.Interval {
			due = append(due, task)
		}
	}
	s.mu.Unlock()

	for _, task := range due {
		if err := s.runTask(ctx, task); err != nil {
			s.logger.Error("Failed to run maintenance task", err, "name", task.Name)
		}
	}
}

// runTask executes a single task under the configured timeout.
func (s *MaintenanceService) runTask(ctx context.Context, task *MaintenanceTask) error {
	taskCtx, cancel := context.WithTimeout(ctx, s.config.TaskTimeout)
	defer cancel()

	s.logger.Debug("Running maintenance task", "name", task.Name)
	if err := task.Fn(taskCtx); err != nil {
		return err
	}

	s.mu.Lock()
	task.LastRun = time.Now()
	s.mu.Unlock()

	s.logger.Debug("Completed maintenance task", "name", task.Name)
	return nil
}

// CleanupSessions removes expired auth sessions from the session index.
func (s *MaintenanceService) CleanupSessions(ctx context.Context) error {
	removed, err := s.sessionMgr.CleanupExpiredSessions(ctx)
	if err != nil {
		return err
	}

	if removed > 0 {
		s.logger.Info("Cleaned up expired sessions", "count", removed)
	}

	return nil
}

// RefreshUserStats updates the registered-user gauge.
func (s *MaintenanceService) RefreshUserStats(ctx context.Context) error {
	count, err := s.userRepo.CountUsers(ctx, bson.M{})
	if err != nil {
		return err
	}

	s.metrics.SetUsersTotal(count)
	return nil
}
