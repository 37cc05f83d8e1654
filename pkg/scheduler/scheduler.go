// Package scheduler fires the enabled cron jobs, either running a flow against
// the job's target chat or sending it an AI generated message.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Matheusbritto77/WBot/pkg/eventbus"
	"github.com/Matheusbritto77/WBot/pkg/events"
	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
	"github.com/Matheusbritto77/WBot/pkg/workflow"
	"github.com/robfig/cron/v3"
)

const defaultJobAgentPrompt = "Você é um assistente."

var ErrMissingTarget = errors.New("cron job has no target jid")

// JobSource lists the jobs to schedule.
type JobSource interface {
	Enabled(ctx context.Context) ([]*models.CronJob, error)
}

// FlowSource loads the flow a job runs.
type FlowSource interface {
	FetchByID(ctx context.Context, id string) (*models.AutomationFlow, error)
}

// FlowRunner executes a flow for a chat.
type FlowRunner interface {
	ExecuteFlow(ctx context.Context, flow *models.AutomationFlow, jid, body, triggerNodeID string, initialVars map[string]any) *workflow.RunResult
}

// SettingsSource reads runtime settings.
type SettingsSource interface {
	GetOrDefault(ctx context.Context, key, fallback string) (string, error)
}

// Dependencies are the collaborators a fired job uses. Publisher is optional.
type Dependencies struct {
	Jobs      JobSource
	Flows     FlowSource
	Engine    FlowRunner
	Settings  SettingsSource
	Responder protocol.TextResponder
	Sink      protocol.MessageSink
	Publisher eventbus.EventPublisher
}

type Scheduler struct {
	deps    Dependencies
	logger  *slog.Logger
	cron    *cron.Cron
	mu      sync.Mutex
	entries map[string]cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(deps Dependencies, logger *slog.Logger) *Scheduler {
	logger = logger.With("module", "scheduler")
	cronLog := &cronLogger{logger: logger}

	return &Scheduler{
		deps:   deps,
		logger: logger,
		cron: cron.New(
			cron.WithParser(models.CronParser),
			cron.WithChain(cron.SkipIfStillRunning(cronLog), cron.Recover(cronLog)),
			cron.WithLogger(cronLog),
		),
		entries: make(map[string]cron.EntryID),
		ctx:     context.Background(),
	}
}

// Start schedules the enabled jobs and starts the cron loop. Jobs fired after
// ctx ends run with a cancelled context.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	err := s.Reload(ctx)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "Scheduler started")

	return nil
}

// Stop stops the cron loop and waits for running jobs to return.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")

		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reload replaces every scheduled entry with the currently enabled jobs.
// Jobs with an invalid expression are logged and skipped.
func (s *Scheduler) Reload(ctx context.Context) error {
	jobs, err := s.deps.Jobs.Enabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cron jobs: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entryID := range s.entries {
		s.cron.Remove(entryID)
		delete(s.entries, id)
	}

	for _, job := range jobs {
		schedule, err := job.ParseSchedule()
		if err != nil {
			s.logger.ErrorContext(ctx, "Skipping cron job with invalid schedule",
				"job_id", job.ID, "job_name", job.Name, "schedule", job.Schedule, "error", err)

			continue
		}

		scheduled := *job
		s.entries[job.ID] = s.cron.Schedule(schedule, cron.FuncJob(func() {
			_ = s.RunJob(s.runContext(), &scheduled)
		}))
	}

	s.logger.InfoContext(ctx, "Cron jobs scheduled", "count", len(s.entries))

	return nil
}

// Scheduled returns the ids of the jobs currently scheduled.
func (s *Scheduler) Scheduled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}

	return ids
}

func (s *Scheduler) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ctx
}

// RunJob executes job once.
func (s *Scheduler) RunJob(ctx context.Context, job *models.CronJob) error {
	logger := s.logger.With("job_id", job.ID, "job_name", job.Name)
	logger.InfoContext(ctx, "Running cron job")

	var err error
	if job.FlowID != "" {
		err = s.runFlow(ctx, job)
	} else {
		err = s.runPrompt(ctx, job)
	}

	if err != nil {
		logger.ErrorContext(ctx, "Cron job failed", "error", err)
	} else {
		logger.InfoContext(ctx, "Cron job finished")
	}

	if s.deps.Publisher != nil {
		pubErr := s.deps.Publisher.Publish(ctx, job.ID, events.NewCronJobExecuted(job, err))
		if pubErr != nil {
			logger.WarnContext(ctx, "Failed to publish cron job event", "error", pubErr)
		}
	}

	return err
}

func (s *Scheduler) runFlow(ctx context.Context, job *models.CronJob) error {
	if job.TargetJID == "" {
		return ErrMissingTarget
	}

	flow, err := s.deps.Flows.FetchByID(ctx, job.FlowID)
	if err != nil {
		return err
	}

	result := s.deps.Engine.ExecuteFlow(ctx, flow, job.TargetJID, job.Prompt, "", nil)
	if result.Failed() {
		return fmt.Errorf("flow %s finished with %d failed node(s): %w", flow.ID, len(result.Failures), result.Failures[0])
	}

	return nil
}

func (s *Scheduler) runPrompt(ctx context.Context, job *models.CronJob) error {
	agentPrompt, err := s.deps.Settings.GetOrDefault(ctx, models.SettingAgentPrompt, defaultJobAgentPrompt)
	if err != nil {
		s.logger.WarnContext(ctx, "Using default agent prompt", "error", err)

		agentPrompt = defaultJobAgentPrompt
	}

	reply, err := s.deps.Responder.Respond(ctx, agentPrompt, job.Prompt)
	if err != nil {
		return err
	}

	if job.TargetJID == "" || reply == "" {
		s.logger.DebugContext(ctx, "Cron job reply not sent", "job_id", job.ID, "has_target", job.TargetJID != "")

		return nil
	}

	return s.deps.Sink.Send(ctx, job.TargetJID, models.TextMessage(reply))
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
