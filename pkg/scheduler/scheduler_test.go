package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/eventbus"
	"github.com/Matheusbritto77/WBot/pkg/events"
	"github.com/Matheusbritto77/WBot/pkg/mocks"
	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/testutil"
	"github.com/Matheusbritto77/WBot/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticJobs struct {
	jobs []*models.CronJob
	err  error
}

func (s *staticJobs) Enabled(context.Context) ([]*models.CronJob, error) {
	return s.jobs, s.err
}

type staticFlows map[string]*models.AutomationFlow

func (s staticFlows) FetchByID(_ context.Context, id string) (*models.AutomationFlow, error) {
	flow, ok := s[id]
	if !ok {
		return nil, errors.New("flow not found")
	}

	return flow, nil
}

type flowCall struct {
	flowID string
	jid    string
	body   string
}

type recordingRunner struct {
	mu     sync.Mutex
	calls  []flowCall
	result *workflow.RunResult
}

func (r *recordingRunner) ExecuteFlow(_ context.Context, flow *models.AutomationFlow, jid, body, _ string, _ map[string]any) *workflow.RunResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, flowCall{flowID: flow.ID, jid: jid, body: body})
	if r.result != nil {
		return r.result
	}

	return &workflow.RunResult{}
}

type staticSettings map[string]string

func (s staticSettings) GetOrDefault(_ context.Context, key, fallback string) (string, error) {
	if value := s[key]; value != "" {
		return value, nil
	}

	return fallback, nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []*events.CronJobExecuted
}

func (p *capturePublisher) Publish(_ context.Context, _ string, event eventbus.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event.(*events.CronJobExecuted))

	return nil
}

func newScheduler(jobs *staticJobs, runner *recordingRunner, responder *mocks.MockTextResponder, sink *testutil.RecordingSink, publisher *capturePublisher) *Scheduler {
	deps := Dependencies{
		Jobs:      jobs,
		Flows:     staticFlows{"f1": {ID: "f1", Name: "Bom dia"}},
		Engine:    runner,
		Settings:  staticSettings{models.SettingAgentPrompt: "Seja breve."},
		Responder: responder,
		Sink:      sink,
	}
	if publisher != nil {
		deps.Publisher = publisher
	}

	return New(deps, slog.New(slog.DiscardHandler))
}

func TestScheduler_ReloadSkipsInvalidSchedules(t *testing.T) {
	jobs := &staticJobs{jobs: []*models.CronJob{
		{ID: "ok", Name: "ok", Schedule: "0 9 * * *", Prompt: "p"},
		{ID: "bad", Name: "bad", Schedule: "every morning", Prompt: "p"},
		{ID: "hourly", Name: "hourly", Schedule: "@hourly", Prompt: "p"},
	}}
	s := newScheduler(jobs, &recordingRunner{}, &mocks.MockTextResponder{}, &testutil.RecordingSink{}, nil)

	require.NoError(t, s.Reload(context.Background()))
	assert.ElementsMatch(t, []string{"ok", "hourly"}, s.Scheduled())

	jobs.jobs = jobs.jobs[:1]
	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, []string{"ok"}, s.Scheduled())
}

func TestScheduler_ReloadPropagatesStoreErrors(t *testing.T) {
	s := newScheduler(&staticJobs{err: errors.New("db down")}, &recordingRunner{}, &mocks.MockTextResponder{}, &testutil.RecordingSink{}, nil)

	require.Error(t, s.Reload(context.Background()))
}

func TestScheduler_RunJobWithFlow(t *testing.T) {
	runner := &recordingRunner{}
	publisher := &capturePublisher{}
	responder := &mocks.MockTextResponder{}
	s := newScheduler(&staticJobs{}, runner, responder, &testutil.RecordingSink{}, publisher)

	job := &models.CronJob{ID: "j1", Name: "flow", FlowID: "f1", Prompt: "bom dia", TargetJID: "5511@s.whatsapp.net"}
	require.NoError(t, s.RunJob(context.Background(), job))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, flowCall{flowID: "f1", jid: "5511@s.whatsapp.net", body: "bom dia"}, runner.calls[0])
	responder.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything, mock.Anything)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "j1", publisher.events[0].JobID)
	assert.Empty(t, publisher.events[0].Error)
}

func TestScheduler_RunJobWithFailingFlow(t *testing.T) {
	runner := &recordingRunner{result: &workflow.RunResult{Failures: []*workflow.NodeError{
		{NodeID: "h", NodeType: models.NodeTypeHTTPRequest, Err: errors.New("boom")},
	}}}
	publisher := &capturePublisher{}
	s := newScheduler(&staticJobs{}, runner, &mocks.MockTextResponder{}, &testutil.RecordingSink{}, publisher)

	err := s.RunJob(context.Background(), &models.CronJob{ID: "j1", FlowID: "f1", TargetJID: "1@s.whatsapp.net"})
	require.Error(t, err)
	require.Len(t, publisher.events, 1)
	assert.NotEmpty(t, publisher.events[0].Error)

	err = s.RunJob(context.Background(), &models.CronJob{ID: "j2", FlowID: "missing", TargetJID: "1@s.whatsapp.net"})
	require.Error(t, err)

	err = s.RunJob(context.Background(), &models.CronJob{ID: "j3", FlowID: "f1"})
	require.ErrorIs(t, err, ErrMissingTarget)
}

func TestScheduler_RunJobWithPrompt(t *testing.T) {
	responder := &mocks.MockTextResponder{}
	responder.On("Respond", mock.Anything, "Seja breve.", "mande uma dica").Return("Beba água", nil)
	sink := &testutil.RecordingSink{}
	s := newScheduler(&staticJobs{}, &recordingRunner{}, responder, sink, nil)

	require.NoError(t, s.RunJob(context.Background(), &models.CronJob{ID: "j1", Prompt: "mande uma dica", TargetJID: "1@s.whatsapp.net"}))
	assert.Equal(t, []string{"Beba água"}, sink.Texts())

	require.NoError(t, s.RunJob(context.Background(), &models.CronJob{ID: "j2", Prompt: "mande uma dica"}))
	assert.Len(t, sink.Messages(), 1)

	responder.AssertExpectations(t)
}

func TestScheduler_RunJobResponderError(t *testing.T) {
	responder := &mocks.MockTextResponder{}
	responder.On("Respond", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("quota"))
	sink := &testutil.RecordingSink{}
	s := newScheduler(&staticJobs{}, &recordingRunner{}, responder, sink, nil)

	require.Error(t, s.RunJob(context.Background(), &models.CronJob{ID: "j1", Prompt: "p", TargetJID: "1@s.whatsapp.net"}))
	assert.Empty(t, sink.Messages())
}

func TestScheduler_FiresScheduledJobs(t *testing.T) {
	runner := &recordingRunner{}
	jobs := &staticJobs{jobs: []*models.CronJob{
		{ID: "j1", Name: "tick", Schedule: "@every 1s", FlowID: "f1", TargetJID: "1@s.whatsapp.net"},
	}}
	s := newScheduler(jobs, runner, &mocks.MockTextResponder{}, &testutil.RecordingSink{}, nil)

	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = s.Stop(ctx)
	})

	assert.Eventually(t, func() bool {
		runner.mu.Lock()
		defer runner.mu.Unlock()

		return len(runner.calls) > 0
	}, 5*time.Second, 50*time.Millisecond)
}
