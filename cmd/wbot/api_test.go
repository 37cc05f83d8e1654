package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Matheusbritto77/WBot/pkg/mocks"
	"github.com/Matheusbritto77/WBot/pkg/persistence/file"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
	"github.com/Matheusbritto77/WBot/pkg/registry"
	"github.com/Matheusbritto77/WBot/pkg/services"
	"github.com/Matheusbritto77/WBot/pkg/testutil"
	"github.com/Matheusbritto77/WBot/pkg/web"
	"github.com/Matheusbritto77/WBot/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(tempDir string) *fiber.App {
	logger := slog.New(slog.DiscardHandler)
	persistence := file.NewPersistence(tempDir)

	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultNodes(protocol.Dependencies{Logger: logger, Sink: &testutil.RecordingSink{}})

	flows := services.NewFlow(persistence, reg)

	handlers := web.NewAPIHandlers(
		flows,
		services.NewSettings(persistence, logger),
		services.NewStats(persistence),
		services.NewCronJobs(persistence, nil),
		workflow.NewEngine(flows, reg, nil, nil, logger),
		&mocks.MockEventBus{},
		validator.New(validator.WithRequiredStructEnabled()),
		reg,
	)

	return NewAPI(logger, handlers).App()
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "WBot API", string(body))
}

func TestAPI_HealthCheck(t *testing.T) {
	app := setupTestApp(t.TempDir())

	for _, path := range []string{"/livez", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		_ = resp.Body.Close()
	}
}

func TestAPI_RegistersFlowRoutes(t *testing.T) {
	app := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/flows", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_AppIsBuiltOnce(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	persistence := file.NewPersistence(t.TempDir())
	reg := registry.NewRegistry(logger)
	flows := services.NewFlow(persistence, reg)

	api := NewAPI(logger, web.NewAPIHandlers(
		flows,
		services.NewSettings(persistence, logger),
		services.NewStats(persistence),
		services.NewCronJobs(persistence, nil),
		workflow.NewEngine(flows, reg, nil, nil, logger),
		&mocks.MockEventBus{},
		validator.New(),
		reg,
	))

	assert.Same(t, api.App(), api.App())
}
