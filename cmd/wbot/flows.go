package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Matheusbritto77/WBot/pkg/cmd"
	"github.com/Matheusbritto77/WBot/pkg/log"
	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
	"github.com/Matheusbritto77/WBot/pkg/services"
	"github.com/Matheusbritto77/WBot/pkg/transport/gateway"
	cli "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

var ErrNoFlows = errors.New("no flows found in file")

// flowFile is either a list of flows under "flows" or a single flow document.
type flowFile struct {
	Flows []*models.AutomationFlow `yaml:"flows"`
}

// loadFlowFile reads YAML or JSON flow definitions from path.
func loadFlowFile(path string) ([]*models.AutomationFlow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file flowFile

	err = yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if len(file.Flows) > 0 {
		return file.Flows, nil
	}

	var flow models.AutomationFlow

	err = yaml.Unmarshal(data, &flow)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if flow.Name == "" && len(flow.Nodes) == 0 {
		return nil, ErrNoFlows
	}

	return []*models.AutomationFlow{&flow}, nil
}

func NewFlowsCommand() *cli.Command {
	return &cli.Command{
		Name:  "flows",
		Usage: "Validate and import automation flows",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate flow definitions without storing them",
				ArgsUsage: "<file.yaml|file.json>",
				Flags:     append([]cli.Flag{pluginsPathFlag()}, loggingFlags()...),
				Action:    runFlowsValidate,
			},
			{
				Name:      "import",
				Usage:     "Validate and store flow definitions",
				ArgsUsage: "<file.yaml|file.json>",
				Flags:     append([]cli.Flag{databaseURLFlag(true), pluginsPathFlag()}, loggingFlags()...),
				Action:    runFlowsImport,
			},
		},
	}
}

func newOfflineFlowService(logger *slog.Logger, p persistence.Persistence, pluginsPath string) (*services.Flow, error) {
	registry, err := cmd.NewRegistry(logger, pluginsPath, protocol.Dependencies{
		Logger: logger,
		Sink:   gateway.NewLogSink(logger),
	})
	if err != nil {
		return nil, err
	}

	return services.NewFlow(p, registry), nil
}

func runFlowsValidate(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"), command.String("log-format"))
	logger := log.WithModule("flows")

	path := command.Args().First()
	if path == "" {
		return errors.New("flow file is required")
	}

	flows, err := loadFlowFile(path)
	if err != nil {
		return err
	}

	service, err := newOfflineFlowService(logger, nil, command.String("plugins-path"))
	if err != nil {
		return err
	}

	var errs []error

	for _, flow := range flows {
		if err := service.Validate(flow); err != nil {
			logger.ErrorContext(ctx, "Invalid flow", "flow_id", flow.ID, "flow_name", flow.Name, "error", err)
			errs = append(errs, fmt.Errorf("flow %q: %w", flow.Name, err))

			continue
		}

		logger.InfoContext(ctx, "Flow is valid", "flow_id", flow.ID, "flow_name", flow.Name, "nodes", len(flow.Nodes))
	}

	return errors.Join(errs...)
}

func runFlowsImport(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"), command.String("log-format"))
	logger := log.WithModule("flows")

	path := command.Args().First()
	if path == "" {
		return errors.New("flow file is required")
	}

	flows, err := loadFlowFile(path)
	if err != nil {
		return err
	}

	p, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := p.Close(ctx); err != nil {
			logger.Error("Failed to close persistence", "error", err)
		}
	}()

	service, err := newOfflineFlowService(logger, p, command.String("plugins-path"))
	if err != nil {
		return err
	}

	for _, flow := range flows {
		if err := service.Import(ctx, flow); err != nil {
			return fmt.Errorf("failed to import flow %q: %w", flow.Name, err)
		}

		logger.InfoContext(ctx, "Flow imported", "flow_id", flow.ID, "flow_name", flow.Name)
	}

	logger.InfoContext(ctx, "Import finished", "flows", len(flows))

	return nil
}
