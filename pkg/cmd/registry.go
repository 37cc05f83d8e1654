// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/Matheusbritto77/WBot/pkg/protocol"
	"github.com/Matheusbritto77/WBot/pkg/registry"
)

func registerNodePlugins(log *slog.Logger, reg *registry.Registry, pluginsPath string) error {
	if pluginsPath == "" {
		return nil
	}

	nodePlugins, err := reg.LoadNodePlugins(pluginsPath)
	if err != nil {
		return err
	}

	for _, plugin := range nodePlugins {
		log.Info("Registering node plugin", "node_type", plugin.Type())
		reg.RegisterNode(plugin)
	}

	return nil
}

// NewRegistry registers the built-in nodes, then any plugin nodes found under
// pluginsPath. Plugins replace built-in nodes of the same type.
func NewRegistry(log *slog.Logger, pluginsPath string, deps protocol.Dependencies) (*registry.Registry, error) {
	reg := registry.NewRegistry(log)
	reg.RegisterDefaultNodes(deps)

	err := registerNodePlugins(log, reg, pluginsPath)
	if err != nil {
		return nil, err
	}

	return reg, nil
}
