package registry

import (
	"github.com/Matheusbritto77/WBot/pkg/nodes/airesponse"
	"github.com/Matheusbritto77/WBot/pkg/nodes/conditional"
	"github.com/Matheusbritto77/WBot/pkg/nodes/delay"
	"github.com/Matheusbritto77/WBot/pkg/nodes/httprequest"
	"github.com/Matheusbritto77/WBot/pkg/nodes/send"
	"github.com/Matheusbritto77/WBot/pkg/nodes/setvariable"
	"github.com/Matheusbritto77/WBot/pkg/nodes/trigger"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
)

// RegisterDefaultNodes registers all built-in node factories with the registry.
func (r *Registry) RegisterDefaultNodes(deps protocol.Dependencies) {
	r.RegisterNode(trigger.NewTriggerNodeFactory())

	for _, factory := range send.NewSendNodeFactories(deps.Sink) {
		r.RegisterNode(factory)
	}

	r.RegisterNode(airesponse.NewAIResponseNodeFactory(deps.Responder, deps.Sink))
	r.RegisterNode(delay.NewDelayNodeFactory(deps.Timer))
	r.RegisterNode(conditional.NewConditionalNodeFactory())
	r.RegisterNode(setvariable.NewSetVariableNodeFactory())
	r.RegisterNode(httprequest.NewHTTPRequestNodeFactory(deps.HTTP))
}
