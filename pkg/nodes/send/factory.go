package send

import (
	"context"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
)

// SendNodeFactory creates SendNode instances for one send node type.
type SendNodeFactory struct {
	nodeType    models.NodeType
	name        string
	description string
	properties  map[string]any
	sink        protocol.MessageSink
}

// Create creates a new SendNode instance.
func (f *SendNodeFactory) Create(_ context.Context, id string, data map[string]any) (protocol.Node, error) {
	return NewSendNode(id, f.nodeType, data, f.sink)
}

// Type returns the node type built by the factory.
func (f *SendNodeFactory) Type() models.NodeType {
	return f.nodeType
}

// Name returns the factory name.
func (f *SendNodeFactory) Name() string {
	return f.name
}

// Description returns the factory description.
func (f *SendNodeFactory) Description() string {
	return f.description
}

// Schema returns the JSON schema for the node data.
func (f *SendNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": f.properties,
	}
}

func templated(description string, examples ...string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description + ". Supports {{variable}} placeholders.",
		"examples":    examples,
	}
}

var lineList = map[string]any{
	"oneOf": []any{
		map[string]any{"type": "string"},
		map[string]any{"type": "array", "items": map[string]any{"type": []string{"string", "number"}}},
	},
}

// NewSendNodeFactories returns one factory per send node type, all delivering through sink.
func NewSendNodeFactories(sink protocol.MessageSink) []protocol.NodeFactory {
	return []protocol.NodeFactory{
		&SendNodeFactory{
			nodeType:    models.NodeTypeSendText,
			name:        "Send Text",
			description: "Sends a text message to the chat",
			properties: map[string]any{
				"text": templated("Message text", "Olá {{nome}}!", "Nosso preço é {{preco}}"),
			},
			sink: sink,
		},
		&SendNodeFactory{
			nodeType:    models.NodeTypeSendImage,
			name:        "Send Image",
			description: "Sends an image by URL with an optional caption",
			properties: map[string]any{
				"url":     templated("Image URL", "https://example.com/menu.png"),
				"caption": templated("Caption shown below the image"),
			},
			sink: sink,
		},
		&SendNodeFactory{
			nodeType:    models.NodeTypeSendAudio,
			name:        "Send Audio",
			description: "Sends an audio file by URL, as a voice note unless ptt is false",
			properties: map[string]any{
				"url": templated("Audio URL", "https://example.com/boas-vindas.mp3"),
				"ptt": map[string]any{"type": "boolean", "default": true, "description": "Send as a push-to-talk voice note"},
			},
			sink: sink,
		},
		&SendNodeFactory{
			nodeType:    models.NodeTypeSendVideo,
			name:        "Send Video",
			description: "Sends a video by URL with an optional caption",
			properties: map[string]any{
				"url":     templated("Video URL"),
				"caption": templated("Caption shown below the video"),
			},
			sink: sink,
		},
		&SendNodeFactory{
			nodeType:    models.NodeTypeSendPoll,
			name:        "Send Poll",
			description: "Sends a poll built from one option per line",
			properties: map[string]any{
				"question":    templated("Poll question", "Qual horário prefere?"),
				"options":     lineList,
				"multiSelect": map[string]any{"type": "boolean", "default": false},
			},
			sink: sink,
		},
		&SendNodeFactory{
			nodeType:    models.NodeTypeSendButtons,
			name:        "Send Buttons",
			description: "Sends a text message with one quick reply button per line",
			properties: map[string]any{
				"text":    templated("Message text"),
				"buttons": lineList,
			},
			sink: sink,
		},
	}
}
