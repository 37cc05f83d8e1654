// Package send provides the nodes that deliver text, media, polls and buttons to the chat.
package send

import (
	"context"
	"errors"
	"fmt"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/nodes"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
	"github.com/Matheusbritto77/WBot/pkg/template"
)

var ErrNoSink = errors.New("message sink is not configured")

// Config holds the data of every send node type. Each type reads only its own fields.
type Config struct {
	Text        string `json:"text"`
	URL         string `json:"url"`
	Caption     string `json:"caption"`
	PTT         *bool  `json:"ptt"`
	Question    string `json:"question"`
	Options     any    `json:"options"`
	MultiSelect bool   `json:"multiSelect"`
	Buttons     any    `json:"buttons"`
}

// SendNode builds an outbound message from interpolated fields and hands it to the sink.
type SendNode struct {
	id       string
	nodeType models.NodeType
	config   Config
	sink     protocol.MessageSink
}

// NewSendNode creates a send node of the given type.
func NewSendNode(id string, nodeType models.NodeType, data map[string]any, sink protocol.MessageSink) (*SendNode, error) {
	var config Config
	if err := nodes.Decode(data, &config); err != nil {
		return nil, err
	}

	return &SendNode{id: id, nodeType: nodeType, config: config, sink: sink}, nil
}

// ID returns the node ID.
func (n *SendNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *SendNode) Type() models.NodeType {
	return n.nodeType
}

// Execute sends the message to jid.
func (n *SendNode) Execute(ctx context.Context, jid string, vars models.Variables) error {
	if n.sink == nil {
		return ErrNoSink
	}

	message, err := n.Message(vars)
	if err != nil {
		return err
	}

	return n.sink.Send(ctx, jid, message)
}

// Message renders the outbound payload for the current variables.
func (n *SendNode) Message(vars models.Variables) (models.OutboundMessage, error) {
	render := func(text string) string {
		return template.Interpolate(text, vars)
	}

	switch n.nodeType {
	case models.NodeTypeSendText:
		return models.TextMessage(render(n.config.Text)), nil
	case models.NodeTypeSendImage:
		return models.OutboundMessage{
			Kind:     models.MessageKindImage,
			MediaURL: render(n.config.URL),
			Caption:  render(n.config.Caption),
		}, nil
	case models.NodeTypeSendVideo:
		return models.OutboundMessage{
			Kind:     models.MessageKindVideo,
			MediaURL: render(n.config.URL),
			Caption:  render(n.config.Caption),
		}, nil
	case models.NodeTypeSendAudio:
		ptt := true
		if n.config.PTT != nil {
			ptt = *n.config.PTT
		}

		return models.OutboundMessage{
			Kind:     models.MessageKindAudio,
			MediaURL: render(n.config.URL),
			MimeType: models.AudioMimeType,
			PTT:      ptt,
		}, nil
	case models.NodeTypeSendPoll:
		return n.pollMessage(render), nil
	case models.NodeTypeSendButtons:
		return n.buttonsMessage(render), nil
	default:
		return models.OutboundMessage{}, fmt.Errorf("unsupported send node type %q", n.nodeType)
	}
}

func (n *SendNode) pollMessage(render func(string) string) models.OutboundMessage {
	options := nodes.Lines(n.config.Options)
	values := make([]string, len(options))

	for i, option := range options {
		values[i] = render(option)
	}

	selectable := 1
	if n.config.MultiSelect {
		selectable = 0
	}

	return models.OutboundMessage{
		Kind: models.MessageKindPoll,
		Poll: &models.Poll{
			Name:            render(n.config.Question),
			Values:          values,
			SelectableCount: selectable,
		},
	}
}

func (n *SendNode) buttonsMessage(render func(string) string) models.OutboundMessage {
	labels := nodes.Lines(n.config.Buttons)
	buttons := make([]models.Button, len(labels))

	for i, label := range labels {
		buttons[i] = models.Button{
			ID:          fmt.Sprintf("btn_%d", i),
			DisplayText: render(label),
			Type:        1,
		}
	}

	return models.OutboundMessage{
		Kind:    models.MessageKindButtons,
		Text:    render(n.config.Text),
		Buttons: buttons,
		Footer:  models.DefaultButtonsFooter,
	}
}
