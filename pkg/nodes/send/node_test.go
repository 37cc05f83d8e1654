package send

import (
	"context"
	"errors"
	"testing"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jid = "5511999999999@s.whatsapp.net"

func execute(t *testing.T, nodeType models.NodeType, data map[string]any, vars models.Variables) testutil.SentMessage {
	t.Helper()

	sink := &testutil.RecordingSink{}
	node, err := NewSendNode("n1", nodeType, data, sink)
	require.NoError(t, err)
	require.NoError(t, node.Execute(context.Background(), jid, vars))

	messages := sink.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, jid, messages[0].JID)

	return messages[0]
}

func TestSendText_InterpolatesText(t *testing.T) {
	sent := execute(t, models.NodeTypeSendText, map[string]any{"text": "Olá {{nome}}!"}, models.Variables{"nome": "Ana"})

	assert.Equal(t, models.TextMessage("Olá Ana!"), sent.Message)
}

func TestSendText_MissingTextSendsEmpty(t *testing.T) {
	sent := execute(t, models.NodeTypeSendText, nil, models.Variables{})

	assert.Equal(t, models.MessageKindText, sent.Message.Kind)
	assert.Empty(t, sent.Message.Text)
}

func TestSendImageAndVideo(t *testing.T) {
	data := map[string]any{"url": "https://cdn.example.com/{{file}}", "caption": "Para {{nome}}"}
	vars := models.Variables{"file": "a.png", "nome": "Bia"}

	image := execute(t, models.NodeTypeSendImage, data, vars)
	assert.Equal(t, models.MessageKindImage, image.Message.Kind)
	assert.Equal(t, "https://cdn.example.com/a.png", image.Message.MediaURL)
	assert.Equal(t, "Para Bia", image.Message.Caption)

	video := execute(t, models.NodeTypeSendVideo, data, vars)
	assert.Equal(t, models.MessageKindVideo, video.Message.Kind)
	assert.Equal(t, "Para Bia", video.Message.Caption)
}

func TestSendAudio_DefaultsToVoiceNote(t *testing.T) {
	sent := execute(t, models.NodeTypeSendAudio, map[string]any{"url": "https://x/a.mp3"}, models.Variables{})
	assert.Equal(t, models.MessageKindAudio, sent.Message.Kind)
	assert.Equal(t, "audio/mpeg", sent.Message.MimeType)
	assert.True(t, sent.Message.PTT)

	sent = execute(t, models.NodeTypeSendAudio, map[string]any{"url": "https://x/a.mp3", "ptt": false}, models.Variables{})
	assert.False(t, sent.Message.PTT)
}

func TestSendPoll(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		values     []string
		selectable int
	}{
		{
			name:       "newline separated options",
			data:       map[string]any{"question": "Oi {{nome}}?", "options": "Manhã\n\n  Tarde \n{{extra}}"},
			values:     []string{"Manhã", "Tarde", "Noite"},
			selectable: 1,
		},
		{
			name:       "list options with multi select",
			data:       map[string]any{"question": "Oi {{nome}}?", "options": []any{"A", "B"}, "multiSelect": true},
			values:     []string{"A", "B"},
			selectable: 0,
		},
		{
			name:       "no options",
			data:       map[string]any{"question": "Oi {{nome}}?"},
			values:     []string{},
			selectable: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sent := execute(t, models.NodeTypeSendPoll, tt.data, models.Variables{"nome": "Caio", "extra": "Noite"})
			require.NotNil(t, sent.Message.Poll)
			assert.Equal(t, "Oi Caio?", sent.Message.Poll.Name)
			assert.Equal(t, tt.values, sent.Message.Poll.Values)
			assert.Equal(t, tt.selectable, sent.Message.Poll.SelectableCount)
		})
	}
}

func TestSendButtons(t *testing.T) {
	sent := execute(t, models.NodeTypeSendButtons, map[string]any{
		"text":    "Escolha, {{nome}}",
		"buttons": "Suporte\n\nVendas {{nome}}",
	}, models.Variables{"nome": "Duda"})

	assert.Equal(t, models.MessageKindButtons, sent.Message.Kind)
	assert.Equal(t, "Escolha, Duda", sent.Message.Text)
	assert.Equal(t, "Bot Automation", sent.Message.Footer)
	assert.Equal(t, []models.Button{
		{ID: "btn_0", DisplayText: "Suporte", Type: 1},
		{ID: "btn_1", DisplayText: "Vendas Duda", Type: 1},
	}, sent.Message.Buttons)
}

func TestSendNode_SinkErrorIsReturned(t *testing.T) {
	sink := &testutil.RecordingSink{Err: errors.New("not connected")}
	node, err := NewSendNode("n1", models.NodeTypeSendText, map[string]any{"text": "oi"}, sink)
	require.NoError(t, err)

	err = node.Execute(context.Background(), jid, models.Variables{})
	require.EqualError(t, err, "not connected")
}

func TestSendNode_WithoutSink(t *testing.T) {
	node, err := NewSendNode("n1", models.NodeTypeSendText, nil, nil)
	require.NoError(t, err)
	require.ErrorIs(t, node.Execute(context.Background(), jid, models.Variables{}), ErrNoSink)
}

func TestNewSendNodeFactories(t *testing.T) {
	factories := NewSendNodeFactories(&testutil.RecordingSink{})

	types := make([]models.NodeType, 0, len(factories))
	for _, factory := range factories {
		types = append(types, factory.Type())
		assert.NotEmpty(t, factory.Name())
		assert.Equal(t, "object", factory.Schema()["type"])
	}

	assert.ElementsMatch(t, []models.NodeType{
		models.NodeTypeSendText, models.NodeTypeSendImage, models.NodeTypeSendAudio,
		models.NodeTypeSendVideo, models.NodeTypeSendPoll, models.NodeTypeSendButtons,
	}, types)
}
