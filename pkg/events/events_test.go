package events

import (
	"errors"
	"testing"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestConstructorsFillBaseEvent(t *testing.T) {
	received := NewMessageReceived(models.InboundMessage{JID: "1@s.whatsapp.net", Body: "oi"})
	assert.NotEmpty(t, received.ID)
	assert.Equal(t, MessageReceivedEvent, received.Type)
	assert.False(t, received.Timestamp.IsZero())
	assert.Equal(t, InboundMessagesTopic, received.Topic())

	activity := NewActivity("1@g.us", "oi", "[Fluxo: Boas-vindas]", true)
	assert.Equal(t, ActivityEvent, activity.GetType())
	assert.Equal(t, ActivityTopic, activity.Topic())
	assert.True(t, activity.IsGroup)

	flow := NewFlowExecuted("f1", "Boas-vindas", "t1", "1@s.whatsapp.net")
	assert.Equal(t, FlowExecutedEvent, flow.Type)
	assert.NotEqual(t, received.ID, flow.ID)
}

func TestNewCronJobExecuted(t *testing.T) {
	job := &models.CronJob{ID: "j1", Name: "bom dia", TargetJID: "1@s.whatsapp.net"}

	ok := NewCronJobExecuted(job, nil)
	assert.Empty(t, ok.Error)
	assert.Equal(t, "j1", ok.JobID)

	failed := NewCronJobExecuted(job, errors.New("gateway down"))
	assert.Equal(t, "gateway down", failed.Error)
}
