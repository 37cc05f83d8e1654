package models

import (
	"errors"
	"time"

	"github.com/robfig/cron/v3"
)

var ErrInvalidCronSchedule = errors.New("invalid cron schedule")

// CronJob is a scheduled proactive message. When FlowID is set the job runs
// that flow against TargetJID, otherwise it sends an AI reply to Prompt.
type CronJob struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"       validate:"required"`
	Schedule  string    `json:"schedule"   validate:"required"`
	Prompt    string    `json:"prompt"     validate:"required_without=FlowID"`
	TargetJID string    `json:"target_jid" validate:"required_with=FlowID"`
	FlowID    string    `json:"flow_id,omitempty"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CronParser accepts standard 5-field expressions and descriptors like @hourly.
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule parses the job's cron expression.
func (j *CronJob) ParseSchedule() (cron.Schedule, error) {
	schedule, err := CronParser.Parse(j.Schedule)
	if err != nil {
		return nil, errors.Join(ErrInvalidCronSchedule, err)
	}

	return schedule, nil
}

// NextRun returns the next time the job fires after reference.
func (j *CronJob) NextRun(reference time.Time) (time.Time, error) {
	schedule, err := j.ParseSchedule()
	if err != nil {
		return time.Time{}, err
	}

	return schedule.Next(reference), nil
}
