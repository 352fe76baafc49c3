package scheduler

import (
	"encoding/json"

	"tentquote_backend/internal/events"

	"github.com/hibiken/asynq"
)

// One task per recipient, so a failing staff inbox never resends the
// customer's confirmation.
const (
	TaskEnquiryConfirm = "enquiries.confirm"
	TaskEnquiryAlert   = "enquiries.alert"
)

// The task payload is the submitted event itself.
func NewEnquiryConfirmTask(event events.EnquirySubmitted) (*asynq.Task, error) {
	return newEnquiryTask(TaskEnquiryConfirm, event)
}

func NewEnquiryAlertTask(event events.EnquirySubmitted) (*asynq.Task, error) {
	return newEnquiryTask(TaskEnquiryAlert, event)
}

func newEnquiryTask(taskType string, event events.EnquirySubmitted) (*asynq.Task, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, data), nil
}

func ParseEnquiryPayload(task *asynq.Task) (events.EnquirySubmitted, error) {
	var payload events.EnquirySubmitted
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return events.EnquirySubmitted{}, err
	}
	return payload, nil
}
