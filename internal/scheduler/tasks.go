package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskAppointmentSync = "appointments.sync"

const TaskAppointmentSyncRemove = "appointments.sync.remove"

const TaskAppointmentReminder = "appointments.reminder"

type AppointmentSyncPayload struct {
	AppointmentID string `json:"appointmentId"`
	SalonID       string `json:"salonId"`
}

type AppointmentReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	SalonID       string `json:"salonId"`
}

func NewAppointmentSyncTask(payload AppointmentSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAppointmentSync, data), nil
}

func ParseAppointmentSyncPayload(task *asynq.Task) (AppointmentSyncPayload, error) {
	var payload AppointmentSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AppointmentSyncPayload{}, err
	}
	return payload, nil
}

func NewAppointmentSyncRemoveTask(payload AppointmentSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAppointmentSyncRemove, data), nil
}

func NewAppointmentReminderTask(payload AppointmentReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAppointmentReminder, data), nil
}

func ParseAppointmentReminderPayload(task *asynq.Task) (AppointmentReminderPayload, error) {
	var payload AppointmentReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AppointmentReminderPayload{}, err
	}
	return payload, nil
}
