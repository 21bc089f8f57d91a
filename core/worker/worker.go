package worker

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"meetly/core/config"
	"meetly/core/constants"
	"meetly/core/logger"
)

// CalendarSyncPayload asks the worker to mirror a booked meeting into the
// host's connected calendar. Mirroring is best effort: task failure leaves
// the meeting without a link, it never unwinds the booking.
type CalendarSyncPayload struct {
	MeetingID uuid.UUID `json:"meeting_id"`
}

// NotificationPayload creates an in-app notification for a user.
type NotificationPayload struct {
	UserID  uuid.UUID `json:"user_id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Type    string    `json:"type"`
}

type Worker struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
}

func New(cfg config.RedisConfig) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 5,
		},
	})

	return &Worker{
		client: asynq.NewClient(redisOpt),
		server: server,
		mux:    asynq.NewServeMux(),
	}
}

func (w *Worker) HandleFunc(taskType string, handler func(context.Context, *asynq.Task) error) {
	w.mux.HandleFunc(taskType, handler)
}

// Start runs the asynq server in the background.
func (w *Worker) Start() error {
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
	if err := w.client.Close(); err != nil {
		logger.Warn("Worker:Shutdown:CloseClient", "error", err)
	}
}

// EnqueueCalendarSync schedules calendar mirroring for a meeting.
func (w *Worker) EnqueueCalendarSync(ctx context.Context, meetingID uuid.UUID) error {
	payload, err := json.Marshal(CalendarSyncPayload{MeetingID: meetingID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(constants.TaskCalendarSync, payload, asynq.MaxRetry(3))
	info, err := w.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}
	logger.Info("Worker:EnqueueCalendarSync", "meeting_id", meetingID, "task_id", info.ID)
	return nil
}

// EnqueueNotification schedules in-app notification delivery.
func (w *Worker) EnqueueNotification(ctx context.Context, p NotificationPayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	task := asynq.NewTask(constants.TaskNotificationDeliver, payload, asynq.MaxRetry(5))
	_, err = w.client.EnqueueContext(ctx, task)
	return err
}
