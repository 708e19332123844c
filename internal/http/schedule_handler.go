package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"policy-data/internal/domain"
	"policy-data/internal/repository"
)

// ScheduleHandler 一次性定时消息 Handler
// 任务只存在于进程内存：进程重启后未触发的任务丢失（与原行为一致，接受的限制）
type ScheduleHandler struct {
	messages repository.MessagesRepo
	logger   *zap.Logger

	mu   sync.Mutex
	jobs map[string]*time.Timer
}

func NewScheduleHandler(messages repository.MessagesRepo, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		messages: messages,
		logger:   logger,
		jobs:     map[string]*time.Timer{},
	}
}

type scheduleRequest struct {
	Message string `json:"message"`
	Day     string `json:"day"`  // YYYY-MM-DD
	Time    string `json:"time"` // HH:MM:SS
}

// ScheduleMessage 注册一次性延迟插入
// 到点后把消息写入 scheduled_messages；调度本身不落盘
func (h *ScheduleHandler) ScheduleMessage(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if req.Message == "" || req.Day == "" || req.Time == "" {
		writeJSON(w, http.StatusBadRequest, Fail("Missing parameters: message, day (YYYY-MM-DD), or time (HH:MM:SS)."))
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, fmt.Sprintf("%sT%sZ", req.Day, req.Time))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("Invalid date or time format. Please use YYYY-MM-DD and HH:MM:SS."))
		return
	}
	if !scheduledAt.After(time.Now()) {
		writeJSON(w, http.StatusBadRequest, Fail("Cannot schedule a message in the past."))
		return
	}

	jobName := fmt.Sprintf("msg-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	message := req.Message

	timer := time.AfterFunc(time.Until(scheduledAt), func() {
		defer h.removeJob(jobName)

		_, err := h.messages.Insert(context.Background(), &domain.ScheduledMessage{
			Message:     message,
			ScheduledAt: scheduledAt, // 记录原定时间，而非实际触发时间
		})
		if err != nil {
			h.logger.Error("[SCHEDULER] Job failed to insert message",
				zap.String("job", jobName),
				zap.Error(err),
			)
			return
		}
		h.logger.Info("[SCHEDULER] Successfully inserted scheduled message",
			zap.String("job", jobName),
			zap.Time("scheduled_at", scheduledAt),
		)
	})

	h.mu.Lock()
	h.jobs[jobName] = timer
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, OkMessage(
		"Message scheduled successfully for one-time insertion.",
		map[string]any{
			"scheduledFor": scheduledAt.Format(time.RFC3339),
			"jobName":      jobName,
		},
	))
}

func (h *ScheduleHandler) removeJob(jobName string) {
	h.mu.Lock()
	delete(h.jobs, jobName)
	h.mu.Unlock()
}

// PendingJobs 未触发任务数（测试用）
func (h *ScheduleHandler) PendingJobs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.jobs)
}

// StopAll 停掉全部未触发任务（进程退出路径）
func (h *ScheduleHandler) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for name, timer := range h.jobs {
		timer.Stop()
		delete(h.jobs, name)
	}
}
