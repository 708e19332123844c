package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"policy-data/internal/importer"
	"policy-data/internal/repository"
)

// EventSink 消费导入事件的一方（日志之外的：Redis Stream、webhook 等）
type EventSink func(ctx context.Context, event importer.Event)

// PolicyHandler 保单管理 Handler
// 上传走后台导入运行；查询/聚合直接使用 Repository（业务逻辑简单，不需要 Service 层）
type PolicyHandler struct {
	users     repository.UsersRepo
	policies  repository.PoliciesRepo
	runner    *importer.Runner
	uploadDir string
	sinks     []EventSink
	logger    *zap.Logger
}

// NewPolicyHandler 创建保单管理 Handler
func NewPolicyHandler(
	users repository.UsersRepo,
	policies repository.PoliciesRepo,
	runner *importer.Runner,
	uploadDir string,
	sinks []EventSink,
	logger *zap.Logger,
) *PolicyHandler {
	return &PolicyHandler{
		users:     users,
		policies:  policies,
		runner:    runner,
		uploadDir: uploadDir,
		sinks:     sinks,
		logger:    logger,
	}
}

// Upload 接收 XLSX 文件并启动后台导入运行
// 立即 202 应答；生命周期事件异步走日志/事件流/回调，调用方不等待完成
func (h *PolicyHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("no file uploaded"))
		return
	}
	defer file.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.logger.Error("Failed to create upload dir", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to store upload"))
		return
	}

	// 落盘到临时路径；运行结束后清理
	filePath := filepath.Join(h.uploadDir, uuid.NewString()+filepath.Ext(header.Filename))
	dst, err := os.Create(filePath)
	if err != nil {
		h.logger.Error("Failed to create upload file", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to store upload"))
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(filePath)
		h.logger.Error("Failed to write upload file", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to store upload"))
		return
	}
	dst.Close()

	runID, events := h.runner.Start(filePath)

	// 消费事件直到通道关闭；运行的内部状态不外泄，只看事件
	go func() {
		for event := range events {
			h.logger.Info("[IMPORT EVENT]",
				zap.String("run_id", event.RunID),
				zap.String("status", string(event.Status)),
				zap.String("message", event.Message),
			)
			for _, sink := range h.sinks {
				sink(context.Background(), event)
			}
		}
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			h.logger.Warn("Failed to remove uploaded file", zap.String("file", filePath), zap.Error(err))
		}
	}()

	writeJSON(w, http.StatusAccepted, OkMessage(
		"File upload initiated. Data processing is running in the background.",
		map[string]any{
			"fileName": header.Filename,
			"runId":    runID,
		},
	))
}

// Search 按用户名（first_name，不区分大小写）查询用户及其全部保单
func (h *PolicyHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := r.URL.Query().Get("username")
	if username == "" {
		writeJSON(w, http.StatusBadRequest, Fail("username query parameter is required"))
		return
	}

	user, err := h.users.FindByFirstName(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		writeJSON(w, http.StatusNotFound, Fail("User not found."))
		return
	}
	if err != nil {
		h.logger.Error("Search user failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(fmt.Sprintf("failed to search user: %v", err)))
		return
	}

	policies, err := h.policies.ListByUser(ctx, user.UserID)
	if err != nil {
		h.logger.Error("List policies failed", zap.String("user_id", user.UserID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(fmt.Sprintf("failed to list policies: %v", err)))
		return
	}

	out := make([]any, 0, len(policies))
	for _, p := range policies {
		out = append(out, p.ToJSON())
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"user":     user.ToJSON(),
		"policies": out,
	}))
}

// Aggregated 按用户聚合的保单数量
func (h *PolicyHandler) Aggregated(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	aggregates, err := h.policies.AggregateByUser(ctx)
	if err != nil {
		h.logger.Error("Aggregate policies failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(fmt.Sprintf("failed to aggregate policies: %v", err)))
		return
	}

	out := make([]any, 0, len(aggregates))
	for _, a := range aggregates {
		out = append(out, a.ToJSON())
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

// ImportTemplate 下载导入模板
func (h *PolicyHandler) ImportTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := GeneratePolicyImportTemplate()
	if err != nil {
		h.logger.Error("Generate import template failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to generate template"))
		return
	}
	writeXLSX(w, "policy-import-template.xlsx", data)
}

// Export 导出全部保单
func (h *PolicyHandler) Export(w http.ResponseWriter, r *http.Request) {
	policies, err := h.policies.ListAll(r.Context())
	if err != nil {
		h.logger.Error("Export policies failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to export policies"))
		return
	}
	data, err := GeneratePolicyExport(policies)
	if err != nil {
		h.logger.Error("Generate policy export failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to generate export"))
		return
	}
	name := fmt.Sprintf("policies-%s.xlsx", time.Now().Format("20060102-150405"))
	writeXLSX(w, name, data)
}

func writeXLSX(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
