package handler

import (
	"net/http"

	"todolist/internal/adapter/http/helper"
	"todolist/internal/adapter/http/middleware"
	"todolist/internal/core/model/response"
	"todolist/internal/core/port"
	"todolist/internal/core/telemetry"
	"todolist/internal/core/util"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	MessageInvalidDeletedTaskID = "Invalid deleted task ID"
	MessageDeletedTaskNotFound  = "Deleted task not found"
)

type TrashHandler struct {
	svc     port.TrashService
	logger  *otelzap.Logger
	metrics *telemetry.AppMetrics
}

func NewTrashHandler(svc port.TrashService, logger *otelzap.Logger, metrics *telemetry.AppMetrics) *TrashHandler {
	return &TrashHandler{
		svc:     svc,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *TrashHandler) ListTrash(c *gin.Context) {
	user := middleware.MustCurrentUser(c)

	entries, err := t.svc.ListTrash(c.Request.Context(), user.ID)

	if err != nil {
		fail(c, t.logger, "Failed to fetch deleted tasks", err, zap.Int64("user_id", user.ID))
		return
	}

	helper.SendSuccess(c, http.StatusOK, response.NewTrashListResponse(entries))
}

func (t *TrashHandler) Restore(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.MustCurrentUser(c)

	deletedTaskID, ok := util.IDParam(c, "id")

	if !ok {
		helper.SendBadRequestError(c, "id", MessageInvalidDeletedTaskID)
		return
	}

	taskID, restored, err := t.svc.Restore(ctx, user.ID, deletedTaskID)

	if err != nil {
		fail(c, t.logger, "Failed to restore task", err,
			zap.Int64("user_id", user.ID),
			zap.Int64("deleted_task_id", deletedTaskID))
		return
	}

	if !restored {
		helper.SendNotFoundError(c, MessageDeletedTaskNotFound)
		return
	}

	t.metrics.RecordTrashOperation(ctx, "restore")

	helper.SendSuccess(c, http.StatusOK, response.RestoreResponse{
		Message: "Task restored successfully",
		TaskID:  taskID,
	})
}

func (t *TrashHandler) PermanentlyDelete(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.MustCurrentUser(c)

	deletedTaskID, ok := util.IDParam(c, "id")

	if !ok {
		helper.SendBadRequestError(c, "id", MessageInvalidDeletedTaskID)
		return
	}

	deleted, err := t.svc.PermanentlyDelete(ctx, user.ID, deletedTaskID)

	if err != nil {
		fail(c, t.logger, "Failed to permanently delete task", err,
			zap.Int64("user_id", user.ID),
			zap.Int64("deleted_task_id", deletedTaskID))
		return
	}

	if !deleted {
		helper.SendNotFoundError(c, MessageDeletedTaskNotFound)
		return
	}

	t.metrics.RecordTrashOperation(ctx, "delete")

	helper.SendMessage(c, "Task permanently deleted")
}

func (t *TrashHandler) EmptyTrash(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.MustCurrentUser(c)

	count, err := t.svc.EmptyTrash(ctx, user.ID)

	if err != nil {
		fail(c, t.logger, "Failed to empty trash", err, zap.Int64("user_id", user.ID))
		return
	}

	t.metrics.RecordTrashOperation(ctx, "empty")

	helper.SendSuccess(c, http.StatusOK, response.CountResponse{
		Message:      "Trash emptied successfully",
		DeletedCount: count,
	})
}
