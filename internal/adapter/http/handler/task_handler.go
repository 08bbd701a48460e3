package handler

import (
	"net/http"
	"strings"

	"todolist/internal/adapter/http/helper"
	"todolist/internal/adapter/http/middleware"
	"todolist/internal/core/domain"
	"todolist/internal/core/model/request"
	"todolist/internal/core/model/response"
	"todolist/internal/core/port"
	"todolist/internal/core/telemetry"
	"todolist/internal/core/util"
	"todolist/internal/core/validation"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const MessageInvalidTaskID = "Invalid task ID"

type TaskHandler struct {
	svc     port.TaskService
	logger  *otelzap.Logger
	metrics *telemetry.AppMetrics
}

func NewTaskHandler(svc port.TaskService, logger *otelzap.Logger, metrics *telemetry.AppMetrics) *TaskHandler {
	return &TaskHandler{
		svc:     svc,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *TaskHandler) ListTasks(c *gin.Context) {
	user := middleware.MustCurrentUser(c)

	tasks, err := t.svc.ListTasks(c.Request.Context(), user.ID)

	if err != nil {
		fail(c, t.logger, "Failed to fetch tasks", err, zap.Int64("user_id", user.ID))
		return
	}

	helper.SendSuccess(c, http.StatusOK, response.NewTaskListResponse(tasks))
}

func (t *TaskHandler) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.MustCurrentUser(c)

	params, err := util.ParamsToMap[request.CreateTaskRequest](c)

	if err != nil {
		helper.SendBindError(c, err)
		return
	}

	// text is checked before the date so an empty form reports the text first
	if err := validation.Validate(domain.Task{Text: strings.TrimSpace(params.Text)}); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	dueDate, err := params.ParseDueDate()

	if err != nil {
		helper.SendValidationError(c, err)
		return
	}

	category, err := params.ParseCategory()

	if err != nil {
		helper.SendValidationError(c, err)
		return
	}

	task, err := t.svc.CreateTask(ctx, user.ID, params.Text, category, dueDate)

	if err != nil {
		fail(c, t.logger, "Failed to create task", err, zap.Int64("user_id", user.ID))
		return
	}

	t.metrics.RecordTaskOperation(ctx, "create")

	helper.SendSuccess(c, http.StatusCreated, response.TaskCreatedResponse{
		Message: "Task created successfully",
		Task:    response.NewTaskResponse(task),
	})
}

func (t *TaskHandler) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.MustCurrentUser(c)

	taskID, ok := util.IDParam(c, "id")

	if !ok {
		helper.SendBadRequestError(c, "id", MessageInvalidTaskID)
		return
	}

	params, err := util.ParamsToMap[request.UpdateTaskRequest](c)

	if err != nil {
		helper.SendBindError(c, err)
		return
	}

	patch, err := params.ToPatch()

	if err != nil {
		helper.SendValidationError(c, err)
		return
	}

	updated, err := t.svc.UpdateTask(ctx, user.ID, taskID, patch)

	if err != nil {
		fail(c, t.logger, "Failed to update task", err,
			zap.Int64("user_id", user.ID),
			zap.Int64("task_id", taskID))
		return
	}

	if !updated {
		helper.SendNotFoundError(c, "Task not found")
		return
	}

	t.metrics.RecordTaskOperation(ctx, "update")

	helper.SendMessage(c, "Task updated successfully")
}

// DeleteTask moves the task to the trash.
func (t *TaskHandler) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.MustCurrentUser(c)

	taskID, ok := util.IDParam(c, "id")

	if !ok {
		helper.SendBadRequestError(c, "id", MessageInvalidTaskID)
		return
	}

	deleted, err := t.svc.DeleteTask(ctx, user.ID, taskID)

	if err != nil {
		fail(c, t.logger, "Failed to delete task", err,
			zap.Int64("user_id", user.ID),
			zap.Int64("task_id", taskID))
		return
	}

	if !deleted {
		helper.SendNotFoundError(c, "Task not found")
		return
	}

	t.metrics.RecordTaskOperation(ctx, "delete")

	helper.SendMessage(c, "Task deleted successfully")
}

func (t *TaskHandler) DeleteCompleted(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.MustCurrentUser(c)

	count, err := t.svc.DeleteCompleted(ctx, user.ID)

	if err != nil {
		fail(c, t.logger, "Failed to delete completed tasks", err, zap.Int64("user_id", user.ID))
		return
	}

	t.metrics.RecordTaskOperation(ctx, "delete_completed")

	helper.SendSuccess(c, http.StatusOK, response.CountResponse{
		Message:      "All completed tasks deleted successfully",
		DeletedCount: count,
	})
}
