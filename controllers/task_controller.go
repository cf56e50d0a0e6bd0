package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jihuadaka/checkin-server/services"
	"github.com/jihuadaka/checkin-server/utils"
)

// TaskController manages the task catalog endpoints.
type TaskController struct {
	tasks *services.TaskService
}

// NewTaskController creates a TaskController.
func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

type taskRequest struct {
	Title       string `json:"title" binding:"required,min=1"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Category    string `json:"category"`
}

// CreateTask adds a daily task owned by the caller.
func (t *TaskController) CreateTask(ctx *gin.Context) {
	var req taskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	task, err := t.tasks.Create(ctx, userID, services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		Category:    req.Category,
	})
	if err != nil {
		handleServiceError(ctx, err, 50020, "failed to create task")
		return
	}

	utils.Success(ctx, gin.H{"task": task, "task_id": task.ID})
}

// ListTasks returns the caller's active tasks with today's checkin flag.
func (t *TaskController) ListTasks(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	tasks, err := t.tasks.List(ctx, userID)
	if err != nil {
		handleServiceError(ctx, err, 50021, "failed to list tasks")
		return
	}

	utils.Success(ctx, gin.H{"tasks": tasks})
}

// UpdateTask replaces the mutable fields of a task, owner only.
func (t *TaskController) UpdateTask(ctx *gin.Context) {
	taskID, ok := parseID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid task id")
		return
	}

	var req taskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	task, err := t.tasks.Update(ctx, taskID, userID, services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		Category:    req.Category,
	})
	if err != nil {
		handleServiceError(ctx, err, 50022, "failed to update task")
		return
	}

	utils.Success(ctx, gin.H{"task": task})
}

// DeleteTask soft-deletes a task, owner only.
func (t *TaskController) DeleteTask(ctx *gin.Context) {
	taskID, ok := parseID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid task id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if err := t.tasks.SoftDelete(ctx, taskID, userID); err != nil {
		handleServiceError(ctx, err, 50023, "failed to delete task")
		return
	}

	utils.Success(ctx, gin.H{"message": "task deleted"})
}
