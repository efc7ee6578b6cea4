package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/todo-tracker/todo-api/internal/constants"
	"github.com/todo-tracker/todo-api/internal/dto"
	apierrors "github.com/todo-tracker/todo-api/internal/errors"
	"github.com/todo-tracker/todo-api/internal/middleware"
	"github.com/todo-tracker/todo-api/internal/repository"
	"github.com/todo-tracker/todo-api/internal/services"
	"github.com/todo-tracker/todo-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
	summaryRepo repository.SummaryRepository
}

func NewTaskHandler(taskService *services.TaskService, summaryRepo repository.SummaryRepository) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		summaryRepo: summaryRepo,
	}
}

type createTaskRequest struct {
	Title       string  `form:"title" json:"title"`
	Description string  `form:"description" json:"description"`
	Priority    *choice `form:"priority" json:"priority"`
	Status      *choice `form:"status" json:"status"`
}

type updateTaskRequest struct {
	Title       *string `form:"title" json:"title"`
	Description *string `form:"description" json:"description"`
	Priority    *choice `form:"priority" json:"priority"`
	Status      *choice `form:"status" json:"status"`
}

// ListTasks returns tasks of the current user's projects
// Can filter by project slug, status and priority
func (h *TaskHandler) ListTasks(c *gin.Context) {
	fields := map[string][]string{}
	status := parseStatus(queryChoice(c, "status"), fields)
	priority := parsePriority(queryChoice(c, "priority"), fields)
	if len(fields) > 0 {
		respondFieldErrors(c, http.StatusBadRequest, fields)
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.taskService.ListFor(middleware.GetUser(c), services.ListTasksInput{
		ProjectSlug: c.Query("project"),
		Status:      status,
		Priority:    priority,
		Page:        params.Page,
		PageSize:    params.Limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Response(total)))
}

// CreateTask adds a task to the project in the URL
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	fields := map[string][]string{}
	input := services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    parsePriority(req.Priority, fields),
		Status:      parseStatus(req.Status, fields),
	}
	if len(fields) > 0 {
		respondFieldErrors(c, http.StatusBadRequest, fields)
		return
	}

	task, err := h.taskService.CreateFor(middleware.GetUser(c), c.Param("slug"), input)
	if err != nil {
		respondTaskError(c, err, req.Title)
		return
	}

	respondSuccess(c, constants.TaskListPath, http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies the fields present in the request
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	fields := map[string][]string{}
	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    parsePriority(req.Priority, fields),
		Status:      parseStatus(req.Status, fields),
	}
	if len(fields) > 0 {
		respondFieldErrors(c, http.StatusBadRequest, fields)
		return
	}

	task, err := h.taskService.Update(middleware.GetUser(c), c.Param("slug"), input)
	if err != nil {
		title := ""
		if req.Title != nil {
			title = *req.Title
		}
		respondTaskError(c, err, title)
		return
	}

	respondSuccess(c, constants.TaskListPath, http.StatusOK, dto.ToTaskDTO(*task))
}

// ToggleTask flips a task between completed and uncompleted
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	task, err := h.taskService.ToggleStatus(middleware.GetUser(c), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, constants.TaskListPath, http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.Delete(middleware.GetUser(c), c.Param("slug")); err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, constants.TaskListPath, http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// SuggestTasks generates task suggestions from text using AI
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	type SuggestTasksRequest struct {
		Text   string `form:"text" json:"text"`
		Create bool   `form:"create" json:"create"`
	}

	var req SuggestTasksRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.taskService.SuggestTasks(c.Request.Context(), middleware.GetUser(c), c.Param("slug"), services.SuggestTasksInput{
		Text:   req.Text,
		Create: req.Create,
	})
	if err != nil {
		respondTaskError(c, err, "")
		return
	}

	suggestions := make([]dto.SuggestedTaskDTO, len(result.Suggestions))
	for i, s := range result.Suggestions {
		suggestions[i] = dto.SuggestedTaskDTO{Title: s.Title, Description: s.Description, Priority: s.Priority}
	}

	status := http.StatusOK
	if len(result.Created) > 0 {
		status = http.StatusCreated
	}
	c.JSON(status, dto.SuggestTasksResponse{
		Suggestions: suggestions,
		Created:     dto.ToTaskDTOs(result.Created),
	})
}

// Summary returns total and completed task counts per project of the current user
func (h *TaskHandler) Summary(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		apierrors.Unauthorized(c, "")
		return
	}

	summaries, err := h.summaryRepo.ProjectSummaries(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if summaries == nil {
		summaries = []repository.ProjectSummary{}
	}

	c.JSON(http.StatusOK, dto.SummaryResponse{Projects: summaries})
}

func respondTaskError(c *gin.Context, err error, title string) {
	if fields, status := taskFieldErrors(err, title); fields != nil {
		respondFieldErrors(c, status, fields)
		return
	}
	respondServiceError(c, err)
}

func queryChoice(c *gin.Context, key string) *choice {
	value, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	v := choice(value)
	return &v
}
