package dto

import (
	"time"

	"github.com/todo-tracker/todo-api/internal/models"
	"github.com/todo-tracker/todo-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            uint64              `json:"id"`
	Title         string              `json:"title"`
	Slug          string              `json:"slug"`
	Description   string              `json:"description"`
	Priority      models.TaskPriority `json:"priority"`
	PriorityLabel string              `json:"priority_label"`
	Status        models.TaskStatus   `json:"status"`
	StatusLabel   string              `json:"status_label"`
	ProjectID     uint64              `json:"project_id"`
	ProjectSlug   string              `json:"project_slug,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// SuggestedTaskDTO is one AI proposal
type SuggestedTaskDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// SuggestTasksResponse carries the proposals and any tasks created from them
type SuggestTasksResponse struct {
	Suggestions []SuggestedTaskDTO `json:"suggestions"`
	Created     []TaskDTO          `json:"created"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:            task.ID,
		Title:         task.Title,
		Slug:          task.Slug,
		Description:   task.Description,
		Priority:      task.Priority,
		PriorityLabel: task.Priority.String(),
		Status:        task.Status,
		StatusLabel:   task.Status.String(),
		ProjectID:     task.ProjectID,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}

	// Include project slug if preloaded
	if task.Project.ID != 0 {
		dto.ProjectSlug = task.Project.Slug
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskListResponse converts a page of tasks
func ToTaskListResponse(tasks []models.Task, pagination utils.PaginationResponse) TaskListResponse {
	return TaskListResponse{
		Tasks:      ToTaskDTOs(tasks),
		Pagination: pagination,
	}
}
