package dto

import (
	"time"

	"github.com/todo-tracker/todo-api/internal/models"
	"github.com/todo-tracker/todo-api/internal/repository"
	"github.com/todo-tracker/todo-api/internal/utils"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      *UserDTO  `json:"user,omitempty"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO             `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ProjectDeleteResponse is shown before a project is deleted
type ProjectDeleteResponse struct {
	Project   ProjectDTO `json:"project"`
	TaskCount int64      `json:"task_count"`
}

// SummaryResponse lists task tallies per project
type SummaryResponse struct {
	Projects []repository.ProjectSummary `json:"projects"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:        project.ID,
		Title:     project.Title,
		Slug:      project.Slug,
		Color:     project.Color,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}

	// Include owner if preloaded
	if project.User.ID != 0 {
		owner := ToUserDTO(project.User)
		dto.User = &owner
	}

	return dto
}

// ToProjectListResponse converts a page of projects
func ToProjectListResponse(projects []models.Project, pagination utils.PaginationResponse) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}

	return ProjectListResponse{
		Projects:   items,
		Pagination: pagination,
	}
}
