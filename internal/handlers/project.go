package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/todo-tracker/todo-api/internal/constants"
	"github.com/todo-tracker/todo-api/internal/dto"
	apierrors "github.com/todo-tracker/todo-api/internal/errors"
	"github.com/todo-tracker/todo-api/internal/middleware"
	"github.com/todo-tracker/todo-api/internal/services"
	"github.com/todo-tracker/todo-api/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	taskService    *services.TaskService
}

func NewProjectHandler(projectService *services.ProjectService, taskService *services.TaskService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		taskService:    taskService,
	}
}

type projectRequest struct {
	Title string `form:"title" json:"title"`
	Color string `form:"color" json:"color"`
}

func (r projectRequest) input() services.ProjectInput {
	return services.ProjectInput{Title: r.Title, Color: r.Color}
}

// ListProjects returns the current user's projects. Anonymous visitors get an empty page.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.ListFor(middleware.GetUser(c), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, params.Response(total)))
}

// CreateProject creates a project owned by the current user
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := h.projectService.Create(middleware.GetUser(c), req.input())
	if err != nil {
		respondProjectError(c, err, req.input())
		return
	}

	respondSuccess(c, constants.ProjectListPath, http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns the project being edited
// Project is already loaded by RequireProjectAccess middleware
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject renames or recolors a project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := h.projectService.Update(middleware.GetUser(c), c.Param("slug"), req.input())
	if err != nil {
		respondProjectError(c, err, req.input())
		return
	}

	respondSuccess(c, constants.ProjectListPath, http.StatusOK, dto.ToProjectDTO(*project))
}

// ConfirmDeleteProject shows what deleting the project removes
func (h *ProjectHandler) ConfirmDeleteProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	count, err := h.taskService.CountTasks(project)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectDeleteResponse{
		Project:   dto.ToProjectDTO(*project),
		TaskCount: count,
	})
}

// DeleteProject deletes a project and its tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.projectService.Delete(middleware.GetUser(c), c.Param("slug")); err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, constants.ProjectListPath, http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

func respondProjectError(c *gin.Context, err error, input services.ProjectInput) {
	if fields, status := projectFieldErrors(err, input); fields != nil {
		respondFieldErrors(c, status, fields)
		return
	}
	respondServiceError(c, err)
}
