package server

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/todo-tracker/todo-api/internal/constants"
	"github.com/todo-tracker/todo-api/internal/handlers"
	"github.com/todo-tracker/todo-api/internal/middleware"
	"github.com/todo-tracker/todo-api/internal/repository"
	"github.com/todo-tracker/todo-api/internal/services"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the HTTP layer is built from.
// AIService may be nil, in which case task suggestions answer 503.
type Dependencies struct {
	DB           *gorm.DB
	SessionStore sessions.Store
	AIService    *services.AIService
}

// NewRouter wires repositories, services and handlers into a gin engine.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	userRepo := repository.NewUserRepository(deps.DB)
	projectRepo := repository.NewProjectRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)
	summaryRepo, err := repository.NewSummaryRepository(deps.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary repository: %w", err)
	}

	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectService, deps.AIService)

	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService, taskService)
	taskHandler := handlers.NewTaskHandler(taskService, summaryRepo)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))
	r.Use(middleware.LoadUser(authService))

	r.GET("/", handlers.Home)
	r.GET("/health", handlers.Health)

	// Project routes
	r.GET(constants.ProjectListPath, projectHandler.ListProjects)
	projects := r.Group("/")
	projects.Use(middleware.RequireAuth())
	{
		projects.POST("/project-create/", projectHandler.CreateProject)
		projects.GET("/project-update/:slug/", middleware.RequireProjectAccess(projectService), projectHandler.GetProject)
		projects.POST("/project-update/:slug/", middleware.RequireProjectAccess(projectService), projectHandler.UpdateProject)
		projects.GET("/project-delete/:slug/", middleware.RequireProjectAccess(projectService), projectHandler.ConfirmDeleteProject)
		projects.POST("/project-delete/:slug/", middleware.RequireProjectAccess(projectService), projectHandler.DeleteProject)
	}

	// Task routes (protected)
	tasks := r.Group("/")
	tasks.Use(middleware.RequireAuth())
	{
		tasks.GET(constants.TaskListPath, taskHandler.ListTasks)
		tasks.GET("/task-summary/", taskHandler.Summary)
		tasks.POST("/task-create/:slug/", middleware.RequireProjectAccess(projectService), taskHandler.CreateTask)
		tasks.POST("/task-suggest/:slug/", middleware.RequireProjectAccess(projectService), taskHandler.SuggestTasks)
		tasks.POST("/task-update/:slug/", middleware.RequireTaskAccess(taskService), taskHandler.UpdateTask)
		tasks.POST("/task-toggle/:slug/", middleware.RequireTaskAccess(taskService), taskHandler.ToggleTask)
		tasks.POST("/task-delete/:slug/", middleware.RequireTaskAccess(taskService), taskHandler.DeleteTask)
	}

	// Auth routes (public)
	users := r.Group("/users")
	{
		users.POST("/registration/", authHandler.Register)
		users.POST("/login/", authHandler.Login)
		users.GET("/logout/", authHandler.Logout)
		users.POST("/logout/", authHandler.Logout)
		users.GET("/me/", middleware.RequireAuth(), authHandler.GetCurrentUser)
	}

	return r, nil
}
