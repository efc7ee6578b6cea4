package repository

import (
	"context"

	"github.com/todo-tracker/todo-api/internal/models"
	"github.com/todo-tracker/todo-api/internal/utils"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Transaction runs fn with a repository bound to a single database transaction
	Transaction(fn func(repo ProjectRepository) error) error

	// Create creates a new project
	Create(project *models.Project) error

	// Update saves the project columns, leaving associations untouched
	Update(project *models.Project) error

	// Delete deletes a project and its tasks
	Delete(id uint64) error

	// FindBySlug finds a project by slug with its owner preloaded
	FindBySlug(slug string) (*models.Project, error)

	// LockOwner row-locks the owner so concurrent uniqueness checks on the
	// owner's projects run one after another until the transaction ends
	LockOwner(userID uint64) error

	// TitleTaken reports whether the owner has another project with this title
	TitleTaken(userID uint64, title string, excludeID uint64) (bool, error)

	// ColorTaken reports whether the owner has another project with this color
	ColorTaken(userID uint64, color string, excludeID uint64) (bool, error)

	// SlugExists reports whether any other project uses the slug
	SlugExists(slug string, excludeID uint64) (bool, error)

	// ListByUser lists the projects of one owner ordered by ID
	ListByUser(userID uint64, params utils.PaginationParams) ([]models.Project, int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Transaction runs fn with a repository bound to a single database transaction
	Transaction(fn func(repo TaskRepository) error) error

	// Create creates a new task
	Create(task *models.Task) error

	// Update saves the task columns, leaving associations untouched
	Update(task *models.Task) error

	// Delete deletes a task
	Delete(id uint64) error

	// FindBySlug finds a task by slug with its project and owner preloaded
	FindBySlug(slug string) (*models.Task, error)

	// SlugExists reports whether any other task uses the slug
	SlugExists(slug string, excludeID uint64) (bool, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// CountByProject counts the tasks of a project
	CountByProject(projectID uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OwnerID     uint64
	ProjectSlug string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	Page        int
	PageSize    int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Transaction runs fn with a repository bound to a single database transaction
	Transaction(fn func(repo UserRepository) error) error

	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// ProjectSummary is the per-project task tally of the summary read model
type ProjectSummary struct {
	Slug      string `db:"slug" json:"slug"`
	Title     string `db:"title" json:"title"`
	Color     string `db:"color" json:"color"`
	Total     int64  `db:"total" json:"total"`
	Completed int64  `db:"completed" json:"completed"`
}

// SummaryRepository serves aggregate read queries
type SummaryRepository interface {
	// ProjectSummaries returns the task tallies of every project owned by userID
	ProjectSummaries(ctx context.Context, userID uint64) ([]ProjectSummary, error)
}
