package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/todo-tracker/todo-api/internal/constants"
	"github.com/todo-tracker/todo-api/internal/models"
	"github.com/todo-tracker/todo-api/internal/repository"
	"github.com/todo-tracker/todo-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrInvalidPriority        = errors.New("priority must be High, Middle or Low")
	ErrInvalidStatus          = errors.New("status must be Completed or Uncompleted")
	ErrSlugExhausted          = errors.New("no free slug left for this title")
	ErrTextRequired           = errors.New("text is required")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	projects  *ProjectService
	aiService *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projects *ProjectService, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		projects:  projects,
		aiService: aiService,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectSlug string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	Page        int
	PageSize    int
}

// CreateTaskInput represents input for creating a task.
// Nil Priority means High and nil Status means Uncompleted.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    *models.TaskPriority
	Status      *models.TaskStatus
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *models.TaskPriority
	Status      *models.TaskStatus
}

// Create adds a task to project. The slug derives from the title and the
// project owner's username, suffixed with -2, -3, ... when already used.
func (s *TaskService) Create(project *models.Project, input CreateTaskInput) (*models.Task, error) {
	if project.User.ID == 0 {
		loaded, err := s.projects.Get(project.Slug)
		if err != nil {
			return nil, err
		}
		project = loaded
	}

	var task *models.Task
	err := s.taskRepo.Transaction(func(repo repository.TaskRepository) error {
		var err error
		task, err = s.insert(repo, project, input)
		return err
	})
	if err != nil {
		return nil, taskError("create", err)
	}

	return task, nil
}

// CreateFor adds a task to the project at projectSlug if actor may modify it.
func (s *TaskService) CreateFor(actor *models.User, projectSlug string, input CreateTaskInput) (*models.Task, error) {
	project, err := s.projects.Authorize(actor, projectSlug)
	if err != nil {
		return nil, err
	}

	return s.Create(project, input)
}

// ListFor returns the tasks of the projects owned by user
func (s *TaskService) ListFor(user *models.User, input ListTasksInput) ([]models.Task, int64, error) {
	if user == nil {
		return []models.Task{}, 0, nil
	}

	filter := repository.TaskFilter{
		OwnerID:     user.ID,
		ProjectSlug: input.ProjectSlug,
		Status:      input.Status,
		Priority:    input.Priority,
		Page:        input.Page,
		PageSize:    input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// CountTasks counts the tasks of project
func (s *TaskService) CountTasks(project *models.Project) (int64, error) {
	count, err := s.taskRepo.CountByProject(project.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// Get returns the task at slug with its project and owner
func (s *TaskService) Get(slug string) (*models.Task, error) {
	task, err := s.taskRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// Authorize returns the task at slug if actor may modify its project
func (s *TaskService) Authorize(actor *models.User, slug string) (*models.Task, error) {
	task, err := s.Get(slug)
	if err != nil {
		return nil, err
	}

	if !CanModify(actor, &task.Project.User) {
		return nil, ErrForbidden
	}

	return task, nil
}

// Update applies the non-nil fields of input. A new title recomputes the slug.
func (s *TaskService) Update(actor *models.User, slug string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.Authorize(actor, slug)
	if err != nil {
		return nil, err
	}

	retitled := false
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		if utf8.RuneCountInString(title) > constants.MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		retitled = title != task.Title
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}

	err = s.taskRepo.Transaction(func(repo repository.TaskRepository) error {
		if retitled {
			newSlug, err := uniqueTaskSlug(repo, utils.MakeSlug(task.Title, task.Project.User.Username), task.ID)
			if err != nil {
				return err
			}
			task.Slug = newSlug
		}
		return repo.Update(task)
	})
	if err != nil {
		return nil, taskError("update", err)
	}

	return task, nil
}

// ToggleStatus flips a task between Completed and Uncompleted
func (s *TaskService) ToggleStatus(actor *models.User, slug string) (*models.Task, error) {
	task, err := s.Authorize(actor, slug)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskStatusCompleted {
		task.Status = models.TaskStatusUncompleted
	} else {
		task.Status = models.TaskStatusCompleted
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to toggle status: %w", err)
	}

	return task, nil
}

// Delete deletes the task at slug
func (s *TaskService) Delete(actor *models.User, slug string) error {
	task, err := s.Authorize(actor, slug)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// SuggestTasksInput represents input for AI task suggestions
type SuggestTasksInput struct {
	Text   string
	Create bool
}

// SuggestTasksResult holds the usable suggestions and, when requested, the tasks created from them
type SuggestTasksResult struct {
	Suggestions []GeneratedTask
	Created     []models.Task
}

// SuggestTasks uses AI to propose tasks for the project at projectSlug and
// optionally stores them in one transaction.
func (s *TaskService) SuggestTasks(ctx context.Context, actor *models.User, projectSlug string, input SuggestTasksInput) (*SuggestTasksResult, error) {
	project, err := s.projects.Authorize(actor, projectSlug)
	if err != nil {
		return nil, err
	}

	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, ErrTextRequired
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, project.Title, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" || utf8.RuneCountInString(aiTask.Title) > constants.MaxTitleLength {
			continue
		}

		priority, ok := models.ParseTaskPriority(aiTask.Priority)
		if !ok {
			priority = models.PriorityHigh
		}
		aiTask.Priority = priority.String()

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	result := &SuggestTasksResult{Suggestions: validTasks, Created: []models.Task{}}
	if !input.Create {
		return result, nil
	}

	err = s.taskRepo.Transaction(func(repo repository.TaskRepository) error {
		for _, suggestion := range validTasks {
			priority, _ := models.ParseTaskPriority(suggestion.Priority)
			task, err := s.insert(repo, project, CreateTaskInput{
				Title:       suggestion.Title,
				Description: suggestion.Description,
				Priority:    &priority,
			})
			if err != nil {
				return err
			}
			result.Created = append(result.Created, *task)
		}
		return nil
	})
	if err != nil {
		return nil, taskError("create", err)
	}

	return result, nil
}

// insert validates input and stores the task through repo
func (s *TaskService) insert(repo repository.TaskRepository, project *models.Project, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return nil, ErrTitleTooLong
	}

	priority := models.PriorityHigh
	if input.Priority != nil {
		priority = *input.Priority
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	status := models.TaskStatusUncompleted
	if input.Status != nil {
		status = *input.Status
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	slug, err := uniqueTaskSlug(repo, utils.MakeSlug(title, project.User.Username), 0)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Slug:        slug,
		Description: input.Description,
		Priority:    priority,
		Status:      status,
		ProjectID:   project.ID,
	}

	if err := repo.Create(task); err != nil {
		return nil, err
	}

	task.Project = *project
	return task, nil
}

// uniqueTaskSlug returns base, or base-N for the smallest free N >= 2
func uniqueTaskSlug(repo repository.TaskRepository, base string, excludeID uint64) (string, error) {
	if base == "" {
		return "", ErrEmptySlug
	}

	candidate := base
	for n := 2; ; n++ {
		exists, err := repo.SlugExists(candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		if n > constants.MaxSlugSuffix {
			return "", ErrSlugExhausted
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func taskError(op string, err error) error {
	for _, rule := range []error{ErrTitleRequired, ErrTitleTooLong, ErrInvalidPriority, ErrInvalidStatus, ErrEmptySlug, ErrSlugExhausted} {
		if errors.Is(err, rule) {
			return err
		}
	}
	return fmt.Errorf("failed to %s task: %w", op, err)
}
