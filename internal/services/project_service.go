package services

import (
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
	ErrProjectNotFound = errors.New("project not found")
	ErrDuplicateTitle  = errors.New("you can't use this title again")
	ErrDuplicateColor  = errors.New("you can't use this color again")
	ErrSlugTaken       = errors.New("a project with this slug already exists")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title is too long")
	ErrColorRequired   = errors.New("color is required")
	ErrColorTooLong    = errors.New("color is too long")
	ErrEmptySlug       = errors.New("title must contain at least one letter or digit")
	ErrAnonymous       = errors.New("authentication required")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// ProjectInput holds the editable project fields.
type ProjectInput struct {
	Title string
	Color string
}

func (in ProjectInput) normalize() (ProjectInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Color = strings.TrimSpace(in.Color)

	var errs []error
	switch {
	case in.Title == "":
		errs = append(errs, ErrTitleRequired)
	case utf8.RuneCountInString(in.Title) > constants.MaxTitleLength:
		errs = append(errs, ErrTitleTooLong)
	}
	switch {
	case in.Color == "":
		errs = append(errs, ErrColorRequired)
	case utf8.RuneCountInString(in.Color) > constants.MaxColorLength:
		errs = append(errs, ErrColorTooLong)
	}
	return in, errors.Join(errs...)
}

// Create creates a project owned by owner. Title and color must be
// unused among the owner's projects and the derived slug unused globally.
func (s *ProjectService) Create(owner *models.User, input ProjectInput) (*models.Project, error) {
	if owner == nil {
		return nil, ErrAnonymous
	}

	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:  input.Title,
		Slug:   utils.MakeSlug(input.Title, owner.Username),
		Color:  input.Color,
		UserID: owner.ID,
	}
	if project.Slug == "" {
		return nil, ErrEmptySlug
	}

	err = s.projectRepo.Transaction(func(repo repository.ProjectRepository) error {
		if err := checkProjectUnique(repo, project, 0); err != nil {
			return err
		}
		return repo.Create(project)
	})
	if err != nil {
		return nil, projectError("create", err)
	}

	project.User = *owner
	return project, nil
}

// Update renames or recolors the project at slug and recomputes its slug
// from the owner's username. The project keeps its ID.
func (s *ProjectService) Update(actor *models.User, slug string, input ProjectInput) (*models.Project, error) {
	project, err := s.Authorize(actor, slug)
	if err != nil {
		return nil, err
	}

	input, err = input.normalize()
	if err != nil {
		return nil, err
	}

	project.Title = input.Title
	project.Color = input.Color
	project.Slug = utils.MakeSlug(input.Title, project.User.Username)
	if project.Slug == "" {
		return nil, ErrEmptySlug
	}

	err = s.projectRepo.Transaction(func(repo repository.ProjectRepository) error {
		if err := checkProjectUnique(repo, project, project.ID); err != nil {
			return err
		}
		return repo.Update(project)
	})
	if err != nil {
		return nil, projectError("update", err)
	}

	return project, nil
}

// Delete removes the project at slug together with its tasks.
func (s *ProjectService) Delete(actor *models.User, slug string) error {
	project, err := s.Authorize(actor, slug)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// ListFor returns the projects owned by user. An anonymous user owns nothing.
func (s *ProjectService) ListFor(user *models.User, params utils.PaginationParams) ([]models.Project, int64, error) {
	if user == nil {
		return []models.Project{}, 0, nil
	}

	projects, total, err := s.projectRepo.ListByUser(user.ID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, total, nil
}

// Get returns the project at slug with its owner.
func (s *ProjectService) Get(slug string) (*models.Project, error) {
	project, err := s.projectRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return project, nil
}

// Authorize returns the project at slug if actor may modify it.
// A missing project is reported before a refused actor.
func (s *ProjectService) Authorize(actor *models.User, slug string) (*models.Project, error) {
	project, err := s.Get(slug)
	if err != nil {
		return nil, err
	}

	if !CanModify(actor, &project.User) {
		return nil, ErrForbidden
	}

	return project, nil
}

// checkProjectUnique reports every per-owner duplicate at once, then the
// global slug collision. It must run inside repo's transaction: the owner
// stays locked until the write commits.
func checkProjectUnique(repo repository.ProjectRepository, project *models.Project, excludeID uint64) error {
	if err := repo.LockOwner(project.UserID); err != nil {
		return fmt.Errorf("failed to lock owner: %w", err)
	}

	var errs []error

	taken, err := repo.TitleTaken(project.UserID, project.Title, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check title: %w", err)
	}
	if taken {
		errs = append(errs, ErrDuplicateTitle)
	}

	taken, err = repo.ColorTaken(project.UserID, project.Color, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check color: %w", err)
	}
	if taken {
		errs = append(errs, ErrDuplicateColor)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	exists, err := repo.SlugExists(project.Slug, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if exists {
		return ErrSlugTaken
	}

	return nil
}

func projectError(op string, err error) error {
	for _, rule := range []error{ErrDuplicateTitle, ErrDuplicateColor, ErrSlugTaken} {
		if errors.Is(err, rule) {
			return err
		}
	}
	return fmt.Errorf("failed to %s project: %w", op, err)
}
