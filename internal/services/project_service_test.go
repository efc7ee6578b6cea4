package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/todo-tracker/todo-api/internal/models"
	"github.com/todo-tracker/todo-api/internal/repository"
	"github.com/todo-tracker/todo-api/internal/testutil"
	"github.com/todo-tracker/todo-api/internal/utils"
	"gorm.io/gorm"
)

type ProjectServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	projects *ProjectService
	tasks    *TaskService
	alice    *models.User
	bob      *models.User
	admin    *models.User
}

func (suite *ProjectServiceTestSuite) SetupTest() {
	suite.db = testutil.NewDB(suite.T())
	suite.projects = NewProjectService(repository.NewProjectRepository(suite.db))
	suite.tasks = NewTaskService(repository.NewTaskRepository(suite.db), suite.projects, nil)
	suite.alice = testutil.CreateUser(suite.T(), suite.db, "alice")
	suite.bob = testutil.CreateUser(suite.T(), suite.db, "bob")
	suite.admin = testutil.CreateSuperuser(suite.T(), suite.db, "admin")
}

func (suite *ProjectServiceTestSuite) create(owner *models.User, title, color string) *models.Project {
	project, err := suite.projects.Create(owner, ProjectInput{Title: title, Color: color})
	suite.Require().NoError(err)
	return project
}

func (suite *ProjectServiceTestSuite) TestCreate_DerivesSlugAndOwner() {
	project := suite.create(suite.alice, "Golang", "primary")

	suite.Equal("golang-alice", project.Slug)
	suite.Equal(suite.alice.ID, project.UserID)

	projects, total, err := suite.projects.ListFor(suite.alice, utils.NewPaginationParams(1, 50))
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(projects, 1)
	suite.Equal("Golang", projects[0].Title)

	projects, total, err = suite.projects.ListFor(suite.bob, utils.NewPaginationParams(1, 50))
	suite.Require().NoError(err)
	suite.Zero(total)
	suite.Empty(projects)
}

func (suite *ProjectServiceTestSuite) TestCreate_DuplicateTitleSameOwner() {
	suite.create(suite.alice, "Golang", "primary")

	_, err := suite.projects.Create(suite.alice, ProjectInput{Title: "Golang", Color: "secondary"})
	suite.ErrorIs(err, ErrDuplicateTitle)
	suite.NotErrorIs(err, ErrDuplicateColor)
}

func (suite *ProjectServiceTestSuite) TestCreate_SameTitleDifferentOwners() {
	suite.create(suite.alice, "Golang", "primary")
	project := suite.create(suite.bob, "Golang", "primary")

	suite.Equal("golang-bob", project.Slug)
}

func (suite *ProjectServiceTestSuite) TestCreate_DuplicateColorSameOwnerOnly() {
	suite.create(suite.alice, "Golang", "primary")

	_, err := suite.projects.Create(suite.alice, ProjectInput{Title: "Python", Color: "primary"})
	suite.ErrorIs(err, ErrDuplicateColor)

	suite.create(suite.bob, "Python", "primary")
}

func (suite *ProjectServiceTestSuite) TestCreate_ReportsBothDuplicates() {
	suite.create(suite.alice, "Golang", "primary")

	_, err := suite.projects.Create(suite.alice, ProjectInput{Title: "Golang", Color: "primary"})
	suite.ErrorIs(err, ErrDuplicateTitle)
	suite.ErrorIs(err, ErrDuplicateColor)
}

func (suite *ProjectServiceTestSuite) TestCreate_CrossUserSlugCollision() {
	// "a b" + "c" and "a" + "b-c" both slugify to "a-b-c".
	carol := testutil.CreateUser(suite.T(), suite.db, "c")
	dave := testutil.CreateUser(suite.T(), suite.db, "b-c")
	suite.create(carol, "a b", "red")

	_, err := suite.projects.Create(dave, ProjectInput{Title: "a", Color: "red"})
	suite.ErrorIs(err, ErrSlugTaken)
}

func (suite *ProjectServiceTestSuite) TestCreate_ConcurrentSameColor() {
	const workers = 8
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := suite.projects.Create(suite.alice, ProjectInput{Title: fmt.Sprintf("Project %d", i), Color: "red"})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		suite.ErrorIs(err, ErrDuplicateColor)
	}
	suite.Equal(1, created)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Project{}).Where("user_id = ? AND color = ?", suite.alice.ID, "red").Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *ProjectServiceTestSuite) TestCreate_OwnerMustExist() {
	_, err := suite.projects.Create(&models.User{ID: 999, Username: "ghost"}, ProjectInput{Title: "Haunt", Color: "grey"})
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *ProjectServiceTestSuite) TestCreate_Validation() {
	_, err := suite.projects.Create(suite.alice, ProjectInput{Title: "  ", Color: ""})
	suite.ErrorIs(err, ErrTitleRequired)
	suite.ErrorIs(err, ErrColorRequired)

	_, err = suite.projects.Create(suite.alice, ProjectInput{Title: "ok", Color: "this color name is far too long"})
	suite.ErrorIs(err, ErrColorTooLong)

	_, err = suite.projects.Create(nil, ProjectInput{Title: "ok", Color: "red"})
	suite.ErrorIs(err, ErrAnonymous)
}

func (suite *ProjectServiceTestSuite) TestUpdate_RenameKeepsIdentity() {
	project := suite.create(suite.alice, "Golang", "primary")

	updated, err := suite.projects.Update(suite.alice, project.Slug, ProjectInput{Title: "Rust", Color: "primary"})
	suite.Require().NoError(err)
	suite.Equal(project.ID, updated.ID)
	suite.Equal("rust-alice", updated.Slug)

	_, err = suite.projects.Get("golang-alice")
	suite.ErrorIs(err, ErrProjectNotFound)

	reloaded, err := suite.projects.Get("rust-alice")
	suite.Require().NoError(err)
	suite.Equal(project.ID, reloaded.ID)
}

func (suite *ProjectServiceTestSuite) TestUpdate_UniquenessExcludesSelf() {
	golang := suite.create(suite.alice, "Golang", "primary")
	suite.create(suite.alice, "Python", "secondary")

	_, err := suite.projects.Update(suite.alice, golang.Slug, ProjectInput{Title: "Golang", Color: "primary"})
	suite.NoError(err)

	_, err = suite.projects.Update(suite.alice, golang.Slug, ProjectInput{Title: "Python", Color: "primary"})
	suite.ErrorIs(err, ErrDuplicateTitle)

	_, err = suite.projects.Update(suite.alice, golang.Slug, ProjectInput{Title: "Golang", Color: "secondary"})
	suite.ErrorIs(err, ErrDuplicateColor)
}

func (suite *ProjectServiceTestSuite) TestUpdate_SuperuserKeepsOwnerSlug() {
	project := suite.create(suite.alice, "Golang", "primary")
	suite.create(suite.admin, "Rust", "primary")

	updated, err := suite.projects.Update(suite.admin, project.Slug, ProjectInput{Title: "Rust", Color: "primary"})
	suite.Require().NoError(err)
	suite.Equal("rust-alice", updated.Slug)
	suite.Equal(suite.alice.ID, updated.UserID)
}

func (suite *ProjectServiceTestSuite) TestAuthorize_NotFoundBeforeForbidden() {
	project := suite.create(suite.alice, "Golang", "primary")

	_, err := suite.projects.Authorize(suite.bob, "missing")
	suite.ErrorIs(err, ErrProjectNotFound)

	_, err = suite.projects.Authorize(suite.bob, project.Slug)
	suite.ErrorIs(err, ErrForbidden)

	_, err = suite.projects.Authorize(nil, project.Slug)
	suite.ErrorIs(err, ErrForbidden)

	_, err = suite.projects.Update(suite.bob, project.Slug, ProjectInput{Title: "Mine", Color: "x"})
	suite.ErrorIs(err, ErrForbidden)

	err = suite.projects.Delete(suite.bob, project.Slug)
	suite.ErrorIs(err, ErrForbidden)
}

func (suite *ProjectServiceTestSuite) TestDelete_CascadesTasks() {
	project := suite.create(suite.alice, "Golang", "primary")
	for _, title := range []string{"one", "two"} {
		_, err := suite.tasks.Create(project, CreateTaskInput{Title: title})
		suite.Require().NoError(err)
	}

	suite.Require().NoError(suite.projects.Delete(suite.alice, project.Slug))

	tasks, total, err := suite.tasks.ListFor(suite.alice, ListTasksInput{})
	suite.Require().NoError(err)
	suite.Zero(total)
	suite.Empty(tasks)

	var orphans int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Count(&orphans).Error)
	suite.Zero(orphans)
}

func (suite *ProjectServiceTestSuite) TestDelete_BySuperuser() {
	project := suite.create(suite.alice, "Golang", "primary")

	suite.NoError(suite.projects.Delete(suite.admin, project.Slug))
	_, err := suite.projects.Get(project.Slug)
	suite.ErrorIs(err, ErrProjectNotFound)
}

func (suite *ProjectServiceTestSuite) TestListFor_CountsPerOwner() {
	colors := []string{"a", "b", "c", "d", "e"}
	for i, color := range colors {
		suite.create(suite.alice, "alice project "+string(rune('1'+i)), color)
	}
	suite.create(suite.bob, "bob one", "a")
	suite.create(suite.bob, "bob two", "b")

	var all int64
	suite.Require().NoError(suite.db.Model(&models.Project{}).Count(&all).Error)
	suite.Equal(int64(7), all)

	projects, total, err := suite.projects.ListFor(suite.alice, utils.NewPaginationParams(1, 50))
	suite.Require().NoError(err)
	suite.Equal(int64(5), total)
	suite.Len(projects, 5)
	for _, p := range projects {
		suite.Equal(suite.alice.ID, p.UserID)
	}
}

func (suite *ProjectServiceTestSuite) TestListFor_Anonymous() {
	suite.create(suite.alice, "Golang", "primary")

	projects, total, err := suite.projects.ListFor(nil, utils.NewPaginationParams(1, 50))
	suite.Require().NoError(err)
	suite.Zero(total)
	suite.NotNil(projects)
	suite.Empty(projects)
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}

func TestProjectError_WrapsStorageFailures(t *testing.T) {
	storage := errors.New("disk full")
	err := projectError("create", storage)
	require.ErrorIs(t, err, storage)
	assert.Contains(t, err.Error(), "failed to create project")

	dup := errors.Join(ErrDuplicateTitle, ErrDuplicateColor)
	assert.Same(t, dup, projectError("create", dup))
}
