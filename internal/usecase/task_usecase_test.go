package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectpulse/projectpulse/internal/audit"
	"github.com/projectpulse/projectpulse/internal/domain"
)

type taskFixture struct {
	uc        *TaskUseCase
	tasks     *fakeTaskRepo
	projects  *fakeProjectRepo
	devs      *fakeDeveloperRepo
	cache     *fakeCache
	auditRepo *memAuditRepo
	project   *domain.Project
	developer *domain.Developer
}

func newTaskFixture() *taskFixture {
	f := &taskFixture{
		tasks:     newFakeTaskRepo(),
		projects:  newFakeProjectRepo(),
		devs:      newFakeDeveloperRepo(),
		cache:     newFakeCache(),
		auditRepo: &memAuditRepo{},
	}

	f.project = domain.NewProject("Apollo", "", time.Now().Add(time.Hour), domain.ProjectStatusActive)
	f.projects.projects[f.project.ID] = f.project
	f.developer = domain.NewDeveloper("Ada", "ada@example.com", nil)
	f.devs.developers[f.developer.ID] = f.developer

	recorder := audit.NewRecorder(f.auditRepo, testLogger())
	f.uc = NewTaskUseCase(f.tasks, f.projects, f.devs, f.cache, recorder, testLogger())
	return f
}

func (f *taskFixture) validRequest() TaskRequest {
	return TaskRequest{
		Title:                "Wire telemetry",
		Description:          "hook up the downlink",
		Status:               domain.TaskStatusNotStarted,
		DueDate:              time.Now().Add(72 * time.Hour),
		ProjectID:            f.project.ID,
		AssignedDeveloperIDs: []string{f.developer.ID},
	}
}

func TestTaskUseCase_CreateTask(t *testing.T) {
	f := newTaskFixture()

	task, err := f.uc.CreateTask(context.Background(), f.validRequest(), "alice")

	require.NoError(t, err)
	assert.Contains(t, f.tasks.tasks, task.ID)
	assert.Equal(t, []string{f.developer.ID}, task.AssignedDeveloperIDs)

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, domain.ActionCreate, f.auditRepo.entries[0].ActionType)
	assert.Equal(t, domain.KindTask, f.auditRepo.entries[0].EntityKind)
	assert.Contains(t, f.cache.invalidatedAll, domain.KindTask)
}

func TestTaskUseCase_CreateTask_UnknownProject(t *testing.T) {
	f := newTaskFixture()

	req := f.validRequest()
	req.ProjectID = "ghost"

	_, err := f.uc.CreateTask(context.Background(), req, "")

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, domain.KindProject, notFound.Resource)
	assert.Equal(t, "ghost", notFound.ID)
	assert.Empty(t, f.tasks.tasks)
	assert.Empty(t, f.auditRepo.entries)
}

func TestTaskUseCase_CreateTask_UnknownDeveloper(t *testing.T) {
	f := newTaskFixture()

	req := f.validRequest()
	req.AssignedDeveloperIDs = []string{f.developer.ID, "ghost-dev"}

	_, err := f.uc.CreateTask(context.Background(), req, "")

	require.Error(t, err)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, domain.KindDeveloper, notFound.Resource)
	assert.Equal(t, "ghost-dev", notFound.ID)
	assert.Empty(t, f.tasks.tasks)
}

func TestTaskUseCase_CreateTask_ValidationFailure(t *testing.T) {
	f := newTaskFixture()

	req := f.validRequest()
	req.Title = ""

	_, err := f.uc.CreateTask(context.Background(), req, "")

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestTaskUseCase_CreateTask_InvalidStatus(t *testing.T) {
	f := newTaskFixture()

	req := f.validRequest()
	req.Status = "PAUSED"

	_, err := f.uc.CreateTask(context.Background(), req, "")

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestTaskUseCase_UpdateTask(t *testing.T) {
	f := newTaskFixture()

	task, err := f.uc.CreateTask(context.Background(), f.validRequest(), "")
	require.NoError(t, err)

	req := f.validRequest()
	req.Status = domain.TaskStatusInProgress
	updated, err := f.uc.UpdateTask(context.Background(), task.ID, req, "bob")

	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	assert.Contains(t, f.cache.invalidated, domain.KindTask+":"+task.ID)

	require.Len(t, f.auditRepo.entries, 2)
	assert.Equal(t, domain.ActionUpdate, f.auditRepo.entries[1].ActionType)
	assert.Equal(t, "bob", f.auditRepo.entries[1].ActorName)
}

func TestTaskUseCase_UpdateTask_NotFound(t *testing.T) {
	f := newTaskFixture()

	_, err := f.uc.UpdateTask(context.Background(), "missing", f.validRequest(), "")

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestTaskUseCase_DeleteTask(t *testing.T) {
	f := newTaskFixture()

	task, err := f.uc.CreateTask(context.Background(), f.validRequest(), "")
	require.NoError(t, err)

	err = f.uc.DeleteTask(context.Background(), task.ID, "")
	require.NoError(t, err)

	assert.NotContains(t, f.tasks.tasks, task.ID)
	require.Len(t, f.auditRepo.entries, 2)
	assert.Equal(t, domain.ActionDelete, f.auditRepo.entries[1].ActionType)
	assert.Equal(t, domain.ActorSystem, f.auditRepo.entries[1].ActorName)
}

func TestTaskUseCase_GetTasksByProject(t *testing.T) {
	f := newTaskFixture()

	task, err := f.uc.CreateTask(context.Background(), f.validRequest(), "")
	require.NoError(t, err)

	tasks, err := f.uc.GetTasksByProject(context.Background(), f.project.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)

	tasks, err = f.uc.GetTasksByProject(context.Background(), "other")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskUseCase_GetTasksByDeveloper(t *testing.T) {
	f := newTaskFixture()

	task, err := f.uc.CreateTask(context.Background(), f.validRequest(), "")
	require.NoError(t, err)

	tasks, err := f.uc.GetTasksByDeveloper(context.Background(), f.developer.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
}

func TestTaskUseCase_GetOverdueTasks(t *testing.T) {
	f := newTaskFixture()
	f.tasks.overdue = []*domain.Task{
		domain.NewTask("late", "", domain.TaskStatusInProgress, time.Now().Add(-time.Hour), f.project.ID, nil),
	}

	tasks, err := f.uc.GetOverdueTasks(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "late", tasks[0].Title)
}
