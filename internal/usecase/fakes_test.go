package usecase

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/projectpulse/projectpulse/internal/domain"
	"github.com/projectpulse/projectpulse/internal/ports"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeCache is an in-memory ports.EntityCache that records invalidations.
type fakeCache struct {
	entities       map[string][]byte
	lists          map[string][]byte
	invalidated    []string
	invalidatedAll []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entities: make(map[string][]byte),
		lists:    make(map[string][]byte),
	}
}

func (c *fakeCache) GetEntity(ctx context.Context, kind, id string, load ports.CacheLoader) ([]byte, error) {
	key := kind + ":" + id
	if data, ok := c.entities[key]; ok {
		return data, nil
	}
	data, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.entities[key] = data
	return data, nil
}

func (c *fakeCache) GetList(ctx context.Context, kind, view string, load ports.CacheLoader) ([]byte, error) {
	key := kind + ":list:" + view
	if data, ok := c.lists[key]; ok {
		return data, nil
	}
	data, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.lists[key] = data
	return data, nil
}

func (c *fakeCache) Invalidate(_ context.Context, kind, id string) {
	key := kind + ":" + id
	delete(c.entities, key)
	c.invalidated = append(c.invalidated, key)
}

func (c *fakeCache) InvalidateAll(_ context.Context, kind string) {
	prefix := kind + ":list:"
	for key := range c.lists {
		if strings.HasPrefix(key, prefix) {
			delete(c.lists, key)
		}
	}
	c.invalidatedAll = append(c.invalidatedAll, kind)
}

type fakeProjectRepo struct {
	projects  map[string]*domain.Project
	noTasks   []*domain.Project
	createErr error
	findCalls int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*domain.Project)}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *domain.Project) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	r.findCalls++
	project, ok := r.projects[id]
	if !ok {
		return nil, domain.NewNotFound(domain.KindProject, id)
	}
	return project, nil
}

func (r *fakeProjectRepo) FindAll(_ context.Context, page, pageSize int) ([]*domain.Project, int, error) {
	var ids []string
	for id := range r.projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var all []*domain.Project
	for _, id := range ids {
		all = append(all, r.projects[id])
	}
	total := len(all)

	start := page * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *domain.Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return domain.NewNotFound(domain.KindProject, project.ID)
	}
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return domain.NewNotFound(domain.KindProject, id)
	}
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.projects[id]
	return ok, nil
}

func (r *fakeProjectRepo) FindWithoutTasks(_ context.Context) ([]*domain.Project, error) {
	return r.noTasks, nil
}

type fakeTaskRepo struct {
	tasks   map[string]*domain.Task
	overdue []*domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.tasks[task.ID] = task
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.NewNotFound(domain.KindTask, id)
	}
	return task, nil
}

func (r *fakeTaskRepo) FindAll(_ context.Context, page, pageSize int) ([]*domain.Task, int, error) {
	var all []*domain.Task
	for _, task := range r.tasks {
		all = append(all, task)
	}
	return all, len(all), nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return domain.NewNotFound(domain.KindTask, task.ID)
	}
	r.tasks[task.ID] = task
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.NewNotFound(domain.KindTask, id)
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) FindByProjectID(_ context.Context, projectID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range r.tasks {
		if task.ProjectID == projectID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) FindByDeveloperID(_ context.Context, developerID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range r.tasks {
		for _, devID := range task.AssignedDeveloperIDs {
			if devID == developerID {
				out = append(out, task)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) FindOverdue(_ context.Context) ([]*domain.Task, error) {
	return r.overdue, nil
}

type fakeDeveloperRepo struct {
	developers map[string]*domain.Developer
	top        []*domain.Developer
	topLimit   int
}

func newFakeDeveloperRepo() *fakeDeveloperRepo {
	return &fakeDeveloperRepo{developers: make(map[string]*domain.Developer)}
}

func (r *fakeDeveloperRepo) Create(_ context.Context, developer *domain.Developer) error {
	r.developers[developer.ID] = developer
	return nil
}

func (r *fakeDeveloperRepo) FindByID(_ context.Context, id string) (*domain.Developer, error) {
	developer, ok := r.developers[id]
	if !ok {
		return nil, domain.NewNotFound(domain.KindDeveloper, id)
	}
	return developer, nil
}

func (r *fakeDeveloperRepo) FindAll(_ context.Context, page, pageSize int) ([]*domain.Developer, int, error) {
	var all []*domain.Developer
	for _, developer := range r.developers {
		all = append(all, developer)
	}
	return all, len(all), nil
}

func (r *fakeDeveloperRepo) Update(_ context.Context, developer *domain.Developer) error {
	if _, ok := r.developers[developer.ID]; !ok {
		return domain.NewNotFound(domain.KindDeveloper, developer.ID)
	}
	r.developers[developer.ID] = developer
	return nil
}

func (r *fakeDeveloperRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.developers[id]; !ok {
		return domain.NewNotFound(domain.KindDeveloper, id)
	}
	delete(r.developers, id)
	return nil
}

func (r *fakeDeveloperRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.developers[id]
	return ok, nil
}

func (r *fakeDeveloperRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, developer := range r.developers {
		if developer.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDeveloperRepo) FindTopByTaskCount(_ context.Context, limit int) ([]*domain.Developer, error) {
	r.topLimit = limit
	return r.top, nil
}

// memAuditRepo is an in-memory audit store applying the same filter predicate
// to both List and Count.
type memAuditRepo struct {
	entries    []*domain.AuditEntry
	appendErr  error
	lastFilter domain.AuditFilter
}

func (r *memAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memAuditRepo) matching(filter domain.AuditFilter) []*domain.AuditEntry {
	var out []*domain.AuditEntry
	for _, e := range r.entries {
		if filter.EntityKind != nil && e.EntityKind != *filter.EntityKind {
			continue
		}
		if filter.ActorName != nil && e.ActorName != *filter.ActorName {
			continue
		}
		if filter.TimeFrom != nil && e.Timestamp.Before(*filter.TimeFrom) {
			continue
		}
		if filter.TimeTo != nil && e.Timestamp.After(*filter.TimeTo) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (r *memAuditRepo) List(_ context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error) {
	r.lastFilter = filter

	matched := r.matching(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		var less bool
		switch filter.SortField {
		case "actor_name":
			less = matched[i].ActorName < matched[j].ActorName
		case "action_type":
			less = matched[i].ActionType < matched[j].ActionType
		default:
			less = matched[i].Timestamp.Before(matched[j].Timestamp)
		}
		if filter.SortDirection == domain.SortDesc {
			return !less
		}
		return less
	})

	start := filter.Page * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (r *memAuditRepo) Count(_ context.Context, filter domain.AuditFilter) (int, error) {
	return len(r.matching(filter)), nil
}
