package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

type fakeProgressStore struct {
	projects map[string]*model.Project
	logs     map[string][]model.ProgressLog
	tasks    map[string][]model.Task
	order    []string
}

func (s *fakeProgressStore) Project(_ context.Context, orgID, projectID string) (*model.Project, error) {
	p, ok := s.projects[projectID]
	if !ok || p.OrganizationID != orgID {
		return nil, model.ErrNotFound
	}
	return p, nil
}

func (s *fakeProgressStore) LogsByProject(_ context.Context, _, projectID string) ([]model.ProgressLog, error) {
	return s.logs[projectID], nil
}

func (s *fakeProgressStore) TasksByLog(_ context.Context, _, logID string) ([]model.Task, error) {
	return s.tasks[logID], nil
}

func (s *fakeProgressStore) ProjectIDs(_ context.Context, _ string) ([]string, error) {
	return s.order, nil
}

// pastDueLog contributes expected=1.0, so the log rate equals the task
// completion ratio.
func pastDueLog(id, projectID string) model.ProgressLog {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	return model.ProgressLog{ID: id, ProjectID: projectID, StartDate: &start, DueDate: &due}
}

func newTwoProjectStore() *fakeProgressStore {
	return &fakeProgressStore{
		projects: map[string]*model.Project{
			"proj1": {ID: "proj1", OrganizationID: "org1", Name: "Alpha"},
			"proj2": {ID: "proj2", OrganizationID: "org1", Name: "Beta"},
		},
		logs: map[string][]model.ProgressLog{
			"proj1": {pastDueLog("l1", "proj1")},
			"proj2": {pastDueLog("l2", "proj2")},
		},
		tasks: map[string][]model.Task{
			"l1": tasksWithCompletion(4, 5), // 0.8
			"l2": tasksWithCompletion(2, 5), // 0.4
		},
		order: []string{"proj1", "proj2"},
	}
}

var progressScope = model.Scope{UserID: "u1", OrganizationID: "org1"}

func fixedNow() time.Time {
	return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func TestForProjectRoundsToFourPlaces(t *testing.T) {
	store := newTwoProjectStore()
	// 1 of 3 tasks completed past due: rate 0.333333... -> 0.3333.
	store.tasks["l1"] = tasksWithCompletion(1, 3)
	svc := NewService(store, fixedNow)

	rate, err := svc.ForProject(context.Background(), progressScope, "proj1")
	require.NoError(t, err)
	assert.InDelta(t, 0.3333, rate, 1e-9)
}

func TestForProjectNotFound(t *testing.T) {
	svc := NewService(newTwoProjectStore(), fixedNow)
	_, err := svc.ForProject(context.Background(), progressScope, "ghost")
	require.ErrorIs(t, err, model.ErrNotFound)

	otherOrg := model.Scope{UserID: "u2", OrganizationID: "org2"}
	_, err = svc.ForProject(context.Background(), otherOrg, "proj1")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestForProjectNoLogsIsZero(t *testing.T) {
	store := newTwoProjectStore()
	store.logs["proj1"] = nil
	svc := NewService(store, fixedNow)

	rate, err := svc.ForProject(context.Background(), progressScope, "proj1")
	require.NoError(t, err)
	assert.Zero(t, rate)
}

func TestForOrganizationAggregates(t *testing.T) {
	// Projects at 0.8 and 0.4 aggregate to 0.60 at two decimal places.
	svc := NewService(newTwoProjectStore(), fixedNow)

	rate, err := svc.ForOrganization(context.Background(), progressScope)
	require.NoError(t, err)
	assert.InDelta(t, 0.60, rate, 1e-9)
}

func TestForOrganizationNoProjects(t *testing.T) {
	store := &fakeProgressStore{projects: map[string]*model.Project{}}
	svc := NewService(store, fixedNow)

	rate, err := svc.ForOrganization(context.Background(), progressScope)
	require.NoError(t, err)
	assert.Zero(t, rate)
}
