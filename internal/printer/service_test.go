package printer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
	"github.com/ibrah006/workflow-backend-sub000/internal/queue"
)

// fakeStore implements Store with copy-on-write transactions so the tests
// can assert rollback semantics without a database.
type fakeStore struct {
	printers map[string]*model.Printer
	tasks    map[int64]*model.Task
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		printers: make(map[string]*model.Printer),
		tasks:    make(map[int64]*model.Task),
	}
}

func (s *fakeStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	staged := &fakeTx{
		printers: make(map[string]*model.Printer, len(s.printers)),
		tasks:    make(map[int64]*model.Task, len(s.tasks)),
	}
	for id, p := range s.printers {
		cp := *p
		staged.printers[id] = &cp
	}
	for id, t := range s.tasks {
		cp := *t
		staged.tasks[id] = &cp
	}
	if err := fn(staged); err != nil {
		return err
	}
	s.printers = staged.printers
	s.tasks = staged.tasks
	return nil
}

type fakeTx struct {
	printers map[string]*model.Printer
	tasks    map[int64]*model.Task
}

func (t *fakeTx) PrinterForUpdate(_ context.Context, orgID, printerID string) (*model.Printer, error) {
	p, ok := t.printers[printerID]
	if !ok || p.OrganizationID != orgID {
		return nil, model.ErrNotFound
	}
	return p, nil
}

func (t *fakeTx) SavePrinter(_ context.Context, p *model.Printer) error {
	t.printers[p.ID] = p
	return nil
}

func (t *fakeTx) TaskForUpdate(_ context.Context, orgID string, taskID int64) (*model.Task, error) {
	tk, ok := t.tasks[taskID]
	if !ok || tk.OrganizationID != orgID {
		return nil, model.ErrNotFound
	}
	return tk, nil
}

func (t *fakeTx) SaveTask(_ context.Context, tk *model.Task) error {
	t.tasks[tk.ID] = tk
	return nil
}

type fakeNotifier struct {
	events []queue.TaskChangeEvent
	err    error
}

func (n *fakeNotifier) TaskChanged(_ context.Context, ev queue.TaskChangeEvent) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, ev)
	return nil
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

var testScope = model.Scope{UserID: "u1", OrganizationID: "org1"}

func seed(store *fakeStore, status model.PrinterStatus, since time.Time) {
	store.printers["p1"] = newPrinter(status, since)
	store.tasks[101] = &model.Task{ID: 101, OrganizationID: "org1", ProjectID: "proj1", Status: model.StagePending}
}

func TestServiceChangeStatusNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil, fixedClock(at(10, 0)))
	_, err := svc.ChangeStatus(context.Background(), testScope, "ghost", model.PrinterActive)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestServiceChangeStatusFoldsMaintenance(t *testing.T) {
	store := newFakeStore()
	seed(store, model.PrinterMaintenance, at(9, 0))
	svc := NewService(store, nil, nil, fixedClock(at(9, 45)))

	p, err := svc.ChangeStatus(context.Background(), testScope, "p1", model.PrinterActive)
	require.NoError(t, err)
	assert.Equal(t, int64(45), p.MaintenanceMinutes)
	assert.Equal(t, model.PrinterActive, p.Status)
	assert.Equal(t, int64(45), store.printers["p1"].MaintenanceMinutes)
}

func TestServiceChangeStatusForceReleasesBoundTask(t *testing.T) {
	store := newFakeStore()
	seed(store, model.PrinterActive, at(9, 0))
	notifier := &fakeNotifier{}
	svc := NewService(store, notifier, nil, fixedClock(at(10, 0)))

	taskID := int64(101)
	_, err := svc.AssignTask(context.Background(), testScope, "p1", &taskID)
	require.NoError(t, err)
	notifier.events = nil

	svc2 := NewService(store, notifier, nil, fixedClock(at(10, 30)))
	p, err := svc2.ChangeStatus(context.Background(), testScope, "p1", model.PrinterOffline)
	require.NoError(t, err)

	assert.Nil(t, p.CurrentTaskID)
	assert.Nil(t, p.TaskAssignedAt)
	assert.Zero(t, p.WorkMinutes, "forced release must not fold work minutes")

	task := store.tasks[101]
	assert.Equal(t, model.StagePaused, task.Status)
	assert.Nil(t, task.PrinterID)
	require.NotNil(t, task.ActualProductionEndTime)
	assert.Equal(t, at(10, 30), *task.ActualProductionEndTime)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "task.force_released", notifier.events[0].Type)
	assert.Equal(t, int64(101), notifier.events[0].TaskID)
}

func TestServiceChangeStatusSameStatusKeepsBinding(t *testing.T) {
	store := newFakeStore()
	seed(store, model.PrinterActive, at(9, 0))
	svc := NewService(store, nil, nil, fixedClock(at(10, 0)))

	taskID := int64(101)
	_, err := svc.AssignTask(context.Background(), testScope, "p1", &taskID)
	require.NoError(t, err)

	p, err := svc.ChangeStatus(context.Background(), testScope, "p1", model.PrinterActive)
	require.NoError(t, err)
	require.NotNil(t, p.CurrentTaskID)
	assert.Equal(t, int64(101), *p.CurrentTaskID)
	assert.Equal(t, model.StagePending, store.tasks[101].Status)
}

func TestServiceAssignAndRelease(t *testing.T) {
	store := newFakeStore()
	seed(store, model.PrinterActive, at(9, 0))
	notifier := &fakeNotifier{}

	taskID := int64(101)
	assignSvc := NewService(store, notifier, nil, fixedClock(at(10, 0)))
	p, err := assignSvc.AssignTask(context.Background(), testScope, "p1", &taskID)
	require.NoError(t, err)
	require.NotNil(t, p.CurrentTaskID)
	assert.Equal(t, taskID, *p.CurrentTaskID)

	task := store.tasks[101]
	require.NotNil(t, task.PrinterID)
	assert.Equal(t, "p1", *task.PrinterID)
	require.NotNil(t, task.ActualProductionStartTime)
	assert.Equal(t, at(10, 0), *task.ActualProductionStartTime)

	releaseSvc := NewService(store, notifier, nil, fixedClock(at(10, 30)))
	p, err = releaseSvc.AssignTask(context.Background(), testScope, "p1", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(30), p.WorkMinutes)
	assert.Nil(t, p.CurrentTaskID)
	assert.Nil(t, store.tasks[101].PrinterID)

	require.Len(t, notifier.events, 2)
	assert.Equal(t, "task.assigned", notifier.events[0].Type)
	assert.Equal(t, "task.unassigned", notifier.events[1].Type)
}

func TestServiceAssignConflictLeavesStateUntouched(t *testing.T) {
	store := newFakeStore()
	seed(store, model.PrinterActive, at(9, 0))
	store.tasks[202] = &model.Task{ID: 202, OrganizationID: "org1", ProjectID: "proj1", Status: model.StagePending}
	svc := NewService(store, nil, nil, fixedClock(at(10, 0)))

	first := int64(101)
	_, err := svc.AssignTask(context.Background(), testScope, "p1", &first)
	require.NoError(t, err)

	second := int64(202)
	_, err = svc.AssignTask(context.Background(), testScope, "p1", &second)
	require.ErrorIs(t, err, model.ErrConflict)

	p := store.printers["p1"]
	require.NotNil(t, p.CurrentTaskID)
	assert.Equal(t, first, *p.CurrentTaskID)
	assert.Nil(t, store.tasks[202].PrinterID)
}

func TestServiceAssignTaskHeldByOtherPrinterConflicts(t *testing.T) {
	store := newFakeStore()
	seed(store, model.PrinterActive, at(9, 0))
	store.printers["p2"] = newPrinter(model.PrinterActive, at(9, 0))
	store.printers["p2"].ID = "p2"
	svc := NewService(store, nil, nil, fixedClock(at(10, 0)))

	taskID := int64(101)
	_, err := svc.AssignTask(context.Background(), testScope, "p1", &taskID)
	require.NoError(t, err)

	_, err = svc.AssignTask(context.Background(), testScope, "p2", &taskID)
	require.ErrorIs(t, err, model.ErrConflict)

	// The first binding is untouched and the second printer stayed clean.
	task := store.tasks[101]
	require.NotNil(t, task.PrinterID)
	assert.Equal(t, "p1", *task.PrinterID)
	require.NotNil(t, store.printers["p1"].CurrentTaskID)
	assert.Equal(t, taskID, *store.printers["p1"].CurrentTaskID)
	assert.Nil(t, store.printers["p2"].CurrentTaskID)

	// Releasing the rightful holder still works and clears the task.
	releaseSvc := NewService(store, nil, nil, fixedClock(at(10, 30)))
	_, err = releaseSvc.AssignTask(context.Background(), testScope, "p1", nil)
	require.NoError(t, err)
	assert.Nil(t, store.tasks[101].PrinterID)
}

func TestServiceAssignUnknownTaskRollsBack(t *testing.T) {
	store := newFakeStore()
	seed(store, model.PrinterActive, at(9, 0))
	svc := NewService(store, nil, nil, fixedClock(at(10, 0)))

	ghost := int64(999)
	_, err := svc.AssignTask(context.Background(), testScope, "p1", &ghost)
	require.ErrorIs(t, err, model.ErrNotFound)

	p := store.printers["p1"]
	assert.Nil(t, p.CurrentTaskID)
	assert.Nil(t, p.TaskAssignedAt)
}

func TestServiceNotifierFailureIsSwallowed(t *testing.T) {
	store := newFakeStore()
	seed(store, model.PrinterActive, at(9, 0))
	notifier := &fakeNotifier{err: errors.New("redis down")}
	svc := NewService(store, notifier, nil, fixedClock(at(10, 0)))

	taskID := int64(101)
	p, err := svc.AssignTask(context.Background(), testScope, "p1", &taskID)
	require.NoError(t, err, "queue failure must never surface to the caller")
	require.NotNil(t, p.CurrentTaskID)
}

func TestServiceScopesByOrganization(t *testing.T) {
	store := newFakeStore()
	seed(store, model.PrinterActive, at(9, 0))
	svc := NewService(store, nil, nil, fixedClock(at(10, 0)))

	otherOrg := model.Scope{UserID: "u2", OrganizationID: "org2"}
	_, err := svc.ChangeStatus(context.Background(), otherOrg, "p1", model.PrinterOffline)
	require.ErrorIs(t, err, model.ErrNotFound)
}
