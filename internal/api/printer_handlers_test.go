package api

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrah006/workflow-backend-sub000/internal/config"
	"github.com/ibrah006/workflow-backend-sub000/internal/model"
	"github.com/ibrah006/workflow-backend-sub000/internal/printer"
)

// memStore implements printer.Store and printer.Tx in memory so assignment
// handlers can be exercised through the fiber app without a database.
type memStore struct {
	printers map[string]*model.Printer
	tasks    map[int64]*model.Task
}

func (s *memStore) InTx(_ context.Context, fn func(tx printer.Tx) error) error {
	return fn(s)
}

func (s *memStore) PrinterForUpdate(_ context.Context, orgID, printerID string) (*model.Printer, error) {
	p, ok := s.printers[printerID]
	if !ok || p.OrganizationID != orgID {
		return nil, model.ErrNotFound
	}
	return p, nil
}

func (s *memStore) SavePrinter(_ context.Context, p *model.Printer) error {
	s.printers[p.ID] = p
	return nil
}

func (s *memStore) TaskForUpdate(_ context.Context, orgID string, taskID int64) (*model.Task, error) {
	t, ok := s.tasks[taskID]
	if !ok || t.OrganizationID != orgID {
		return nil, model.ErrNotFound
	}
	return t, nil
}

func (s *memStore) SaveTask(_ context.Context, t *model.Task) error {
	s.tasks[t.ID] = t
	return nil
}

// seedBoundPrinter returns a store holding printer p1 with task 101 bound.
func seedBoundPrinter() *memStore {
	assignedAt := time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)
	taskID := int64(101)
	printerID := "p1"
	return &memStore{
		printers: map[string]*model.Printer{
			"p1": {
				ID:                  "p1",
				OrganizationID:      "org1",
				Name:                "Prusa MK4",
				Status:              model.PrinterActive,
				StatusLastUpdatedAt: assignedAt,
				ScheduledMinutes:    model.DefaultScheduledMinutes,
				CurrentTaskID:       &taskID,
				TaskAssignedAt:      &assignedAt,
			},
		},
		tasks: map[int64]*model.Task{
			101: {ID: 101, OrganizationID: "org1", ProjectID: "proj1", Status: model.StageInProgress, PrinterID: &printerID},
		},
	}
}

func newTestServer(store *memStore) *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := printer.NewService(store, nil, log, nil)
	return New(Deps{
		Config:     &config.Config{Address: ":0", MaxAttachmentSize: 1 << 20},
		Log:        log,
		PrinterSvc: svc,
	})
}

func patchTask(t *testing.T, srv *Server, body string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPatch, "/api/v1/printers/p1/task", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set("X-Organization-ID", "org1")
	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestAssignTaskRejectsMissingTaskIDField(t *testing.T) {
	store := seedBoundPrinter()
	srv := newTestServer(store)

	code := patchTask(t, srv, `{}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	// The binding must survive a malformed request.
	require.NotNil(t, store.printers["p1"].CurrentTaskID)
	assert.Equal(t, int64(101), *store.printers["p1"].CurrentTaskID)
	require.NotNil(t, store.tasks[101].PrinterID)
}

func TestAssignTaskRejectsNonIntegerTaskID(t *testing.T) {
	store := seedBoundPrinter()
	srv := newTestServer(store)

	code := patchTask(t, srv, `{"taskId":"abc"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	require.NotNil(t, store.printers["p1"].CurrentTaskID)
}

func TestAssignTaskNullReleases(t *testing.T) {
	store := seedBoundPrinter()
	srv := newTestServer(store)

	code := patchTask(t, srv, `{"taskId":null}`)
	assert.Equal(t, fiber.StatusOK, code)

	assert.Nil(t, store.printers["p1"].CurrentTaskID)
	assert.Nil(t, store.printers["p1"].TaskAssignedAt)
	assert.Nil(t, store.tasks[101].PrinterID)
}

func TestAssignTaskBindsByID(t *testing.T) {
	store := seedBoundPrinter()
	store.printers["p1"].CurrentTaskID = nil
	store.printers["p1"].TaskAssignedAt = nil
	store.tasks[101].PrinterID = nil
	srv := newTestServer(store)

	code := patchTask(t, srv, `{"taskId":101}`)
	assert.Equal(t, fiber.StatusOK, code)

	require.NotNil(t, store.printers["p1"].CurrentTaskID)
	assert.Equal(t, int64(101), *store.printers["p1"].CurrentTaskID)
	require.NotNil(t, store.tasks[101].PrinterID)
	assert.Equal(t, "p1", *store.tasks[101].PrinterID)
}
