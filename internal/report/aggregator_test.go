package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

func fleetPrinter(id string, status model.PrinterStatus, work, maint int64) model.Printer {
	return model.Printer{
		ID:                 id,
		Name:               "printer " + id,
		Status:             status,
		WorkMinutes:        work,
		MaintenanceMinutes: maint,
		ScheduledMinutes:   model.DefaultScheduledMinutes,
	}
}

func TestUtilizationPercent(t *testing.T) {
	p := fleetPrinter("p1", model.PrinterActive, 240, 0)
	assert.InDelta(t, 50.0, UtilizationPercent(p), 1e-9)

	p.WorkMinutes = 480
	assert.InDelta(t, 100.0, UtilizationPercent(p), 1e-9)

	// Overtime is reported as-is, not clamped.
	p.WorkMinutes = 600
	assert.InDelta(t, 125.0, UtilizationPercent(p), 1e-9)
}

func TestUtilizationPercentZeroSchedule(t *testing.T) {
	p := fleetPrinter("p1", model.PrinterActive, 240, 0)
	p.ScheduledMinutes = 0
	assert.Zero(t, UtilizationPercent(p))
}

func TestBuildOverview(t *testing.T) {
	task := int64(7)
	busy := fleetPrinter("p1", model.PrinterActive, 240, 0)
	busy.CurrentTaskID = &task
	idle := fleetPrinter("p2", model.PrinterActive, 120, 30)
	down := fleetPrinter("p3", model.PrinterMaintenance, 0, 90)

	ov := BuildOverview([]model.Printer{busy, idle, down})
	assert.Equal(t, 3, ov.TotalPrinters)
	assert.Equal(t, 2, ov.ByStatus[model.PrinterActive])
	assert.Equal(t, 1, ov.ByStatus[model.PrinterMaintenance])
	assert.Equal(t, 1, ov.Idle)
	// (50 + 25 + 0) / 3 = 25
	assert.InDelta(t, 25.0, ov.AverageUtilization, 1e-9)
}

func TestBuildOverviewEmptyFleet(t *testing.T) {
	ov := BuildOverview(nil)
	assert.Zero(t, ov.TotalPrinters)
	assert.Zero(t, ov.Idle)
	assert.Zero(t, ov.AverageUtilization)
	assert.NotNil(t, ov.ByStatus)
}

func TestBuildOverviewRoundsAverage(t *testing.T) {
	// 100/480 = 20.8333...% over a single printer rounds to 20.83.
	p := fleetPrinter("p1", model.PrinterActive, 100, 0)
	ov := BuildOverview([]model.Printer{p})
	assert.InDelta(t, 20.83, ov.AverageUtilization, 1e-9)
}

func TestBuildUtilization(t *testing.T) {
	p1 := fleetPrinter("p1", model.PrinterActive, 240, 15)
	p2 := fleetPrinter("p2", model.PrinterOffline, 0, 0)
	rows := BuildUtilization([]model.Printer{p1, p2}, map[string]int{"p1": 4})

	assert.Len(t, rows, 2)
	assert.Equal(t, "p1", rows[0].PrinterID)
	assert.Equal(t, 4, rows[0].TotalPrintJobs)
	assert.Equal(t, int64(240), rows[0].WorkMinutes)
	assert.Equal(t, int64(15), rows[0].MaintenanceMinutes)
	assert.InDelta(t, 50.0, rows[0].UtilizationPercent, 1e-9)

	// No jobs recorded for p2 in the window.
	assert.Zero(t, rows[1].TotalPrintJobs)
	assert.Zero(t, rows[1].UtilizationPercent)
}

func TestBuildDowntime(t *testing.T) {
	printers := []model.Printer{
		fleetPrinter("p1", model.PrinterMaintenance, 0, 90),
		fleetPrinter("p2", model.PrinterActive, 240, 45),
		fleetPrinter("p3", model.PrinterActive, 120, 0),
	}
	dt := BuildDowntime(printers)
	// 135 minutes total = 2.25 hours, 0.75 per printer.
	assert.InDelta(t, 2.25, dt.TotalMaintenanceHours, 1e-9)
	assert.InDelta(t, 0.75, dt.AveragePerPrinterHours, 1e-9)
	assert.Equal(t, 1, dt.PrintersUnderMaintenance)
}

func TestBuildDowntimeEmptyFleet(t *testing.T) {
	dt := BuildDowntime(nil)
	assert.Zero(t, dt.TotalMaintenanceHours)
	assert.Zero(t, dt.AveragePerPrinterHours)
	assert.Zero(t, dt.PrintersUnderMaintenance)
}
