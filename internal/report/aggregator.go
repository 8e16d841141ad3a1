package report

import (
	"math"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

// Overview summarizes the fleet at query time. Values reflect the persisted
// accumulators, which only move on transitions; a printer parked in
// maintenance shows its last folded figure until the next transition.
type Overview struct {
	TotalPrinters      int                         `json:"totalPrinters"`
	ByStatus           map[model.PrinterStatus]int `json:"byStatus"`
	Idle               int                         `json:"idle"`
	AverageUtilization float64                     `json:"averageUtilization"`
}

// PrinterUtilization reports one printer within a window. TotalPrintJobs is
// windowed; the utilization percentage uses the lifetime accumulators, an
// imprecision carried over from the upstream behavior.
type PrinterUtilization struct {
	PrinterID          string              `json:"printerId"`
	Name               string              `json:"name"`
	Status             model.PrinterStatus `json:"status"`
	TotalPrintJobs     int                 `json:"totalPrintJobs"`
	WorkMinutes        int64               `json:"workMinutes"`
	MaintenanceMinutes int64               `json:"maintenanceMinutes"`
	UtilizationPercent float64             `json:"utilizationPercent"`
}

// Downtime aggregates maintenance time fleet-wide, in hours.
type Downtime struct {
	TotalMaintenanceHours    float64 `json:"totalMaintenanceHours"`
	AveragePerPrinterHours   float64 `json:"averagePerPrinterHours"`
	PrintersUnderMaintenance int     `json:"printersUnderMaintenance"`
}

// UtilizationPercent is work minutes over scheduled minutes as a percentage.
// A zero scheduled target reports 0 rather than erroring.
func UtilizationPercent(p model.Printer) float64 {
	if p.ScheduledMinutes == 0 {
		return 0
	}
	return float64(p.WorkMinutes) / float64(p.ScheduledMinutes) * 100
}

// BuildOverview counts printers by status and averages utilization across
// the fleet. Idle means active with no task bound.
func BuildOverview(printers []model.Printer) Overview {
	ov := Overview{
		TotalPrinters: len(printers),
		ByStatus:      make(map[model.PrinterStatus]int),
	}
	var utilSum float64
	for _, p := range printers {
		ov.ByStatus[p.Status]++
		if p.Idle() {
			ov.Idle++
		}
		utilSum += UtilizationPercent(p)
	}
	if len(printers) > 0 {
		ov.AverageUtilization = round2(utilSum / float64(len(printers)))
	}
	return ov
}

// BuildUtilization produces the per-printer rows. jobCounts maps printer id
// to the number of tasks created for it within the window.
func BuildUtilization(printers []model.Printer, jobCounts map[string]int) []PrinterUtilization {
	rows := make([]PrinterUtilization, 0, len(printers))
	for _, p := range printers {
		rows = append(rows, PrinterUtilization{
			PrinterID:          p.ID,
			Name:               p.Name,
			Status:             p.Status,
			TotalPrintJobs:     jobCounts[p.ID],
			WorkMinutes:        p.WorkMinutes,
			MaintenanceMinutes: p.MaintenanceMinutes,
			UtilizationPercent: round2(UtilizationPercent(p)),
		})
	}
	return rows
}

// BuildDowntime converts the maintenance accumulators into fleet-wide hours.
func BuildDowntime(printers []model.Printer) Downtime {
	var dt Downtime
	var totalMinutes int64
	for _, p := range printers {
		totalMinutes += p.MaintenanceMinutes
		if p.Status == model.PrinterMaintenance {
			dt.PrintersUnderMaintenance++
		}
	}
	dt.TotalMaintenanceHours = round2(float64(totalMinutes) / 60)
	if len(printers) > 0 {
		dt.AveragePerPrinterHours = round2(float64(totalMinutes) / 60 / float64(len(printers)))
	}
	return dt
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
