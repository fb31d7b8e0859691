package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/ops-admin/internal/model"
)

const (
	summarySheet = "Resumen"
	detailSheet  = "Contratos"
)

var statusLabels = map[model.ContractStatus]string{
	model.ContractStatusActive:   "Activo",
	model.ContractStatusInactive: "Inactivo",
	model.ContractStatusExpired:  "Vencido",
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds a workbook with a summary sheet and one row per contract.
func (g *Generator) Generate(sheet model.MaintenanceSheet) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, sheet); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(detailSheet); err != nil {
		return nil, err
	}
	if err := g.writeDetail(file, sheet); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet model.MaintenanceSheet) error {
	pending, expiring, required := 0, 0, 0
	for _, c := range sheet.Contracts {
		if c.RequiresMaintenance {
			required++
		}
		if c.MaintenancePending {
			pending++
		}
		if c.ExpiringSoon {
			expiring++
		}
	}

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Fecha de generación")
	set("B1", formatDate(sheet.GeneratedAt))
	set("A2", "Contratos")
	set("B2", len(sheet.Contracts))
	set("A3", "Requieren mantenimiento")
	set("B3", required)
	set("A4", "Mantenimiento pendiente")
	set("B4", pending)
	set("A5", "Vencen en 30 días")
	set("B5", expiring)

	_ = file.SetColWidth(summarySheet, "A", "A", 32)
	_ = file.SetColWidth(summarySheet, "B", "B", 16)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet model.MaintenanceSheet) error {
	headers := []string{
		"ID",
		"Contrato",
		"Cliente",
		"Estado",
		"Inicio",
		"Fin",
		"Frecuencia",
		"Próximo mantenimiento",
		"Mantenimiento",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		_ = file.SetCellValue(detailSheet, cell, header)
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = file.SetRowStyle(detailSheet, 1, 1, bold)
	}

	for i, c := range sheet.Contracts {
		row := i + 2
		values := []interface{}{
			c.ID,
			c.Title,
			customerLabel(c.Contract),
			statusLabel(c.Status),
			c.StartDate.String(),
			datePtr(c.EndDate),
			c.FrequencyLabel,
			datePtr(c.NextMaintenanceDate),
			maintenanceLabel(c),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			_ = file.SetCellValue(detailSheet, cell, value)
		}
	}

	_ = file.SetColWidth(detailSheet, "A", "A", 8)
	_ = file.SetColWidth(detailSheet, "B", "C", 36)
	_ = file.SetColWidth(detailSheet, "D", "G", 14)
	_ = file.SetColWidth(detailSheet, "H", "I", 22)
	return nil
}

func maintenanceLabel(c model.ContractView) string {
	switch {
	case !c.RequiresMaintenance:
		return "No aplica"
	case c.MaintenancePending:
		return "Pendiente"
	default:
		return "Al día"
	}
}

func statusLabel(s model.ContractStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func customerLabel(c model.Contract) string {
	if c.CustomerName != "" {
		return c.CustomerName
	}
	if c.CustomerID == 0 {
		return ""
	}
	return fmt.Sprintf("#%d", c.CustomerID)
}

func datePtr(d *model.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
