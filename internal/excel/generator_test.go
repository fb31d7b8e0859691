package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/ops-admin/internal/model"
)

func TestGenerateWorkbook(t *testing.T) {
	next := model.ParseDate("2024-06-01")
	sheet := model.MaintenanceSheet{
		GeneratedAt: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local),
		Contracts: []model.ContractView{
			{
				Contract: model.Contract{
					ID:                  1,
					Title:               "Mantenimiento ascensores",
					CustomerName:        "Comunidad Sol",
					Status:              model.ContractStatusActive,
					StartDate:           model.ParseDate("2024-01-01"),
					RequiresMaintenance: true,
					NextMaintenanceDate: &next,
				},
				MaintenancePending: true,
				FrequencyLabel:     "Mensual",
			},
			{
				Contract: model.Contract{ID: 2, Title: "Suministro", CustomerID: 9, Status: model.ContractStatusExpired},
			},
		},
	}

	content, err := NewGenerator().Generate(sheet)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"Resumen", "Contratos"}, file.GetSheetList())

	pending, err := file.GetCellValue("Resumen", "B4")
	require.NoError(t, err)
	assert.Equal(t, "1", pending)

	rows, err := file.GetRows("Contratos")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Mantenimiento ascensores", rows[1][1])
	assert.Equal(t, "Activo", rows[1][3])
	assert.Equal(t, "01/06/2024", rows[1][7])
	assert.Equal(t, "Pendiente", rows[1][8])
	assert.Equal(t, "#9", rows[2][2])
	assert.Equal(t, "Vencido", rows[2][3])
	assert.Equal(t, "No aplica", rows[2][8])
}
