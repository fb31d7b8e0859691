package backend

import (
	"context"
	"net/url"
	"strconv"

	"github.com/nurpe/ops-admin/internal/model"
)

func (c *Client) ListContracts(ctx context.Context) ([]model.Contract, error) {
	return list[model.Contract](ctx, c, "contracts/contracts/", nil)
}

func (c *Client) GetContract(ctx context.Context, id int64) (*model.Contract, error) {
	var contract model.Contract
	if err := c.get(ctx, idPath("contracts/contracts/%d/", id), nil, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (c *Client) CreateContract(ctx context.Context, in model.ContractInput) (*model.Contract, error) {
	var contract model.Contract
	if err := c.post(ctx, "contracts/contracts/", in, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (c *Client) UpdateContract(ctx context.Context, id int64, in model.ContractInput) (*model.Contract, error) {
	var contract model.Contract
	if err := c.put(ctx, idPath("contracts/contracts/%d/", id), in, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (c *Client) DeleteContract(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("contracts/contracts/%d/", id), nil)
}

func (c *Client) CompleteMaintenance(ctx context.Context, id int64, in model.CompleteMaintenanceInput) error {
	return c.post(ctx, idPath("contracts/contracts/%d/complete_maintenance/", id), in, nil)
}

func (c *Client) ListMaintenanceRecords(ctx context.Context, contractID int64) ([]model.MaintenanceRecord, error) {
	query := url.Values{"contract": []string{strconv.FormatInt(contractID, 10)}}
	return list[model.MaintenanceRecord](ctx, c, "contracts/maintenance-records/", query)
}

func (c *Client) CreateMaintenanceRecord(ctx context.Context, in model.MaintenanceRecordInput) (*model.MaintenanceRecord, error) {
	var record model.MaintenanceRecord
	if err := c.post(ctx, "contracts/maintenance-records/", in, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) UpdateMaintenanceRecord(ctx context.Context, id int64, in model.MaintenanceRecordInput) (*model.MaintenanceRecord, error) {
	var record model.MaintenanceRecord
	if err := c.put(ctx, idPath("contracts/maintenance-records/%d/", id), in, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) DeleteMaintenanceRecord(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("contracts/maintenance-records/%d/", id), nil)
}

func (c *Client) Dashboard(ctx context.Context) (map[string]int64, error) {
	var raw map[string]any
	if err := c.get(ctx, "contracts/dashboard/", nil, &raw); err != nil {
		return nil, err
	}
	counters := make(map[string]int64, len(raw))
	for key, value := range raw {
		if n, ok := value.(float64); ok {
			counters[key] = int64(n)
		}
	}
	return counters, nil
}
