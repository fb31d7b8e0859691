package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/ops-admin/internal/maintenance"
	"github.com/nurpe/ops-admin/internal/model"
)

type ContractBackend interface {
	ListContracts(ctx context.Context) ([]model.Contract, error)
	GetContract(ctx context.Context, id int64) (*model.Contract, error)
	CreateContract(ctx context.Context, in model.ContractInput) (*model.Contract, error)
	UpdateContract(ctx context.Context, id int64, in model.ContractInput) (*model.Contract, error)
	DeleteContract(ctx context.Context, id int64) error
	CompleteMaintenance(ctx context.Context, id int64, in model.CompleteMaintenanceInput) error

	ListMaintenanceRecords(ctx context.Context, contractID int64) ([]model.MaintenanceRecord, error)
	CreateMaintenanceRecord(ctx context.Context, in model.MaintenanceRecordInput) (*model.MaintenanceRecord, error)
	UpdateMaintenanceRecord(ctx context.Context, id int64, in model.MaintenanceRecordInput) (*model.MaintenanceRecord, error)
	DeleteMaintenanceRecord(ctx context.Context, id int64) error

	ListDocuments(ctx context.Context, contractID int64) ([]model.ContractDocument, error)
	UploadDocument(ctx context.Context, meta model.DocumentUpload, file io.Reader) (*model.ContractDocument, error)
	DeleteDocument(ctx context.Context, id int64) error

	ListReports(ctx context.Context, contractID int64, includeDeleted bool) ([]model.ContractReport, error)
	GetReport(ctx context.Context, id int64, includeDeleted bool) (*model.ContractReport, error)
	CreateReport(ctx context.Context, in model.ContractReportInput) (*model.ContractReport, error)
	UpdateReport(ctx context.Context, id int64, in model.ContractReportInput) (*model.ContractReport, error)
	DeleteReport(ctx context.Context, id int64, returnMaterials bool) error

	Dashboard(ctx context.Context) (map[string]int64, error)
}

type WorkbookGenerator interface {
	Generate(sheet model.MaintenanceSheet) ([]byte, error)
}

type ContractService struct {
	backend  ContractBackend
	calc     *maintenance.Calculator
	excel    WorkbookGenerator
	validate *validator.Validate
	log      zerolog.Logger
}

func NewContractService(backend ContractBackend, calc *maintenance.Calculator, excel WorkbookGenerator, log zerolog.Logger) *ContractService {
	return &ContractService{
		backend:  backend,
		calc:     calc,
		excel:    excel,
		validate: newValidator(),
		log:      log.With().Str("component", "contracts").Logger(),
	}
}

func (s *ContractService) List(ctx context.Context, filter model.ContractFilter) (model.Page[model.ContractView], error) {
	views, err := s.filtered(ctx, filter)
	if err != nil {
		return model.Page[model.ContractView]{}, err
	}
	return model.Paginate(views, filter.Pagination), nil
}

func (s *ContractService) filtered(ctx context.Context, filter model.ContractFilter) ([]model.ContractView, error) {
	contracts, err := s.backend.ListContracts(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("list contracts failed")
		return nil, err
	}
	views := make([]model.ContractView, 0, len(contracts))
	for _, view := range s.calc.Views(contracts) {
		if matchContract(view, filter) {
			views = append(views, view)
		}
	}
	return views, nil
}

func matchContract(v model.ContractView, f model.ContractFilter) bool {
	if f.Status != nil && v.Status != *f.Status {
		return false
	}
	if f.CustomerID != nil && v.CustomerID != *f.CustomerID {
		return false
	}
	if f.RequiresMaintenance != nil && v.RequiresMaintenance != *f.RequiresMaintenance {
		return false
	}
	if f.PendingOnly && !v.MaintenancePending {
		return false
	}
	if f.ExpiringSoon && !v.ExpiringSoon {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		haystack := strings.ToLower(strings.Join([]string{v.Title, v.CustomerName, v.Description}, " "))
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

func (s *ContractService) Get(ctx context.Context, id int64) (*model.ContractView, error) {
	contract, err := s.backend.GetContract(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Int64("contract_id", id).Msg("get contract failed")
		return nil, err
	}
	view := s.calc.View(*contract)
	return &view, nil
}

// Detail loads a contract together with its records, documents and reports.
func (s *ContractService) Detail(ctx context.Context, id int64) (*model.ContractDetail, error) {
	var (
		contract  *model.Contract
		records   []model.MaintenanceRecord
		documents []model.ContractDocument
		reports   []model.ContractReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		contract, err = s.backend.GetContract(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		records, err = s.backend.ListMaintenanceRecords(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		documents, err = s.backend.ListDocuments(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		reports, err = s.backend.ListReports(gctx, id, false)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn().Err(err).Int64("contract_id", id).Msg("load contract detail failed")
		return nil, err
	}

	return &model.ContractDetail{
		Contract:           s.calc.View(*contract),
		MaintenanceRecords: records,
		Documents:          documents,
		Reports:            reports,
	}, nil
}

// Check validates a contract input. Warnings do not block submission.
func (s *ContractService) Check(in model.ContractInput) ([]string, error) {
	fields := map[string]string{}
	if err := s.check(in); err != nil {
		var fe *FieldError
		if !errors.As(err, &fe) {
			return nil, err
		}
		fields = fe.Fields
	}
	problems := maintenance.CheckContract(in)
	for field, msg := range problems.Fields {
		if _, ok := fields[field]; !ok {
			fields[field] = msg
		}
	}
	if len(fields) > 0 {
		return problems.Warnings, &FieldError{Fields: fields}
	}
	return problems.Warnings, nil
}

func (s *ContractService) Create(ctx context.Context, in model.ContractInput) (*model.ContractView, []string, error) {
	warnings, err := s.Check(in)
	if err != nil {
		return nil, warnings, err
	}
	for _, w := range warnings {
		s.log.Info().Str("warning", w).Msg("contract submitted with warning")
	}
	contract, err := s.backend.CreateContract(ctx, in)
	if err != nil {
		s.log.Warn().Err(err).Msg("create contract failed")
		return nil, warnings, err
	}
	view := s.calc.View(*contract)
	return &view, warnings, nil
}

func (s *ContractService) Update(ctx context.Context, id int64, in model.ContractInput) (*model.ContractView, []string, error) {
	warnings, err := s.Check(in)
	if err != nil {
		return nil, warnings, err
	}
	contract, err := s.backend.UpdateContract(ctx, id, in)
	if err != nil {
		s.log.Warn().Err(err).Int64("contract_id", id).Msg("update contract failed")
		return nil, warnings, err
	}
	view := s.calc.View(*contract)
	return &view, warnings, nil
}

func (s *ContractService) Delete(ctx context.Context, id int64) error {
	if err := s.backend.DeleteContract(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("contract_id", id).Msg("delete contract failed")
		return err
	}
	return nil
}

// CompleteMaintenance records a completion and returns the contract as the
// backend now has it; the next date is never computed here.
func (s *ContractService) CompleteMaintenance(ctx context.Context, id int64, in model.CompleteMaintenanceInput) (*model.ContractView, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	if !model.ParseDate(in.Date).Valid() {
		return nil, &FieldError{Fields: map[string]string{"date": "invalid date"}}
	}
	if err := s.backend.CompleteMaintenance(ctx, id, in); err != nil {
		s.log.Warn().Err(err).Int64("contract_id", id).Msg("complete maintenance failed")
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ContractService) MaintenanceRecords(ctx context.Context, contractID int64) ([]model.MaintenanceRecord, error) {
	records, err := s.backend.ListMaintenanceRecords(ctx, contractID)
	if err != nil {
		s.log.Warn().Err(err).Int64("contract_id", contractID).Msg("list maintenance records failed")
		return nil, err
	}
	return records, nil
}

func (s *ContractService) CreateMaintenanceRecord(ctx context.Context, in model.MaintenanceRecordInput) (*model.MaintenanceRecord, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	record, err := s.backend.CreateMaintenanceRecord(ctx, in)
	if err != nil {
		s.log.Warn().Err(err).Int64("contract_id", in.ContractID).Msg("create maintenance record failed")
		return nil, err
	}
	return record, nil
}

func (s *ContractService) UpdateMaintenanceRecord(ctx context.Context, id int64, in model.MaintenanceRecordInput) (*model.MaintenanceRecord, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	record, err := s.backend.UpdateMaintenanceRecord(ctx, id, in)
	if err != nil {
		s.log.Warn().Err(err).Int64("record_id", id).Msg("update maintenance record failed")
		return nil, err
	}
	return record, nil
}

func (s *ContractService) DeleteMaintenanceRecord(ctx context.Context, id int64) error {
	if err := s.backend.DeleteMaintenanceRecord(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("record_id", id).Msg("delete maintenance record failed")
		return err
	}
	return nil
}

func (s *ContractService) Documents(ctx context.Context, contractID int64) ([]model.ContractDocument, error) {
	docs, err := s.backend.ListDocuments(ctx, contractID)
	if err != nil {
		s.log.Warn().Err(err).Int64("contract_id", contractID).Msg("list documents failed")
		return nil, err
	}
	return docs, nil
}

func (s *ContractService) UploadDocument(ctx context.Context, meta model.DocumentUpload, file io.Reader) (*model.ContractDocument, error) {
	fields := map[string]string{}
	if strings.TrimSpace(meta.Title) == "" {
		fields["title"] = "required"
	}
	if meta.FileName == "" {
		fields["file"] = "required"
	}
	if len(fields) > 0 {
		return nil, &FieldError{Fields: fields}
	}
	doc, err := s.backend.UploadDocument(ctx, meta, file)
	if err != nil {
		s.log.Warn().Err(err).Int64("contract_id", meta.ContractID).Str("file", meta.FileName).Msg("upload document failed")
		return nil, err
	}
	return doc, nil
}

func (s *ContractService) DeleteDocument(ctx context.Context, id int64) error {
	if err := s.backend.DeleteDocument(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("document_id", id).Msg("delete document failed")
		return err
	}
	return nil
}

func (s *ContractService) Reports(ctx context.Context, contractID int64, includeDeleted bool) ([]model.ContractReport, error) {
	reports, err := s.backend.ListReports(ctx, contractID, includeDeleted)
	if err != nil {
		s.log.Warn().Err(err).Int64("contract_id", contractID).Msg("list reports failed")
		return nil, err
	}
	return reports, nil
}

func (s *ContractService) Report(ctx context.Context, id int64, includeDeleted bool) (*model.ContractReport, error) {
	report, err := s.backend.GetReport(ctx, id, includeDeleted)
	if err != nil {
		s.log.Warn().Err(err).Int64("report_id", id).Msg("get report failed")
		return nil, err
	}
	return report, nil
}

func (s *ContractService) CreateReport(ctx context.Context, in model.ContractReportInput) (*model.ContractReport, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	report, err := s.backend.CreateReport(ctx, in)
	if err != nil {
		s.log.Warn().Err(err).Int64("contract_id", in.ContractID).Msg("create report failed")
		return nil, err
	}
	return report, nil
}

func (s *ContractService) UpdateReport(ctx context.Context, id int64, in model.ContractReportInput) (*model.ContractReport, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	report, err := s.backend.UpdateReport(ctx, id, in)
	if err != nil {
		s.log.Warn().Err(err).Int64("report_id", id).Msg("update report failed")
		return nil, err
	}
	return report, nil
}

func (s *ContractService) DeleteReport(ctx context.Context, id int64, returnMaterials bool) error {
	if err := s.backend.DeleteReport(ctx, id, returnMaterials); err != nil {
		s.log.Warn().Err(err).Int64("report_id", id).Msg("delete report failed")
		return err
	}
	return nil
}

func (s *ContractService) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	var (
		counters  map[string]int64
		contracts []model.Contract
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counters, err = s.backend.Dashboard(gctx)
		return err
	})
	g.Go(func() (err error) {
		contracts, err = s.backend.ListContracts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn().Err(err).Msg("load dashboard failed")
		return nil, err
	}

	out := &model.Dashboard{Counters: counters}
	for _, view := range s.calc.Views(contracts) {
		if view.MaintenancePending {
			out.MaintenancePending++
		}
		if view.ExpiringSoon {
			out.ExpiringSoon++
		}
	}
	return out, nil
}

// ExportMaintenance renders the filtered contract list as a workbook.
func (s *ContractService) ExportMaintenance(ctx context.Context, filter model.ContractFilter) (string, []byte, error) {
	views, err := s.filtered(ctx, filter)
	if err != nil {
		return "", nil, err
	}
	today := s.calc.Today()
	content, err := s.excel.Generate(model.MaintenanceSheet{GeneratedAt: today, Contracts: views})
	if err != nil {
		s.log.Error().Err(err).Msg("generate maintenance workbook failed")
		return "", nil, err
	}
	return fmt.Sprintf("mantenimientos-%s.xlsx", today.Format("20060102")), content, nil
}

func (s *ContractService) check(in any) error {
	fields, err := fieldProblems(s.validate, in)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return &FieldError{Fields: fields}
	}
	return nil
}

// fieldProblems runs the struct tags of in and returns failed rules keyed by
// json field name. The map is empty, never nil, when everything passes.
func fieldProblems(v *validator.Validate, in any) (map[string]string, error) {
	fields := map[string]string{}
	err := v.Struct(in)
	if err == nil {
		return fields, nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
