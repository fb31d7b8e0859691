package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/ops-admin/internal/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func bindContractFilter(c *gin.Context) (model.ContractFilter, bool) {
	var filter model.ContractFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
		return filter, false
	}
	if filter.Status != nil && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return filter, false
	}
	return filter, true
}

func (h *Handler) listContracts(c *gin.Context) {
	filter, ok := bindContractFilter(c)
	if !ok {
		return
	}
	page, err := h.deps.Contracts.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) exportMaintenance(c *gin.Context) {
	filter, ok := bindContractFilter(c)
	if !ok {
		return
	}
	name, content, err := h.deps.Contracts.ExportMaintenance(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+name+"\"")
	c.Data(http.StatusOK, xlsxContentType, content)
}

func (h *Handler) contractDetail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.deps.Contracts.Detail(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type contractResponse struct {
	Contract *model.ContractView `json:"contract"`
	Warnings []string            `json:"warnings,omitempty"`
}

func (h *Handler) createContract(c *gin.Context) {
	var in model.ContractInput
	if !bindJSON(c, &in) {
		return
	}
	view, warnings, err := h.deps.Contracts.Create(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contractResponse{Contract: view, Warnings: warnings})
}

func (h *Handler) updateContract(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in model.ContractInput
	if !bindJSON(c, &in) {
		return
	}
	view, warnings, err := h.deps.Contracts.Update(c.Request.Context(), id, in)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractResponse{Contract: view, Warnings: warnings})
}

func (h *Handler) deleteContract(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deps.Contracts.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) completeMaintenance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in model.CompleteMaintenanceInput
	if !bindJSON(c, &in) {
		return
	}
	view, err := h.deps.Contracts.CompleteMaintenance(c.Request.Context(), id, in)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) listMaintenanceRecords(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	records, err := h.deps.Contracts.MaintenanceRecords(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) createMaintenanceRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in model.MaintenanceRecordInput
	if !bindJSON(c, &in) {
		return
	}
	in.ContractID = id
	record, err := h.deps.Contracts.CreateMaintenanceRecord(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *Handler) updateMaintenanceRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in model.MaintenanceRecordInput
	if !bindJSON(c, &in) {
		return
	}
	record, err := h.deps.Contracts.UpdateMaintenanceRecord(c.Request.Context(), id, in)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) deleteMaintenanceRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deps.Contracts.DeleteMaintenanceRecord(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listDocuments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	docs, err := h.deps.Contracts.Documents(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *Handler) uploadDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	meta := model.DocumentUpload{
		ContractID:  id,
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: c.PostForm("description"),
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{"file": "required"}})
		return
	}
	file, err := header.Open()
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer file.Close()
	meta.FileName = header.Filename
	meta.ContentType = header.Header.Get("Content-Type")

	doc, err := h.deps.Contracts.UploadDocument(c.Request.Context(), meta, file)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) deleteDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deps.Contracts.DeleteDocument(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listReports(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reports, err := h.deps.Contracts.Reports(c.Request.Context(), id, queryBool(c, "include_deleted"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *Handler) createReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in model.ContractReportInput
	if !bindJSON(c, &in) {
		return
	}
	in.ContractID = id
	report, err := h.deps.Contracts.CreateReport(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *Handler) getReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := h.deps.Contracts.Report(c.Request.Context(), id, queryBool(c, "include_deleted"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) updateReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in model.ContractReportInput
	if !bindJSON(c, &in) {
		return
	}
	report, err := h.deps.Contracts.UpdateReport(c.Request.Context(), id, in)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) deleteReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deps.Contracts.DeleteReport(c.Request.Context(), id, queryBool(c, "return_materials")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
