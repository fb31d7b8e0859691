package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/nurpe/ops-admin/internal/model"
)

func (c *Client) ListDocuments(ctx context.Context, contractID int64) ([]model.ContractDocument, error) {
	query := url.Values{"contract": []string{strconv.FormatInt(contractID, 10)}}
	return list[model.ContractDocument](ctx, c, "contracts/documents/", query)
}

// UploadDocument streams file to the backend as multipart/form-data.
func (c *Client) UploadDocument(ctx context.Context, meta model.DocumentUpload, file io.Reader) (*model.ContractDocument, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		err := writeDocumentForm(form, meta, file)
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	var doc model.ContractDocument
	err := c.call(ctx, request{
		method:      http.MethodPost,
		path:        "contracts/documents/",
		body:        pr,
		contentType: form.FormDataContentType(),
	}, &doc)
	pr.Close()
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func writeDocumentForm(form *multipart.Writer, meta model.DocumentUpload, file io.Reader) error {
	fields := map[string]string{
		"contract":    strconv.FormatInt(meta.ContractID, 10),
		"title":       meta.Title,
		"description": meta.Description,
	}
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return err
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, meta.FileName))
	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := form.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file)
	return err
}

func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath("contracts/documents/%d/", id), nil)
}

func (c *Client) ListReports(ctx context.Context, contractID int64, includeDeleted bool) ([]model.ContractReport, error) {
	query := url.Values{"contract": []string{strconv.FormatInt(contractID, 10)}}
	if includeDeleted {
		query.Set("include_deleted", "true")
	}
	return list[model.ContractReport](ctx, c, "contracts/reports/", query)
}

func (c *Client) GetReport(ctx context.Context, id int64, includeDeleted bool) (*model.ContractReport, error) {
	var report model.ContractReport
	if err := c.get(ctx, idPath("contracts/reports/%d/", id), boolQuery("include_deleted", includeDeleted), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) CreateReport(ctx context.Context, in model.ContractReportInput) (*model.ContractReport, error) {
	var report model.ContractReport
	if err := c.post(ctx, "contracts/reports/", in, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) UpdateReport(ctx context.Context, id int64, in model.ContractReportInput) (*model.ContractReport, error) {
	var report model.ContractReport
	if err := c.put(ctx, idPath("contracts/reports/%d/", id), in, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) DeleteReport(ctx context.Context, id int64, returnMaterials bool) error {
	query := url.Values{"return_materials": []string{strconv.FormatBool(returnMaterials)}}
	return c.delete(ctx, idPath("contracts/reports/%d/", id), query)
}
