package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/ops-admin/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, context.Context) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second, BreakerFailures: 2, BreakerOpenAfter: time.Minute}, zerolog.Nop())
	require.NoError(t, err)
	return client, WithToken(context.Background(), "tok-123")
}

func TestBearerTokenAndPaths(t *testing.T) {
	client, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/tickets/tickets/5/", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("include_deleted"))
		_, _ = io.WriteString(w, `{"id":5,"status":"PAID","total_amount":"12.50","is_deleted":"1"}`)
	})

	ticket, err := client.GetTicket(ctx, 5, true)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusPaid, ticket.Status)
	assert.True(t, bool(ticket.IsDeleted))
	assert.Equal(t, "12.5", ticket.TotalAmount.String())
}

func TestMissingTokenIssuesNoCall(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := client.ListTickets(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestListFollowsPagination(t *testing.T) {
	var srvURL string
	client, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			_, _ = io.WriteString(w, `{"count":3,"next":null,"results":[{"id":3}]}`)
			return
		}
		assert.Equal(t, "true", r.URL.Query().Get("available_only"))
		next := srvURL + "/api/materials/materials/?page=2"
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count":   3,
			"next":    next,
			"results": []map[string]any{{"id": 1}, {"id": 2}},
		})
	})
	srvURL = strings.TrimSuffix(client.baseURL.String(), "/api/")

	materials, err := client.ListMaterials(ctx, true)
	require.NoError(t, err)
	require.Len(t, materials, 3)
	assert.Equal(t, int64(3), materials[2].ID)
}

func TestListAcceptsBareArray(t *testing.T) {
	client, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "9", r.URL.Query().Get("contract"))
		_, _ = io.WriteString(w, `[{"id":1,"contract":9,"maintenance_type":"PREVENTIVE","date":"2024-05-01"}]`)
	})

	records, err := client.ListMaintenanceRecords(ctx, 9)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.MaintenanceTypePreventive, records[0].MaintenanceType)
}

func TestErrorTaxonomy(t *testing.T) {
	status := http.StatusBadRequest
	body := `{"detail":"Stock insuficiente para el material"}`
	client, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})

	_, err := client.AddTicketItem(ctx, 1, model.AddItemInput{MaterialID: 2})
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Stock insuficiente para el material", rej.Detail)
	assert.False(t, IsFault(err))

	status, body = http.StatusUnauthorized, `{"detail":"token expired"}`
	_, err = client.ListTickets(ctx)
	assert.ErrorIs(t, err, ErrAuthExpired)

	status, body = http.StatusBadGateway, `oops`
	_, err = client.ListTickets(ctx)
	assert.True(t, IsFault(err))

	status, body = http.StatusNotFound, `{"detail":"No encontrado."}`
	_, err = client.GetContract(ctx, 3)
	assert.True(t, IsNotFound(err))
}

func TestRejectionFieldErrors(t *testing.T) {
	rej := parseRejection(400, []byte(`{"quantity":["Ensure this value is greater than 0."],"material":["Required."]}`))
	assert.Equal(t, "material: Required.; quantity: Ensure this value is greater than 0.", rej.Detail)
	assert.Equal(t, "Required.", rej.Fields["material"])

	rej = parseRejection(400, []byte(`["Ticket ya pagado"]`))
	assert.Equal(t, "Ticket ya pagado", rej.Detail)

	rej = parseRejection(409, nil)
	assert.Equal(t, "request failed with status 409", rej.Detail)
}

func TestBreakerOpensAfterFaults(t *testing.T) {
	var calls int32
	client, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	for i := 0; i < 2; i++ {
		_, err := client.ListTickets(ctx)
		require.Error(t, err)
	}
	assert.Equal(t, "open", client.BreakerState())

	_, err := client.ListTickets(ctx)
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "open breaker issues no call")
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b := newBreaker(1, time.Second)
	now := time.Now()
	b.now = func() time.Time { return now }

	require.NoError(t, b.allow())
	b.record(true)
	assert.ErrorIs(t, b.allow(), ErrCircuitOpen)

	now = now.Add(2 * time.Second)
	require.NoError(t, b.allow())
	assert.ErrorIs(t, b.allow(), ErrCircuitOpen, "only one probe at a time")
	b.record(false)
	assert.Equal(t, "closed", b.State())
}

func TestMarkPaidBody(t *testing.T) {
	client, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tickets/tickets/4/mark_as_paid/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "CASH", body["payment_method"])
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.MarkTicketPaid(ctx, 4, model.PaymentCash))
}

func TestUploadDocumentMultipart(t *testing.T) {
	client, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "12", r.FormValue("contract"))
		assert.Equal(t, "Anexo", r.FormValue("title"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "anexo.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4", string(data))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":77,"contract":12,"title":"Anexo"}`)
	})

	doc, err := client.UploadDocument(ctx, model.DocumentUpload{ContractID: 12, Title: "Anexo", FileName: "anexo.pdf"}, strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, int64(77), doc.ID)
}

func TestDashboardCounters(t *testing.T) {
	client, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"active_contracts":4,"pending_tickets":2,"label":"x"}`)
	})

	counters, err := client.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"active_contracts": 4, "pending_tickets": 2}, counters)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New(Config{BaseURL: "backend/api"}, zerolog.Nop())
	assert.Error(t, err)
}
