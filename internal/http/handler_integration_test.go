//go:build integration

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/guttosm/cargo-service/internal/circuitbreaker"
	"github.com/guttosm/cargo-service/internal/domain/model"
	"github.com/guttosm/cargo-service/internal/repository"
	"github.com/guttosm/cargo-service/internal/service"
	"github.com/guttosm/cargo-service/internal/spreadsheet"
)

func setupIntegrationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx := t.Context()

	db, err := repository.NewMongoDB(getSharedContainerURI(), sanitizeDBNameForHTTP(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(ctx) })

	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 1,
		Timeout:          time.Second,
		Name:             "integration",
		IsFailure:        repository.CountsAsFailure,
	})
	items := repository.NewParcelItemRepositoryWithCircuitBreaker(repository.NewParcelItemRepository(db), cb)
	summary := repository.NewSummaryRepositoryWithCircuitBreaker(repository.NewSummaryRepository(db), cb)
	parcels := repository.NewParcelRepositoryWithCircuitBreaker(repository.NewParcelRepository(db), cb)
	carts := repository.NewCartRepositoryWithCircuitBreaker(repository.NewCartRepository(db), cb)

	importer := service.NewImporter(service.WithImportCache(16, time.Minute))
	cargo := service.NewCargoService(importer, service.CargoRepositories{Items: items, Summary: summary, Parcels: parcels})
	dispatch := service.NewDispatchService(service.DispatchRepositories{Items: items, Parcels: parcels, Carts: carts})

	health := NewHealthHandler()
	health.RegisterChecker("mongodb", HealthCheckFunc(db.HealthCheck))
	health.RegisterCircuitBreaker("integration", cb)

	return NewRouter(health, RouterConfig{
		EnableIdempotency: true,
		CargoHandler:      NewCargoHandler(importer, cargo, spreadsheet.NewReader()),
		DispatchHandler:   NewDispatchHandler(dispatch),
	})
}

func TestIntegration_ReceptionToDispatch(t *testing.T) {
	router := setupIntegrationRouter(t)

	w := doJSON(router, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doUpload(router, "/api/cargo/packing-list", "pl.csv",
		"Packing ref;Item code;Parcel n°;Qty;Batch no;Exp. date\n"+
			"PK1;PARA500;1 to 2;10;B1;N/A\n"+
			"PK1;AMOX250;3;4;B2;N/A\n",
		map[string]string{"session_id": "S-int", "project_code": "P1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	imported := decodeData[service.ImportResult](t, w)
	assert.Equal(t, "S-int", imported.SessionID)
	assert.Equal(t, 3, imported.Parcels)

	w = doJSON(router, http.MethodPost, "/api/cargo/summary",
		`{"session_id":"S-int","rows":[["Parcel nb","Packing ref","Weight"],["1","PK1",4],["4","PK1",2]]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(router, http.MethodGet, "/api/cargo/parcels?session_id=S-int", "")
	require.Equal(t, http.StatusOK, w.Code)
	overview := decodeData[[]model.ParcelOverview](t, w)
	byNumber := make(map[string]model.ParcelOverview, len(overview))
	for _, o := range overview {
		byNumber[o.ParcelNumber] = o
	}
	require.Len(t, byNumber, 4)
	assert.True(t, byNumber["PK11"].InPackingList && byNumber["PK11"].InSummary)
	assert.False(t, byNumber["PK14"].InPackingList)

	w = doJSON(router, http.MethodGet, "/api/cargo/parcels/PK13/items", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AMOX250", decodeData[[]model.ParcelItem](t, w)[0].ItemCode)

	// Receive PK11 and PK12, leave PK13 pending.
	for _, p := range []string{"PK11", "PK12"} {
		w = doJSON(router, http.MethodPost, "/api/cargo/receive-parcel", `{"parcel_number":"`+p+`","exp_date":"N/A"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, strings.HasPrefix(decodeData[model.Parcel](t, w).ReceptionNumber, "REC-"))
	}
	w = doJSON(router, http.MethodPost, "/api/cargo/receive-parcel", `{"parcel_number":"PK11"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(router, http.MethodPatch, "/api/cargo/parcel-note", `{"parcel_number":"PK12","note":"Corner crushed"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodPost, "/api/dispatch/carts", `{"project_code":"P1","session_id":"S-int"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cartID := decodeData[model.DispatchCart](t, w).ID
	cartPath := "/api/dispatch/carts/" + cartID

	w = doJSON(router, http.MethodPost, cartPath+"/toggle", `{"parcel_number":"PK13"}`)
	assert.Equal(t, http.StatusConflict, w.Code, "pending parcels cannot be selected")

	for _, p := range []string{"PK12", "PK11"} {
		w = doJSON(router, http.MethodPost, cartPath+"/toggle", `{"parcel_number":"`+p+`"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = doJSON(router, http.MethodGet, cartPath, "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeData[service.CartView](t, w)
	assert.Equal(t, []string{"PK12", "PK11"}, view.Cart.Parcels)

	w = doJSON(router, http.MethodGet, cartPath+"/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	wb, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	rows, err := wb.GetRows(service.DispatchSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "PK12", rows[1][0], "export follows cart order")

	w = doJSON(router, http.MethodPost, cartPath+"/confirm", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	confirmed := decodeData[service.ConfirmResult](t, w)
	assert.ElementsMatch(t, []string{"PK11", "PK12"}, confirmed.Dispatched)
	assert.Empty(t, confirmed.Skipped)

	w = doJSON(router, http.MethodPost, "/api/cargo/unreceive-parcel", `{"parcel_number":"PK11"}`)
	assert.Equal(t, http.StatusConflict, w.Code, "dispatched parcels cannot be unreceived")

	w = doJSON(router, http.MethodGet, "/api/cargo/stats?session_id=S-int", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ParcelStats{Total: 4, Pending: 2, Dispatched: 2}, decodeData[model.ParcelStats](t, w))
}

func TestIntegration_ReceiveIsIdempotent(t *testing.T) {
	router := setupIntegrationRouter(t)

	w := doJSON(router, http.MethodPost, "/api/cargo/packing-list",
		`{"session_id":"S-idem","rows":[["Packing ref","Parcel n°","Qty"],["PK7","1",1]]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/cargo/receive-parcel", strings.NewReader(`{"parcel_number":"PK71"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "receive-PK71")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	replay := send()
	require.Equal(t, http.StatusOK, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))

	var a, b map[string]any
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(replay.Body.Bytes(), &b))
	assert.Equal(t, a["data"], b["data"])
}
