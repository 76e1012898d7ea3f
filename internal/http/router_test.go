// README: HTTP surface tests over in-memory stores.
package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeline/internal/config"
	httptransport "lifeline/internal/http"
	"lifeline/internal/modules/dispatch"
	"lifeline/internal/modules/hospital"
	"lifeline/internal/modules/matching"
	"lifeline/internal/modules/request"
	"lifeline/internal/types"
)

// memHospitals implements hospital.Storage in memory.
type memHospitals struct {
	mu        sync.Mutex
	hospitals []hospital.Hospital
}

func (m *memHospitals) EligibleByNeeds(_ context.Context, needs hospital.NeedSet) ([]hospital.Hospital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []hospital.Hospital
	for _, h := range m.hospitals {
		if h.Satisfies(needs) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memHospitals) Get(_ context.Context, id types.ID) (*hospital.Hospital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.hospitals {
		if m.hospitals[i].ID == id {
			h := m.hospitals[i]
			return &h, nil
		}
	}
	return nil, hospital.ErrNotFound
}

func (m *memHospitals) List(_ context.Context) ([]hospital.Hospital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]hospital.Hospital(nil), m.hospitals...), nil
}

func (m *memHospitals) UpdateCapacity(_ context.Context, id types.ID, c hospital.Capacity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.hospitals {
		if m.hospitals[i].ID == id {
			m.hospitals[i].AvailableBeds = c.Beds
			m.hospitals[i].AvailableICU = c.ICU
			m.hospitals[i].AvailableOxygen = c.Oxygen
			m.hospitals[i].AvailableVentilator = c.Ventilator
			return nil
		}
	}
	return hospital.ErrNotFound
}

// memRequests implements request.Storage in memory.
type memRequests struct {
	mu    sync.Mutex
	rows  map[types.ID]*request.EmergencyRequest
	names map[types.ID]string
}

func newMemRequests(names map[types.ID]string) *memRequests {
	return &memRequests{rows: make(map[types.ID]*request.EmergencyRequest), names: names}
}

func (m *memRequests) Insert(_ context.Context, r *request.EmergencyRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	cp.HospitalName = m.names[r.HospitalID]
	m.rows[r.ID] = &cp
	return nil
}

func (m *memRequests) Get(_ context.Context, id types.ID) (*request.EmergencyRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, request.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRequests) UpdateStatus(_ context.Context, id types.ID, to request.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return false, nil
	}
	r.Status = to
	return true, nil
}

func (m *memRequests) UpdateStatusFrom(_ context.Context, id types.ID, from, to request.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	return true, nil
}

func (m *memRequests) ListPending(_ context.Context) ([]request.EmergencyRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []request.EmergencyRequest
	for _, r := range m.rows {
		if r.Status == request.StatusPending {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memRequests) CountByStatus(_ context.Context) (request.StatusCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c request.StatusCounts
	for _, r := range m.rows {
		switch r.Status {
		case request.StatusPending:
			c.Pending++
		case request.StatusAccepted:
			c.Accepted++
		}
	}
	return c, nil
}

func (m *memRequests) AppendEvent(_ context.Context, _ *request.Event) error { return nil }

func buildTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hospitals := &memHospitals{hospitals: []hospital.Hospital{
		{ID: "h1", Name: "City General", Position: types.Point{Lat: 11.02, Lng: 76.96}, AvailableBeds: 5, AvailableICU: 0},
		{ID: "h2", Name: "Valley Care", Position: types.Point{Lat: 11.05, Lng: 76.99}, AvailableBeds: 3, AvailableICU: 2},
	}}
	hospitalSvc := hospital.NewService(hospitals, nil, zerolog.Nop())
	ledger := request.NewService(newMemRequests(map[types.ID]string{"h1": "City General", "h2": "Valley Care"}), request.PolicyStrict, zerolog.Nop())
	matcher := matching.NewService(hospitalSvc)
	cfg := config.DispatchConfig{DefaultLat: 11.0168, DefaultLng: 76.9558, StrictResolution: true}
	dispatchSvc := dispatch.NewService(matcher, ledger, hospitalSvc, nil, cfg, zerolog.Nop())

	return httptransport.NewRouter(httptransport.RouterDeps{
		Dispatch:  dispatchSvc,
		Hospitals: hospitalSvc,
		Log:       zerolog.Nop(),
	})
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestHealth(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestFindHospitalFlow(t *testing.T) {
	r := buildTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/ambulance/find-hospital", map[string]any{
		"patient_type":   "Serious",
		"emergency_type": "Accident",
		"needs":          map[string]bool{"bed": true, "icu": true},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Valley Care", body["hospital_name"], "h1 lacks ICU and must be skipped")
	requestID, _ := body["request_id"].(string)
	require.NotEmpty(t, requestID)

	// Round trip through check-status.
	w = doRequest(r, http.MethodPost, "/api/ambulance/check-status", map[string]any{"request_id": requestID})
	require.Equal(t, http.StatusOK, w.Code)
	status := decode(t, w)
	assert.Equal(t, "Pending", status["status"])
	assert.Equal(t, "Valley Care", status["hospital_name"])
	if _, err := time.Parse(time.RFC3339, status["created_at"].(string)); err != nil {
		t.Errorf("created_at %q is not RFC3339: %v", status["created_at"], err)
	}

	// Hospital accepts; a second decision conflicts under the strict policy.
	w = doRequest(r, http.MethodPost, "/api/hospital/accept-request", map[string]any{"request_id": requestID})
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(r, http.MethodPost, "/api/hospital/reject-request", map[string]any{"request_id": requestID})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Stats reflect the accepted request.
	w = doRequest(r, http.MethodGet, "/api/ambulance/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	assert.Equal(t, float64(2), stats["total_hospitals"])
	assert.Equal(t, float64(0), stats["pending_count"])
	assert.Equal(t, float64(1), stats["accepted_count"])
}

func TestFindHospitalValidation(t *testing.T) {
	r := buildTestRouter(t)

	// Missing required fields.
	w := doRequest(r, http.MethodPost, "/api/ambulance/find-hospital", map[string]any{
		"emergency_type": "Accident",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Out-of-range origin latitude.
	w = doRequest(r, http.MethodPost, "/api/ambulance/find-hospital", map[string]any{
		"patient_type":   "Serious",
		"emergency_type": "Accident",
		"origin":         map[string]float64{"latitude": 95.0, "longitude": 76.9},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFindHospitalNoEligible(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodPost, "/api/ambulance/find-hospital", map[string]any{
		"patient_type":   "Serious",
		"emergency_type": "Accident",
		"needs":          map[string]bool{"bed": true, "ventilator": true},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Nothing was recorded.
	w = doRequest(r, http.MethodGet, "/api/hospital/pending-requests", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Empty(t, body["requests"])
}

func TestCheckStatusUnknownRequest(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodPost, "/api/ambulance/check-status", map[string]any{"request_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPendingRequestsView(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodPost, "/api/ambulance/find-hospital", map[string]any{
		"patient_type":   "Minor",
		"emergency_type": "Fall",
		"needs":          map[string]bool{"bed": true},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/hospital/pending-requests", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	requests := body["requests"].([]any)
	require.Len(t, requests, 1)
	view := requests[0].(map[string]any)
	assert.Equal(t, "Minor", view["patient_type"])
	assert.Equal(t, true, view["need_bed"])
	assert.NotEmpty(t, view["hospital_name"])
}

func TestHospitalRosterAndCapacity(t *testing.T) {
	r := buildTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/hospitals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Len(t, body["hospitals"], 2)

	// Negative counters are rejected before any store access.
	w = doRequest(r, http.MethodPut, "/api/hospitals/h1/capacity", map[string]int{"available_beds": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPut, "/api/hospitals/h1/capacity", map[string]int{
		"available_beds": 0, "available_icu": 1, "available_oxygen": 2, "available_ventilator": 3,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPut, "/api/hospitals/ghost/capacity", map[string]int{"available_beds": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Single-hospital view reflects the update.
	w = doRequest(r, http.MethodGet, "/api/hospitals/h1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode(t, w)["hospital"].(map[string]any)
	assert.Equal(t, "City General", view["name"])
	assert.Equal(t, float64(3), view["available_ventilator"])

	w = doRequest(r, http.MethodGet, "/api/hospitals/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
