// README: Ambulance-side handlers: find hospital, check status, dashboard stats.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lifeline/internal/modules/dispatch"
	"lifeline/internal/modules/hospital"
	"lifeline/internal/modules/request"
	"lifeline/internal/types"
)

type AmbulanceHandler struct {
	dispatch *dispatch.Service
}

func NewAmbulanceHandler(svc *dispatch.Service) *AmbulanceHandler {
	return &AmbulanceHandler{dispatch: svc}
}

type needsPayload struct {
	Bed        bool `json:"bed"`
	ICU        bool `json:"icu"`
	Oxygen     bool `json:"oxygen"`
	Ventilator bool `json:"ventilator"`
}

type originPayload struct {
	Latitude  float64 `json:"latitude" binding:"lat"`
	Longitude float64 `json:"longitude" binding:"lng"`
}

type findHospitalReq struct {
	PatientType   string         `json:"patient_type" binding:"required"`
	EmergencyType string         `json:"emergency_type" binding:"required"`
	Needs         needsPayload   `json:"needs"`
	Origin        *originPayload `json:"origin"`
}

func (h *AmbulanceHandler) FindHospital(c *gin.Context) {
	var req findHospitalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := dispatch.Command{
		PatientType:   req.PatientType,
		EmergencyType: req.EmergencyType,
		Needs: hospital.NeedSet{
			Bed:        req.Needs.Bed,
			ICU:        req.Needs.ICU,
			Oxygen:     req.Needs.Oxygen,
			Ventilator: req.Needs.Ventilator,
		},
	}
	if req.Origin != nil {
		cmd.Origin = &types.Point{Lat: req.Origin.Latitude, Lng: req.Origin.Longitude}
	}

	res, err := h.dispatch.Dispatch(c.Request.Context(), cmd)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"success":       true,
		"message":       "Request sent to nearest hospital",
		"hospital_name": res.Hospital.Name,
		"hospital_id":   res.Hospital.ID,
		"distance":      res.DistanceKm,
		"request_id":    res.RequestID,
	})
}

type statusCheckReq struct {
	RequestID string `json:"request_id" binding:"required"`
}

func (h *AmbulanceHandler) CheckStatus(c *gin.Context) {
	var req statusCheckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "request_id is required")
		return
	}

	r, err := h.dispatch.Status(c.Request.Context(), types.ID(req.RequestID))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"success":        true,
		"request_id":     r.ID,
		"status":         r.Status,
		"hospital_name":  r.HospitalName,
		"patient_type":   r.PatientType,
		"emergency_type": r.EmergencyType,
		"created_at":     r.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *AmbulanceHandler) Stats(c *gin.Context) {
	stats, err := h.dispatch.Stats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"success":         true,
		"total_hospitals": stats.TotalHospitals,
		"pending_count":   stats.PendingCount,
		"accepted_count":  stats.AcceptedCount,
		"response_time":   "~2min",
	})
}

func requestView(r request.EmergencyRequest) gin.H {
	return gin.H{
		"id":              r.ID,
		"patient_type":    r.PatientType,
		"emergency_type":  r.EmergencyType,
		"need_bed":        r.Needs.Bed,
		"need_icu":        r.Needs.ICU,
		"need_oxygen":     r.Needs.Oxygen,
		"need_ventilator": r.Needs.Ventilator,
		"hospital_name":   r.HospitalName,
		"status":          r.Status,
		"created_at":      r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
