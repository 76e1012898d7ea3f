// README: Hospital-side handlers: pending queue, accept/reject, roster, capacity admin.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lifeline/internal/modules/dispatch"
	"lifeline/internal/modules/hospital"
	"lifeline/internal/modules/request"
	"lifeline/internal/types"
)

type HospitalHandler struct {
	dispatch  *dispatch.Service
	hospitals *hospital.Service
}

func NewHospitalHandler(dispatchSvc *dispatch.Service, hospitalSvc *hospital.Service) *HospitalHandler {
	return &HospitalHandler{dispatch: dispatchSvc, hospitals: hospitalSvc}
}

func (h *HospitalHandler) PendingRequests(c *gin.Context) {
	pending, err := h.dispatch.ListPending(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	views := make([]gin.H, 0, len(pending))
	for _, r := range pending {
		views = append(views, requestView(r))
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "requests": views})
}

type requestActionReq struct {
	RequestID string `json:"request_id" binding:"required"`
}

func (h *HospitalHandler) AcceptRequest(c *gin.Context) {
	h.resolve(c, request.StatusAccepted, "Request accepted successfully")
}

func (h *HospitalHandler) RejectRequest(c *gin.Context) {
	h.resolve(c, request.StatusRejected, "Request rejected successfully")
}

func (h *HospitalHandler) resolve(c *gin.Context, decision request.Status, message string) {
	var req requestActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "request_id is required")
		return
	}
	if err := h.dispatch.Resolve(c.Request.Context(), types.ID(req.RequestID), decision, "hospital"); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "message": message})
}

func (h *HospitalHandler) GetHospital(c *gin.Context) {
	hosp, err := h.hospitals.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "hospital": hospitalView(*hosp)})
}

func (h *HospitalHandler) ListHospitals(c *gin.Context) {
	hospitals, err := h.hospitals.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	views := make([]gin.H, 0, len(hospitals))
	for _, hosp := range hospitals {
		views = append(views, hospitalView(hosp))
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "hospitals": views})
}

func hospitalView(hosp hospital.Hospital) gin.H {
	return gin.H{
		"id":                   hosp.ID,
		"name":                 hosp.Name,
		"latitude":             hosp.Position.Lat,
		"longitude":            hosp.Position.Lng,
		"available_beds":       hosp.AvailableBeds,
		"available_icu":        hosp.AvailableICU,
		"available_oxygen":     hosp.AvailableOxygen,
		"available_ventilator": hosp.AvailableVentilator,
	}
}

type capacityReq struct {
	Beds       int `json:"available_beds" binding:"min=0"`
	ICU        int `json:"available_icu" binding:"min=0"`
	Oxygen     int `json:"available_oxygen" binding:"min=0"`
	Ventilator int `json:"available_ventilator" binding:"min=0"`
}

func (h *HospitalHandler) UpdateCapacity(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing hospital id")
		return
	}
	var req capacityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "capacity counters must be non-negative integers")
		return
	}
	err := h.hospitals.UpdateCapacity(c.Request.Context(), types.ID(id), hospital.Capacity{
		Beds:       req.Beds,
		ICU:        req.ICU,
		Oxygen:     req.Oxygen,
		Ventilator: req.Ventilator,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "message": "Capacity updated"})
}
