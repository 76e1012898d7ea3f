// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	govalidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"lifeline/internal/http/handlers"
	"lifeline/internal/http/middleware"
	"lifeline/internal/modules/dispatch"
	"lifeline/internal/modules/hospital"
	"lifeline/pkg/validator"
)

type RouterDeps struct {
	Dispatch    *dispatch.Service
	Hospitals   *hospital.Service
	CORSOrigins []string
	Log         zerolog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		_ = validator.Register(v)
	}

	r := gin.New()
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.Logging(deps.Log))
	r.Use(middleware.CORS(deps.CORSOrigins))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Emergency dispatch service is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ambulanceHandler := handlers.NewAmbulanceHandler(deps.Dispatch)
	r.POST("/api/ambulance/find-hospital", ambulanceHandler.FindHospital)
	r.POST("/api/ambulance/check-status", ambulanceHandler.CheckStatus)
	r.GET("/api/ambulance/stats", ambulanceHandler.Stats)

	hospitalHandler := handlers.NewHospitalHandler(deps.Dispatch, deps.Hospitals)
	r.GET("/api/hospital/pending-requests", hospitalHandler.PendingRequests)
	r.POST("/api/hospital/accept-request", hospitalHandler.AcceptRequest)
	r.POST("/api/hospital/reject-request", hospitalHandler.RejectRequest)
	r.GET("/api/hospitals", hospitalHandler.ListHospitals)
	r.GET("/api/hospitals/:id", hospitalHandler.GetHospital)
	r.PUT("/api/hospitals/:id/capacity", hospitalHandler.UpdateCapacity)

	return r
}
