package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/booker-api/internal/model"
	bookingService "github.com/jwalitptl/booker-api/internal/service/booking"
	patientService "github.com/jwalitptl/booker-api/internal/service/patient"
	"github.com/jwalitptl/booker-api/pkg/errors"
	"github.com/jwalitptl/booker-api/pkg/httputil"
)

type Handler struct {
	service *patientService.Service
	booking *bookingService.Service
}

func NewHandler(service *patientService.Service, booking *bookingService.Service) *Handler {
	return &Handler{service: service, booking: booking}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, secured gin.HandlerFunc) {
	patients := rg.Group("/patients")
	{
		patients.POST("/register", secured, h.RegisterPatient)
		patients.GET("/:patientId", h.GetPatient)
		patients.GET("/:patientId/appointments", h.ListAppointments)
	}
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var req model.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	patient, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) GetPatient(c *gin.Context) {
	patient, err := h.service.Get(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	// Resolve first so an unknown id is a 404 rather than an empty list.
	if _, err := h.service.Get(c.Request.Context(), c.Param("patientId")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	appointments, err := h.booking.ListForPatient(c.Request.Context(), c.Param("patientId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}
