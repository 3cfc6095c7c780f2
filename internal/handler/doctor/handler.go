package doctor

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/booker-api/internal/model"
	availabilityService "github.com/jwalitptl/booker-api/internal/service/availability"
	doctorService "github.com/jwalitptl/booker-api/internal/service/doctor"
	"github.com/jwalitptl/booker-api/pkg/errors"
	"github.com/jwalitptl/booker-api/pkg/httputil"
)

type Handler struct {
	service      *doctorService.Service
	availability *availabilityService.Service
}

func NewHandler(service *doctorService.Service, availability *availabilityService.Service) *Handler {
	return &Handler{service: service, availability: availability}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, secured gin.HandlerFunc) {
	rg.GET("/specialties", h.ListSpecialties)

	doctors := rg.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/specialty/:specialty", h.ListBySpecialty)
		doctors.GET("/:doctorId", h.GetDoctor)
		doctors.POST("/:doctorId/availability", h.GetAvailability)

		doctors.POST("", secured, h.CreateDoctor)
		doctors.PUT("/:doctorId", secured, h.UpdateDoctor)
		doctors.DELETE("/:doctorId", secured, h.DeleteDoctor)
	}
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	doctor, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, doctor)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	doctor, err := h.service.Get(c.Request.Context(), c.Param("doctorId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	doctor, err := h.service.Update(c.Request.Context(), c.Param("doctorId"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("doctorId")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, nil)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) ListBySpecialty(c *gin.Context) {
	doctors, err := h.service.ListBySpecialty(c.Request.Context(), c.Param("specialty"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) ListSpecialties(c *gin.Context) {
	specialties, err := h.service.ListSpecialties(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, specialties)
}

func (h *Handler) GetAvailability(c *gin.Context) {
	var req model.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	resp, err := h.availability.GetSlots(c.Request.Context(), c.Param("doctorId"), req.Date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resp)
}
