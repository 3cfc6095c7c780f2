package appointment

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/booker-api/internal/model"
	bookingService "github.com/jwalitptl/booker-api/internal/service/booking"
	"github.com/jwalitptl/booker-api/pkg/errors"
	"github.com/jwalitptl/booker-api/pkg/httputil"
)

type Handler struct {
	service *bookingService.Service
}

func NewHandler(service *bookingService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, secured gin.HandlerFunc) {
	appointments := rg.Group("/appointments")
	{
		appointments.GET("/:id", h.GetAppointment)
		appointments.POST("/book", secured, h.BookAppointment)
		appointments.POST("/:id/cancel", secured, h.CancelAppointment)
	}
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	result, err := h.service.Book(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, result)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"status": string(model.AppointmentStatusCancelled)})
}

func (h *Handler) GetAppointment(c *gin.Context) {
	apt, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}
