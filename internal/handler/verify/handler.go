package verify

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/booker-api/internal/model"
	otpService "github.com/jwalitptl/booker-api/internal/service/otp"
	"github.com/jwalitptl/booker-api/pkg/errors"
	"github.com/jwalitptl/booker-api/pkg/httputil"
)

type Handler struct {
	service *otpService.Service
}

func NewHandler(service *otpService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	verify := rg.Group("/verify")
	{
		verify.POST("/send", h.SendCode)
		verify.POST("/check", h.CheckCode)
	}
}

func (h *Handler) SendCode(c *gin.Context) {
	var req model.SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	if err := h.service.Issue(c.Request.Context(), req.Contact); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"sent": true})
}

func (h *Handler) CheckCode(c *gin.Context) {
	var req model.CheckCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	if err := h.service.Verify(c.Request.Context(), req.Contact, req.Code); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, model.CheckCodeResponse{Verified: true})
}
