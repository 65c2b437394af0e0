package handler

import (
	"net/http"

	"gemcatalog/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
)

type InterestHandler struct {
	interestService service.InterestServiceInterface
}

func NewInterestHandler(interestService service.InterestServiceInterface) *InterestHandler {
	return &InterestHandler{interestService: interestService}
}

// RecordInterest обрабатывает POST /items/:code/interest (анонимно)
func (h *InterestHandler) RecordInterest(c *gin.Context) {
	resp, err := h.interestService.RecordInterest(
		c.Request.Context(),
		c.Param("code"),
		c.Request.Referer(),
		c.Request.UserAgent(),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

// Summary обрабатывает GET /admin/interest
func (h *InterestHandler) Summary(c *gin.Context) {
	summary, err := h.interestService.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
