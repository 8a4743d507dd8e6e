package showtimes

import (
	"errors"
	"net/http"
	"strconv"

	"cinebook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListShowtimes handles GET /api/v1/showtimes
func (c *Controller) ListShowtimes(ctx *gin.Context) {
	var (
		result []Showtime
		err    error
	)

	if upcoming := ctx.Query("upcoming"); upcoming == "true" {
		limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
		result, err = c.service.ListUpcoming(ctx.Request.Context(), limit)
	} else {
		result, err = c.service.ListShowtimes(ctx.Request.Context())
	}

	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list showtimes", nil, err.Error())
		return
	}

	resp := make([]ShowtimeResponse, 0, len(result))
	for i := range result {
		resp = append(resp, result[i].ToResponse())
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Showtimes retrieved successfully", resp, nil)
}

// GetShowtime handles GET /api/v1/showtimes/:id
func (c *Controller) GetShowtime(ctx *gin.Context) {
	showtime, err := c.service.GetShowtime(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Showtime not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to get showtime", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Showtime retrieved successfully", showtime.ToResponse(), nil)
}

// CreateShowtime handles POST /api/v1/admin/showtimes
func (c *Controller) CreateShowtime(ctx *gin.Context) {
	var req CreateShowtimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	showtime, err := c.service.CreateShowtime(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create showtime", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Showtime created successfully", showtime.ToResponse(), nil)
}
