package notifications

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cinebook/internal/shared/utils/response"
	"cinebook/pkg/logger"
)

// BroadcastRequest is the admin announcement payload.
type BroadcastRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=200"`
	Message  string `json:"message" binding:"required,min=1,max=2000"`
	Audience string `json:"audience" binding:"omitempty,oneof=all customers staff"`
}

type Controller struct {
	port Port
	log  *logger.Logger
}

func NewController(port Port, log *logger.Logger) *Controller {
	return &Controller{port: port, log: log}
}

// Broadcast publishes an admin announcement to the event stream.
func (ctrl *Controller) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid broadcast payload", nil, err.Error())
		return
	}

	if req.Audience == "" {
		req.Audience = "all"
	}

	if err := ctrl.port.PublishBroadcast(c.Request.Context(), req.Title, req.Message, req.Audience); err != nil {
		ctrl.log.Error("Failed to publish broadcast", "error", err, "title", req.Title)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to publish announcement", nil, nil)
		return
	}

	ctrl.log.Info("Broadcast published", "title", req.Title, "audience", req.Audience)
	response.RespondJSON(c, "success", http.StatusAccepted, "Announcement queued for delivery", gin.H{
		"title":    req.Title,
		"audience": req.Audience,
	}, nil)
}
