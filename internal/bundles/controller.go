package bundles

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinebook/internal/shared/middleware"
	"cinebook/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListBundles handles GET /api/v1/bundles
func (c *Controller) ListBundles(ctx *gin.Context) {
	bundles, err := c.service.ListBundles(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bundles", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bundles retrieved successfully", bundles, nil)
}

// CreateBundle handles POST /api/v1/admin/bundles
func (c *Controller) CreateBundle(ctx *gin.Context) {
	var req CreateBundleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	bundle, err := c.service.CreateBundle(ctx.Request.Context(), req)
	if err != nil {
		c.respondError(ctx, err, "Failed to create bundle")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Bundle created successfully", bundle, nil)
}

// CreateOrder handles POST /api/v1/bundle-orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	order, err := c.service.CreateOrder(ctx.Request.Context(), req)
	if err != nil {
		c.respondError(ctx, err, "Failed to create order")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Order created successfully", order.ToResponse(true), nil)
}

// GetOrder handles GET /api/v1/bundle-orders/:reference
func (c *Controller) GetOrder(ctx *gin.Context) {
	order, err := c.service.GetOrder(ctx.Request.Context(), ctx.Param("reference"))
	if err != nil {
		c.respondError(ctx, err, "Failed to get order")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Order retrieved successfully", order.ToResponse(false), nil)
}

// MyOrders handles GET /api/v1/bundle-orders/my-orders
func (c *Controller) MyOrders(ctx *gin.Context) {
	email := middleware.PrincipalEmail(ctx)
	if email == "" {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	orders, err := c.service.ListCustomerOrders(ctx.Request.Context(), email)
	if err != nil {
		c.respondError(ctx, err, "Failed to list orders")
		return
	}

	resp := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, orders[i].ToResponse(false))
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Orders retrieved successfully", resp, nil)
}

// ConfirmPayment handles POST /api/v1/admin/bundle-orders/confirm-payment
func (c *Controller) ConfirmPayment(ctx *gin.Context) {
	var req ConfirmOrderPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	order, err := c.service.ConfirmPayment(ctx.Request.Context(), req.OrderReference)
	if err != nil {
		if errors.Is(err, ErrAlreadyConfirmed) {
			response.RespondJSON(ctx, "success", http.StatusOK, "Order was already confirmed", order.ToResponse(false), nil)
			return
		}
		c.respondError(ctx, err, "Failed to confirm payment")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payment confirmed successfully", order.ToResponse(false), nil)
}

// UploadPaymentProof handles POST /api/v1/bundle-orders/:reference/payment-proof
func (c *Controller) UploadPaymentProof(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("proof")
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "A 'proof' file is required", nil, err.Error())
		return
	}
	defer file.Close()

	order, err := c.service.AttachPaymentProof(ctx.Request.Context(), ctx.Param("reference"), file, header.Header.Get("Content-Type"))
	if err != nil {
		c.respondError(ctx, err, "Failed to upload payment proof")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payment proof uploaded successfully", order.ToResponse(false), nil)
}

// VerifyOrder handles POST /api/v1/admin/bundle-orders/scan
func (c *Controller) VerifyOrder(ctx *gin.Context) {
	var req VerifyOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result := c.service.VerifyOrder(ctx.Request.Context(), req.OrderReference, req.VerificationCode)
	response.RespondJSON(ctx, "success", http.StatusOK, result.Message, result, nil)
}

func (c *Controller) respondError(ctx *gin.Context, err error, fallback string) {
	var validationErr *ValidationError

	switch {
	case errors.As(err, &validationErr):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, validationErr.Message, nil, nil)
	case errors.Is(err, ErrBundleNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Bundle not found", nil, nil)
	case errors.Is(err, ErrOrderNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Order not found", nil, nil)
	case errors.Is(err, ErrInvalidState):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Operation not allowed in the current order state", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, err.Error())
	}
}
