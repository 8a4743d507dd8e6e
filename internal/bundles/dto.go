package bundles

import "time"

type CreateBundleRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=255"`
	Description    string  `json:"description" validate:"max=1000"`
	Price          float64 `json:"price" validate:"required,gt=0"`
	TicketIncluded bool    `json:"ticket_included"`
}

type CreateOrderRequest struct {
	BundleID      string `json:"bundle_id" validate:"required,uuid"`
	Quantity      int    `json:"quantity" validate:"required,min=1,max=10"`
	CustomerName  string `json:"customer_name" validate:"required,min=1,max=255"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	CustomerPhone string `json:"customer_phone" validate:"required,min=6,max=32"`

	// TotalPrice is advisory; the server recomputes it from the catalog.
	TotalPrice float64 `json:"total_price" validate:"required,min=0"`
}

type ConfirmOrderPaymentRequest struct {
	OrderReference string `json:"order_reference" validate:"required"`
}

type VerifyOrderRequest struct {
	OrderReference   string `json:"order_reference" validate:"required"`
	VerificationCode string `json:"verification_code" validate:"required"`
}

type OrderResponse struct {
	ID               string     `json:"id"`
	OrderReference   string     `json:"order_reference"`
	VerificationCode string     `json:"verification_code,omitempty"`
	BundleID         string     `json:"bundle_id"`
	BundleName       string     `json:"bundle_name"`
	Quantity         int        `json:"quantity"`
	CustomerName     string     `json:"customer_name"`
	CustomerEmail    string     `json:"customer_email"`
	CustomerPhone    string     `json:"customer_phone"`
	TotalPrice       float64    `json:"total_price"`
	Status           string     `json:"status"`
	PaymentProof     *string    `json:"payment_proof,omitempty"`
	IsVerified       bool       `json:"is_verified"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	OrderDate        time.Time  `json:"order_date"`
}

// ToResponse converts an order to its API representation. Mirrors the
// booking convention: the verification code appears only on creation.
func (o *BundleOrder) ToResponse(includeCode bool) OrderResponse {
	resp := OrderResponse{
		ID:             o.ID.String(),
		OrderReference: o.OrderReference,
		BundleID:       o.BundleID.String(),
		BundleName:     o.BundleName,
		Quantity:       o.Quantity,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		CustomerPhone:  o.CustomerPhone,
		TotalPrice:     o.TotalPrice,
		Status:         o.Status.String(),
		PaymentProof:   o.PaymentProof,
		IsVerified:     o.IsVerified,
		VerifiedAt:     o.VerifiedAt,
		OrderDate:      o.CreatedAt,
	}
	if includeCode {
		resp.VerificationCode = o.VerificationCode
	}
	return resp
}

// OrderVerificationResult mirrors the ticket scan result shape.
type OrderVerificationResult struct {
	Valid      bool       `json:"valid"`
	Reason     string     `json:"reason,omitempty"`
	Message    string     `json:"message"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	Order      *OrderInfo `json:"order_info,omitempty"`
}

type OrderInfo struct {
	OrderReference string  `json:"order_reference"`
	BundleName     string  `json:"bundle_name"`
	Quantity       int     `json:"quantity"`
	CustomerName   string  `json:"customer_name"`
	TotalPrice     float64 `json:"total_price"`
}

const (
	ReasonInvalidOrder = "invalid_order"
	ReasonAlreadyUsed  = "already_used"
)
