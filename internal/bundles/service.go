package bundles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"cinebook/pkg/logger"
	"cinebook/pkg/storage"

	"cinebook/internal/shared/utils/reference"
)

// Service implements the bundle catalog and the bundle order lifecycle. The
// lifecycle intentionally mirrors bookings (pending, payment review,
// single-use verification) without any seat machinery.
type Service interface {
	ListBundles(ctx context.Context) ([]Bundle, error)
	CreateBundle(ctx context.Context, req CreateBundleRequest) (*Bundle, error)

	CreateOrder(ctx context.Context, req CreateOrderRequest) (*BundleOrder, error)
	GetOrder(ctx context.Context, orderReference string) (*BundleOrder, error)
	ListCustomerOrders(ctx context.Context, email string) ([]BundleOrder, error)
	ConfirmPayment(ctx context.Context, orderReference string) (*BundleOrder, error)
	AttachPaymentProof(ctx context.Context, orderReference string, proof io.Reader, contentType string) (*BundleOrder, error)
	VerifyOrder(ctx context.Context, orderReference, verificationCode string) *OrderVerificationResult
}

type service struct {
	repo     Repository
	storage  storage.Service
	validate *validator.Validate
	log      *logger.Logger
}

func NewService(repo Repository, storageService storage.Service, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		storage:  storageService,
		validate: validator.New(),
		log:      log,
	}
}

func (s *service) ListBundles(ctx context.Context) ([]Bundle, error) {
	return s.repo.ListBundles(ctx)
}

func (s *service) CreateBundle(ctx context.Context, req CreateBundleRequest) (*Bundle, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid bundle: %v", err)
	}

	bundle := &Bundle{
		ID:             uuid.New(),
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		TicketIncluded: req.TicketIncluded,
		Active:         true,
	}
	if err := s.repo.CreateBundle(ctx, bundle); err != nil {
		return nil, fmt.Errorf("failed to create bundle: %w", err)
	}
	return bundle, nil
}

// CreateOrder places a bundle order. The total is recomputed from the
// catalog price; the client's figure is checked, not trusted.
func (s *service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*BundleOrder, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid order: %v", err)
	}

	bundleID, err := uuid.Parse(req.BundleID)
	if err != nil {
		return nil, NewValidationError("invalid bundle id")
	}

	bundle, err := s.repo.GetBundleByID(ctx, bundleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBundleNotFound
		}
		return nil, fmt.Errorf("failed to look up bundle: %w", err)
	}
	if !bundle.Active {
		return nil, ErrBundleNotFound
	}

	total := float64(req.Quantity) * bundle.Price
	if math.Abs(total-req.TotalPrice) > 0.005 {
		return nil, NewValidationError("total price mismatch: expected %.2f", total)
	}

	orderRef, err := reference.NewBundleOrderReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order reference: %w", err)
	}
	verificationCode, err := reference.NewVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	order := &BundleOrder{
		ID:               uuid.New(),
		BundleID:         bundle.ID,
		BundleName:       bundle.Name,
		Quantity:         req.Quantity,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		TotalPrice:       total,
		Status:           StatusPending,
		OrderReference:   orderRef,
		VerificationCode: verificationCode,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.log.Info("Bundle order created",
		"order_reference", order.OrderReference,
		"bundle", bundle.Name,
		"quantity", order.Quantity,
	)
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, orderReference string) (*BundleOrder, error) {
	order, err := s.repo.GetOrderByReference(ctx, orderReference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *service) ListCustomerOrders(ctx context.Context, email string) ([]BundleOrder, error) {
	return s.repo.ListOrdersByCustomerEmail(ctx, email)
}

func (s *service) ConfirmPayment(ctx context.Context, orderReference string) (*BundleOrder, error) {
	order, err := s.GetOrder(ctx, orderReference)
	if err != nil {
		return nil, err
	}

	if order.Status == StatusConfirmed {
		return order, ErrAlreadyConfirmed
	}
	if !order.Status.CanBeConfirmed() {
		return nil, ErrInvalidState
	}

	if err := s.repo.UpdateOrderStatus(ctx, order.ID, StatusConfirmed); err != nil {
		return nil, fmt.Errorf("failed to confirm order: %w", err)
	}
	order.Status = StatusConfirmed

	s.log.Info("Bundle order confirmed", "order_reference", order.OrderReference)
	return order, nil
}

func (s *service) AttachPaymentProof(ctx context.Context, orderReference string, proof io.Reader, contentType string) (*BundleOrder, error) {
	order, err := s.GetOrder(ctx, orderReference)
	if err != nil {
		return nil, err
	}
	if order.Status != StatusPending {
		return nil, ErrInvalidState
	}

	proofRef, err := s.storage.Save(ctx, proof, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store payment proof: %w", err)
	}

	if err := s.repo.UpdatePaymentProof(ctx, order.ID, proofRef); err != nil {
		return nil, err
	}
	order.PaymentProof = &proofRef
	return order, nil
}

// VerifyOrder is the single-use pickup check. Same anti-enumeration
// behavior as ticket verification: ErrOrderInvalid collapses unknown
// reference and wrong code into one indistinguishable outcome.
func (s *service) VerifyOrder(ctx context.Context, orderReference, verificationCode string) *OrderVerificationResult {
	order, err := s.redeemableOrder(ctx, orderReference, verificationCode)
	if errors.Is(err, ErrOrderInvalid) {
		return &OrderVerificationResult{
			Valid:   false,
			Reason:  ReasonInvalidOrder,
			Message: "Order not found or verification code mismatch",
		}
	}

	orderInfo := &OrderInfo{
		OrderReference: order.OrderReference,
		BundleName:     order.BundleName,
		Quantity:       order.Quantity,
		CustomerName:   order.CustomerName,
		TotalPrice:     order.TotalPrice,
	}

	now := time.Now()
	won, err := s.repo.MarkVerified(ctx, order.ID, now)
	if err != nil {
		s.log.Error("Order verification write failed", "error", err, "order_reference", orderReference)
		return &OrderVerificationResult{
			Valid:   false,
			Reason:  ReasonInvalidOrder,
			Message: "Verification failed, try again",
		}
	}
	if !won {
		verifiedAt := order.VerifiedAt
		if refreshed, err := s.repo.GetOrderByReference(ctx, orderReference); err == nil {
			verifiedAt = refreshed.VerifiedAt
		}
		return &OrderVerificationResult{
			Valid:      false,
			Reason:     ReasonAlreadyUsed,
			Message:    "Order has already been picked up",
			VerifiedAt: verifiedAt,
			Order:      orderInfo,
		}
	}

	s.log.Info("Bundle order verified", "order_reference", orderReference)
	return &OrderVerificationResult{
		Valid:      true,
		Message:    "Order verified, hand over the bundle",
		VerifiedAt: &now,
		Order:      orderInfo,
	}
}

// redeemableOrder resolves the reference and checks the pickup credentials.
// Every failure mode maps to ErrOrderInvalid so callers cannot tell which
// half of a guess was wrong.
func (s *service) redeemableOrder(ctx context.Context, orderReference, verificationCode string) (*BundleOrder, error) {
	order, err := s.repo.GetOrderByReference(ctx, orderReference)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("Order lookup failed", "error", err)
		}
		return nil, ErrOrderInvalid
	}
	if order.VerificationCode != verificationCode || !order.IsConfirmed() {
		return nil, ErrOrderInvalid
	}
	return order, nil
}
