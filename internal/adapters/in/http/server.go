// Package http exposes the group-buy operations over an HTTP API.
//
// Authentication is handled upstream; the acting profile arrives in the
// X-Profile-ID header. Purchase and deficit settlement additionally require
// an Idempotency-Key header so that client retries never charge twice.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"groupbuy/internal/core/application/usecases/commands"
	"groupbuy/internal/core/application/usecases/queries"
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/pkg/errs"
)

const (
	profileHeader        = "X-Profile-ID"
	idempotencyKeyHeader = "Idempotency-Key"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler         commands.CreateOrderCommandHandler
	updateSettingsHandler      commands.UpdateOrderSettingsCommandHandler
	addPickupSlotHandler       commands.AddPickupSlotCommandHandler
	advanceOrderHandler        commands.AdvanceOrderCommandHandler
	lockOrderHandler           commands.LockOrderCommandHandler
	distributeOrderHandler     commands.DistributeOrderCommandHandler
	joinOrderHandler           commands.JoinOrderCommandHandler
	reviewParticipationHandler commands.ReviewParticipationCommandHandler
	selectPickupSlotHandler    commands.SelectPickupSlotCommandHandler
	reviewPickupSlotHandler    commands.ReviewPickupSlotCommandHandler
	purchaseHandler            commands.PurchaseCommandHandler
	settleDeficitHandler       commands.SettleSharerDeficitCommandHandler

	getOrderHandler queries.GetOrderQueryHandler
}

// NewServer creates an HTTP server over the given use case handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateSettingsHandler commands.UpdateOrderSettingsCommandHandler,
	addPickupSlotHandler commands.AddPickupSlotCommandHandler,
	advanceOrderHandler commands.AdvanceOrderCommandHandler,
	lockOrderHandler commands.LockOrderCommandHandler,
	distributeOrderHandler commands.DistributeOrderCommandHandler,
	joinOrderHandler commands.JoinOrderCommandHandler,
	reviewParticipationHandler commands.ReviewParticipationCommandHandler,
	selectPickupSlotHandler commands.SelectPickupSlotCommandHandler,
	reviewPickupSlotHandler commands.ReviewPickupSlotCommandHandler,
	purchaseHandler commands.PurchaseCommandHandler,
	settleDeficitHandler commands.SettleSharerDeficitCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:         createOrderHandler,
		updateSettingsHandler:      updateSettingsHandler,
		addPickupSlotHandler:       addPickupSlotHandler,
		advanceOrderHandler:        advanceOrderHandler,
		lockOrderHandler:           lockOrderHandler,
		distributeOrderHandler:     distributeOrderHandler,
		joinOrderHandler:           joinOrderHandler,
		reviewParticipationHandler: reviewParticipationHandler,
		selectPickupSlotHandler:    selectPickupSlotHandler,
		reviewPickupSlotHandler:    reviewPickupSlotHandler,
		purchaseHandler:            purchaseHandler,
		settleDeficitHandler:       settleDeficitHandler,
		getOrderHandler:            getOrderHandler,
	}
}

// RegisterRoutes binds all API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:code", s.GetOrder)
	api.PUT("/orders/:code/settings", s.UpdateSettings)
	api.POST("/orders/:code/pickup-slots", s.AddPickupSlot)

	api.POST("/orders/:code/advance", s.AdvanceOrder)
	api.POST("/orders/:code/lock", s.LockOrder)
	api.POST("/orders/:code/distribute", s.DistributeOrder)

	api.POST("/orders/:code/join", s.JoinOrder)
	api.POST("/orders/:code/participants/:participantId/review", s.ReviewParticipation)
	api.POST("/orders/:code/pickup-slot", s.SelectPickupSlot)
	api.POST("/orders/:code/participants/:participantId/pickup-review", s.ReviewPickupSlot)

	api.POST("/orders/:code/purchases", s.Purchase)
	api.POST("/orders/:code/deficit-settlement", s.SettleDeficit)
}

// ErrorResponse is the uniform API error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DeliveryRequest describes the delivery option of an order.
type DeliveryRequest struct {
	Kind       string `json:"kind"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Fee        int64  `json:"fee,omitempty"`
}

// SettingsRequest carries the sharer-configured order parameters.
type SettingsRequest struct {
	Visibility              string          `json:"visibility"`
	MinWeight               float64         `json:"min_weight"`
	MaxWeight               *float64        `json:"max_weight,omitempty"`
	Delivery                DeliveryRequest `json:"delivery"`
	TakeRatePct             int             `json:"take_rate_pct"`
	Currency                string          `json:"currency"`
	LogisticsFee            int64           `json:"logistics_fee"`
	PlatformFeePct          float64         `json:"platform_fee_pct"`
	PlatformFlatFeePerUnit  int64           `json:"platform_flat_fee_per_unit"`
	AutoApproveParticipants bool            `json:"auto_approve_participants"`
	AutoApprovePickups      bool            `json:"auto_approve_pickups"`
	ShowParticipants        bool            `json:"show_participants"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	Code       string          `json:"code"`
	ProducerID string          `json:"producer_id"`
	Settings   SettingsRequest `json:"settings"`
}

// CreateOrder handles POST /api/v1/orders. The caller becomes the sharer.
func (s *Server) CreateOrder(ctx echo.Context) error {
	profileID, err := profileID(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	var body CreateOrderRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	producerID, err := kernel.UUIDFromString(body.ProducerID)
	if err != nil {
		return errorJSON(ctx, err)
	}

	settings, err := toSettings(body.Settings)
	if err != nil {
		return errorJSON(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), body.Code, profileID, producerID, settings)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// UpdateSettings handles PUT /api/v1/orders/{code}/settings.
func (s *Server) UpdateSettings(ctx echo.Context) error {
	profileID, err := profileID(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	var body SettingsRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	settings, err := toSettings(body)
	if err != nil {
		return errorJSON(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderSettingsCommand(ctx.Param("code"), profileID, settings)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err = s.updateSettingsHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PickupSlotRequest is the body of POST /orders/{code}/pickup-slots.
// Exactly one of weekday and date is set.
type PickupSlotRequest struct {
	Weekday     *int    `json:"weekday,omitempty"`
	Date        *string `json:"date,omitempty"`
	StartMinute int     `json:"start_minute"`
	EndMinute   int     `json:"end_minute"`
	Position    int     `json:"position"`
}

// AddPickupSlot handles POST /api/v1/orders/{code}/pickup-slots.
func (s *Server) AddPickupSlot(ctx echo.Context) error {
	profileID, err := profileID(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	var body PickupSlotRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	var cmd commands.AddPickupSlotCommand
	switch {
	case body.Weekday != nil:
		cmd, err = commands.NewWeeklyAddPickupSlotCommand(
			ctx.Param("code"), profileID, time.Weekday(*body.Weekday),
			body.StartMinute, body.EndMinute, body.Position)
	case body.Date != nil:
		var day time.Time
		day, err = time.Parse("2006-01-02", *body.Date)
		if err != nil {
			return badRequest(ctx, "date must be formatted as 2006-01-02")
		}
		cmd, err = commands.NewDatedAddPickupSlotCommand(
			ctx.Param("code"), profileID, day,
			body.StartMinute, body.EndMinute, body.Position)
	default:
		return badRequest(ctx, "either weekday or date is required")
	}
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err = s.addPickupSlotHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// AdvanceRequest is the body of POST /orders/{code}/advance.
type AdvanceRequest struct {
	Target string `json:"target"`
}

// AdvanceOrder handles POST /api/v1/orders/{code}/advance for the unguarded
// lifecycle edges, including cancellation. Locking and distribution have
// dedicated endpoints.
func (s *Server) AdvanceOrder(ctx echo.Context) error {
	profileID, err := profileID(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	var body AdvanceRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	target, ok := statusFromString(body.Target)
	if !ok {
		return badRequest(ctx, "unknown target status "+body.Target)
	}

	cmd, err := commands.NewAdvanceOrderCommand(ctx.Param("code"), profileID, target)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err = s.advanceOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// LockOrder handles POST /api/v1/orders/{code}/lock.
func (s *Server) LockOrder(ctx echo.Context) error {
	profileID, err := profileID(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	cmd, err := commands.NewLockOrderCommand(ctx.Param("code"), profileID)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err = s.lockOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DistributeOrder handles POST /api/v1/orders/{code}/distribute.
func (s *Server) DistributeOrder(ctx echo.Context) error {
	profileID, err := profileID(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	cmd, err := commands.NewDistributeOrderCommand(ctx.Param("code"), profileID)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err = s.distributeOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// JoinOrder handles POST /api/v1/orders/{code}/join.
func (s *Server) JoinOrder(ctx echo.Context) error {
	profileID, err := profileID(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	cmd, err := commands.NewJoinOrderCommand(ctx.Param("code"), profileID)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err = s.joinOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// ReviewRequest is the body of the participation and pickup review endpoints.
type ReviewRequest struct {
	Approve bool `json:"approve"`
}

// ReviewParticipation handles POST /api/v1/orders/{code}/participants/{participantId}/review.
func (s *Server) ReviewParticipation(ctx echo.Context) error {
	profileID, err := profileID(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	participantID, err := kernel.UUIDFromString(ctx.Param("participantId"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	var body ReviewRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewReviewParticipationCommand(ctx.Param("code"), profileID, participantID, body.Approve)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err = s.reviewParticipationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SelectSlotRequest is the body of POST /orders/{code}/pickup-slot.
type SelectSlotRequest struct {
	SlotID string `json:"slot_id"`
	Day    string `json:"day"`
}

// SelectPickupSlot handles POST /api/v1/orders/{code}/pickup-slot.
func (s *Server) SelectPickupSlot(ctx echo.Context) error {
	profileID, err := profileID(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	var body SelectSlotRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	slotID, err := kernel.UUIDFromString(body.SlotID)
	if err != nil {
		return errorJSON(ctx, err)
	}

	day, err := time.Parse("2006-01-02", body.Day)
	if err != nil {
		return badRequest(ctx, "day must be formatted as 2006-01-02")
	}

	cmd, err := commands.NewSelectPickupSlotCommand(ctx.Param("code"), profileID, slotID, day)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err = s.selectPickupSlotHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReviewPickupSlot handles POST /api/v1/orders/{code}/participants/{participantId}/pickup-review.
func (s *Server) ReviewPickupSlot(ctx echo.Context) error {
	profileID, err := profileID(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	participantID, err := kernel.UUIDFromString(ctx.Param("participantId"))
	if err != nil {
		return errorJSON(ctx, err)
	}

	var body ReviewRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewReviewPickupSlotCommand(ctx.Param("code"), profileID, participantID, body.Approve)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err = s.reviewPickupSlotHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PurchaseLineRequest is one requested product line.
type PurchaseLineRequest struct {
	ProductID string  `json:"product_id"`
	LotID     *string `json:"lot_id,omitempty"`
	Quantity  int     `json:"quantity"`
}

// PurchaseRequest is the body of POST /orders/{code}/purchases.
type PurchaseRequest struct {
	Lines []PurchaseLineRequest `json:"lines"`
}

// Purchase handles POST /api/v1/orders/{code}/purchases.
func (s *Server) Purchase(ctx echo.Context) error {
	profileID, err := profileID(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	idempotencyKey := ctx.Request().Header.Get(idempotencyKeyHeader)
	if idempotencyKey == "" {
		return badRequest(ctx, idempotencyKeyHeader+" header is required")
	}

	var body PurchaseRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	lines := make([]commands.PurchaseLine, 0, len(body.Lines))
	for _, lineReq := range body.Lines {
		productID, lineErr := kernel.UUIDFromString(lineReq.ProductID)
		if lineErr != nil {
			return errorJSON(ctx, lineErr)
		}

		var lotID *kernel.UUID
		if lineReq.LotID != nil {
			lot, lotErr := kernel.UUIDFromString(*lineReq.LotID)
			if lotErr != nil {
				return errorJSON(ctx, lotErr)
			}
			lotID = &lot
		}

		lines = append(lines, commands.PurchaseLine{
			ProductID: productID,
			LotID:     lotID,
			Quantity:  lineReq.Quantity,
		})
	}

	cmd, err := commands.NewPurchaseCommand(ctx.Param("code"), profileID, idempotencyKey, lines)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err = s.purchaseHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// SettleDeficit handles POST /api/v1/orders/{code}/deficit-settlement.
func (s *Server) SettleDeficit(ctx echo.Context) error {
	profileID, err := profileID(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	idempotencyKey := ctx.Request().Header.Get(idempotencyKeyHeader)
	if idempotencyKey == "" {
		return badRequest(ctx, idempotencyKeyHeader+" header is required")
	}

	cmd, err := commands.NewSettleSharerDeficitCommand(ctx.Param("code"), profileID, idempotencyKey)
	if err != nil {
		return errorJSON(ctx, err)
	}

	if err = s.settleDeficitHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// GetOrder handles GET /api/v1/orders/{code}. The response is scoped to the
// viewer's role.
func (s *Server) GetOrder(ctx echo.Context) error {
	profileID, err := profileID(ctx)
	if err != nil {
		return errorJSON(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(ctx.Param("code"), profileID)
	if err != nil {
		return errorJSON(ctx, err)
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(response))
}

func profileID(ctx echo.Context) (kernel.UUID, error) {
	raw := ctx.Request().Header.Get(profileHeader)
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError(profileHeader + " header")
	}
	return kernel.UUIDFromString(raw)
}

func toSettings(body SettingsRequest) (order.Settings, error) {
	visibility, err := visibilityFromString(body.Visibility)
	if err != nil {
		return order.Settings{}, err
	}

	delivery, err := toDeliveryOption(body.Delivery)
	if err != nil {
		return order.Settings{}, err
	}

	var maxWeight *kernel.Kilograms
	if body.MaxWeight != nil {
		weight := kernel.Kilograms(*body.MaxWeight)
		maxWeight = &weight
	}

	return order.Settings{
		Visibility:              visibility,
		MinWeight:               kernel.Kilograms(body.MinWeight),
		MaxWeight:               maxWeight,
		Delivery:                delivery,
		TakeRatePct:             body.TakeRatePct,
		Currency:                kernel.Currency(body.Currency),
		LogisticsFee:            kernel.Cents(body.LogisticsFee),
		PlatformFeePct:          body.PlatformFeePct,
		PlatformFlatFeePerUnit:  kernel.Cents(body.PlatformFlatFeePerUnit),
		AutoApproveParticipants: body.AutoApproveParticipants,
		AutoApprovePickups:      body.AutoApprovePickups,
		ShowParticipants:        body.ShowParticipants,
	}, nil
}

func toDeliveryOption(body DeliveryRequest) (order.DeliveryOption, error) {
	address := order.Address{
		Street:     body.Street,
		City:       body.City,
		PostalCode: body.PostalCode,
	}

	switch body.Kind {
	case "producer_pickup":
		return order.NewProducerPickupOption(), nil
	case "producer_delivery":
		return order.NewProducerDeliveryOption(address, kernel.Cents(body.Fee))
	case "chronofresh":
		return order.NewChronofreshOption(address, kernel.Cents(body.Fee))
	default:
		return order.DeliveryOption{}, errs.NewValueIsInvalidError("delivery kind")
	}
}

func visibilityFromString(raw string) (order.Visibility, error) {
	switch raw {
	case "public":
		return order.Public, nil
	case "private":
		return order.Private, nil
	default:
		return 0, errs.NewValueIsInvalidError("visibility")
	}
}

func statusFromString(raw string) (order.Status, bool) {
	statuses := []order.Status{
		order.Draft, order.Open, order.Locked, order.Confirmed, order.Preparing,
		order.Prepared, order.Delivered, order.Distributed, order.Finished, order.Cancelled,
	}
	for _, status := range statuses {
		if status.String() == raw {
			return status, true
		}
	}
	return 0, false
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// errorJSON maps domain and application errors to HTTP status codes.
func errorJSON(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrExternalProvider):
		code = http.StatusBadGateway
	case isValidationError(err):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsOutOfRange)
}
