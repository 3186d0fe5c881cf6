package promotion

import (
	"net/http"
	"innkeeper/infras/otel"
	"innkeeper/internal/access"
	"innkeeper/internal/domains/promotion/model"
	"innkeeper/internal/domains/promotion/model/dto"
	"innkeeper/internal/domains/promotion/service"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	"innkeeper/shared/timezone"
	"innkeeper/shared/validator"
	"innkeeper/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Promotion
	otel    otel.Otel
}

func New(service service.Promotion, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/promotions", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePromotion)
		routerGroup.Get("/", handler.GetPromotions)
		routerGroup.Get("/validate", handler.ValidatePromotion)
		routerGroup.Get("/{id}", handler.GetPromotionByID)
		routerGroup.Patch("/{id}", handler.UpdatePromotion)
		routerGroup.Delete("/{id}", handler.DeletePromotion)
		routerGroup.Post("/{id}/recover", handler.RecoverPromotion)
	})
}

// CreatePromotion handles the creation of a new promotion.
// @Summary Create a new promotion
// @Description Create a new discount code with its type, value, validity window, and usage cap.
// @Tags Promotion
// @Accept json
// @Produce json
// @Param request body dto.CreatePromotionRequest true "Create Promotion Request"
// @Success 201 {object} response.Message "Promotion created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/promotions [post]
// @Security BearerAuth
func (handler *Handler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePromotion")
	defer scope.End()

	req := dto.CreatePromotionRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, access.FromContext(ctx), req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create promotion")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Promotion created successfully")

	response.WithMessage(w, http.StatusCreated, "Promotion created successfully")
}

// GetPromotions retrieves all promotions based on query parameters.
// @Summary Get all promotions
// @Description Retrieve all promotions with optional filtering and pagination.
// @Tags Promotion
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param code query string false "Filter by code (partial match)"
// @Param discount_type query string false "Filter by discount type (percentage or fixed)"
// @Param is_active query string false "Filter by active flag (true or false)"
// @Success 200 {object} response.Data[dto.GetPromotionsResponse] "List of promotions"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/promotions [get]
// @Security BearerAuth
func (handler *Handler) GetPromotions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPromotions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if code := r.URL.Query().Get(model.FieldCode); code != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCode,
			Operator: gDto.FilterOperatorLike,
			Value:    code,
			Table:    model.TableName,
		})
	}

	if discountType := r.URL.Query().Get(model.FieldDiscountType); discountType != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldDiscountType,
			Operator: gDto.FilterOperatorEq,
			Value:    discountType,
			Table:    model.TableName,
		})
	}

	if isActive := r.URL.Query().Get(model.FieldIsActive); isActive != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsActive,
			Operator: gDto.FilterOperatorEq,
			Value:    shared.ConvertStringToBool(isActive),
			Table:    model.TableName,
		})
	}

	promotions, err := handler.service.GetAll(ctx, access.FromContext(ctx), queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get promotions")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Promotions retrieved successfully")

	response.WithJSON(w, http.StatusOK, promotions)
}

// ValidatePromotion checks a promotion code for the current moment.
// @Summary Validate a promotion code
// @Description Check whether a promotion code is currently valid and return its discount terms.
// @Tags Promotion
// @Accept json
// @Produce json
// @Param code query string true "Promotion code"
// @Success 200 {object} response.Data[dto.ValidatePromotionResponse] "Promotion is valid"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/promotions/validate [get]
func (handler *Handler) ValidatePromotion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ValidatePromotion")
	defer scope.End()

	code := r.URL.Query().Get(model.FieldCode)
	if code == "" {
		err := failure.BadRequestFromString("code is required")
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate promotion")

		response.WithError(w, err)

		return
	}

	promotion, err := handler.service.Validate(ctx, code, timezone.Now())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate promotion")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Promotion validated successfully")

	response.WithJSON(w, http.StatusOK, promotion)
}

// GetPromotionByID retrieves a promotion by its ID.
// @Summary Get a promotion by ID
// @Description Retrieve a promotion with its usage count by its unique identifier.
// @Tags Promotion
// @Accept json
// @Produce json
// @Param id path string true "Promotion ID"
// @Success 200 {object} response.Data[dto.PromotionResponse] "Promotion details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/promotions/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetPromotionByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPromotionByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	promotion, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get promotion by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Promotion retrieved successfully")

	response.WithJSON(w, http.StatusOK, promotion)
}

// UpdatePromotion updates an existing promotion by its ID.
// @Summary Update a promotion by ID
// @Description Update the description, validity window, usage cap, or active flag of a promotion.
// @Tags Promotion
// @Accept json
// @Produce json
// @Param id path string true "Promotion ID"
// @Param request body dto.UpdatePromotionRequest true "Update Promotion Request"
// @Success 200 {object} response.Message "Promotion updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/promotions/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdatePromotion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePromotion")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdatePromotionRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, access.FromContext(ctx), req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update promotion")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Promotion updated successfully")

	response.WithMessage(w, http.StatusOK, "Promotion updated successfully")
}

// DeletePromotion soft-deletes a promotion by its ID.
// @Summary Delete a promotion by ID
// @Description Soft-delete a promotion using its unique identifier.
// @Tags Promotion
// @Accept json
// @Produce json
// @Param id path string true "Promotion ID"
// @Success 200 {object} response.Message "Promotion deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/promotions/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePromotion")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.SoftDelete(ctx, access.FromContext(ctx), id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete promotion")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Promotion deleted successfully")

	response.WithMessage(w, http.StatusOK, "Promotion deleted successfully")
}

// RecoverPromotion restores a soft-deleted promotion.
// @Summary Recover a deleted promotion
// @Description Restore a soft-deleted promotion using its unique identifier.
// @Tags Promotion
// @Accept json
// @Produce json
// @Param id path string true "Promotion ID"
// @Success 200 {object} response.Message "Promotion recovered successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/promotions/{id}/recover [post]
// @Security BearerAuth
func (handler *Handler) RecoverPromotion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecoverPromotion")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Recover(ctx, access.FromContext(ctx), id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to recover promotion")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Promotion recovered successfully")

	response.WithMessage(w, http.StatusOK, "Promotion recovered successfully")
}
