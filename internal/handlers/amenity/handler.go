package amenity

import (
	"net/http"
	"innkeeper/infras/otel"
	"innkeeper/internal/access"
	"innkeeper/internal/domains/amenity/model"
	"innkeeper/internal/domains/amenity/model/dto"
	"innkeeper/internal/domains/amenity/service"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/validator"
	"innkeeper/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Amenity
	otel    otel.Otel
}

func New(service service.Amenity, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/amenities", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateAmenity)
		routerGroup.Get("/", handler.GetAmenities)
		routerGroup.Get("/{id}", handler.GetAmenityByID)
		routerGroup.Patch("/{id}", handler.UpdateAmenity)
		routerGroup.Put("/{id}/icon", handler.UploadAmenityIcon)
		routerGroup.Delete("/{id}", handler.DeleteAmenity)
		routerGroup.Post("/{id}/recover", handler.RecoverAmenity)
	})
}

// CreateAmenity handles the creation of a new amenity.
// @Summary Create a new amenity
// @Description Create a new amenity available to room types.
// @Tags Amenity
// @Accept json
// @Produce json
// @Param request body dto.CreateAmenityRequest true "Create Amenity Request"
// @Success 201 {object} response.Message "Amenity created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/amenities [post]
// @Security BearerAuth
func (handler *Handler) CreateAmenity(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAmenity")
	defer scope.End()

	req := dto.CreateAmenityRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, access.FromContext(ctx), req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create amenity")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Amenity created successfully")

	response.WithMessage(w, http.StatusCreated, "Amenity created successfully")
}

// GetAmenities retrieves all amenities based on query parameters.
// @Summary Get all amenities
// @Description Retrieve all amenities with optional filtering and pagination.
// @Tags Amenity
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name (partial match)"
// @Success 200 {object} response.Data[dto.GetAmenitiesResponse] "List of amenities"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/amenities [get]
func (handler *Handler) GetAmenities(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAmenities")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if name := r.URL.Query().Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	amenities, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get amenities")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Amenities retrieved successfully")

	response.WithJSON(w, http.StatusOK, amenities)
}

// GetAmenityByID retrieves an amenity by its ID.
// @Summary Get an amenity by ID
// @Description Retrieve an amenity by its unique identifier.
// @Tags Amenity
// @Accept json
// @Produce json
// @Param id path string true "Amenity ID"
// @Success 200 {object} response.Data[dto.AmenityResponse] "Amenity details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/amenities/{id} [get]
func (handler *Handler) GetAmenityByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAmenityByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	amenity, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get amenity by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Amenity retrieved successfully")

	response.WithJSON(w, http.StatusOK, amenity)
}

// UpdateAmenity updates an existing amenity by its ID.
// @Summary Update an amenity by ID
// @Description Update the details of an existing amenity.
// @Tags Amenity
// @Accept json
// @Produce json
// @Param id path string true "Amenity ID"
// @Param request body dto.UpdateAmenityRequest true "Update Amenity Request"
// @Success 200 {object} response.Message "Amenity updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/amenities/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateAmenity(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAmenity")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateAmenityRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, access.FromContext(ctx), req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update amenity")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Amenity updated successfully")

	response.WithMessage(w, http.StatusOK, "Amenity updated successfully")
}

// UploadAmenityIcon uploads the icon of an amenity.
// @Summary Upload an amenity icon
// @Description Upload the icon of an amenity and return its URL.
// @Tags Amenity
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Amenity ID"
// @Param file formData file true "Amenity icon"
// @Success 200 {object} response.Data[string] "Amenity icon uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/amenities/{id}/icon [put]
// @Security BearerAuth
func (handler *Handler) UploadAmenityIcon(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadAmenityIcon")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, err)

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read uploaded file")

		response.WithError(w, err)

		return
	}
	defer file.Close()

	upload := dto.UploadIconRequest{Icon: fileHeader}
	if err := validator.ValidateStruct(&upload); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("rejected uploaded file")

		response.WithError(w, err)

		return
	}

	url, err := handler.service.UploadIcon(ctx, access.FromContext(ctx), id, file, fileHeader)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload amenity icon")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Amenity icon uploaded successfully")

	response.WithJSON(w, http.StatusOK, url)
}

// DeleteAmenity soft-deletes an amenity by its ID.
// @Summary Delete an amenity by ID
// @Description Soft-delete an amenity using its unique identifier.
// @Tags Amenity
// @Accept json
// @Produce json
// @Param id path string true "Amenity ID"
// @Success 200 {object} response.Message "Amenity deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/amenities/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteAmenity(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAmenity")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.SoftDelete(ctx, access.FromContext(ctx), id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete amenity")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Amenity deleted successfully")

	response.WithMessage(w, http.StatusOK, "Amenity deleted successfully")
}

// RecoverAmenity restores a soft-deleted amenity.
// @Summary Recover a deleted amenity
// @Description Restore a soft-deleted amenity using its unique identifier.
// @Tags Amenity
// @Accept json
// @Produce json
// @Param id path string true "Amenity ID"
// @Success 200 {object} response.Message "Amenity recovered successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/amenities/{id}/recover [post]
// @Security BearerAuth
func (handler *Handler) RecoverAmenity(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecoverAmenity")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Recover(ctx, access.FromContext(ctx), id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to recover amenity")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Amenity recovered successfully")

	response.WithMessage(w, http.StatusOK, "Amenity recovered successfully")
}
