package router

import (
	"innkeeper/internal/handlers/amenity"
	"innkeeper/internal/handlers/auth"
	"innkeeper/internal/handlers/booking"
	"innkeeper/internal/handlers/bundle"
	"innkeeper/internal/handlers/hotel"
	"innkeeper/internal/handlers/promotion"
	"innkeeper/internal/handlers/review"
	"innkeeper/internal/handlers/room"
	"innkeeper/internal/handlers/roomtype"
	"innkeeper/internal/handlers/service"
	"innkeeper/internal/handlers/user"
	"innkeeper/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth      auth.Handler
	User      user.Handler
	Hotel     hotel.Handler
	Amenity   amenity.Handler
	RoomType  roomtype.Handler
	Room      room.Handler
	Service   service.Handler
	Bundle    bundle.Handler
	Promotion promotion.Handler
	Booking   booking.Handler
	Review    review.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.App.Tracing)
		routerGroup.Use(r.App.RateLimit())
		routerGroup.Use(r.AuthRole.APIKey)
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Hotel.Router(routerGroup)
		r.DomainHandlers.Amenity.Router(routerGroup)
		r.DomainHandlers.RoomType.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Service.Router(routerGroup)
		r.DomainHandlers.Bundle.Router(routerGroup)
		r.DomainHandlers.Promotion.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		AuthRole:       authRole,
	}
}
