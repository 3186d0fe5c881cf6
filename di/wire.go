//go:build wireinject
// +build wireinject

package di

import (
	"innkeeper/config"
	"innkeeper/infras/jwt"
	"innkeeper/infras/kafka"
	"innkeeper/infras/mailer"
	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/infras/redis"
	"innkeeper/infras/s3"
	"innkeeper/internal/audit"
	"innkeeper/internal/sweeper"
	"innkeeper/permissions"
	"innkeeper/shared/cache"
	"innkeeper/shared/encryption"
	"innkeeper/transport/http"
	"innkeeper/transport/http/middleware"
	"innkeeper/transport/http/router"

	"github.com/google/wire"

	"innkeeper/internal/domains/auth/otp"

	amenityRepository "innkeeper/internal/domains/amenity/repository"
	amenityService "innkeeper/internal/domains/amenity/service"
	authService "innkeeper/internal/domains/auth/service"
	bookingRepository "innkeeper/internal/domains/booking/repository"
	bookingService "innkeeper/internal/domains/booking/service"
	bundleRepository "innkeeper/internal/domains/bundle/repository"
	bundleService "innkeeper/internal/domains/bundle/service"
	hotelRepository "innkeeper/internal/domains/hotel/repository"
	hotelService "innkeeper/internal/domains/hotel/service"
	promotionRepository "innkeeper/internal/domains/promotion/repository"
	promotionService "innkeeper/internal/domains/promotion/service"
	reviewRepository "innkeeper/internal/domains/review/repository"
	reviewService "innkeeper/internal/domains/review/service"
	roomRepository "innkeeper/internal/domains/room/repository"
	roomService "innkeeper/internal/domains/room/service"
	roomtypeRepository "innkeeper/internal/domains/roomtype/repository"
	roomtypeService "innkeeper/internal/domains/roomtype/service"
	serviceRepository "innkeeper/internal/domains/service/repository"
	serviceService "innkeeper/internal/domains/service/service"
	userRepository "innkeeper/internal/domains/user/repository"
	userService "innkeeper/internal/domains/user/service"

	amenityHandler "innkeeper/internal/handlers/amenity"
	authHandler "innkeeper/internal/handlers/auth"
	bookingHandler "innkeeper/internal/handlers/booking"
	bundleHandler "innkeeper/internal/handlers/bundle"
	hotelHandler "innkeeper/internal/handlers/hotel"
	promotionHandler "innkeeper/internal/handlers/promotion"
	reviewHandler "innkeeper/internal/handlers/review"
	roomHandler "innkeeper/internal/handlers/room"
	roomtypeHandler "innkeeper/internal/handlers/roomtype"
	serviceHandler "innkeeper/internal/handlers/service"
	userHandler "innkeeper/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	mailer.New,
	s3.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	encryption.New,
	audit.New,
)

var authDomain = wire.NewSet(
	otp.New,
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var hotelDomain = wire.NewSet(
	hotelRepository.New,
	hotelService.New,
)

var amenityDomain = wire.NewSet(
	amenityRepository.New,
	amenityService.New,
)

var roomtypeDomain = wire.NewSet(
	roomtypeRepository.New,
	roomtypeRepository.NewLink,
	roomtypeRepository.NewImage,
	roomtypeService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var serviceDomain = wire.NewSet(
	serviceRepository.New,
	serviceService.New,
)

var bundleDomain = wire.NewSet(
	bundleRepository.New,
	bundleRepository.NewItem,
	bundleService.New,
)

var promotionDomain = wire.NewSet(
	promotionRepository.New,
	promotionService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingRepository.NewLine,
	bookingService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	hotelDomain,
	amenityDomain,
	roomtypeDomain,
	roomDomain,
	serviceDomain,
	bundleDomain,
	promotionDomain,
	bookingDomain,
	reviewDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	hotelHandler.New,
	amenityHandler.New,
	roomtypeHandler.New,
	roomHandler.New,
	serviceHandler.New,
	bundleHandler.New,
	promotionHandler.New,
	bookingHandler.New,
	reviewHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeSweeper() *sweeper.Sweeper {
	wire.Build(
		configurations,
		postgres.New,
		otel.New,
		bookingRepository.New,
		promotionRepository.New,
		sweeper.New,
	)

	return &sweeper.Sweeper{}
}
