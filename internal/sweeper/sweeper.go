package sweeper

import (
	"context"
	"time"

	"innkeeper/config"
	"innkeeper/infras/otel"
	bookingRepository "innkeeper/internal/domains/booking/repository"
	promotionRepository "innkeeper/internal/domains/promotion/repository"
	"innkeeper/shared/constant"
	"innkeeper/shared/metrics"
	"innkeeper/shared/timezone"

	"github.com/rs/zerolog/log"
)

// actorName marks rows touched by the background sweep in modified_by.
const actorName = "system:sweeper"

// Sweeper periodically advances due booking statuses and retires promotions
// past their end date. The same advancement also runs lazily on staff reads,
// so the sweeper only bounds the staleness between reads.
type Sweeper struct {
	config     *config.Config
	bookings   bookingRepository.Booking
	promotions promotionRepository.Promotion
	otel       otel.Otel
}

func New(config *config.Config, bookings bookingRepository.Booking, promotions promotionRepository.Promotion, otel otel.Otel) *Sweeper {
	return &Sweeper{
		config:     config,
		bookings:   bookings,
		promotions: promotions,
		otel:       otel,
	}
}

// Start launches the sweep loop in the background until the context is
// cancelled. It is a no-op when disabled, so callers start it unconditionally.
func (s *Sweeper) Start(ctx context.Context) {
	if !s.config.Sweep.Enable {
		log.Info().Msg("Sweeper disabled")

		return
	}

	interval := time.Duration(s.config.Sweep.IntervalSeconds) * time.Second

	log.Info().Dur("interval", interval).Msg("Starting sweeper")

	go s.run(ctx, interval)
}

func (s *Sweeper) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// One pass at boot catches up after downtime.
	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Sweeper stopped")

			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass. Failures are logged and left for the next tick.
func (s *Sweeper) Sweep(ctx context.Context) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelSweeperScopeName, constant.OtelSweeperScopeName+".Sweep")
	defer scope.End()

	now := timezone.Now()

	checkedIn, checkedOut, err := s.bookings.AdvanceStatuses(ctx, now, actorName)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to advance booking statuses")
	} else {
		if checkedIn > 0 {
			metrics.SweepTouched("booking_check_in", checkedIn)
		}

		if checkedOut > 0 {
			metrics.SweepTouched("booking_check_out", checkedOut)
		}

		if checkedIn > 0 || checkedOut > 0 {
			log.Info().Int64("checked_in", checkedIn).Int64("checked_out", checkedOut).Msg("advanced booking statuses")
		}
	}

	deactivated, err := s.promotions.DeactivateInvalid(ctx, now, actorName)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to deactivate expired promotions")

		return
	}

	if deactivated > 0 {
		metrics.SweepTouched("promotion_deactivate", deactivated)
		log.Info().Int64("count", deactivated).Msg("deactivated expired promotions")
	}
}
