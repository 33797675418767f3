package service

import (
	"context"
	"errors"
	"fmt"

	"staybook/internal/dashboard"
	"staybook/internal/domain"
	"staybook/internal/events"
	"staybook/internal/metrics"
	"staybook/internal/models"

	"github.com/rs/zerolog"
)

var errEmptySummary = errors.New("remote summary is empty")

type DashboardService struct {
	source     domain.HotelSource
	aggregator *dashboard.Aggregator
	eventBus   domain.EventPublisher
	logger     *zerolog.Logger
}

func NewDashboardService(source domain.HotelSource, aggregator *dashboard.Aggregator, eventBus domain.EventPublisher, logger *zerolog.Logger) *DashboardService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &DashboardService{
		source:     source,
		aggregator: aggregator,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Summary returns the remote pre-aggregated summary when it is usable and
// otherwise computes one from the raw collections. Collections that fail to
// load are treated as empty and listed in Degraded. When all of them fail
// the error wraps dashboard.ErrSummaryUnavailable.
func (s *DashboardService) Summary(ctx context.Context) (*models.SummaryResult, error) {
	remote, remoteErr := s.source.GetSummary(ctx)
	if remoteErr == nil && remote != nil {
		metrics.IncSummarySource(models.SourceRemote)
		return &models.SummaryResult{Summary: *remote, Source: models.SourceRemote}, nil
	}
	if remoteErr == nil {
		remoteErr = errEmptySummary
	}
	s.logger.Warn().Err(remoteErr).Msg("remote summary unavailable, computing locally")

	src := dashboard.SettleAll(ctx, s.source.ListRooms, s.source.ListReservations, s.source.ListCheckIns)
	failed := src.Failed()
	for _, collection := range failed {
		metrics.IncSourceFailure(collection)
	}
	s.logFailures(src)

	summary, err := s.aggregator.FromSources(src)
	s.publishDegraded(remoteErr, failed, err != nil)
	if err != nil {
		metrics.IncSummarySource(models.SourceUnavailable)
		return nil, fmt.Errorf("%w (remote: %v)", err, remoteErr)
	}

	metrics.IncSummarySource(models.SourceComputed)
	return &models.SummaryResult{
		Summary:  summary,
		Source:   models.SourceComputed,
		Degraded: failed,
	}, nil
}

func (s *DashboardService) logFailures(src dashboard.Sources) {
	for name, settled := range map[string]dashboard.Settled{
		dashboard.CollectionRooms:        src.Rooms,
		dashboard.CollectionReservations: src.Reservations,
		dashboard.CollectionCheckIns:     src.CheckIns,
	} {
		if settled.Err != nil {
			s.logger.Error().Err(settled.Err).Str("collection", name).Msg("collection fetch failed, treating as empty")
		}
	}
}

func (s *DashboardService) publishDegraded(remoteErr error, failed []string, unavailable bool) {
	if s.eventBus == nil {
		return
	}

	payload := events.SummaryDegradedPayload{
		RemoteError: remoteErr.Error(),
		Failed:      failed,
		Unavailable: unavailable,
	}
	if err := s.eventBus.PublishJSON(events.EventSummaryDegraded, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", events.EventSummaryDegraded).Msg("publish event error")
	}
}
