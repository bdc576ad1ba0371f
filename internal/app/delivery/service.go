package delivery

import (
	"context"
	"errors"

	"github.com/adega-delivery/backend/internal/adapter/logger"
	"github.com/adega-delivery/backend/internal/domain"
	"github.com/adega-delivery/backend/internal/interfaces"
)

// Service turns a customer's postal address into a billable delivery fee and
// ETA. External lookups fail soft: a service failure and a confirmed "not
// found" both surface as domain.ErrAddressUnresolvable, logged distinctly.
type Service struct {
	postal   interfaces.PostalLookup
	geocoder interfaces.Geocoder
	cache    interfaces.GeocodeCache
	logger   logger.Logger

	store domain.Coordinates
	fees  domain.FeeParams
}

func NewService(
	postal interfaces.PostalLookup,
	geocoder interfaces.Geocoder,
	cache interfaces.GeocodeCache,
	logger logger.Logger,
	store domain.Coordinates,
	fees domain.FeeParams,
) *Service {
	return &Service{
		postal:   postal,
		geocoder: geocoder,
		cache:    cache,
		logger:   logger,
		store:    store,
		fees:     fees,
	}
}

// ResolveAddressByPostalCode normalizes the code to digits and looks it up.
// Codes that do not normalize to exactly 8 digits are rejected without a
// network call.
func (s *Service) ResolveAddressByPostalCode(ctx context.Context, code string) (*domain.Address, error) {
	normalized, ok := domain.NormalizeCEP(code)
	if !ok {
		return nil, domain.ErrAddressUnresolvable
	}

	addr, err := s.postal.Lookup(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrAddressUnresolvable) {
			s.logger.Debug("cep_not_found", "Postal code unknown to lookup service", "", map[string]interface{}{"cep": normalized})
		} else {
			s.logger.Error("cep_lookup_failed", "Postal lookup service failure", "", map[string]interface{}{"cep": normalized}, err)
		}
		return nil, domain.ErrAddressUnresolvable
	}

	addr.CEP = normalized
	return addr, nil
}

// Geocode resolves a full address line into coordinates, consulting the
// cache first. Concurrent misses on the same key may both hit the network
// and both write the cache; entries are idempotent recomputations, so last
// write wins is fine.
func (s *Service) Geocode(ctx context.Context, fullAddress string) (*domain.Coordinates, error) {
	if coords, hit, err := s.cache.Get(ctx, fullAddress); err != nil {
		s.logger.Error("geocode_cache_failed", "Cache read failed, treating as miss", "", nil, err)
	} else if hit {
		return coords, nil
	}

	coords, err := s.geocoder.Search(ctx, fullAddress)
	if err != nil {
		if errors.Is(err, domain.ErrAddressUnresolvable) {
			s.logger.Debug("geocode_not_found", "No geocoding match for address", "", map[string]interface{}{"address": fullAddress})
		} else {
			s.logger.Error("geocode_failed", "Geocoding service failure", "", map[string]interface{}{"address": fullAddress}, err)
		}
		return nil, domain.ErrAddressUnresolvable
	}

	if err := s.cache.Put(ctx, fullAddress, *coords); err != nil {
		s.logger.Error("geocode_cache_failed", "Cache write failed", "", nil, err)
	}

	return coords, nil
}

// Calculate runs the whole pipeline: backfill missing address parts from the
// postal code, geocode, distance, fee, ETA. The result is returned to the
// caller and never persisted here.
func (s *Service) Calculate(ctx context.Context, req interfaces.DeliveryRequest) (*domain.DeliveryQuote, error) {
	addr := domain.Address{
		CEP:          req.CEP,
		Street:       req.Street,
		Number:       req.Number,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
	}

	if !addr.Complete() {
		looked, err := s.ResolveAddressByPostalCode(ctx, req.CEP)
		if err == nil {
			addr = addr.Merge(*looked)
		}
		if !addr.Complete() {
			return nil, domain.ErrIncompleteAddress
		}
	}

	coords, err := s.Geocode(ctx, addr.FullLine())
	if err != nil {
		return nil, err
	}

	distance := domain.HaversineKm(s.store.Lat, s.store.Lng, coords.Lat, coords.Lng)

	quote := &domain.DeliveryQuote{
		DistanceKm: distance,
		Fee:        domain.FeeForDistance(distance, s.fees),
		EtaMinutes: domain.EstimateEtaMinutes(distance),
		Lat:        coords.Lat,
		Lng:        coords.Lng,
	}

	s.logger.Debug("delivery_calculated", "Delivery quote computed", "", map[string]interface{}{
		"distance_km": quote.DistanceKm,
		"fee":         quote.Fee.String(),
		"eta_minutes": quote.EtaMinutes,
	})
	return quote, nil
}
