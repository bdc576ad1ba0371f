package interfaces

import (
	"context"

	"github.com/adega-delivery/backend/internal/domain"
)

// PostalLookup resolves a normalized 8-digit postal code into address parts.
// A code the service does not know returns domain.ErrAddressUnresolvable;
// any other error is a service failure the caller may downgrade.
type PostalLookup interface {
	Lookup(ctx context.Context, cep string) (*domain.Address, error)
}

// Geocoder resolves a single-line address into coordinates, with the same
// error contract as PostalLookup.
type Geocoder interface {
	Search(ctx context.Context, address string) (*domain.Coordinates, error)
}

// GeocodeCache is a TTL-bounded cache over geocoding results, keyed by the
// full address line. Implementations treat entries older than their TTL as
// absent. It is a rate-limiting aid only and holds no authority over
// correctness.
type GeocodeCache interface {
	Get(ctx context.Context, key string) (*domain.Coordinates, bool, error)
	Put(ctx context.Context, key string, coords domain.Coordinates) error
}
