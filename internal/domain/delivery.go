package domain

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Coordinates is a geographic point resolved from a customer address.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Address is the set of free-text parts that identify a delivery address.
// Number and complement are optional for geocoding purposes.
type Address struct {
	CEP          string
	Street       string
	Number       string
	Neighborhood string
	City         string
	State        string
}

// Complete reports whether the address carries all the parts geocoding needs.
func (a Address) Complete() bool {
	return a.Street != "" && a.Neighborhood != "" && a.City != "" && a.State != ""
}

// Merge fills the empty parts of a from b, leaving existing values alone.
func (a Address) Merge(b Address) Address {
	if a.Street == "" {
		a.Street = b.Street
	}
	if a.Neighborhood == "" {
		a.Neighborhood = b.Neighborhood
	}
	if a.City == "" {
		a.City = b.City
	}
	if a.State == "" {
		a.State = b.State
	}
	return a
}

// FullLine builds the single-line address string used as the geocoding query
// and as the cache key. Empty parts are skipped; the country suffix is fixed.
func (a Address) FullLine() string {
	parts := []string{a.Street, a.Number, a.Neighborhood, a.City, a.State, "Brasil"}
	var kept []string
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ", ")
}

// NormalizeCEP strips everything but digits from a postal code. The second
// return value reports whether the result has the exact 8 digits the postal
// lookup contract requires.
func NormalizeCEP(cep string) (string, bool) {
	var b strings.Builder
	for _, r := range cep {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	normalized := b.String()
	return normalized, len(normalized) == 8
}

const earthRadiusKm = 6371

// HaversineKm computes the great-circle distance between two points given in
// degrees, rounded to 2 decimal places.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusKm*c*100) / 100
}

// FeeParams are the tiered delivery fee parameters.
type FeeParams struct {
	BaseFee     decimal.Decimal
	BaseKm      float64
	PerKmBeyond decimal.Decimal
}

// DefaultFeeParams returns the store's standard rate: R$ 6.90 covering the
// first 3 km, R$ 1.50 per km beyond that.
func DefaultFeeParams() FeeParams {
	return FeeParams{
		BaseFee:     decimal.NewFromFloat(6.90),
		BaseKm:      3,
		PerKmBeyond: decimal.NewFromFloat(1.50),
	}
}

// FeeForDistance computes the delivery fee for a distance in km. The fee is
// flat up to and including BaseKm, then grows linearly, rounded to cents.
func FeeForDistance(distanceKm float64, p FeeParams) decimal.Decimal {
	if distanceKm <= p.BaseKm {
		return p.BaseFee.Round(2)
	}
	beyond := decimal.NewFromFloat(distanceKm - p.BaseKm)
	return p.BaseFee.Add(beyond.Mul(p.PerKmBeyond)).Round(2)
}

// EstimateEtaMinutes derives a linear delivery ETA: 10 minutes of handling
// plus 4 minutes per km.
func EstimateEtaMinutes(distanceKm float64) int {
	return int(math.Round(10 + distanceKm*4))
}

// DeliveryQuote is the derived result of a delivery calculation. It is
// produced fresh per request and never persisted by the pipeline itself.
type DeliveryQuote struct {
	DistanceKm float64
	Fee        decimal.Decimal
	EtaMinutes int
	Lat        float64
	Lng        float64
}
