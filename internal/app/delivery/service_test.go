package delivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adega-delivery/backend/internal/adapter/memory"
	"github.com/adega-delivery/backend/internal/adapter/nominatim"
	"github.com/adega-delivery/backend/internal/adapter/viacep"
	"github.com/adega-delivery/backend/internal/domain"
	"github.com/adega-delivery/backend/internal/interfaces"
)

type nopLogger struct{}

func (nopLogger) Info(string, string, string, map[string]interface{})         {}
func (nopLogger) Debug(string, string, string, map[string]interface{})        {}
func (nopLogger) Error(string, string, string, map[string]interface{}, error) {}

var storeCoords = domain.Coordinates{Lat: -23.55052, Lng: -46.633308}

// viaCEPServer answers the real wire format, counting requests.
func viaCEPServer(t *testing.T, calls *int32, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func nominatimServer(t *testing.T, calls *int32, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func newService(viaCEPURL, nominatimURL string, cache interfaces.GeocodeCache) *Service {
	return NewService(
		viacep.NewClient(viaCEPURL, 2*time.Second),
		nominatim.NewClient(nominatimURL, "test-agent/1.0", 2*time.Second),
		cache,
		nopLogger{},
		storeCoords,
		domain.DefaultFeeParams(),
	)
}

func fullRequest() interfaces.DeliveryRequest {
	return interfaces.DeliveryRequest{
		CEP:          "01310-100",
		Street:       "Av Paulista",
		Number:       "1000",
		Neighborhood: "Bela Vista",
		City:         "Sao Paulo",
		State:        "SP",
	}
}

func TestCalculateCompleteAddressSkipsPostalLookup(t *testing.T) {
	var cepCalls, geoCalls int32
	cep := viaCEPServer(t, &cepCalls, `{}`, http.StatusOK)
	defer cep.Close()
	geo := nominatimServer(t, &geoCalls, `[{"lat":"-23.55052","lon":"-46.633308"}]`, http.StatusOK)
	defer geo.Close()

	svc := newService(cep.URL, geo.URL, memory.NewGeocodeCache(time.Hour))

	quote, err := svc.Calculate(context.Background(), fullRequest())
	require.NoError(t, err)

	assert.Equal(t, 0.0, quote.DistanceKm)
	assert.Equal(t, "6.90", quote.Fee.StringFixed(2))
	assert.Equal(t, 10, quote.EtaMinutes)
	assert.Equal(t, storeCoords.Lat, quote.Lat)
	assert.Equal(t, int32(0), atomic.LoadInt32(&cepCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&geoCalls))
}

func TestCalculateBackfillsFromPostalCode(t *testing.T) {
	var cepCalls, geoCalls int32
	cep := viaCEPServer(t, &cepCalls,
		`{"logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"Sao Paulo","uf":"SP"}`,
		http.StatusOK)
	defer cep.Close()
	geo := nominatimServer(t, &geoCalls, `[{"lat":"-23.5629","lon":"-46.6544"}]`, http.StatusOK)
	defer geo.Close()

	svc := newService(cep.URL, geo.URL, memory.NewGeocodeCache(time.Hour))

	quote, err := svc.Calculate(context.Background(), interfaces.DeliveryRequest{
		CEP:    "01310-100",
		Number: "1000",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&cepCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&geoCalls))
	assert.Greater(t, quote.DistanceKm, 0.0)
	assert.Equal(t, "6.90", quote.Fee.StringFixed(2))
}

func TestCalculateMalformedCEPMakesNoNetworkCall(t *testing.T) {
	var cepCalls, geoCalls int32
	cep := viaCEPServer(t, &cepCalls, `{}`, http.StatusOK)
	defer cep.Close()
	geo := nominatimServer(t, &geoCalls, `[]`, http.StatusOK)
	defer geo.Close()

	svc := newService(cep.URL, geo.URL, memory.NewGeocodeCache(time.Hour))

	_, err := svc.Calculate(context.Background(), interfaces.DeliveryRequest{CEP: "123"})
	assert.ErrorIs(t, err, domain.ErrIncompleteAddress)
	assert.Equal(t, int32(0), atomic.LoadInt32(&cepCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&geoCalls))
}

func TestCalculateUnknownPostalCode(t *testing.T) {
	var cepCalls, geoCalls int32
	cep := viaCEPServer(t, &cepCalls, `{"erro":true}`, http.StatusOK)
	defer cep.Close()
	geo := nominatimServer(t, &geoCalls, `[]`, http.StatusOK)
	defer geo.Close()

	svc := newService(cep.URL, geo.URL, memory.NewGeocodeCache(time.Hour))

	_, err := svc.Calculate(context.Background(), interfaces.DeliveryRequest{CEP: "99999-999"})
	assert.ErrorIs(t, err, domain.ErrIncompleteAddress)
	assert.Equal(t, int32(1), atomic.LoadInt32(&cepCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&geoCalls))
}

func TestCalculateGeocodeMiss(t *testing.T) {
	var geoCalls int32
	geo := nominatimServer(t, &geoCalls, `[]`, http.StatusOK)
	defer geo.Close()

	svc := newService("http://unused.invalid", geo.URL, memory.NewGeocodeCache(time.Hour))

	_, err := svc.Calculate(context.Background(), fullRequest())
	assert.ErrorIs(t, err, domain.ErrAddressUnresolvable)
}

func TestCalculateGeocodeServiceFailureDowngraded(t *testing.T) {
	var geoCalls int32
	geo := nominatimServer(t, &geoCalls, `boom`, http.StatusInternalServerError)
	defer geo.Close()

	svc := newService("http://unused.invalid", geo.URL, memory.NewGeocodeCache(time.Hour))

	_, err := svc.Calculate(context.Background(), fullRequest())
	assert.ErrorIs(t, err, domain.ErrAddressUnresolvable)
}

func TestGeocodeCacheAvoidsSecondLookup(t *testing.T) {
	var geoCalls int32
	geo := nominatimServer(t, &geoCalls, `[{"lat":"-23.55052","lon":"-46.633308"}]`, http.StatusOK)
	defer geo.Close()

	svc := newService("http://unused.invalid", geo.URL, memory.NewGeocodeCache(time.Hour))
	ctx := context.Background()

	_, err := svc.Calculate(ctx, fullRequest())
	require.NoError(t, err)
	_, err = svc.Calculate(ctx, fullRequest())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&geoCalls))
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (*domain.Coordinates, bool, error) {
	return nil, false, errors.New("redis down")
}

func (failingCache) Put(context.Context, string, domain.Coordinates) error {
	return errors.New("redis down")
}

func TestGeocodeCacheFailureTreatedAsMiss(t *testing.T) {
	var geoCalls int32
	geo := nominatimServer(t, &geoCalls, `[{"lat":"-23.55052","lon":"-46.633308"}]`, http.StatusOK)
	defer geo.Close()

	svc := newService("http://unused.invalid", geo.URL, failingCache{})
	ctx := context.Background()

	quote, err := svc.Calculate(ctx, fullRequest())
	require.NoError(t, err)
	assert.Equal(t, "6.90", quote.Fee.StringFixed(2))

	// Every call goes to the network while the cache is down.
	_, err = svc.Calculate(ctx, fullRequest())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&geoCalls))
}

func TestResolveAddressSetsNormalizedCEP(t *testing.T) {
	var cepCalls int32
	cep := viaCEPServer(t, &cepCalls,
		`{"logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"Sao Paulo","uf":"SP"}`,
		http.StatusOK)
	defer cep.Close()

	svc := newService(cep.URL, "http://unused.invalid", memory.NewGeocodeCache(time.Hour))

	addr, err := svc.ResolveAddressByPostalCode(context.Background(), "01310-100")
	require.NoError(t, err)
	assert.Equal(t, "01310100", addr.CEP)
	assert.Equal(t, "Avenida Paulista", addr.Street)
	assert.Equal(t, "SP", addr.State)
}
