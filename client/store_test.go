package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"rentroll-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubServer serves canned entity collections the way the real API does and
// lets a test flip individual endpoints into failure mode.
type stubServer struct {
	mu         sync.Mutex
	properties []models.Property
	tenants    []models.Tenant
	payments   []models.Payment
	failPath   string

	server *httptest.Server
}

func newStubServer(t *testing.T) *stubServer {
	t.Helper()
	stub := &stubServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/properties", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		defer stub.mu.Unlock()
		if stub.failPath == r.URL.Path {
			writeStubError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(stub.properties)
		case http.MethodPost:
			var property models.Property
			json.NewDecoder(r.Body).Decode(&property)
			property.ID = uint(len(stub.properties) + 1)
			stub.properties = append(stub.properties, property)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(property)
		}
	})
	mux.HandleFunc("/api/tenants", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		defer stub.mu.Unlock()
		if stub.failPath == r.URL.Path {
			writeStubError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		json.NewEncoder(w).Encode(stub.tenants)
	})
	mux.HandleFunc("/api/payments", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		defer stub.mu.Unlock()
		if stub.failPath == r.URL.Path {
			writeStubError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		json.NewEncoder(w).Encode(stub.payments)
	})
	mux.HandleFunc("/api/tenants/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Tenant and associated payments deleted successfully",
		})
	})
	mux.HandleFunc("/api/properties/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		stub.mu.Lock()
		defer stub.mu.Unlock()
		if stub.failPath == r.URL.Path {
			writeStubError(w, http.StatusBadRequest,
				"Cannot delete property with active tenants. Please remove all tenants first.")
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "Property deleted successfully"})
	})
	mux.HandleFunc("/api/payments/bulk", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		defer stub.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Created 1 payment records for 6/2024",
			"count":   1,
		})
	})

	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *stubServer) fail(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPath = path
}

func writeStubError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func TestStoreLoad(t *testing.T) {
	stub := newStubServer(t)
	stub.properties = []models.Property{{Name: "Sunset Apartments", Units: 10}}
	stub.tenants = []models.Tenant{{Name: "John Smith", Unit: "A1"}}
	stub.payments = []models.Payment{{Amount: 1200, Status: "pending"}}

	store := NewStore(New(stub.server.URL + "/api"))
	require.NoError(t, store.Load(context.Background()))

	assert.Len(t, store.Properties(), 1)
	assert.Len(t, store.Tenants(), 1)
	assert.Len(t, store.Payments(), 1)
	assert.NoError(t, store.LastError())
}

func TestStoreLoadFailureKeepsCache(t *testing.T) {
	stub := newStubServer(t)
	stub.properties = []models.Property{{Name: "Sunset Apartments", Units: 10}}

	store := NewStore(New(stub.server.URL + "/api"))
	require.NoError(t, store.Load(context.Background()))
	require.Len(t, store.Properties(), 1)

	stub.fail("/api/payments")
	err := store.Load(context.Background())
	require.Error(t, err)

	// The cache still holds the last good snapshot and the error is recorded
	assert.Len(t, store.Properties(), 1)
	assert.Error(t, store.LastError())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestStoreAddPropertyPatchesCache(t *testing.T) {
	stub := newStubServer(t)

	store := NewStore(New(stub.server.URL + "/api"))
	require.NoError(t, store.Load(context.Background()))
	require.Empty(t, store.Properties())

	property, err := store.AddProperty(context.Background(), PropertyInput{
		Name: "Oak House", Type: "house", Address: "456 Oak Ave", Units: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Oak House", property.Name)
	assert.Len(t, store.Properties(), 1)
	assert.NoError(t, store.LastError())

	stub.fail("/api/properties")
	_, err = store.AddProperty(context.Background(), PropertyInput{
		Name: "Broken", Type: "house", Address: "1 Nowhere", Units: 1,
	})
	require.Error(t, err)

	// The failed call changes nothing in the cache
	assert.Len(t, store.Properties(), 1)
	assert.Error(t, store.LastError())
}

func TestStoreDeleteTenantDropsPayments(t *testing.T) {
	stub := newStubServer(t)
	stub.tenants = []models.Tenant{
		{Name: "John Smith", Unit: "A1"},
		{Name: "Sarah Johnson", Unit: "B2"},
	}
	stub.tenants[0].ID = 1
	stub.tenants[1].ID = 2
	stub.payments = []models.Payment{
		{TenantID: 1, Amount: 1200},
		{TenantID: 1, Amount: 1200},
		{TenantID: 2, Amount: 1250},
	}

	store := NewStore(New(stub.server.URL + "/api"))
	require.NoError(t, store.Load(context.Background()))
	require.Len(t, store.Payments(), 3)

	require.NoError(t, store.DeleteTenant(context.Background(), 1))

	assert.Len(t, store.Tenants(), 1)
	payments := store.Payments()
	require.Len(t, payments, 1)
	assert.EqualValues(t, 2, payments[0].TenantID)
}

func TestStoreDeletePropertyGuard(t *testing.T) {
	stub := newStubServer(t)
	stub.properties = []models.Property{{Name: "Sunset Apartments", Units: 10}}
	stub.properties[0].ID = 1
	stub.tenants = []models.Tenant{{Name: "John Smith", PropertyID: 1, Unit: "A1"}}

	store := NewStore(New(stub.server.URL + "/api"))
	require.NoError(t, store.Load(context.Background()))

	stub.fail("/api/properties/1")
	err := store.DeleteProperty(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot delete property with active tenants")
	assert.Len(t, store.Properties(), 1)
	assert.Len(t, store.Tenants(), 1)

	stub.fail("")
	require.NoError(t, store.DeleteProperty(context.Background(), 1))
	assert.Empty(t, store.Properties())
	assert.Empty(t, store.Tenants(), "cached tenants of the property are dropped")
}

func TestStoreGeneratePaymentsRefreshes(t *testing.T) {
	stub := newStubServer(t)

	store := NewStore(New(stub.server.URL + "/api"))
	require.NoError(t, store.Load(context.Background()))
	require.Empty(t, store.Payments())

	stub.mu.Lock()
	stub.payments = []models.Payment{{TenantID: 1, Amount: 1200, Status: "pending",
		DueDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)}}
	stub.mu.Unlock()

	result, err := store.GeneratePayments(context.Background(), 6, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Len(t, store.Payments(), 1, "bulk generation reloads the payment list")
}
