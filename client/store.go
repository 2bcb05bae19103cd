package client

import (
	"context"
	"sync"

	"rentroll-server/models"
)

// Store is a shared in-memory cache of the three entity collections. Load
// refreshes everything wholesale; every mutation calls the API first and
// patches the cached slice only on success, so a failed call leaves the
// prior state intact with the error recorded.
type Store struct {
	api *Client

	mu         sync.RWMutex
	properties []models.Property
	tenants    []models.Tenant
	payments   []models.Payment
	lastErr    error
}

func NewStore(api *Client) *Store {
	return &Store{api: api}
}

// Load fetches the three collections concurrently and replaces the cache.
// The first fetch error wins and the cache is left untouched.
func (s *Store) Load(ctx context.Context) error {
	var (
		wg         sync.WaitGroup
		properties []models.Property
		tenants    []models.Tenant
		payments   []models.Payment
		errs       [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		properties, errs[0] = s.api.ListProperties(ctx, PropertyFilter{})
	}()
	go func() {
		defer wg.Done()
		tenants, errs[1] = s.api.ListTenants(ctx, TenantFilter{})
	}()
	go func() {
		defer wg.Done()
		payments, errs[2] = s.api.ListPayments(ctx, PaymentFilter{})
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return s.fail(err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties = properties
	s.tenants = tenants
	s.payments = payments
	s.lastErr = nil
	return nil
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	return err
}

// LastError returns the most recent operation error, nil after a success.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) Properties() []models.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Property, len(s.properties))
	copy(out, s.properties)
	return out
}

func (s *Store) Tenants() []models.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tenant, len(s.tenants))
	copy(out, s.tenants)
	return out
}

func (s *Store) Payments() []models.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Payment, len(s.payments))
	copy(out, s.payments)
	return out
}

func (s *Store) AddProperty(ctx context.Context, input PropertyInput) (*models.Property, error) {
	property, err := s.api.CreateProperty(ctx, input)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties = append(s.properties, *property)
	s.lastErr = nil
	return property, nil
}

func (s *Store) UpdateProperty(ctx context.Context, id uint, input PropertyInput) (*models.Property, error) {
	property, err := s.api.UpdateProperty(ctx, id, input)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.properties {
		if s.properties[i].ID == id {
			s.properties[i] = *property
			break
		}
	}
	s.lastErr = nil
	return property, nil
}

// DeleteProperty also drops cached tenants that referenced the property,
// mirroring the server-side guard (the call only succeeds when none exist).
func (s *Store) DeleteProperty(ctx context.Context, id uint) error {
	if err := s.api.DeleteProperty(ctx, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties = deleteByID(s.properties, func(p models.Property) bool { return p.ID == id })
	s.tenants = deleteByID(s.tenants, func(t models.Tenant) bool { return t.PropertyID == id })
	s.lastErr = nil
	return nil
}

func (s *Store) AddTenant(ctx context.Context, input TenantInput) (*models.Tenant, error) {
	tenant, err := s.api.CreateTenant(ctx, input)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants = append(s.tenants, *tenant)
	s.lastErr = nil
	return tenant, nil
}

func (s *Store) UpdateTenant(ctx context.Context, id uint, input TenantInput) (*models.Tenant, error) {
	tenant, err := s.api.UpdateTenant(ctx, id, input)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tenants {
		if s.tenants[i].ID == id {
			s.tenants[i] = *tenant
			break
		}
	}
	s.lastErr = nil
	return tenant, nil
}

// DeleteTenant also drops the tenant's cached payments, mirroring the
// server-side cascade.
func (s *Store) DeleteTenant(ctx context.Context, id uint) error {
	if err := s.api.DeleteTenant(ctx, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants = deleteByID(s.tenants, func(t models.Tenant) bool { return t.ID == id })
	s.payments = deleteByID(s.payments, func(p models.Payment) bool { return p.TenantID == id })
	s.lastErr = nil
	return nil
}

func (s *Store) AddPayment(ctx context.Context, input PaymentInput) (*models.Payment, error) {
	payment, err := s.api.CreatePayment(ctx, input)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, *payment)
	s.lastErr = nil
	return payment, nil
}

func (s *Store) UpdatePayment(ctx context.Context, id uint, input PaymentInput) (*models.Payment, error) {
	payment, err := s.api.UpdatePayment(ctx, id, input)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.payments {
		if s.payments[i].ID == id {
			s.payments[i] = *payment
			break
		}
	}
	s.lastErr = nil
	return payment, nil
}

func (s *Store) DeletePayment(ctx context.Context, id uint) error {
	if err := s.api.DeletePayment(ctx, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = deleteByID(s.payments, func(p models.Payment) bool { return p.ID == id })
	s.lastErr = nil
	return nil
}

// GeneratePayments runs a bulk generation and refreshes the payment list,
// since the server creates records the cache has never seen.
func (s *Store) GeneratePayments(ctx context.Context, month, year int) (*BulkResult, error) {
	result, err := s.api.BulkGeneratePayments(ctx, month, year)
	if err != nil {
		return nil, s.fail(err)
	}

	payments, err := s.api.ListPayments(ctx, PaymentFilter{})
	if err != nil {
		return result, s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = payments
	s.lastErr = nil
	return result, nil
}

func deleteByID[T any](items []T, match func(T) bool) []T {
	out := items[:0]
	for _, item := range items {
		if !match(item) {
			out = append(out, item)
		}
	}
	return out
}
