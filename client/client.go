// Package client is a typed API client for the RentRoll server plus a
// shared in-memory store of the three entity collections.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rentroll-server/models"
)

// APIError carries the HTTP status and the server's {message} payload.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a client for the API mounted at baseURL (".../api").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the bearer token sent on every subsequent request.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		apiErr := &APIError{Status: res.StatusCode, Message: "Something went wrong"}
		var payload struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(res.Body).Decode(&payload); decodeErr == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// Session is the credential-exchange response.
type Session struct {
	ID           uint   `json:"ID"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login exchanges credentials for a token pair and remembers the access
// token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &session); err != nil {
		return nil, err
	}
	c.token = session.AccessToken
	return &session, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var session Session
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, &session); err != nil {
		return nil, err
	}
	c.token = session.AccessToken
	return &session, nil
}

func (c *Client) Me(ctx context.Context) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

type PropertyInput struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Address     string  `json:"address"`
	Units       int     `json:"units"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
	MonthlyRent float64 `json:"monthlyRent,omitempty"`
	Status      string  `json:"status,omitempty"`
}

type PropertyFilter struct {
	Search string
	Type   string
	Status string
}

func (f PropertyFilter) values() url.Values {
	query := url.Values{}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	if f.Type != "" {
		query.Set("type", f.Type)
	}
	if f.Status != "" {
		query.Set("status", f.Status)
	}
	return query
}

func (c *Client) ListProperties(ctx context.Context, filter PropertyFilter) ([]models.Property, error) {
	var properties []models.Property
	err := c.do(ctx, http.MethodGet, "/properties", filter.values(), nil, &properties)
	return properties, err
}

func (c *Client) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/properties/%d", id), nil, nil, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *Client) CreateProperty(ctx context.Context, input PropertyInput) (*models.Property, error) {
	var property models.Property
	if err := c.do(ctx, http.MethodPost, "/properties", nil, input, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *Client) UpdateProperty(ctx context.Context, id uint, input PropertyInput) (*models.Property, error) {
	var property models.Property
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/properties/%d", id), nil, input, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/properties/%d", id), nil, nil, nil)
}

type TenantInput struct {
	Name             string                   `json:"name"`
	Email            string                   `json:"email"`
	Phone            string                   `json:"phone"`
	PropertyID       uint                     `json:"propertyId"`
	Unit             string                   `json:"unit"`
	RentAmount       float64                  `json:"rentAmount"`
	LeaseStart       time.Time                `json:"leaseStart"`
	LeaseEnd         time.Time                `json:"leaseEnd"`
	Status           string                   `json:"status,omitempty"`
	SecurityDeposit  float64                  `json:"securityDeposit,omitempty"`
	EmergencyContact *models.EmergencyContact `json:"emergencyContact,omitempty"`
}

type TenantFilter struct {
	Search     string
	Status     string
	PropertyID uint
}

func (f TenantFilter) values() url.Values {
	query := url.Values{}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	if f.Status != "" {
		query.Set("status", f.Status)
	}
	if f.PropertyID > 0 {
		query.Set("propertyId", fmt.Sprintf("%d", f.PropertyID))
	}
	return query
}

func (c *Client) ListTenants(ctx context.Context, filter TenantFilter) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := c.do(ctx, http.MethodGet, "/tenants", filter.values(), nil, &tenants)
	return tenants, err
}

func (c *Client) GetTenant(ctx context.Context, id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tenants/%d", id), nil, nil, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (c *Client) CreateTenant(ctx context.Context, input TenantInput) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := c.do(ctx, http.MethodPost, "/tenants", nil, input, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (c *Client) UpdateTenant(ctx context.Context, id uint, input TenantInput) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tenants/%d", id), nil, input, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (c *Client) DeleteTenant(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tenants/%d", id), nil, nil, nil)
}

type PaymentInput struct {
	TenantID      uint       `json:"tenantId"`
	Amount        float64    `json:"amount"`
	DueDate       time.Time  `json:"dueDate"`
	PaidDate      *time.Time `json:"paidDate,omitempty"`
	Status        string     `json:"status,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	LateFee       float64    `json:"lateFee,omitempty"`
}

type PaymentFilter struct {
	Search    string
	Status    string
	TenantID  uint
	StartDate time.Time
	EndDate   time.Time
}

func (f PaymentFilter) values() url.Values {
	query := url.Values{}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	if f.Status != "" {
		query.Set("status", f.Status)
	}
	if f.TenantID > 0 {
		query.Set("tenantId", fmt.Sprintf("%d", f.TenantID))
	}
	if !f.StartDate.IsZero() {
		query.Set("startDate", f.StartDate.Format(time.RFC3339))
	}
	if !f.EndDate.IsZero() {
		query.Set("endDate", f.EndDate.Format(time.RFC3339))
	}
	return query
}

func (c *Client) ListPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, error) {
	var payments []models.Payment
	err := c.do(ctx, http.MethodGet, "/payments", filter.values(), nil, &payments)
	return payments, err
}

func (c *Client) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/payments/%d", id), nil, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) CreatePayment(ctx context.Context, input PaymentInput) (*models.Payment, error) {
	var payment models.Payment
	if err := c.do(ctx, http.MethodPost, "/payments", nil, input, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) UpdatePayment(ctx context.Context, id uint, input PaymentInput) (*models.Payment, error) {
	var payment models.Payment
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/payments/%d", id), nil, input, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) DeletePayment(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/payments/%d", id), nil, nil, nil)
}

// BulkResult reports how many payment records a bulk generation inserted.
type BulkResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func (c *Client) BulkGeneratePayments(ctx context.Context, month, year int) (*BulkResult, error) {
	var result BulkResult
	body := map[string]int{"month": month, "year": year}
	if err := c.do(ctx, http.MethodPost, "/payments/bulk", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type DashboardOverview struct {
	TotalProperties  int64   `json:"totalProperties"`
	TotalTenants     int64   `json:"totalTenants"`
	ActiveTenants    int64   `json:"activeTenants"`
	MonthlyIncome    float64 `json:"monthlyIncome"`
	MonthlyCollected float64 `json:"monthlyCollected"`
	MonthlyPending   float64 `json:"monthlyPending"`
	OverdueAmount    float64 `json:"overdueAmount"`
	TotalRevenue     float64 `json:"totalRevenue"`
	OccupancyRate    float64 `json:"occupancyRate"`
}

type DashboardStats struct {
	Overview DashboardOverview `json:"overview"`
	Payments struct {
		Total   int `json:"total"`
		Paid    int `json:"paid"`
		Pending int `json:"pending"`
		Overdue int `json:"overdue"`
	} `json:"payments"`
	Recent struct {
		Properties      []models.Property `json:"properties"`
		Tenants         []models.Tenant   `json:"tenants"`
		OverduePayments []models.Payment  `json:"overduePayments"`
	} `json:"recent"`
}

func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

type MonthRevenue struct {
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

type RevenueReport struct {
	Year   int            `json:"year"`
	Months []MonthRevenue `json:"months"`
	Total  float64        `json:"total"`
}

func (c *Client) RevenueByMonth(ctx context.Context, year int) (*RevenueReport, error) {
	query := url.Values{}
	if year > 0 {
		query.Set("year", fmt.Sprintf("%d", year))
	}
	var report RevenueReport
	if err := c.do(ctx, http.MethodGet, "/dashboard/revenue", query, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
