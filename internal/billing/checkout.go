package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sweeezy/backend/internal/model"
	"github.com/sweeezy/backend/internal/repository"
)

// CheckoutConfig holds the billing provider credentials and price ids.
type CheckoutConfig struct {
	APIKey       string
	PriceMonthly string
	PriceYearly  string

	// BaseURL overrides the provider endpoint, used by tests.
	BaseURL string
}

const defaultBillingAPI = "https://api.stripe.com/v1"

// CheckoutClient creates hosted checkout sessions with the billing provider.
// Customers are created lazily on first checkout and the id is stored on
// the user row.
type CheckoutClient struct {
	client *resty.Client
	config CheckoutConfig
	users  repository.UserRepository
	now    func() time.Time
}

// NewCheckoutClient creates a CheckoutClient.
func NewCheckoutClient(config CheckoutConfig, users repository.UserRepository) *CheckoutClient {
	if config.BaseURL == "" {
		config.BaseURL = defaultBillingAPI
	}
	return &CheckoutClient{
		client: resty.New().SetTimeout(15 * time.Second),
		config: config,
		users:  users,
		now:    time.Now,
	}
}

// CreateSession starts a hosted checkout for the given plan and returns the
// redirect URL.
func (c *CheckoutClient) CreateSession(ctx context.Context, user *model.User, plan, successURL, cancelURL string) (string, error) {
	var priceID string
	switch plan {
	case "monthly":
		priceID = c.config.PriceMonthly
	case "yearly":
		priceID = c.config.PriceYearly
	default:
		return "", model.NewInvalidPlanError(plan)
	}
	if priceID == "" {
		return "", model.NewInvalidPlanError(plan)
	}

	customerID := user.BillingCustomerID
	if customerID == "" {
		id, err := c.createCustomer(ctx, user.Email)
		if err != nil {
			return "", err
		}
		customerID = id
		user.BillingCustomerID = customerID
		user.UpdatedAt = c.now()
		if err := c.users.Update(ctx, user); err != nil {
			return "", err
		}
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBasicAuth(c.config.APIKey, "").
		SetFormData(map[string]string{
			"mode":                    "subscription",
			"success_url":             successURL,
			"cancel_url":              cancelURL,
			"customer":                customerID,
			"line_items[0][price]":    priceID,
			"line_items[0][quantity]": "1",
			"allow_promotion_codes":   "true",
			"client_reference_id":     user.ID,
		}).
		Post(c.config.BaseURL + "/checkout/sessions")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", model.NewInvalidRequestError("checkout session rejected by billing provider")
	}

	var session struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return "", err
	}
	return session.URL, nil
}

func (c *CheckoutClient) createCustomer(ctx context.Context, email string) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBasicAuth(c.config.APIKey, "").
		SetFormData(map[string]string{"email": email}).
		Post(c.config.BaseURL + "/customers")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", model.NewInvalidRequestError("customer creation rejected by billing provider")
	}

	var customer struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body(), &customer); err != nil {
		return "", err
	}
	return customer.ID, nil
}
