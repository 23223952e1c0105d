package billing

import "context"

// Provider is the payment-provider surface this core consumes. Responses are
// opaque; subscription state is read back from tenant fields persisted by the
// webhook sync process, never from these calls.
type Provider interface {
	// CreateCustomer registers the tenant with the provider and returns the
	// provider-side customer id.
	CreateCustomer(ctx context.Context, email, tenantName string) (string, error)

	// CreateCheckoutSession returns a URL the owner is redirected to for
	// starting a paid subscription.
	CreateCheckoutSession(ctx context.Context, customerID string) (string, error)

	// CreatePortalSession returns a URL for the provider-hosted billing portal.
	CreatePortalSession(ctx context.Context, customerID string) (string, error)
}
