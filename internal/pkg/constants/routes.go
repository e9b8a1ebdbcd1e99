package constants

// Static route constants
const (
	APIRoute           = "/api"
	StripeWebhookRoute = "/api/payments/stripe/webhook"
	MetricsRoute       = "/metrics"
	MonitorRoute       = "/metrics/app"
	HealthRoute        = "/health"
)
