package log

// Field names shared across structured log records.
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldTransactionID = "transaction_id"
	FieldProfileID     = "profile_id"
	FieldAmountCents   = "amount_cents"
	FieldCategory      = "category"
	FieldMerchant      = "merchant"
	FieldBackend       = "backend"
)

// Component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentAnalytics = "analytics"
	ComponentRates     = "rates"
	ComponentAssistant = "assistant"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentBackend   = "backend"
	ComponentCache     = "cache"
)
