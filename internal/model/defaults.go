package model

import "time"

// Shared defaults used by both the TUI and API binaries.
const (
	DefaultWebhookTimeout = 30 * time.Second
	DefaultSessionIdleTTL = 30 * time.Minute
	DefaultAPIPort        = 3000

	// Identifiers sent with every webhook call.
	WebhookSource    = "consultas_app"
	WebhookAction    = "consulta_workflow"
	WebhookUserAgent = "Consultas-App/1.0"

	SavedAtLayout  = "02/01/2006 15:04"
	EmptyFieldText = "Not filled"
)
