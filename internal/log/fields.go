package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldEntryID     = "entry_id"
	FieldEntryType   = "entry_type"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldUserEmail   = "user_email"
	FieldYear        = "year"
	FieldMonth       = "month"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentSession = "session"
	ComponentEvent   = "event"
	ComponentWorker  = "worker"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpList     = "list"
	OpLoad     = "load"
	OpValidate = "validate"
	OpLogin    = "login"
	OpRegister = "register"
	OpDigest   = "digest"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
