package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldUsername   = "username"
	FieldTxID       = "transaction_id"
	FieldTxType     = "transaction_type"
	FieldCategory   = "category"
	FieldAmount     = "amount_cents"
	FieldDate       = "date"
	FieldSheetsRef  = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentAuth    = "auth"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpRegister     = "register"
	OpAuthenticate = "authenticate"
	OpAppend       = "append"
	OpList         = "list"
	OpAdd          = "add"
	OpRemove       = "remove"
	OpSync         = "sync"
	OpStartup      = "startup"
	OpShutdown     = "shutdown"
)

// LogFields provides a builder for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds the component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds the request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithError adds the error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds the operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithUser adds user identity fields
func (f LogFields) WithUser(id int64, username string) LogFields {
	f[FieldUserID] = id
	f[FieldUsername] = username
	return f
}

// WithTransaction adds transaction fields
func (f LogFields) WithTransaction(id int64, txType, category string, amountCents int64) LogFields {
	f[FieldTxID] = id
	f[FieldTxType] = txType
	f[FieldCategory] = category
	f[FieldAmount] = amountCents
	return f
}

// ToSlice converts LogFields to a flat slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
