package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldExpenseID  = "expense_id"
	FieldSalaryID   = "salary_id"
	FieldCategoryID = "category_id"
	FieldCategory   = "category"
	FieldAmount     = "amount_cents"
	FieldCurrency   = "currency"
)

// Standard component names.
const (
	ComponentApp    = "app"
	ComponentReport = "report"
)
