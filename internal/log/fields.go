package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUsername   = "username"
	FieldUserID     = "user_id"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldExpenseID  = "expense_id"
	FieldCount      = "count"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentSession   = "session"
	ComponentAPI       = "api"
	ComponentStorage   = "storage"
	ComponentDashboard = "dashboard"
	ComponentViews     = "views"
	ComponentExport    = "export"
)

// Operations defines standard operation names
const (
	OpInitialize = "initialize"
	OpLogin      = "login"
	OpRegister   = "register"
	OpLogout     = "logout"
	OpRefresh    = "refresh"
	OpAdd        = "add"
	OpList       = "list"
	OpAnalytics  = "analytics"
	OpExport     = "export"
)
