package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldPath      = "path"
	FieldInput     = "input"
	FieldOutput    = "output"
	FieldMonth     = "month"
	FieldCategory  = "category"
	FieldSpend     = "spend"
	FieldCap       = "cap"
	FieldStatus    = "status"
	FieldChannel   = "channel"
	FieldRows      = "rows"
	FieldDropped   = "dropped"
	FieldPeriods   = "periods"
	FieldModel     = "model"
	FieldFrequency = "frequency"
	FieldLastSent  = "last_sent"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentIngest     = "ingest"
	ComponentClean      = "clean"
	ComponentCategorize = "categorize"
	ComponentBudget     = "budget"
	ComponentForecast   = "forecast"
	ComponentSchedule   = "schedule"
	ComponentState      = "state"
	ComponentNotify     = "notify"
	ComponentReport     = "report"
	ComponentPipeline   = "pipeline"
	ComponentWorker     = "worker"
	ComponentTrainer    = "trainer"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpClean    = "clean"
	OpClassify = "classify"
	OpEvaluate = "evaluate"
	OpForecast = "forecast"
	OpDispatch = "dispatch"
	OpWrite    = "write"
	OpTrain    = "train"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
