package log

const (
	// Service
	FieldService = "service"
	FieldSource  = "source"

	// CLI
	FieldCommand = "command"

	// Generator
	FieldIDType    = "id_type"
	FieldMachineID = "machine_id"
	FieldEpoch     = "epoch"
	FieldSequence  = "sequence"
	FieldCount     = "count"
	FieldLastMs    = "last_ms"
	FieldNowMs     = "now_ms"
)
