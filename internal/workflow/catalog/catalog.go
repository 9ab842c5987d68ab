// Package catalog defines the fixed 11-step Brimis repair process: the ordered
// step table, per-step requirement flags, and the step-to-status derivation.
// The table is constant state; nothing here touches storage.
package catalog

// Step identifies one of the 11 workflow steps.
type Step string

const (
	StepReceiving       Step = "step_1_receiving"
	StepLogging         Step = "step_2_logging"
	StepStripAssess     Step = "step_3_strip_assess"
	StepDocumentFaults  Step = "step_4_document_faults"
	StepTechnicalReport Step = "step_5_technical_report"
	StepAwaitPO         Step = "step_6_await_po"
	StepRepair          Step = "step_7_repair"
	StepReassemble      Step = "step_8_reassemble"
	StepFunctionTest    Step = "step_9_function_test"
	StepQCInspection    Step = "step_10_qc_inspection"
	StepDispatch        Step = "step_11_dispatch"
)

// Status is the coarse job status derived from the current step.
type Status string

const (
	StatusReceived              Status = "received"
	StatusLogged                Status = "logged"
	StatusStripped              Status = "stripped"
	StatusAssessed              Status = "assessed"
	StatusAwaitingQuoteApproval Status = "awaiting_quote_approval"
	StatusPOReceived            Status = "po_received"
	StatusInRepair              Status = "in_repair"
	StatusAssembled             Status = "assembled"
	StatusTested                Status = "tested"
	StatusQCPassed              Status = "qc_passed"
	StatusReadyForDispatch      Status = "ready_for_dispatch"
	StatusDispatched            Status = "dispatched"
	StatusOnHold                Status = "on_hold"
	StatusCancelled             Status = "cancelled"
)

// Config describes one step of the process. Number is the explicit position
// in the sequence (1-11) and is independent of iteration order. NextStep is
// empty for the terminal step.
type Config struct {
	ID                      Step   `json:"id"`
	Number                  int    `json:"number"`
	Title                   string `json:"title"`
	Description             string `json:"description"`
	RequiresPhotos          bool   `json:"requires_photos"`
	RequiresChecklist       bool   `json:"requires_checklist"`
	RequiresMeasurements    bool   `json:"requires_measurements"`
	RequiresHazmatClearance bool   `json:"requires_hazmat_clearance"`
	RequiresPOApproval      bool   `json:"requires_po_approval"`
	CanGoBack               bool   `json:"can_go_back"`
	NextStep                Step   `json:"next_step,omitempty"`
}

// TotalSteps is the length of the Brimis process.
const TotalSteps = 11

var steps = map[Step]Config{
	StepReceiving: {
		ID:             StepReceiving,
		Number:         1,
		Title:          "Receiving",
		Description:    "Log equipment arrival and create job",
		RequiresPhotos: true,
		NextStep:       StepLogging,
	},
	StepLogging: {
		ID:                      StepLogging,
		Number:                  2,
		Title:                   "Logging & Hazmat Check",
		Description:             "Record equipment details and check for hazardous materials",
		RequiresChecklist:       true,
		RequiresHazmatClearance: true,
		CanGoBack:               true,
		NextStep:                StepStripAssess,
	},
	StepStripAssess: {
		ID:             StepStripAssess,
		Number:         3,
		Title:          "Strip & Assess",
		Description:    "Dismantle equipment and photograph components",
		RequiresPhotos: true,
		CanGoBack:      true,
		NextStep:       StepDocumentFaults,
	},
	StepDocumentFaults: {
		ID:             StepDocumentFaults,
		Number:         4,
		Title:          "Document Faults",
		Description:    "Record all defects and create parts list",
		RequiresPhotos: true,
		CanGoBack:      true,
		NextStep:       StepTechnicalReport,
	},
	StepTechnicalReport: {
		ID:          StepTechnicalReport,
		Number:      5,
		Title:       "Generate Technical Report",
		Description: "Prepare the technical report for the client quote",
		CanGoBack:   true,
		NextStep:    StepAwaitPO,
	},
	StepAwaitPO: {
		ID:                 StepAwaitPO,
		Number:             6,
		Title:              "Await Purchase Order",
		Description:        "Wait for client approval and PO",
		RequiresPOApproval: true,
		NextStep:           StepRepair,
	},
	StepRepair: {
		ID:                   StepRepair,
		Number:               7,
		Title:                "Repair",
		Description:          "Execute repairs and replace parts",
		RequiresPhotos:       true,
		RequiresChecklist:    true,
		RequiresMeasurements: true,
		NextStep:             StepReassemble,
	},
	StepReassemble: {
		ID:                StepReassemble,
		Number:            8,
		Title:             "Reassemble",
		Description:       "Reassemble equipment using strip photos as reference",
		RequiresPhotos:    true,
		RequiresChecklist: true,
		CanGoBack:         true,
		NextStep:          StepFunctionTest,
	},
	StepFunctionTest: {
		ID:                   StepFunctionTest,
		Number:               9,
		Title:                "Function Test",
		Description:          "Test equipment operation and performance",
		RequiresPhotos:       true,
		RequiresChecklist:    true,
		RequiresMeasurements: true,
		CanGoBack:            true,
		NextStep:             StepQCInspection,
	},
	StepQCInspection: {
		ID:                   StepQCInspection,
		Number:               10,
		Title:                "QC Inspection",
		Description:          "Quality control inspection and measurements",
		RequiresPhotos:       true,
		RequiresChecklist:    true,
		RequiresMeasurements: true,
		NextStep:             StepDispatch,
	},
	StepDispatch: {
		ID:                StepDispatch,
		Number:            11,
		Title:             "Dispatch",
		Description:       "Package and prepare for delivery",
		RequiresPhotos:    true,
		RequiresChecklist: true,
	},
}

// ordered holds the catalog sorted by Config.Number, built once at init.
var ordered = func() []Config {
	out := make([]Config, TotalSteps)
	for _, cfg := range steps {
		out[cfg.Number-1] = cfg
	}
	return out
}()

// ByID returns the configuration for a step.
func ByID(s Step) (Config, bool) {
	cfg, ok := steps[s]
	return cfg, ok
}

// Ordered returns a copy of the catalog sorted by step number.
func Ordered() []Config {
	out := make([]Config, len(ordered))
	copy(out, ordered)
	return out
}

// First returns the entry step of the process.
func First() Step {
	return StepReceiving
}

// IsValid reports whether s names a catalog step.
func (s Step) IsValid() bool {
	_, ok := steps[s]
	return ok
}

// String returns the wire representation of the step.
func (s Step) String() string {
	return string(s)
}

// Number returns the step's position in the sequence, or 0 for an unknown step.
func (s Step) Number() int {
	return steps[s].Number
}

// IsTerminal reports whether the step has no successor.
func (s Step) IsTerminal() bool {
	cfg, ok := steps[s]
	return ok && cfg.NextStep == ""
}

// ProgressPercent returns how far through the process a job at step s is.
func ProgressPercent(s Step) int {
	cfg, ok := steps[s]
	if !ok {
		return 0
	}
	return int(float64(cfg.Number)/float64(TotalSteps)*100 + 0.5)
}

// StatusForStep derives the coarse job status for a workflow step. Two pairs
// of steps intentionally share a status: generating the technical report is
// still part of assessment, and QC inspection reports the same "tested" state
// as the function test that precedes it.
func StatusForStep(s Step) Status {
	switch s {
	case StepReceiving:
		return StatusReceived
	case StepLogging:
		return StatusLogged
	case StepStripAssess:
		return StatusStripped
	case StepDocumentFaults:
		return StatusAssessed
	case StepTechnicalReport:
		return StatusAssessed
	case StepAwaitPO:
		return StatusAwaitingQuoteApproval
	case StepRepair:
		return StatusInRepair
	case StepReassemble:
		return StatusAssembled
	case StepFunctionTest:
		return StatusTested
	case StepQCInspection:
		return StatusTested
	case StepDispatch:
		return StatusReadyForDispatch
	default:
		return StatusReceived
	}
}
