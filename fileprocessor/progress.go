// Package fileprocessor orchestrates extraction of uploaded course
// material: classification by format, dispatch to the matching engine,
// and normalization of progress reporting.
package fileprocessor

// Stages of a processing run, as surfaced to the UI. Every engine's
// internal vocabulary is normalized into these four.
const (
	StageReading    = "reading"
	StageExtracting = "extracting"
	StageOCR        = "ocr"
	StageComplete   = "complete"
)

// Progress is one progress update during a processing run.
type Progress struct {
	// Stage is one of StageReading, StageExtracting, StageOCR,
	// StageComplete
	Stage string

	// Percent is in [0,100], non-decreasing within a single run
	Percent float64

	// Message is a human-readable description of the current step
	Message string
}

// ProgressFunc receives progress updates. A nil ProgressFunc is valid
// and means the caller does not observe progress.
type ProgressFunc func(Progress)

// emit invokes a progress callback if one was provided.
func emit(progress ProgressFunc, stage string, percent float64, message string) {
	if progress != nil {
		progress(Progress{Stage: stage, Percent: percent, Message: message})
	}
}
