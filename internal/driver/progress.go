package driver

import "fmt"

// Phase is the step a unit is in.
type Phase string

const (
	PhaseParse  Phase = "parse"
	PhaseLoad   Phase = "load"
	PhaseExport Phase = "export"
)

// ProgressStatus is the state of a unit within a phase.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// ProgressEvent is emitted for each unit as a run advances.
type ProgressEvent struct {
	Phase   Phase
	Unit    string
	Status  ProgressStatus
	Message string
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  ○ %s %s (pending)", event.Phase, event.Unit)
	case ProgressWorking:
		return fmt.Sprintf("  ● %s %s...", event.Phase, event.Unit)
	case ProgressComplete:
		if event.Message != "" {
			return fmt.Sprintf("  ✓ %s %s complete (%s)", event.Phase, event.Unit, event.Message)
		}
		return fmt.Sprintf("  ✓ %s %s complete", event.Phase, event.Unit)
	case ProgressFailed:
		return fmt.Sprintf("  ✗ %s %s failed: %s", event.Phase, event.Unit, event.Message)
	default:
		return fmt.Sprintf("  ? %s %s (unknown status)", event.Phase, event.Unit)
	}
}
