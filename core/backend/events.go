package backend

import (
	"dat-workbench/core/descriptor"
)

// OperationKind identifies the direction of a conversion.
type OperationKind string

const (
	// OperationExport converts a DAT into its editable export file.
	OperationExport OperationKind = "Export"
	// OperationGenerate converts an export file back into a DAT.
	OperationGenerate OperationKind = "Generate"
)

// Valid reports whether k is a known operation kind.
func (k OperationKind) Valid() bool {
	return k == OperationExport || k == OperationGenerate
}

// PhaseKind is the state reported by a processing event.
type PhaseKind string

const (
	PhaseWorking  PhaseKind = "Working"
	PhaseFinished PhaseKind = "Finished"
	PhaseError    PhaseKind = "Error"
)

// Phase is Working, Finished(Path) or Error(Message).
type Phase struct {
	Kind PhaseKind `json:"kind"`
	// Path is the output file of a Finished phase.
	Path string `json:"path,omitempty"`
	// Message is the failure text of an Error phase.
	Message string `json:"message,omitempty"`
}

// Working returns the in-flight phase.
func Working() Phase { return Phase{Kind: PhaseWorking} }

// Finished returns the success phase for the given output path.
func Finished(path string) Phase { return Phase{Kind: PhaseFinished, Path: path} }

// Failed returns the error phase with the given message.
func Failed(message string) Phase { return Phase{Kind: PhaseError, Message: message} }

// IsTerminal reports whether p ends an operation.
func (p Phase) IsTerminal() bool {
	return p.Kind == PhaseFinished || p.Kind == PhaseError
}

// ProcessingEvent reports a state transition of one operation.
type ProcessingEvent struct {
	Descriptor descriptor.Descriptor `json:"descriptor"`
	Kind       OperationKind         `json:"kind"`
	Phase      Phase                 `json:"phase"`
	// Project is the project path that was active when the operation was
	// requested. Empty when the backend does not track it.
	Project string `json:"project,omitempty"`
}

// Valid reports whether e is well formed. Malformed events are ignored by
// every consumer.
func (e ProcessingEvent) Valid() bool {
	if !e.Descriptor.IsValid() || !e.Kind.Valid() {
		return false
	}
	switch e.Phase.Kind {
	case PhaseWorking, PhaseFinished, PhaseError:
		return true
	default:
		return false
	}
}

// FileChangeEvent reports that the export file of a descriptor came into
// or went out of existence.
type FileChangeEvent struct {
	Descriptor descriptor.Descriptor `json:"descriptor"`
	IsDelete   bool                  `json:"is_delete"`
}
