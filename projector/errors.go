package projector

import "errors"

// Contract errors. These report programmer mistakes and are returned
// synchronously, never raised as events.
var (
	// ErrNotInitialized is returned when an operation needs collaborators
	// that Initialize has not attached
	ErrNotInitialized = errors.New("projector is not initialized")
	// ErrAlreadyInitialized is returned by a second Initialize
	ErrAlreadyInitialized = errors.New("projector is already initialized")
	// ErrMissingCollaborator is returned when a required collaborator is nil
	ErrMissingCollaborator = errors.New("required collaborator is missing")
	// ErrAlreadyPreparing is returned by Prepare while a prepare is running
	ErrAlreadyPreparing = errors.New("projector is already being prepared")
	// ErrPlayerNotIdle is returned when the player must be Idle
	ErrPlayerNotIdle = errors.New("player must be idle")
	// ErrNoSource is returned by Prepare without a source URL or text
	ErrNoSource = errors.New("source url or text is required")
)

// Recoverable errors. These are raised as EventError and leave the projector
// ready for another Prepare.
var (
	// ErrEmptyDocument is raised when the OPF payload is empty
	ErrEmptyDocument = errors.New("OPF document is empty")
	// ErrFetch wraps failures fetching the OPF document
	ErrFetch = errors.New("failed to fetch OPF document")
	// ErrTransform wraps failures preparing the video transform
	ErrTransform = errors.New("failed to prepare video transform")
	// ErrProjection wraps failures building the projection geometry
	ErrProjection = errors.New("failed to build projection")
)

// IsContractViolation reports whether err is a programmer error rather than
// a recoverable failure.
func IsContractViolation(err error) bool {
	for _, target := range []error{
		ErrNotInitialized,
		ErrAlreadyInitialized,
		ErrMissingCollaborator,
		ErrAlreadyPreparing,
		ErrPlayerNotIdle,
		ErrNoSource,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
