package organizer

import (
	"errors"
)

// Op names a mutation of the organizer.
type Op string

const (
	OpRefreshImages Op = "refresh_images"
	OpDeleteImages  Op = "delete_images"
	OpCreateFolder  Op = "create_folder"
	OpRenameFolder  Op = "rename_folder"
	OpDeleteFolder  Op = "delete_folder"
	OpMoveImages    Op = "move_images"
)

var defaultMessages = map[Op]string{
	OpRefreshImages: "Failed to refresh images",
	OpDeleteImages:  "Failed to delete images",
	OpCreateFolder:  "Failed to create folder",
	OpRenameFolder:  "Failed to rename folder",
	OpDeleteFolder:  "Failed to delete folder",
	OpMoveImages:    "Failed to move images",
}

// Sentinel errors wrapped by MutationError when the backend gave no usable
// answer.
var (
	ErrNoBusiness   = errors.New("backend returned no business")
	ErrNotCreated   = errors.New("backend did not create the folder")
	ErrEmptyPath    = errors.New("folder path is required")
	ErrNoImages     = errors.New("image ids are required")
	ErrNoBusinessID = errors.New("business id is required")
	ErrNoBackend    = errors.New("backend is required")
)

// MutationError is returned by every failed mutation. Message is what the
// host shows to the user: the backend's message when it sent one, a generic
// per-operation message otherwise.
type MutationError struct {
	Op      Op
	Message string
	Err     error
}

func (e *MutationError) Error() string { return e.Message }

func (e *MutationError) Unwrap() error { return e.Err }

func newMutationError(op Op, err error) *MutationError {
	msg := defaultMessages[op]
	if err != nil && !isLocalSentinel(err) && err.Error() != "" {
		msg = err.Error()
	}
	return &MutationError{Op: op, Message: msg, Err: err}
}

// isLocalSentinel reports errors that describe a missing answer rather than a
// backend message worth surfacing.
func isLocalSentinel(err error) bool {
	return errors.Is(err, ErrNoBusiness) || errors.Is(err, ErrNotCreated)
}
