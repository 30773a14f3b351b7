package joinery

import "github.com/zoobzio/capitan"

// Event keys for structured logging.
var (
	KeyShape    = capitan.NewStringKey("shape")
	KeyDriver   = capitan.NewStringKey("driver")
	KeyRows     = capitan.NewStringKey("rows")
	KeyError    = capitan.NewStringKey("error")
	KeyDuration = capitan.NewDurationKey("duration")
)

// Signals emitted by joinery.
var (
	RepositoryCreated = capitan.NewSignal("joinery.repository.created", "Repository created")
	LoadCompleted     = capitan.NewSignal("joinery.load.completed", "Join result reconstructed")
	LoadFailed        = capitan.NewSignal("joinery.load.failed", "Join query or reconstruction failed")
)
