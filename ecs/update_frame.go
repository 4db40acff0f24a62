package ecs

import "go.uber.org/zap"

// UpdateFrame is what every system sees during one scheduler tick.
type UpdateFrame struct {
	// Number counts ticks from 1.
	Number    uint64
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
	Log       *zap.Logger
}

func newUpdateFrame(number uint64, dt float64, storage *Storage, log *zap.Logger) *UpdateFrame {
	return &UpdateFrame{
		Number:    number,
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
		Log:       log,
	}
}
