// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/courier/internal/adapters/codec"
	_ "go.trai.ch/courier/internal/adapters/config"
	_ "go.trai.ch/courier/internal/adapters/localid"
	_ "go.trai.ch/courier/internal/adapters/logger"
	_ "go.trai.ch/courier/internal/adapters/queuefile"
	// Register app and engine nodes.
	_ "go.trai.ch/courier/internal/app"
	_ "go.trai.ch/courier/internal/engine/resolver"
)
