// Package observability provides logging utilities.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/bloodrage/internal/config"
	"github.com/cory-johannsen/bloodrage/internal/game/combat"
)

// NewLogger creates a structured logger from the given logging configuration.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if len(cfg.Output) > 0 {
		zapCfg.OutputPaths = cfg.Output
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// CombatLogger returns a combat.Listener that records every encounter signal
// at debug level, and outcomes at info.
func CombatLogger(logger *zap.Logger) combat.Listener {
	return func(ev combat.Event) {
		fields := []zap.Field{zap.Stringer("event", ev.Type)}
		if ev.Combatant != nil {
			fields = append(fields, zap.String("combatant", ev.Combatant.ID()))
		}
		if ev.Target != nil {
			fields = append(fields, zap.String("target", ev.Target.ID()))
		}
		if ev.Ability != nil {
			fields = append(fields, zap.String("ability", ev.Ability.ID()))
		}
		if ev.Effect != nil {
			fields = append(fields, zap.String("effect", ev.Effect.Name()))
		}
		switch ev.Type {
		case combat.EventBloodChanged, combat.EventAngerChanged:
			fields = append(fields, zap.Int("current", ev.Current), zap.Int("max", ev.Max))
		case combat.EventStateChanged:
			fields = append(fields, zap.Stringer("state", ev.State))
		case combat.EventTurnStarted, combat.EventTurnEnded:
			fields = append(fields, zap.Int("turn", ev.Turn), zap.Int("round", ev.Round))
		case combat.EventVictory, combat.EventDefeat, combat.EventEscape:
			logger.Info("combat outcome", append(fields, zap.Int("turn", ev.Turn))...)
			return
		}
		logger.Debug("combat event", fields...)
	}
}
