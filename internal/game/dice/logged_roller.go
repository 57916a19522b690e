package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so every draw leaves an audit trail.
// Roller itself satisfies Source and can be handed to the combat core.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws from the underlying source and logs the result at debug level.
//
// Precondition: n > 0.
// Postcondition: Returns a value in [0, n).
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("random draw",
		zap.Int("bound", n),
		zap.Int("result", v),
	)
	return v
}

// Die rolls a single die with the given number of sides.
//
// Precondition: sides >= 1.
// Postcondition: Returns a value in [1, sides].
func (r *Roller) Die(sides int) int {
	return r.Intn(sides) + 1
}
