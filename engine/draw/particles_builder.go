package draw

import (
	"math/rand/v2"

	"github.com/Carmen-Shannon/ember-go/common"
)

// ParticleEmitterOption configures a ParticleEmitter during construction.
type ParticleEmitterOption func(*ParticleEmitter)

// WithEmitterPosition sets the emitter's spawn point.
//
// Parameters:
//   - position: the spawn point
//
// Returns:
//   - ParticleEmitterOption: the option to apply
func WithEmitterPosition(position common.Vec2) ParticleEmitterOption {
	return func(e *ParticleEmitter) {
		e.position = position
	}
}

// WithSpread jitters each spawn point by up to +/- spread on each axis.
//
// Parameters:
//   - spread: the per-axis spawn jitter
//
// Returns:
//   - ParticleEmitterOption: the option to apply
func WithSpread(spread common.Vec2) ParticleEmitterOption {
	return func(e *ParticleEmitter) {
		e.spread = spread
	}
}

// WithSpawnRate sets how many particles spawn per second.
//
// Parameters:
//   - rate: particles per second
//
// Returns:
//   - ParticleEmitterOption: the option to apply
func WithSpawnRate(rate float32) ParticleEmitterOption {
	return func(e *ParticleEmitter) {
		e.spawnRate = rate
	}
}

// WithGravity applies a constant acceleration to every particle.
//
// Parameters:
//   - gravity: acceleration in units per second squared
//
// Returns:
//   - ParticleEmitterOption: the option to apply
func WithGravity(gravity common.Vec2) ParticleEmitterOption {
	return func(e *ParticleEmitter) {
		e.gravity = gravity
	}
}

// WithSpeedRange sets the initial speed range for spawned particles.
//
// Parameters:
//   - minSpeed: the minimum initial speed
//   - maxSpeed: the maximum initial speed
//
// Returns:
//   - ParticleEmitterOption: the option to apply
func WithSpeedRange(minSpeed, maxSpeed float32) ParticleEmitterOption {
	return func(e *ParticleEmitter) {
		e.minSpeed = minSpeed
		e.maxSpeed = maxSpeed
	}
}

// WithLifeRange sets the lifetime range in seconds for spawned particles.
//
// Parameters:
//   - minLife: the minimum lifetime
//   - maxLife: the maximum lifetime
//
// Returns:
//   - ParticleEmitterOption: the option to apply
func WithLifeRange(minLife, maxLife float32) ParticleEmitterOption {
	return func(e *ParticleEmitter) {
		e.minLife = minLife
		e.maxLife = maxLife
	}
}

// WithSizeRange sets the quad size range for spawned particles.
//
// Parameters:
//   - minSize: the minimum particle size
//   - maxSize: the maximum particle size
//
// Returns:
//   - ParticleEmitterOption: the option to apply
func WithSizeRange(minSize, maxSize float32) ParticleEmitterOption {
	return func(e *ParticleEmitter) {
		e.minSize = minSize
		e.maxSize = maxSize
	}
}

// WithAngleRange restricts the emission direction to an angle range in
// radians. The default emits in every direction.
//
// Parameters:
//   - minAngle: the minimum emission angle
//   - maxAngle: the maximum emission angle
//
// Returns:
//   - ParticleEmitterOption: the option to apply
func WithAngleRange(minAngle, maxAngle float32) ParticleEmitterOption {
	return func(e *ParticleEmitter) {
		e.minAngle = minAngle
		e.maxAngle = maxAngle
	}
}

// WithColorGradient sets the color a particle is born with and the color it
// fades to over its lifetime.
//
// Parameters:
//   - start: the color at spawn
//   - end: the color at expiry
//
// Returns:
//   - ParticleEmitterOption: the option to apply
func WithColorGradient(start, end common.Color) ParticleEmitterOption {
	return func(e *ParticleEmitter) {
		e.startColor = start
		e.endColor = end
	}
}

// WithMaxParticles caps the number of live particles.
//
// Parameters:
//   - count: the particle cap
//
// Returns:
//   - ParticleEmitterOption: the option to apply
func WithMaxParticles(count int) ParticleEmitterOption {
	return func(e *ParticleEmitter) {
		if count > 0 {
			e.maxCount = count
		}
	}
}

// WithSeed makes the emitter's random sequence reproducible.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - ParticleEmitterOption: the option to apply
func WithSeed(seed uint64) ParticleEmitterOption {
	return func(e *ParticleEmitter) {
		e.rng = rand.New(rand.NewPCG(seed, seed))
	}
}
