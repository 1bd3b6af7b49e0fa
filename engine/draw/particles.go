package draw

import (
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/chewxy/math32"
)

// particleChunkSize is the number of particles integrated per pool task.
// Smaller chunks spread better across workers but pay more submission
// overhead per frame.
const particleChunkSize = 1024

// Particle is a single live particle owned by a ParticleEmitter.
type Particle struct {
	Position common.Vec2
	Velocity common.Vec2
	Life     float32
	MaxLife  float32
	Size     float32
}

// ParticleEmitter spawns and integrates particles on the CPU. Integration runs
// in parallel chunks on a bounded worker pool that persists across frames, so
// large particle counts do not spawn per-frame goroutines.
//
// Update and the Draw2D.Particles call may run on different goroutines; the
// emitter serializes access to its particle slice internally.
type ParticleEmitter struct {
	mu *sync.Mutex

	position   common.Vec2
	spread     common.Vec2
	spawnRate  float32
	gravity    common.Vec2
	minSpeed   float32
	maxSpeed   float32
	minLife    float32
	maxLife    float32
	minSize    float32
	maxSize    float32
	minAngle   float32
	maxAngle   float32
	startColor common.Color
	endColor   common.Color
	maxCount   int

	rng        *rand.Rand
	particles  []Particle
	spawnAccum float32
	taskID     int

	pool worker.DynamicWorkerPool
}

// NewParticleEmitter creates a particle emitter.
//
// Parameters:
//   - options: optional emitter configuration
//
// Returns:
//   - *ParticleEmitter: the configured emitter
func NewParticleEmitter(options ...ParticleEmitterOption) *ParticleEmitter {
	e := &ParticleEmitter{
		mu:         &sync.Mutex{},
		spawnRate:  100,
		minSpeed:   20,
		maxSpeed:   80,
		minLife:    0.5,
		maxLife:    2,
		minSize:    2,
		maxSize:    4,
		minAngle:   0,
		maxAngle:   2 * math.Pi,
		startColor: common.ColorWhite,
		endColor:   common.ColorWhite.WithAlpha(0),
		maxCount:   4096,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, option := range options {
		option(e)
	}

	// Queue size of 256 covers the chunk count of even very large emitters.
	workers := max(runtime.NumCPU()-1, 1)
	e.pool = worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)
	return e
}

// SetPosition moves the emitter's spawn point.
//
// Parameters:
//   - position: the new spawn point
func (e *ParticleEmitter) SetPosition(position common.Vec2) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = position
}

// Position retrieves the emitter's spawn point.
//
// Returns:
//   - common.Vec2: the spawn point
func (e *ParticleEmitter) Position() common.Vec2 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

// Count retrieves the number of live particles.
//
// Returns:
//   - int: the live particle count
func (e *ParticleEmitter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.particles)
}

// Burst spawns the given number of particles immediately, subject to the
// emitter's particle cap.
//
// Parameters:
//   - count: the number of particles to spawn
func (e *ParticleEmitter) Burst(count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < count && len(e.particles) < e.maxCount; i++ {
		e.particles = append(e.particles, e.spawnOne())
	}
}

// Update advances the emitter by dt seconds: it spawns new particles at the
// configured rate, integrates live particles in parallel, and drops particles
// whose lifetime has expired.
//
// Parameters:
//   - dt: the elapsed time in seconds
func (e *ParticleEmitter) Update(dt float32) {
	if dt <= 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.spawnAccum += e.spawnRate * dt
	for e.spawnAccum >= 1 && len(e.particles) < e.maxCount {
		e.particles = append(e.particles, e.spawnOne())
		e.spawnAccum--
	}
	if e.spawnAccum >= 1 {
		// At the cap; discard the backlog so a later dip doesn't burst.
		e.spawnAccum = 0
	}

	e.integrate(dt)

	// Compact expired particles in place.
	live := e.particles[:0]
	for _, p := range e.particles {
		if p.Life > 0 {
			live = append(live, p)
		}
	}
	e.particles = live
}

// integrate advances every live particle by dt, splitting the slice into
// chunks submitted to the worker pool. Chunks are disjoint so the tasks share
// no state beyond the barrier. Callers must hold e.mu.
func (e *ParticleEmitter) integrate(dt float32) {
	count := len(e.particles)
	if count == 0 {
		return
	}
	if count <= particleChunkSize {
		integrateChunk(e.particles, e.gravity, dt)
		return
	}

	var wg sync.WaitGroup
	for start := 0; start < count; start += particleChunkSize {
		end := min(start+particleChunkSize, count)
		chunk := e.particles[start:end]

		wg.Add(1)
		id := e.taskID
		e.taskID++
		e.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				integrateChunk(chunk, e.gravity, dt)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func integrateChunk(particles []Particle, gravity common.Vec2, dt float32) {
	for i := range particles {
		p := &particles[i]
		p.Velocity = p.Velocity.Add(gravity.Scale(dt))
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		p.Life -= dt
	}
}

// spawnOne builds a particle from the emitter's configured ranges. Callers
// must hold e.mu.
func (e *ParticleEmitter) spawnOne() Particle {
	angle := e.randRange(e.minAngle, e.maxAngle)
	speed := e.randRange(e.minSpeed, e.maxSpeed)
	life := e.randRange(e.minLife, e.maxLife)

	jitter := common.Vec2{
		X: e.randRange(-e.spread.X, e.spread.X),
		Y: e.randRange(-e.spread.Y, e.spread.Y),
	}

	return Particle{
		Position: e.position.Add(jitter),
		Velocity: common.Vec2{X: math32.Cos(angle), Y: math32.Sin(angle)}.Scale(speed),
		Life:     life,
		MaxLife:  life,
		Size:     e.randRange(e.minSize, e.maxSize),
	}
}

func (e *ParticleEmitter) randRange(lo, hi float32) float32 {
	if hi <= lo {
		return lo
	}
	return lo + e.rng.Float32()*(hi-lo)
}

// appendQuads appends one solid quad per live particle, colored by the
// emitter's start/end gradient and faded by remaining lifetime.
func (e *ParticleEmitter) appendQuads(verts []float32, indices []uint32) ([]float32, []uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.particles {
		t := float32(0)
		if p.MaxLife > 0 {
			t = 1 - p.Life/p.MaxLife
		}
		c := e.startColor.Lerp(e.endColor, t)

		half := p.Size / 2
		base := uint32(len(verts) / 6)
		verts = appendShapeVertex(verts, common.Vec2{X: p.Position.X - half, Y: p.Position.Y - half}, c)
		verts = appendShapeVertex(verts, common.Vec2{X: p.Position.X + half, Y: p.Position.Y - half}, c)
		verts = appendShapeVertex(verts, common.Vec2{X: p.Position.X + half, Y: p.Position.Y + half}, c)
		verts = appendShapeVertex(verts, common.Vec2{X: p.Position.X - half, Y: p.Position.Y + half}, c)
		indices = append(indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
	return verts, indices
}

func (d *draw2D) Particles(emitter *ParticleEmitter) error {
	if emitter == nil {
		return nil
	}
	verts, indices := emitter.appendQuads(nil, nil)
	if len(verts) == 0 {
		return nil
	}
	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineShapes,
		Vertices:   verts,
		Indices:    indices,
		Transform:  common.Mat3Identity(),
	})
}
