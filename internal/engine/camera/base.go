package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/gllessons/internal/engine/input"
	"github.com/Faultbox/gllessons/internal/logger"
)

const (
	maxPitch = 85
	minFOV   = 1
	maxFOV   = 90
)

var worldUp = mgl32.Vec3{0, 1, 0}

// base is the state and behaviour shared by all variants.
type base struct {
	variant Variant

	position  mgl32.Vec3
	direction mgl32.Vec3
	up        mgl32.Vec3

	// Euler angles in degrees
	roll, pitch, yaw float32

	width, height int
	settings      Settings

	// canRoll enables the roll keys and the roll reset while looking.
	canRoll bool
	view    func(b *base) mgl32.Mat4

	matrix mgl32.Mat4
	dirty  bool

	// generation increments on every recompute; pushed records what each
	// program last received. Programs are keyed by value since GL ids are
	// reused after a delete and change on reload.
	generation uint64
	pushed     map[Program]pushState

	firstClick bool
}

type pushState struct {
	id         uint32
	generation uint64
}

func newBase(v Variant, position mgl32.Vec3, roll, pitch, yaw float32, width, height int, s Settings) base {
	return base{
		variant:    v,
		position:   position,
		roll:       roll,
		pitch:      mgl32.Clamp(pitch, -maxPitch, maxPitch),
		yaw:        yaw,
		width:      max(width, 1),
		height:     max(height, 1),
		settings:   s,
		canRoll:    true,
		view:       (*base).lookAtView,
		pushed:     make(map[Program]pushState),
		firstClick: true,
	}
}

// HandleWindowEvent implements Camera.
func (b *base) HandleWindowEvent(ev input.Event, dt float64) {
	switch ev.Type {
	case input.EventResize:
		// Minimised windows report a zero size.
		if ev.Width <= 0 || ev.Height <= 0 {
			return
		}
		b.width, b.height = ev.Width, ev.Height
		b.dirty = true
	case input.EventScroll:
		b.fov(b.settings.FOV - float32(ev.ScrollY*dt)*b.settings.ZoomSensitivity)
	}
}

func (b *base) fov(v float32) {
	b.settings.FOV = mgl32.Clamp(v, minFOV, maxFOV)
	b.dirty = true
}

// SetCamMatrix implements Camera.
func (b *base) SetCamMatrix(p Program) {
	if b.dirty {
		b.recompute()
	}
	if s, ok := b.pushed[p]; ok && s.id == p.ID() && s.generation == b.generation {
		return
	}
	b.upload(p)
}

// ForceSetCamMatrix implements Camera.
func (b *base) ForceSetCamMatrix(p Program) {
	b.recompute()
	b.upload(p)
}

func (b *base) upload(p Program) {
	p.Use()
	p.SetMat4(MatrixUniform, b.matrix)

	id := p.ID()
	for q, s := range b.pushed {
		if q != p && s.id == id {
			delete(b.pushed, q)
		}
	}
	b.pushed[p] = pushState{id: id, generation: b.generation}
}

// Configure implements Camera.
func (b *base) Configure(s Settings) {
	b.settings = b.settings.merge(s)
	b.fov(b.settings.FOV)
}

func (b *base) Position() mgl32.Vec3  { return b.position }
func (b *base) Direction() mgl32.Vec3 { return b.direction }
func (b *base) Up() mgl32.Vec3        { return b.up }
func (b *base) FOV() float32          { return b.settings.FOV }
func (b *base) Matrix() mgl32.Mat4    { return b.matrix }

func (b *base) Orientation() (roll, pitch, yaw float32) {
	return b.roll, b.pitch, b.yaw
}

// update runs one frame. move translates the camera by step along the
// variant's movement axes.
func (b *base) update(in input.State, dt float64, move func(in input.State, step float32)) {
	t := float32(dt)
	step := b.settings.Speed * t
	rollStep := b.settings.RollSpeed * t

	sprint := in.Pressed(input.ActionSprint)
	if sprint {
		step *= b.settings.SprintMultiplier
		rollStep *= b.settings.SprintMultiplier
	}

	b.look(in, t)

	if b.canRoll {
		if in.Pressed(input.ActionRollLeft) {
			b.roll -= rollStep
			b.dirty = true
		}
		if in.Pressed(input.ActionRollRight) {
			b.roll += rollStep
			b.dirty = true
		}
	}

	if b.dirty {
		b.updateDirection()
	}

	move(in, step)

	if b.dirty {
		b.recompute()
	}

	if sprint && in.Pressed(input.ActionDebugPrint) {
		logger.Named("camera").Info("camera pose",
			zap.String("variant", string(b.variant)),
			zap.Float32s("position", b.position[:]),
			zap.Float32("pitch", b.pitch),
			zap.Float32("roll", b.roll),
			zap.Float32("yaw", b.yaw))
	}
}

// look rotates pitch and yaw from the cursor offset to the viewport centre
// while the look button is held. The first held frame only captures the
// cursor.
func (b *base) look(in input.State, t float32) {
	if !in.Pressed(input.ActionLook) {
		if !b.firstClick {
			in.SetCursorHidden(false)
			b.firstClick = true
		}
		return
	}

	// Mouse deltas are applied in world yaw/pitch, which only matches
	// what the user sees without roll.
	if b.canRoll && b.roll != 0 {
		b.roll = 0
		b.dirty = true
	}

	cx, cy := float64(b.width)/2, float64(b.height)/2
	if b.firstClick {
		in.SetCursorHidden(true)
		in.SetCursorPos(cx, cy)
		b.firstClick = false
		return
	}

	x, y := in.CursorPos()
	s := b.settings.Sensitivity * t
	b.pitch -= s * float32(y-cy) / float32(b.height)
	b.yaw += s * float32(x-cx) / float32(b.width)
	b.pitch = mgl32.Clamp(b.pitch, -maxPitch, maxPitch)
	b.dirty = true

	in.SetCursorPos(cx, cy)
}

// translate moves along forward and right for the held movement keys.
func (b *base) translate(in input.State, forward, right mgl32.Vec3, step float32) {
	if in.Pressed(input.ActionForward) {
		b.position = b.position.Add(forward.Mul(step))
		b.dirty = true
	}
	if in.Pressed(input.ActionBackward) {
		b.position = b.position.Sub(forward.Mul(step))
		b.dirty = true
	}
	if in.Pressed(input.ActionStrafeLeft) {
		b.position = b.position.Sub(right.Mul(step))
		b.dirty = true
	}
	if in.Pressed(input.ActionStrafeRight) {
		b.position = b.position.Add(right.Mul(step))
		b.dirty = true
	}
}

func (b *base) updateDirection() {
	yaw := mgl32.DegToRad(b.yaw)
	pitch := mgl32.DegToRad(b.pitch)
	b.direction = mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
	b.up = mgl32.QuatRotate(mgl32.DegToRad(b.roll), b.direction).Rotate(worldUp)
}

func (b *base) recompute() {
	b.updateDirection()
	b.matrix = b.projection().Mul4(b.view(b))
	b.generation++
	b.dirty = false
}

func (b *base) projection() mgl32.Mat4 {
	aspect := float32(b.width) / float32(b.height)
	return mgl32.Perspective(mgl32.DegToRad(b.settings.FOV), aspect, b.settings.Near, b.settings.Far)
}

func (b *base) lookAtView() mgl32.Mat4 {
	return mgl32.LookAtV(b.position, b.position.Add(b.direction), b.up)
}

// basisView builds the view matrix from the camera basis directly.
func (b *base) basisView() mgl32.Mat4 {
	front := b.direction.Mul(-1)
	right := b.up.Cross(front).Normalize()
	camUp := front.Cross(right)
	rot := mgl32.Mat4FromRows(
		right.Vec4(0),
		camUp.Vec4(0),
		front.Vec4(0),
		mgl32.Vec4{0, 0, 0, 1},
	)
	p := b.position
	return rot.Mul4(mgl32.Translate3D(-p[0], -p[1], -p[2]))
}
