package render

import (
	"math"

	"github.com/taigrr/marcher/pkg/math3d"
)

// Camera is a pinhole camera. Camera space looks down +Z with +Y up.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation (Euler angles in radians)
	Pitch float64 // Rotation around X axis (look up/down)
	Yaw   float64 // Rotation around Y axis (look left/right)

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height; 0 derives it from the target size
}

// NewCamera creates a camera at the origin looking down +Z with a 90° field
// of view.
func NewCamera() *Camera {
	return &Camera{
		FOV: math.Pi / 2,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
}

// SetRotation sets the camera rotation (pitch, yaw in radians).
func (c *Camera) SetRotation(pitch, yaw float64) {
	c.Pitch = pitch
	c.Yaw = yaw
	c.clampPitch()
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
}

// Orientation returns the camera-to-world rotation.
func (c *Camera) Orientation() math3d.Mat4 {
	return math3d.RotateY(c.Yaw).Mul(math3d.RotateX(-c.Pitch))
}

// Forward returns the forward direction vector.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the right direction vector.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(
		math.Cos(c.Yaw),
		0,
		-math.Sin(c.Yaw),
	)
}

// Up returns the up direction vector.
func (c *Camera) Up() math3d.Vec3 {
	return c.Forward().Cross(c.Right())
}

// MoveForward moves the camera forward (or backward if negative).
func (c *Camera) MoveForward(distance float64) {
	c.Position = c.Position.Add(c.Forward().Scale(distance))
}

// MoveRight moves the camera right (or left if negative).
func (c *Camera) MoveRight(distance float64) {
	c.Position = c.Position.Add(c.Right().Scale(distance))
}

// MoveUp moves the camera up (or down if negative).
func (c *Camera) MoveUp(distance float64) {
	c.Position = c.Position.Add(math3d.Up().Scale(distance))
}

// Rotate rotates the camera by the given angles (in radians).
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	c.Pitch += deltaPitch
	c.Yaw += deltaYaw
	c.clampPitch()
}

func (c *Camera) clampPitch() {
	// Clamp pitch to avoid gimbal lock issues
	const maxPitch = math.Pi/2 - 0.01
	c.Pitch = max(-maxPitch, min(maxPitch, c.Pitch))
}

// LookAt makes the camera look at a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(dir.X, dir.Z)
	c.clampPitch()
}

func (c *Camera) aspect(width, height int) float64 {
	if c.AspectRatio > 0 {
		return c.AspectRatio
	}
	return float64(width) / float64(height)
}

// Direction returns the unit world-space direction through the centre of
// pixel (x, y) of a width x height image. Row 0 is the top.
func (c *Camera) Direction(x, y, width, height int) math3d.Vec3 {
	return c.DirectionAt(float64(x)+0.5, float64(y)+0.5, width, height)
}

// DirectionAt is Direction for continuous screen coordinates.
func (c *Camera) DirectionAt(sx, sy float64, width, height int) math3d.Vec3 {
	tanHalf := math.Tan(c.FOV / 2)
	ndcX := 2*sx/float64(width) - 1
	ndcY := 1 - 2*sy/float64(height)
	local := math3d.V3(ndcX*c.aspect(width, height)*tanHalf, ndcY*tanHalf, 1)
	return c.Orientation().MulVec3Dir(local).Normalize()
}

// WorldToScreen projects a world point to continuous screen coordinates.
// Returns (screenX, screenY, depth, visible); depth is the distance along
// the view axis.
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	local := c.Orientation().Transpose().MulVec3Dir(worldPos.Sub(c.Position))

	// Check if behind camera
	if local.Z <= 0 {
		return 0, 0, 0, false
	}

	tanHalf := math.Tan(c.FOV / 2)
	ndcX := local.X / local.Z / (c.aspect(screenWidth, screenHeight) * tanHalf)
	ndcY := local.Y / local.Z / tanHalf
	if ndcX < -1 || ndcX > 1 || ndcY < -1 || ndcY > 1 {
		return 0, 0, 0, false
	}

	x = (ndcX + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndcY) * 0.5 * float64(screenHeight) // Y is flipped
	return x, y, local.Z, true
}
