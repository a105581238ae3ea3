package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix                  [16]float32
	projectionMatrix            [16]float32
	viewProjectionMatrix        [16]float32
	inverseViewProjectionMatrix [16]float32

	right, up, forward mgl32.Vec3

	controller LookController
}

// Camera defines the interface for the panorama camera.
// The camera sits at the world origin, holds perspective settings and computes view/projection
// matrices from an attached LookController each frame via Update().
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// InverseViewProjectionMatrix returns the inverse of the view-projection matrix.
	// Used to unproject screen points into world-space rays, both for picking and by the
	// panorama shader.
	//
	// Returns:
	//   - [16]float32: the inverse view-projection matrix
	InverseViewProjectionMatrix() [16]float32

	// Axes returns the world-space right, up and forward unit vectors as of the last Update.
	//
	// Returns:
	//   - right, up, forward: the camera basis
	Axes() (right, up, forward mgl32.Vec3)

	// Ray casts a world-space ray from the camera through a screen point.
	// The point is converted to NDC as ((x/width)*2-1, -(y/height)*2+1) and unprojected.
	//
	// Parameters:
	//   - x, y: screen position in pixels (origin top-left)
	//   - width, height: viewport size in pixels
	//
	// Returns:
	//   - origin: the ray origin (the camera position)
	//   - direction: the unit ray direction
	Ray(x, y, width, height float64) (origin, direction mgl32.Vec3)

	// Frustum returns the view frustum as of the last Update.
	//
	// Returns:
	//   - common.Frustum: the frustum planes
	Frustum() common.Frustum

	// Uniform returns the GPU camera uniform as of the last Update.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform data
	Uniform() GPUCameraUniform

	// Controller returns the attached LookController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - LookController: the attached controller or nil
	Controller() LookController

	// Update reads the orientation from the controller and recomputes matrices.
	// Should be called once per frame. If no controller is attached, this method does nothing.
	Update()

	// SetFov sets the vertical field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetController attaches a LookController to the camera and recomputes matrices.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl LookController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with a 75° field of view, near plane 0.1 and far plane 1000.
// A controller must be attached via SetController or the WithController option before the
// matrices follow the user's orientation.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:      &sync.Mutex{},
		fov:     75.0 * (math.Pi / 180.0),
		aspect:  1.0,
		near:    0.1,
		far:     1000.0,
		right:   mgl32.Vec3{1, 0, 0},
		up:      mgl32.Vec3{0, 1, 0},
		forward: mgl32.Vec3{0, 0, -1},
	}
	common.Identity(c.viewMatrix[:])
	common.Identity(c.projectionMatrix[:])
	common.Identity(c.viewProjectionMatrix[:])
	common.Identity(c.inverseViewProjectionMatrix[:])
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseViewProjectionMatrix
}

func (c *cameraImpl) Axes() (right, up, forward mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.right, c.up, c.forward
}

func (c *cameraImpl) Ray(x, y, width, height float64) (origin, direction mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if width <= 0 || height <= 0 {
		return mgl32.Vec3{}, c.forward
	}
	ndcX, ndcY := common.ScreenToNDC(x, y, width, height)
	px, py, pz := common.Unproject(c.inverseViewProjectionMatrix[:], float32(ndcX), float32(ndcY), 0.5)

	direction = mgl32.Vec3{px, py, pz}
	if direction.Len() == 0 {
		return mgl32.Vec3{}, c.forward
	}
	return mgl32.Vec3{}, direction.Normalize()
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustumFromMatrix(c.viewProjectionMatrix[:])
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:    c.viewProjectionMatrix,
		InvViewProj: c.inverseViewProjectionMatrix,
		Right:       c.right,
		Up:          c.up,
	}
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) Controller() LookController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl LookController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection, view-projection and inverse view-projection
// matrices along with the camera basis. Without a controller the orientation is yaw = pitch = 0.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	var yaw, pitch float64
	if c.controller != nil {
		yaw, pitch = c.controller.Orientation()
	}

	common.YawPitchView(c.viewMatrix[:], yaw, pitch)
	rx, ry, rz, ux, uy, uz, bx, by, bz := common.YawPitchAxes(yaw, pitch)
	c.right = mgl32.Vec3{rx, ry, rz}
	c.up = mgl32.Vec3{ux, uy, uz}
	c.forward = mgl32.Vec3{-bx, -by, -bz}

	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	common.Invert4(c.inverseViewProjectionMatrix[:], c.viewProjectionMatrix[:])
}
