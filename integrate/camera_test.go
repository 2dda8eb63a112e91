package integrate

import (
	"testing"

	"github.com/hatoo/rene-sub000/scenelower"
	"github.com/hatoo/rene-sub000/vmath"
)

func TestGenerateCameraRayCenterPixelLooksDownViewDirection(t *testing.T) {
	film := scenelower.Film{XResolution: 100, YResolution: 100}
	cam := scenelower.Camera{
		CameraToWorld: vmath.Mat4Identity(),
		Projection:    vmath.Mat4Perspective(degToRadTest(60), 1, 0.01, 1000).Inverse(),
	}
	ray := generateCameraRay(cam, film, 50, 50)
	if diffVec3(ray.Direction, vmath.Vec3{Z: 1}) > 1e-3 {
		t.Errorf("center pixel direction = %v, want ~(0,0,1)", ray.Direction)
	}
}

func TestGenerateCameraRayOffCenterPixelsDiverge(t *testing.T) {
	film := scenelower.Film{XResolution: 100, YResolution: 100}
	cam := scenelower.Camera{
		CameraToWorld: vmath.Mat4Identity(),
		Projection:    vmath.Mat4Perspective(degToRadTest(60), 1, 0.01, 1000).Inverse(),
	}
	left := generateCameraRay(cam, film, 0, 50)
	right := generateCameraRay(cam, film, 100, 50)
	if left.Direction.X >= 0 {
		t.Errorf("left-edge ray direction.X = %v, want negative", left.Direction.X)
	}
	if right.Direction.X <= 0 {
		t.Errorf("right-edge ray direction.X = %v, want positive", right.Direction.X)
	}
}

func degToRadTest(deg float32) float32 {
	return deg * 3.14159265 / 180
}

func diffVec3(a, b vmath.Vec3) float32 {
	d := a.Sub(b)
	return d.Length()
}
