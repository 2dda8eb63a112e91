package integrate

import (
	"github.com/hatoo/rene-sub000/scenelower"
	"github.com/hatoo/rene-sub000/vmath"
)

// generateCameraRay builds a world-space primary ray through pixel (px,py)
// (continuous raster coordinates, jittered by the caller for antialiasing).
// Camera.Projection already stores the inverse of the perspective matrix
// and CameraToWorld the inverse of the world-to-camera transform, so a
// raster point only needs an NDC remap before both inverses carry it to
// world space.
func generateCameraRay(cam scenelower.Camera, film scenelower.Film, px, py float32) vmath.Ray {
	ndcX := 2*px/float32(film.XResolution) - 1
	ndcY := 1 - 2*py/float32(film.YResolution)

	near := cam.Projection.MulVec(vmath.Vec4{X: ndcX, Y: ndcY, Z: -1, W: 1}).ToVec3DivW()
	far := cam.Projection.MulVec(vmath.Vec4{X: ndcX, Y: ndcY, Z: 1, W: 1}).ToVec3DivW()

	origin := cam.CameraToWorld.MulVec(near.ToVec4(1)).ToVec3DivW()
	target := cam.CameraToWorld.MulVec(far.ToVec4(1)).ToVec3DivW()

	return vmath.Ray{Origin: origin, Direction: target.Sub(origin).Normalize()}
}
