package cpu

import (
	"sort"

	"github.com/hatoo/rene-sub000/vmath"
)

// bvhNode is either an interior node (left/right children, no primitives)
// or a leaf (primStart:primStart+primCount into the BVH's own primitive
// index array). Binary median-split tree, built once per mesh.
type bvhNode struct {
	bounds                 aabb
	left, right            int // -1 for a leaf
	primStart, primCount   int
}

type triangleBVH struct {
	vertices []vmath.Vec3
	indices  []uint32 // triangle i spans indices[3*i:3*i+3]
	nodes    []bvhNode
	primIdx  []int // permutation of triangle indices, leaves reference slices of this
}

const bvhLeafThreshold = 4

func buildTriangleBVH(vertices []vmath.Vec3, indices []uint32) *triangleBVH {
	triCount := len(indices) / 3
	bvh := &triangleBVH{vertices: vertices, indices: indices}
	bounds := make([]aabb, triCount)
	centroids := make([]vmath.Vec3, triCount)
	bvh.primIdx = make([]int, triCount)
	for i := 0; i < triCount; i++ {
		b := emptyAABB()
		for k := 0; k < 3; k++ {
			b = b.extend(vertices[indices[3*i+k]])
		}
		bounds[i] = b
		centroids[i] = b.centroid()
		bvh.primIdx[i] = i
	}
	if triCount == 0 {
		return bvh
	}
	bvh.build(0, triCount, bounds, centroids)
	return bvh
}

// build recursively partitions bvh.primIdx[start:end] by a median split
// along the current node bounds' largest axis, appending nodes as it goes
// and returning the new node's index. Matches the shape of a textbook
// median-split BVH: O(n log n), no surface-area-heuristic refinement.
func (bvh *triangleBVH) build(start, end int, bounds []aabb, centroids []vmath.Vec3) int {
	nodeBounds := emptyAABB()
	for i := start; i < end; i++ {
		nodeBounds = nodeBounds.union(bounds[bvh.primIdx[i]])
	}
	idx := len(bvh.nodes)
	bvh.nodes = append(bvh.nodes, bvhNode{bounds: nodeBounds, left: -1, right: -1})

	if end-start <= bvhLeafThreshold {
		bvh.nodes[idx].primStart = start
		bvh.nodes[idx].primCount = end - start
		return idx
	}

	axis := nodeBounds.largestAxis()
	slice := bvh.primIdx[start:end]
	sort.Slice(slice, func(i, j int) bool {
		return axisOf(centroids[slice[i]], axis) < axisOf(centroids[slice[j]], axis)
	})
	mid := start + (end-start)/2

	left := bvh.build(start, mid, bounds, centroids)
	right := bvh.build(mid, end, bounds, centroids)
	bvh.nodes[idx].left = left
	bvh.nodes[idx].right = right
	return idx
}

// intersect walks the tree (iterative stack to avoid recursion overhead
// per traced ray) and returns the closest hit, or hit=false.
func (bvh *triangleBVH) intersect(origin, dir vmath.Vec3, tMin, tMax float32) (t, u, v float32, primIndex int, hit bool) {
	if len(bvh.nodes) == 0 {
		return 0, 0, 0, 0, false
	}
	invDir := vmath.Vec3{X: 1 / dir.X, Y: 1 / dir.Y, Z: 1 / dir.Z}
	best := tMax
	bestHit := false
	var bestU, bestV float32
	var bestPrim int

	stack := make([]int, 0, 64)
	stack = append(stack, 0)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := bvh.nodes[n]
		if !node.bounds.intersect(origin, invDir, tMin, best) {
			continue
		}
		if node.left < 0 {
			for i := 0; i < node.primCount; i++ {
				tri := bvh.primIdx[node.primStart+i]
				i0 := bvh.indices[3*tri]
				i1 := bvh.indices[3*tri+1]
				i2 := bvh.indices[3*tri+2]
				v0, v1, v2 := bvh.vertices[i0], bvh.vertices[i1], bvh.vertices[i2]
				tt, uu, vv, ok := mollerTrumbore(origin, dir, v0, v1, v2, tMin, best)
				if ok {
					best = tt
					bestU, bestV = uu, vv
					bestPrim = tri
					bestHit = true
				}
			}
			continue
		}
		stack = append(stack, node.left, node.right)
	}
	return best, bestU, bestV, bestPrim, bestHit
}

// anyHit is the shadow-ray form: returns as soon as any triangle blocks
// the segment, without tracking which one or its barycentrics.
func (bvh *triangleBVH) anyHit(origin, dir vmath.Vec3, tMin, tMax float32) bool {
	if len(bvh.nodes) == 0 {
		return false
	}
	invDir := vmath.Vec3{X: 1 / dir.X, Y: 1 / dir.Y, Z: 1 / dir.Z}
	stack := make([]int, 0, 64)
	stack = append(stack, 0)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := bvh.nodes[n]
		if !node.bounds.intersect(origin, invDir, tMin, tMax) {
			continue
		}
		if node.left < 0 {
			for i := 0; i < node.primCount; i++ {
				tri := bvh.primIdx[node.primStart+i]
				i0 := bvh.indices[3*tri]
				i1 := bvh.indices[3*tri+1]
				i2 := bvh.indices[3*tri+2]
				v0, v1, v2 := bvh.vertices[i0], bvh.vertices[i1], bvh.vertices[i2]
				if _, _, _, ok := mollerTrumbore(origin, dir, v0, v1, v2, tMin, tMax); ok {
					return true
				}
			}
			continue
		}
		stack = append(stack, node.left, node.right)
	}
	return false
}

// mollerTrumbore is the teacher's ray-triangle test (editor/raycast.go),
// generalized to take an explicit valid t-range instead of a single
// running closest-distance comparison.
func mollerTrumbore(origin, dir, v0, v1, v2 vmath.Vec3, tMin, tMax float32) (t, u, v float32, ok bool) {
	const epsilon = 1e-7

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := dir.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, 0, 0, false
	}
	f := 1.0 / a
	s := origin.Sub(v0)
	uu := f * s.Dot(h)
	if uu < 0 || uu > 1 {
		return 0, 0, 0, false
	}
	q := s.Cross(edge1)
	vv := f * dir.Dot(q)
	if vv < 0 || uu+vv > 1 {
		return 0, 0, 0, false
	}
	tt := f * edge2.Dot(q)
	if tt < tMin || tt > tMax {
		return 0, 0, 0, false
	}
	return tt, uu, vv, true
}
