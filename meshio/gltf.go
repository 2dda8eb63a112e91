package meshio

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/hatoo/rene-sub000/vmath"
)

// loadGLTFMeshes flattens every primitive of every mesh in a .gltf/.glb file
// into one MeshData each; material/texture bindings are not read here since
// this renderer's materials are assigned per shape instance, not per
// primitive.
func loadGLTFMeshes(path string) ([]*MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var out []*MeshData
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			m, err := loadGLTFPrimitive(doc, *prim)
			if err != nil {
				return nil, fmt.Errorf("gltf %q mesh %d prim %d: %w", path, mi, pi, err)
			}
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("gltf %q: no primitives", path)
	}
	return out, nil
}

func loadGLTFPrimitive(doc *gltf.Document, prim gltf.Primitive) (*MeshData, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	mesh := &MeshData{Positions: make([]vmath.Vec3, len(positions))}
	for i, p := range positions {
		mesh.Positions[i] = vmath.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err == nil {
			mesh.Normals = make([]vmath.Vec3, len(normals))
			for i, n := range normals {
				mesh.Normals[i] = vmath.Vec3{X: n[0], Y: n[1], Z: n[2]}
			}
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err == nil {
			mesh.UVs = make([]vmath.Vec2, len(uvs))
			for i, uv := range uvs {
				mesh.UVs[i] = vmath.Vec2{X: uv[0], Y: uv[1]}
			}
		}
	}

	if prim.Indices != nil {
		mesh.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		mesh.Indices = make([]uint32, len(mesh.Positions))
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}
	return mesh, nil
}
