// Package meshio loads triangle mesh geometry and decoded image textures
// referenced by shape/texture directives (plymesh, gltfmesh, the "image"
// texture type). Both loaders are cached by path so repeated references to
// the same file inside a scene only pay the IO/decode cost once.
package meshio

import (
	"fmt"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/hatoo/rene-sub000/vmath"
)

// MeshData is one loaded mesh, already triangulated; vertices are kept as
// the file lists them, with no deduplication.
type MeshData struct {
	Positions []vmath.Vec3
	Normals   []vmath.Vec3 // empty means "derive from face winding"
	UVs       []vmath.Vec2
	Indices   []uint32
}

// MeshLoader resolves a plymesh/gltfmesh Shape directive's filename
// argument into mesh data. format is "ply" or "gltf"; gltf files may
// contain more than one primitive, hence the slice return.
type MeshLoader interface {
	LoadMesh(format, path string) ([]*MeshData, error)
}

// cachingLoader wraps the two concrete file loaders with an LRU cache keyed
// by the cleaned absolute-ish path, so a scene that instances the same
// plymesh through many ObjectInstance directives only parses it once.
type cachingLoader struct {
	cache *lru.Cache
}

// NewMeshLoader returns a MeshLoader caching up to capacity distinct files.
func NewMeshLoader(capacity int) (MeshLoader, error) {
	c, err := lru.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("meshio: new cache: %w", err)
	}
	return &cachingLoader{cache: c}, nil
}

func (c *cachingLoader) LoadMesh(format, path string) ([]*MeshData, error) {
	key := format + ":" + filepath.Clean(path)
	if v, ok := c.cache.Get(key); ok {
		return v.([]*MeshData), nil
	}
	var meshes []*MeshData
	var err error
	switch strings.ToLower(format) {
	case "ply":
		var m *MeshData
		m, err = loadPLY(path)
		if err == nil {
			meshes = []*MeshData{m}
		}
	case "gltf", "glb":
		meshes, err = loadGLTFMeshes(path)
	default:
		return nil, fmt.Errorf("meshio: unsupported mesh format %q", format)
	}
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, meshes)
	return meshes, nil
}
