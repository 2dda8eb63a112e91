package meshio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hatoo/rene-sub000/vmath"
)

type plyProperty struct {
	name string
	kind string // "float", "int", "uchar", ... or "list"
	// for a list property: count type and element type
	listCountType string
	listElemType  string
}

type plyElement struct {
	name       string
	count      int
	properties []plyProperty
}

// loadPLY reads a Stanford PLY mesh, ASCII or binary_little_endian, with a
// "vertex" element (x,y,z plus optional nx,ny,nz and s,t/u,v) and a "face"
// element whose vertex_indices list is fan-triangulated.
func loadPLY(path string) (*MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ply %q: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	binaryLE, elements, err := parsePLYHeader(r)
	if err != nil {
		return nil, fmt.Errorf("ply header %q: %w", path, err)
	}

	mesh := &MeshData{}
	var vertIdxProp = -1

	for _, el := range elements {
		switch el.name {
		case "vertex":
			if binaryLE {
				if err := readBinaryVertices(r, el, mesh); err != nil {
					return nil, fmt.Errorf("ply vertices %q: %w", path, err)
				}
			} else {
				if err := readASCIIVertices(r, el, mesh); err != nil {
					return nil, fmt.Errorf("ply vertices %q: %w", path, err)
				}
			}
		case "face":
			for i, p := range el.properties {
				if p.kind == "list" {
					vertIdxProp = i
				}
			}
			if binaryLE {
				if err := readBinaryFaces(r, el, vertIdxProp, mesh); err != nil {
					return nil, fmt.Errorf("ply faces %q: %w", path, err)
				}
			} else {
				if err := readASCIIFaces(r, el, mesh); err != nil {
					return nil, fmt.Errorf("ply faces %q: %w", path, err)
				}
			}
		default:
			// Unknown element: only vertex/face are read; anything else
			// (material lists, edges) is rejected with an error.
			return nil, fmt.Errorf("ply %q: unsupported element %q", path, el.name)
		}
	}
	return mesh, nil
}

func parsePLYHeader(r *bufio.Reader) (binaryLE bool, elements []plyElement, err error) {
	line, err := r.ReadString('\n')
	if err != nil || strings.TrimSpace(line) != "ply" {
		return false, nil, fmt.Errorf("missing ply magic")
	}
	var cur *plyElement
	for {
		line, err = r.ReadString('\n')
		if err != nil {
			return false, nil, err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				continue
			}
			switch fields[1] {
			case "ascii":
				binaryLE = false
			case "binary_little_endian":
				binaryLE = true
			default:
				return false, nil, fmt.Errorf("unsupported ply format %q", fields[1])
			}
		case "comment", "obj_info":
			continue
		case "element":
			if cur != nil {
				elements = append(elements, *cur)
			}
			count, _ := strconv.Atoi(fields[2])
			cur = &plyElement{name: fields[1], count: count}
		case "property":
			if cur == nil {
				continue
			}
			if fields[1] == "list" {
				cur.properties = append(cur.properties, plyProperty{
					name: fields[4], kind: "list",
					listCountType: fields[2], listElemType: fields[3],
				})
			} else {
				cur.properties = append(cur.properties, plyProperty{name: fields[2], kind: fields[1]})
			}
		case "end_header":
			if cur != nil {
				elements = append(elements, *cur)
			}
			return binaryLE, elements, nil
		}
	}
}

func readASCIIVertices(r *bufio.Reader, el plyElement, mesh *MeshData) error {
	idx := propIndex(el, "x", "y", "z")
	nIdx := propIndex(el, "nx", "ny", "nz")
	uvIdx := propIndex(el, "s", "t")
	if uvIdx[0] < 0 {
		uvIdx = propIndex(el, "u", "v")
	}
	for i := 0; i < el.count; i++ {
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		fields := strings.Fields(line)
		get := func(propIdx int) float32 {
			if propIdx < 0 || propIdx >= len(fields) {
				return 0
			}
			v, _ := strconv.ParseFloat(fields[propIdx], 32)
			return float32(v)
		}
		mesh.Positions = append(mesh.Positions, vmath.Vec3{X: get(idx[0]), Y: get(idx[1]), Z: get(idx[2])})
		if nIdx[0] >= 0 {
			mesh.Normals = append(mesh.Normals, vmath.Vec3{X: get(nIdx[0]), Y: get(nIdx[1]), Z: get(nIdx[2])})
		}
		if uvIdx[0] >= 0 {
			mesh.UVs = append(mesh.UVs, vmath.Vec2{X: get(uvIdx[0]), Y: get(uvIdx[1])})
		}
	}
	return nil
}

func readASCIIFaces(r *bufio.Reader, el plyElement, mesh *MeshData) error {
	for i := 0; i < el.count; i++ {
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) < 1 {
			continue
		}
		n, _ := strconv.Atoi(fields[0])
		idxs := make([]uint32, 0, n)
		for j := 0; j < n && j+1 < len(fields); j++ {
			v, _ := strconv.Atoi(fields[j+1])
			idxs = append(idxs, uint32(v))
		}
		fanTriangulate(idxs, mesh)
	}
	return nil
}

func propIndex(el plyElement, names ...string) []int {
	out := make([]int, len(names))
	for i, n := range names {
		out[i] = -1
		for j, p := range el.properties {
			if p.name == n {
				out[i] = j
				break
			}
		}
	}
	return out
}

func readBinaryVertices(r *bufio.Reader, el plyElement, mesh *MeshData) error {
	idx := propIndex(el, "x", "y", "z")
	nIdx := propIndex(el, "nx", "ny", "nz")
	uvIdx := propIndex(el, "s", "t")
	if uvIdx[0] < 0 {
		uvIdx = propIndex(el, "u", "v")
	}
	for i := 0; i < el.count; i++ {
		vals := make([]float32, len(el.properties))
		for j := range el.properties {
			var f32 float32
			if err := binary.Read(r, binary.LittleEndian, &f32); err != nil {
				return err
			}
			vals[j] = f32
		}
		mesh.Positions = append(mesh.Positions, vmath.Vec3{X: vals[idx[0]], Y: vals[idx[1]], Z: vals[idx[2]]})
		if nIdx[0] >= 0 {
			mesh.Normals = append(mesh.Normals, vmath.Vec3{X: vals[nIdx[0]], Y: vals[nIdx[1]], Z: vals[nIdx[2]]})
		}
		if uvIdx[0] >= 0 {
			mesh.UVs = append(mesh.UVs, vmath.Vec2{X: vals[uvIdx[0]], Y: vals[uvIdx[1]]})
		}
	}
	return nil
}

func readBinaryFaces(r *bufio.Reader, el plyElement, vertIdxProp int, mesh *MeshData) error {
	for i := 0; i < el.count; i++ {
		var count uint8
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return err
		}
		idxs := make([]uint32, count)
		for j := range idxs {
			var v int32
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return err
			}
			idxs[j] = uint32(v)
		}
		fanTriangulate(idxs, mesh)
	}
	return nil
}

func fanTriangulate(idxs []uint32, mesh *MeshData) {
	for i := 1; i+1 < len(idxs); i++ {
		mesh.Indices = append(mesh.Indices, idxs[0], idxs[i], idxs[i+1])
	}
}
