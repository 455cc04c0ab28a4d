package geometry

import (
	"scenegl/internal/buffer"
	"scenegl/internal/gpu"
)

type face struct {
	normal  [3]float32
	corners [4][3]float32
}

// Box builds an indexed box centred at the origin: 24 vertices (four per
// face so normals stay flat) and 36 indices.
func Box(w, h, d float32) *Geometry {
	x, y, z := w/2, h/2, d/2
	faces := []face{
		{[3]float32{0, 0, 1}, [4][3]float32{{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{x, -y, -z}, {-x, -y, -z}, {-x, y, -z}, {x, y, -z}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-x, y, z}, {x, y, z}, {x, y, -z}, {-x, y, -z}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-x, -y, -z}, {x, -y, -z}, {x, -y, z}, {-x, -y, z}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{x, -y, z}, {x, -y, -z}, {x, y, -z}, {x, y, z}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-x, -y, -z}, {-x, -y, z}, {-x, y, z}, {-x, y, -z}}},
	}
	return fromFaces(faces)
}

// Quad builds a w x h quad in the XY plane facing +Z.
func Quad(w, h float32) *Geometry {
	x, y := w/2, h/2
	return fromFaces([]face{
		{[3]float32{0, 0, 1}, [4][3]float32{{-x, -y, 0}, {x, -y, 0}, {x, y, 0}, {-x, y, 0}}},
	})
}

// Plane builds a w x d ground plane in the XZ plane facing +Y.
func Plane(w, d float32) *Geometry {
	x, z := w/2, d/2
	return fromFaces([]face{
		{[3]float32{0, 1, 0}, [4][3]float32{{-x, 0, z}, {x, 0, z}, {x, 0, -z}, {-x, 0, -z}}},
	})
}

var faceUV = [8]float32{0, 0, 1, 0, 1, 1, 0, 1}

func fromFaces(faces []face) *Geometry {
	pos := make(buffer.Array[float32], 0, len(faces)*12)
	nrm := make(buffer.Array[float32], 0, len(faces)*12)
	uv := make(buffer.Array[float32], 0, len(faces)*8)
	idx := make(buffer.Array[uint16], 0, len(faces)*6)
	for i, f := range faces {
		for _, c := range f.corners {
			pos = append(pos, c[:]...)
			nrm = append(nrm, f.normal[:]...)
		}
		uv = append(uv, faceUV[:]...)
		base := uint16(i * 4)
		idx = append(idx, base, base+1, base+2, base, base+2, base+3)
	}

	vertices := buffer.NewComposite(gpu.Float32, gpu.StaticDraw)
	// Arity always matches for generated data.
	_ = vertices.SetPosition(pos)
	_ = vertices.SetNormal(nrm)
	_ = vertices.SetUV(uv)
	index, _ := buffer.NewIndex(idx)
	return New(vertices, index, gpu.Triangles)
}
