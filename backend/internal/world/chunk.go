package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ChunkCoord - целочисленные координаты чанка в сетке чанков
type ChunkCoord struct {
	X int32
	Z int32
}

// ChunkCoordAt возвращает координаты чанка, содержащего мировую точку (x, z)
func ChunkCoordAt(x, z float32, chunkSize float32) ChunkCoord {
	return ChunkCoord{
		X: floorDiv(x, chunkSize),
		Z: floorDiv(z, chunkSize),
	}
}

func floorDiv(v, size float32) int32 {
	q := v / size
	i := int32(q)
	if q < 0 && float32(i) != q {
		i--
	}
	return i
}

// ChunkMesh - сгенерированная геометрия одного чанка.
// Позиции заданы относительно начала чанка, высоты - мировые.
type ChunkMesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32
}

// TerrainChunk - один материализованный квадрат ландшафта.
// После создания не мутирует.
type TerrainChunk struct {
	Coord ChunkCoord
	Mesh  *ChunkMesh

	// Мировое смещение начала чанка (для размещения меша)
	OriginX float32
	OriginZ float32
}

// BuildChunk генерирует меш чанка с указанными координатами.
// Высоты вершин сэмплируются в МИРОВЫХ координатах: соседние чанки
// запрашивают одни и те же точки на общем ребре и получают идентичные
// высоты, поэтому швов не возникает.
func BuildChunk(field *HeightField, coord ChunkCoord, size float32, resolution int) *TerrainChunk {
	width := resolution
	depth := resolution
	vertexCount := (width + 1) * (depth + 1)

	mesh := &ChunkMesh{
		Positions: make([][3]float32, 0, vertexCount),
		Normals:   make([][3]float32, vertexCount),
		UVs:       make([][2]float32, 0, vertexCount),
		Indices:   make([]uint32, 0, width*depth*6),
	}

	originX := float32(coord.X) * size
	originZ := float32(coord.Z) * size

	// Сетка вершин
	for z := 0; z <= depth; z++ {
		for x := 0; x <= width; x++ {
			localX := float32(x) / float32(width) * size
			localZ := float32(z) / float32(depth) * size

			worldX := originX + localX
			worldZ := originZ + localZ
			y := field.HeightAt(worldX, worldZ)

			mesh.Positions = append(mesh.Positions, [3]float32{localX, y, localZ})
			mesh.UVs = append(mesh.UVs, [2]float32{float32(x) / float32(width), float32(z) / float32(depth)})
		}
	}

	// Два треугольника на ячейку, фиксированный порядок обхода
	for z := 0; z < depth; z++ {
		for x := 0; x < width; x++ {
			tl := uint32(z*(width+1) + x)
			tr := tl + 1
			bl := uint32((z+1)*(width+1) + x)
			br := bl + 1

			mesh.Indices = append(mesh.Indices, tl, bl, tr)
			mesh.Indices = append(mesh.Indices, tr, bl, br)
		}
	}

	// Нормали: усредняем нормали всех треугольников, примыкающих к вершине
	normalSums := make([]mgl32.Vec3, vertexCount)
	normalCounts := make([]int, vertexCount)

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		i0 := mesh.Indices[i]
		i1 := mesh.Indices[i+1]
		i2 := mesh.Indices[i+2]

		v0 := mgl32.Vec3(mesh.Positions[i0])
		v1 := mgl32.Vec3(mesh.Positions[i1])
		v2 := mgl32.Vec3(mesh.Positions[i2])

		edge1 := v1.Sub(v0)
		edge2 := v2.Sub(v0)
		normal := edge1.Cross(edge2).Normalize()

		for _, idx := range [3]uint32{i0, i1, i2} {
			normalSums[idx] = normalSums[idx].Add(normal)
			normalCounts[idx]++
		}
	}

	for i := 0; i < vertexCount; i++ {
		if normalCounts[i] == 0 {
			mesh.Normals[i] = [3]float32{0, 1, 0}
			continue
		}
		n := normalSums[i].Mul(1.0 / float32(normalCounts[i])).Normalize()
		mesh.Normals[i] = [3]float32{n.X(), n.Y(), n.Z()}
	}

	return &TerrainChunk{
		Coord:   coord,
		Mesh:    mesh,
		OriginX: originX,
		OriginZ: originZ,
	}
}
