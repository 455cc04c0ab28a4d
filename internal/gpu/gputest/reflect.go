package gputest

import (
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"

	"scenegl/internal/gpu"
)

var (
	uniformDecl    = regexp.MustCompile(`(?m)^\s*uniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
	attributeDecl  = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(?:in|attribute)\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*;`)
	errorDirective = regexp.MustCompile(`(?m)^\s*#error\s*(.*)$`)
)

var glslTypes = map[string]gpu.Type{
	"float":       gpu.Float,
	"vec2":        gpu.FloatVec2,
	"vec3":        gpu.FloatVec3,
	"vec4":        gpu.FloatVec4,
	"int":         gpu.Int,
	"ivec2":       gpu.IntVec2,
	"ivec3":       gpu.IntVec3,
	"ivec4":       gpu.IntVec4,
	"bool":        gpu.Bool,
	"bvec2":       gpu.BoolVec2,
	"bvec3":       gpu.BoolVec3,
	"bvec4":       gpu.BoolVec4,
	"mat2":        gpu.FloatMat2,
	"mat3":        gpu.FloatMat3,
	"mat4":        gpu.FloatMat4,
	"sampler2D":   gpu.Sampler2D,
	"samplerCube": gpu.SamplerCube,
}

func typeCode(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32()
}

func info(typ, name, size string) gpu.ActiveInfo {
	n := 1
	if size != "" {
		n, _ = strconv.Atoi(size)
		name += "[0]"
	}
	return gpu.ActiveInfo{Name: name, Type: glslTypes[typ], Size: n, Code: typeCode(typ)}
}

// reflectProgram derives the active interface from declarations: uniforms of
// both stages (deduplicated) and inputs of the vertex stage, in source order.
func reflectProgram(vertex, fragment string) (uniforms, attributes []gpu.ActiveInfo) {
	seen := map[string]bool{}
	for _, src := range []string{vertex, fragment} {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if seen[m[2]] {
				continue
			}
			seen[m[2]] = true
			uniforms = append(uniforms, info(m[1], m[2], m[3]))
		}
	}
	for _, m := range attributeDecl.FindAllStringSubmatch(vertex, -1) {
		attributes = append(attributes, info(m[1], m[2], ""))
	}
	return uniforms, attributes
}

func compileLog(source string) (string, bool) {
	m := errorDirective.FindStringSubmatch(source)
	if m == nil {
		return "", true
	}
	return strings.TrimSpace(m[1]), false
}
