// Package binding builds typed parameter setters from a linked program's
// reflected interface.
package binding

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"scenegl/internal/gpu"
	"scenegl/internal/gpu/state"
	"scenegl/internal/graphics"
)

// ErrValueType is returned by Set when a value cannot be converted to the
// reflected type of the parameter.
var ErrValueType = errors.New("binding: value does not match parameter type")

// TextureSource resolves logical textures to up to date GPU handles.
type TextureSource interface {
	Texture(t *graphics.Texture) (gpu.Handle, error)
}

// Env is what setters need from outside the program.
type Env struct {
	Context  gpu.Context
	Tracker  *state.Tracker
	Units    *Units
	Textures TextureSource
}

// Kind selects the upload path of a uniform.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindMatrix
	KindSampler
)

func kindOf(t gpu.Type) (Kind, bool) {
	switch {
	case t.IsSampler():
		return KindSampler, true
	case t.IsMatrix():
		return KindMatrix, true
	case t.IsFloat():
		return KindFloat, true
	case t.Components() > 0:
		return KindInt, true
	}
	return 0, false
}

// Uniform is one reflected uniform with its last uploaded value.
type Uniform struct {
	Name     string
	Type     gpu.Type
	Size     int
	Location gpu.Location
	// Array is set for uniforms declared with an array size, even of one.
	Array bool
	Kind  Kind

	lastF   []float32
	lastI   []int32
	present bool
}

// Attribute is one reflected vertex input. Matrix inputs span Rows
// consecutive locations starting at Location.
type Attribute struct {
	Name     string
	Type     gpu.Type
	Location gpu.Location
	Rows     int

	last    []float32
	present bool
}

// Stream describes a vertex buffer channel feeding an attribute.
type Stream struct {
	Buffer     gpu.Handle
	Type       gpu.ElementType
	Components int
	Stride     int
	Offset     int
	Divisor    int
	Normalized bool
}

// Program is a linked program plus one setter per active parameter.
type Program struct {
	handle     gpu.Handle
	env        Env
	uniforms   map[string]*Uniform
	attributes map[string]*Attribute
}

// Synthesize reflects a linked program. Any reflected type without a setter
// fails here rather than at draw time.
func Synthesize(env Env, handle gpu.Handle) (*Program, error) {
	p := &Program{
		handle:     handle,
		env:        env,
		uniforms:   map[string]*Uniform{},
		attributes: map[string]*Attribute{},
	}

	for _, info := range env.Context.ActiveUniforms(handle) {
		name := strings.TrimSuffix(info.Name, "[0]")
		if strings.HasPrefix(name, "gl_") {
			continue
		}
		kind, ok := kindOf(info.Type)
		if !ok {
			return nil, &gpu.UnsupportedTypeError{Name: name, Type: info.Type, Code: info.Code}
		}
		p.uniforms[name] = &Uniform{
			Name:     name,
			Type:     info.Type,
			Size:     max(info.Size, 1),
			Location: env.Context.UniformLocation(handle, info.Name),
			Array:    info.Size > 1 || name != info.Name,
			Kind:     kind,
		}
	}

	for _, info := range env.Context.ActiveAttributes(handle) {
		if strings.HasPrefix(info.Name, "gl_") {
			continue
		}
		if !info.Type.IsFloat() || info.Size > 1 {
			return nil, &gpu.UnsupportedTypeError{Name: info.Name, Type: info.Type, Code: info.Code}
		}
		rows := 1
		if info.Type.IsMatrix() {
			rows = info.Type.Dim()
		}
		p.attributes[info.Name] = &Attribute{
			Name:     info.Name,
			Type:     info.Type,
			Location: env.Context.AttribLocation(handle, info.Name),
			Rows:     rows,
		}
	}
	return p, nil
}

func (p *Program) Handle() gpu.Handle { return p.handle }

// Use makes the program current. Constant attribute values are context
// state shared between programs, so their cache is dropped on every switch.
func (p *Program) Use() bool {
	if !p.env.Tracker.UseProgram(p.handle) {
		return false
	}
	for _, a := range p.attributes {
		a.present, a.last = false, nil
	}
	return true
}

// Has reports whether name is an active uniform or attribute.
func (p *Program) Has(name string) bool {
	_, u := p.uniforms[name]
	_, a := p.attributes[name]
	return u || a
}

func (p *Program) Uniform(name string) (*Uniform, bool) {
	u, ok := p.uniforms[name]
	return u, ok
}

func (p *Program) Attribute(name string) (*Attribute, bool) {
	a, ok := p.attributes[name]
	return a, ok
}

// Attributes returns the active attributes ordered by location.
func (p *Program) Attributes() []*Attribute {
	out := make([]*Attribute, 0, len(p.attributes))
	for _, a := range p.attributes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out
}

// Uniforms returns the active uniform names in sorted order.
func (p *Program) Uniforms() []string {
	names := make([]string, 0, len(p.uniforms))
	for n := range p.uniforms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Set pushes a value to the named parameter. The program must be current.
// Names the program does not use are ignored, as are nil values. A nil
// texture given to a sampler selects a unit with nothing bound.
func (p *Program) Set(name string, v any) error {
	if v == nil {
		return nil
	}
	if u, ok := p.uniforms[name]; ok {
		if err := p.setUniform(u, v); err != nil {
			return fmt.Errorf("uniform %q: %w", name, err)
		}
		return nil
	}
	if a, ok := p.attributes[name]; ok {
		if err := p.setConstant(a, v); err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
	}
	return nil
}

func (p *Program) setUniform(u *Uniform, v any) error {
	ctx := p.env.Context
	switch u.Kind {
	case KindSampler:
		return p.setSampler(u, v)
	case KindMatrix:
		return u.uploadFloats(v, func(f []float32) { ctx.UniformMatrix(u.Location, u.Type.Dim(), f) })
	case KindFloat:
		return u.uploadFloats(v, func(f []float32) { ctx.UniformFloat(u.Location, u.Type.Components(), f) })
	default:
		return u.uploadInts(v, func(i []int32) { ctx.UniformInt(u.Location, u.Type.Components(), i) })
	}
}

// accepts checks that n scalars fill whole values within the declared size.
func (u *Uniform) accepts(n int) bool {
	c := u.Type.Components()
	if n == 0 || n%c != 0 {
		return false
	}
	if !u.Array {
		return n == c
	}
	return n/c <= u.Size
}

func (u *Uniform) uploadFloats(v any, upload func([]float32)) error {
	f, ok := floats(v)
	if !ok || !u.accepts(len(f)) {
		return fmt.Errorf("%w: %T for %s", ErrValueType, v, u.Type)
	}
	if u.present && slices.Equal(u.lastF, f) {
		return nil
	}
	upload(f)
	u.lastF, u.present = append(u.lastF[:0], f...), true
	return nil
}

func (u *Uniform) uploadInts(v any, upload func([]int32)) error {
	i, ok := ints(v)
	if !ok || !u.accepts(len(i)) {
		return fmt.Errorf("%w: %T for %s", ErrValueType, v, u.Type)
	}
	if u.present && slices.Equal(u.lastI, i) {
		return nil
	}
	upload(i)
	u.lastI, u.present = append(u.lastI[:0], i...), true
	return nil
}

func samplerTextures(v any) ([]*graphics.Texture, bool) {
	switch x := v.(type) {
	case *graphics.Texture:
		return []*graphics.Texture{x}, true
	case *graphics.RenderTarget:
		if x == nil {
			return []*graphics.Texture{nil}, true
		}
		return []*graphics.Texture{x.Color}, true
	case []*graphics.Texture:
		return x, true
	}
	return nil, false
}

func (p *Program) setSampler(u *Uniform, v any) error {
	texs, ok := samplerTextures(v)
	if !ok || len(texs) == 0 || len(texs) > u.Size || (!u.Array && len(texs) != 1) {
		return fmt.Errorf("%w: %T for %s", ErrValueType, v, u.Type)
	}
	want := gpu.Texture2D
	if u.Type == gpu.SamplerCube {
		want = gpu.TextureCube
	}
	units := make([]int32, 0, len(texs))
	for _, t := range texs {
		if t == nil {
			unit, err := p.env.Units.Empty(want)
			if err != nil {
				return err
			}
			units = append(units, int32(unit))
			continue
		}
		if t.Target != want {
			return fmt.Errorf("%w: %s texture for %s", ErrValueType, targetName(t.Target), u.Type)
		}
		h, err := p.env.Textures.Texture(t)
		if err != nil {
			return err
		}
		unit, err := p.env.Units.Activate(t.Target, h)
		if err != nil {
			return err
		}
		units = append(units, int32(unit))
	}
	return u.uploadInts(units, func(i []int32) { p.env.Context.UniformInt(u.Location, 1, i) })
}

func targetName(t gpu.TextureTarget) string {
	if t == gpu.TextureCube {
		return "cube"
	}
	return "2D"
}

// setConstant feeds an attribute from a constant value instead of a stream.
func (p *Program) setConstant(a *Attribute, v any) error {
	f, ok := floats(v)
	per := a.Type.Components() / a.Rows
	if !ok || len(f) != a.Type.Components() {
		return fmt.Errorf("%w: %T for %s", ErrValueType, v, a.Type)
	}
	if a.present && slices.Equal(a.last, f) {
		return nil
	}
	for r := 0; r < a.Rows; r++ {
		loc := a.Location + gpu.Location(r)
		p.env.Context.DisableVertexAttrib(loc)
		p.env.Context.VertexAttrib(loc, f[r*per:(r+1)*per])
	}
	a.last, a.present = append(a.last[:0], f...), true
	return nil
}

// BindStream points the named attribute at a buffer channel in the bound
// vertex array. Matrix attributes take one pointer per row, each advancing
// the offset by a row's width. It reports whether the program uses name.
func (p *Program) BindStream(name string, s Stream) (bool, error) {
	a, ok := p.attributes[name]
	if !ok {
		return false, nil
	}
	per := s.Components
	if a.Rows > 1 {
		if s.Components != a.Type.Components() {
			return true, fmt.Errorf("attribute %q: stream of %d components for %s", name, s.Components, a.Type)
		}
		per = a.Type.Dim()
	} else if per < 1 || per > 4 {
		return true, fmt.Errorf("attribute %q: stream of %d components", name, s.Components)
	}

	ctx := p.env.Context
	p.env.Tracker.BindBuffer(gpu.ArrayBuffer, s.Buffer)
	for r := 0; r < a.Rows; r++ {
		loc := a.Location + gpu.Location(r)
		ctx.EnableVertexAttrib(loc)
		ctx.VertexAttribPointer(loc, per, s.Type, s.Normalized, s.Stride, s.Offset+r*per*s.Type.Size())
		if s.Divisor > 0 {
			ctx.VertexAttribDivisor(loc, s.Divisor)
		}
	}
	return true, nil
}
