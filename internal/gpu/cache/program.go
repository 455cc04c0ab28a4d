package cache

import (
	"fmt"

	"scenegl/internal/gpu"
	"scenegl/internal/gpu/binding"
	"scenegl/internal/graphics"
	"scenegl/internal/profiling"
)

// Program resolves the linked program of m together with its synthesized
// setters. Changing the material sources rebuilds it into fresh objects; the
// previous program is replaced only once the new one links. A failed rebuild
// returns its error and the previous program keeps serving later calls. A
// material that never linked is invalid until its sources change or it is
// evicted.
func (c *Cache) Program(m *graphics.Material) (*binding.Program, error) {
	id := m.ID()
	e, live := c.programs[id]
	if !m.Dirty() {
		if live {
			return e.program, nil
		}
		if err, ok := c.failed[id]; ok {
			return nil, fmt.Errorf("%w: material %q: %v", ErrProgramInvalid, m.Name, err)
		}
	}

	defer profiling.Track("cache.Program")()
	next, err := c.buildProgram(m)
	m.ClearDirty()
	if err != nil {
		c.failed[id] = err
		if live {
			c.log.Errorf("cache: material %q: %v; keeping program %d", m.Name, err, e.program.Handle())
		} else {
			c.log.Errorf("cache: material %q: %v", m.Name, err)
		}
		return nil, err
	}
	if live {
		c.evictProgram(id)
	}
	delete(c.failed, id)
	c.programs[id] = next
	c.shaders[shaderKey{id, gpu.VertexStage}] = next.vertex
	c.shaders[shaderKey{id, gpu.FragmentStage}] = next.fragment
	c.log.Debugf("cache: linked program %d for material %q", next.program.Handle(), m.Name)
	return next.program, nil
}

// ProgramError reports the last build failure of m, or nil. It is cleared by
// a successful build and by eviction.
func (c *Cache) ProgramError(m *graphics.Material) error {
	return c.failed[m.ID()]
}

// buildProgram compiles and links the current sources of m without touching
// the cached entry. Every object it created is deleted on failure.
func (c *Cache) buildProgram(m *graphics.Material) (*programEntry, error) {
	vsrc, fsrc := m.Sources()
	vs, err := c.compile(gpu.VertexStage, vsrc)
	if err != nil {
		return nil, err
	}
	fs, err := c.compile(gpu.FragmentStage, fsrc)
	if err != nil {
		c.ctx.DeleteShader(vs)
		return nil, err
	}

	p := c.ctx.CreateProgram()
	c.ctx.AttachShader(p, vs)
	c.ctx.AttachShader(p, fs)
	destroy := func() {
		c.ctx.DetachShader(p, vs)
		c.ctx.DetachShader(p, fs)
		c.ctx.DeleteProgram(p)
		c.ctx.DeleteShader(vs)
		c.ctx.DeleteShader(fs)
	}
	if ok, log := c.ctx.LinkProgram(p); !ok {
		destroy()
		return nil, &gpu.LinkError{Log: log}
	}

	prog, err := binding.Synthesize(binding.Env{
		Context:  c.ctx,
		Tracker:  c.tracker,
		Units:    c.units,
		Textures: c,
	}, p)
	if err != nil {
		destroy()
		return nil, err
	}
	return &programEntry{program: prog, vertex: vs, fragment: fs}, nil
}

func (c *Cache) compile(stage gpu.ShaderStage, source string) (gpu.Handle, error) {
	h := c.ctx.CreateShader(stage)
	c.ctx.ShaderSource(h, source)
	if ok, log := c.ctx.CompileShader(h); !ok {
		c.ctx.DeleteShader(h)
		return gpu.NoHandle, &gpu.CompileError{Stage: stage, Log: log, Source: source}
	}
	return h, nil
}
