package graphics

// Params maps shader parameter names to values. Values are Go scalars,
// mgl32 vectors and matrices, slices of those, *Texture or []*Texture.
type Params map[string]any

func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge copies o over p and returns p.
func (p Params) Merge(o Params) Params {
	for k, v := range o {
		p[k] = v
	}
	return p
}

// MergeParams layers tables in order of increasing precedence.
func MergeParams(layers ...Params) Params {
	n := 0
	for _, l := range layers {
		n += len(l)
	}
	out := make(Params, n)
	for _, l := range layers {
		out.Merge(l)
	}
	return out
}

// Textures collects every texture referenced by the table.
func (p Params) Textures() []*Texture {
	var out []*Texture
	for _, v := range p {
		switch t := v.(type) {
		case *Texture:
			if t != nil {
				out = append(out, t)
			}
		case *RenderTarget:
			if t != nil {
				out = append(out, t.Color)
			}
		case []*Texture:
			for _, tx := range t {
				if tx != nil {
					out = append(out, tx)
				}
			}
		}
	}
	return out
}
