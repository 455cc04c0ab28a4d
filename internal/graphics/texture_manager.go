package graphics

import (
	"sync"
)

// Library caches loaded textures by file path so materials sharing an image
// share one Texture (and therefore one GPU texture).
type Library struct {
	mu       sync.RWMutex
	textures map[string]*Texture
	load     func(path string) (*Texture, error)
}

func NewLibrary() *Library {
	return &Library{
		textures: make(map[string]*Texture),
		load:     LoadTexture,
	}
}

// Get returns the cached texture for the given path.
// If the texture is already loaded, it returns the cached one.
// Otherwise, it loads the texture from disk and caches it.
func (l *Library) Get(path string) (*Texture, error) {
	l.mu.RLock()
	if tex, ok := l.textures[path]; ok {
		l.mu.RUnlock()
		return tex, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double check locking
	if tex, ok := l.textures[path]; ok {
		return tex, nil
	}

	tex, err := l.load(path)
	if err != nil {
		return nil, err
	}

	l.textures[path] = tex
	return tex, nil
}

// Forget drops a path from the library and returns the texture it held so
// the caller can evict its GPU copy.
func (l *Library) Forget(path string) *Texture {
	l.mu.Lock()
	defer l.mu.Unlock()
	tex := l.textures[path]
	delete(l.textures, path)
	return tex
}

func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.textures)
}
