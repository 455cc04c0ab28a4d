// Package reload watches shader source files and feeds edits back into
// their materials between frames.
package reload

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"scenegl/internal/graphics"
	"scenegl/internal/logging"
)

type source struct {
	material *graphics.Material
	vertex   string
	fragment string
}

// Watcher collects file events on a background goroutine. Materials are
// only touched by Apply, which runs on the render thread.
type Watcher struct {
	fs  *fsnotify.Watcher
	log logging.Logger

	mu      sync.Mutex
	byPath  map[string][]*source
	dirs    map[string]bool
	changed map[*source]struct{}

	done chan struct{}
	wg   sync.WaitGroup
}

func New(log logging.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:      fs,
		log:     logging.OrNop(log),
		byPath:  map[string][]*source{},
		dirs:    map[string]bool{},
		changed: map[*source]struct{}{},
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Watch reloads m whenever either file changes. Directories are watched
// rather than files so editors that save by rename are picked up.
func (w *Watcher) Watch(m *graphics.Material, vertexPath, fragmentPath string) error {
	s := &source{material: m, vertex: filepath.Clean(vertexPath), fragment: filepath.Clean(fragmentPath)}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range []string{s.vertex, s.fragment} {
		dir := filepath.Dir(p)
		if !w.dirs[dir] {
			if err := w.fs.Add(dir); err != nil {
				return err
			}
			w.dirs[dir] = true
		}
		w.byPath[p] = append(w.byPath[p], s)
	}
	return nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.mu.Lock()
			for _, s := range w.byPath[filepath.Clean(ev.Name)] {
				w.changed[s] = struct{}{}
			}
			w.mu.Unlock()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warnf("reload: %v", err)
		}
	}
}

// Pending counts materials with unapplied edits.
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.changed)
}

// Apply re-reads the sources of every changed material and returns how many
// were updated. Updated materials are dirty and get rebuilt on next use; a
// material whose files cannot be read keeps its sources.
func (w *Watcher) Apply() int {
	w.mu.Lock()
	changed := make([]*source, 0, len(w.changed))
	for s := range w.changed {
		changed = append(changed, s)
	}
	clear(w.changed)
	w.mu.Unlock()

	n := 0
	for _, s := range changed {
		if err := graphics.ReloadSources(s.material, s.vertex, s.fragment); err != nil {
			w.log.Errorf("reload %q: %v", s.material.Name, err)
			continue
		}
		w.log.Infof("reloaded %q", s.material.Name)
		n++
	}
	return n
}

func (w *Watcher) Close() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}
