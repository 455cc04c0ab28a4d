package binding

import (
	"errors"

	"scenegl/internal/gpu"
	"scenegl/internal/gpu/state"
)

// ErrTextureUnitsExhausted is returned when a draw samples more textures
// than there are units.
var ErrTextureUnitsExhausted = errors.New("binding: texture units exhausted")

// Units is the bounded pool of texture units shared by every program on a
// context. A texture keeps its unit while resident, so consecutive draws
// sampling the same texture skip both the bind and the sampler upload.
type Units struct {
	tracker  *state.Tracker
	resident map[gpu.Handle]int
	owner    []gpu.Handle
	// used is the draw serial a unit was last requested in. Units requested
	// in the current draw are pinned.
	used  []uint64
	draw  uint64
	blank map[gpu.TextureTarget]blankUnit
}

type blankUnit struct {
	unit int
	draw uint64
}

func NewUnits(tracker *state.Tracker) *Units {
	n := tracker.Units()
	return &Units{
		tracker:  tracker,
		resident: make(map[gpu.Handle]int, n),
		owner:    make([]gpu.Handle, n),
		used:     make([]uint64, n),
		draw:     1,
		blank:    map[gpu.TextureTarget]blankUnit{},
	}
}

// BeginDraw unpins all units. Textures stay resident until a later draw
// needs their unit.
func (u *Units) BeginDraw() { u.draw++ }

// Activate binds tex to a unit and returns it. A resident texture keeps its
// unit; otherwise the lowest free unit is taken, then the least recently
// used unit not pinned by the current draw.
func (u *Units) Activate(target gpu.TextureTarget, tex gpu.Handle) (int, error) {
	if unit, ok := u.resident[tex]; ok {
		u.used[unit] = u.draw
		u.tracker.BindTexture(unit, target, tex)
		return unit, nil
	}
	unit, err := u.claim()
	if err != nil {
		return 0, err
	}
	u.owner[unit] = tex
	u.resident[tex] = unit
	u.tracker.BindTexture(unit, target, tex)
	return unit, nil
}

// Empty returns a unit with nothing bound to target, pinned for the current
// draw. Samplers that must not read any texture point at it.
func (u *Units) Empty(target gpu.TextureTarget) (int, error) {
	if b := u.blank[target]; b.draw == u.draw && u.owner[b.unit] == gpu.NoHandle {
		return b.unit, nil
	}
	unit, err := u.claim()
	if err != nil {
		return 0, err
	}
	u.tracker.BindTexture(unit, target, gpu.NoHandle)
	u.blank[target] = blankUnit{unit: unit, draw: u.draw}
	return unit, nil
}

// claim picks a unit for the current draw, evicting its resident texture.
func (u *Units) claim() (int, error) {
	unit := -1
	for i, h := range u.owner {
		if h == gpu.NoHandle && u.used[i] != u.draw {
			unit = i
			break
		}
	}
	if unit < 0 {
		for i := range u.owner {
			if u.used[i] == u.draw {
				continue
			}
			if unit < 0 || u.used[i] < u.used[unit] {
				unit = i
			}
		}
	}
	if unit < 0 {
		return 0, ErrTextureUnitsExhausted
	}
	if prev := u.owner[unit]; prev != gpu.NoHandle {
		delete(u.resident, prev)
		u.owner[unit] = gpu.NoHandle
	}
	u.used[unit] = u.draw
	return unit, nil
}

// Deactivate releases the unit held by tex, if any.
func (u *Units) Deactivate(tex gpu.Handle) {
	unit, ok := u.resident[tex]
	if !ok {
		return
	}
	delete(u.resident, tex)
	u.owner[unit] = gpu.NoHandle
	u.used[unit] = 0
}

// Unbind clears the unit holding tex so the texture cannot be sampled, and
// releases it.
func (u *Units) Unbind(target gpu.TextureTarget, tex gpu.Handle) {
	unit, ok := u.resident[tex]
	if !ok {
		return
	}
	u.tracker.BindTexture(unit, target, gpu.NoHandle)
	u.Deactivate(tex)
}

// UnitOf reports the unit tex is resident on.
func (u *Units) UnitOf(tex gpu.Handle) (int, bool) {
	unit, ok := u.resident[tex]
	return unit, ok
}

// Resident counts textures currently holding a unit.
func (u *Units) Resident() int { return len(u.resident) }
