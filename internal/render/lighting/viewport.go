package lighting

import "github.com/zyedidia/generic/mapset"

// ViewportCache remembers the camera rectangle and which emitters can reach it.
// The live set is emptied and refilled on every call to Live, so a camera jump
// never leaves stale entries behind.
type ViewportCache struct {
	vp      Viewport
	live    mapset.Set[EmitterID]
	liveIDs []EmitterID // members of live, for emptying it without reallocating
	liveBuf []*Emitter
}

// NewViewportCache returns an empty cache.
func NewViewportCache() *ViewportCache {
	return &ViewportCache{live: mapset.New[EmitterID]()}
}

// Set stores the viewport for this tick.
func (c *ViewportCache) Set(vp Viewport) { c.vp = vp }

// Viewport returns the stored viewport.
func (c *ViewportCache) Viewport() Viewport { return c.vp }

// Live returns, in id order, the emitters whose radius grown by buffer overlaps
// the viewport. The returned slice is reused by the next call.
func (c *ViewportCache) Live(reg *Registry, buffer float64) []*Emitter {
	for _, id := range c.liveIDs {
		c.live.Remove(id)
	}
	c.liveIDs = c.liveIDs[:0]
	c.liveBuf = c.liveBuf[:0]
	reg.Each(func(id EmitterID, e *Emitter) {
		if !c.vp.Intersects(e.Bounds(buffer)) {
			return
		}
		c.live.Put(id)
		c.liveIDs = append(c.liveIDs, id)
		c.liveBuf = append(c.liveBuf, e)
	})
	return c.liveBuf
}

// IsLive reports whether id was live at the last call to Live.
func (c *ViewportCache) IsLive(id EmitterID) bool { return c.live.Has(id) }

// LiveCount returns the size of the last live set.
func (c *ViewportCache) LiveCount() int { return c.live.Size() }
