package vg

// cachedMesh is one stroker-output mesh recorded at the scale a
// CommandList's shape cache was built for; its vertex positions are stored
// already tessellated, ready to be re-transformed rather than rebuilt.
type cachedMesh struct {
	mesh Mesh
}

// cachedCommand groups the meshes one replayed draw call produced, plus the
// inverse of the transform that was active when they were tessellated —
// applying (currentTransform * invTransform) to every vertex re-targets the
// cached geometry to wherever the CommandList is being replayed now, without
// re-running the stroker.
type cachedCommand struct {
	firstMesh    int
	numMeshes    int
	invTransform TransformMatrix
}

// commandListCache is the per-(CommandList, avgScale-bucket) tessellation
// cache: built the first time a Cacheable list is replayed at a given
// average scale, reused on every subsequent replay at exactly that scale,
// and discarded (replaced by a freshly built one) at any other scale (thin
// strokes and AA fringes are scale-sensitive in source space).
type commandListCache struct {
	meshes     []cachedMesh
	commands   []cachedCommand
	avgScale   float32
	generation int // the CommandList.generation this cache was built against
}

// staleFor reports whether this cache was built at a different average
// scale than avgScale: the cached tessellation is reused only at an exact
// match, per §4.8.
func (c *commandListCache) staleFor(avgScale float32) bool {
	return c.avgScale != avgScale
}

func (c *commandListCache) addCommand(invTransform TransformMatrix, meshes ...Mesh) {
	first := len(c.meshes)
	for _, m := range meshes {
		c.meshes = append(c.meshes, cachedMesh{mesh: m})
	}
	c.commands = append(c.commands, cachedCommand{firstMesh: first, numMeshes: len(meshes), invTransform: invTransform})
}

func transformMesh(m Mesh, t TransformMatrix) Mesh {
	out := m
	out.Positions = make([][2]float32, len(m.Positions))
	for i, p := range m.Positions {
		x, y := t.TransformPoint(p[0], p[1])
		out.Positions[i] = [2]float32{x, y}
	}
	return out
}

// shapeCache owns one commandListCache per Cacheable CommandList, keyed by
// the list's identity.
type shapeCache struct {
	caches map[*CommandList]*commandListCache
}

func newShapeCache() *shapeCache {
	return &shapeCache{caches: make(map[*CommandList]*commandListCache)}
}

// get returns the cache for cl if it exists, isn't stale for avgScale, and
// was built against the content currently in cl (a Reset in between
// invalidates it even though the pointer is unchanged), or nil otherwise —
// the caller is responsible for rebuilding and calling put when get returns
// nil.
func (sc *shapeCache) get(cl *CommandList, avgScale float32) *commandListCache {
	c, ok := sc.caches[cl]
	if !ok || c.generation != cl.generation || c.staleFor(avgScale) {
		return nil
	}
	return c
}

func (sc *shapeCache) put(cl *CommandList, avgScale float32) *commandListCache {
	c := &commandListCache{avgScale: avgScale, generation: cl.generation}
	sc.caches[cl] = c
	return c
}

func (sc *shapeCache) invalidate(cl *CommandList) {
	delete(sc.caches, cl)
}
