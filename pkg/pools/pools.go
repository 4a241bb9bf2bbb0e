// Package pools provides object pooling for reducing GC pressure.
//
// The layout engine rebuilds its octree and force buffers every step, so
// the hot allocations are recycled here:
//
//   - Slab: chunked arena handing out stable pointers, reset per step
//   - Vec3Pool: size-class pooling for []mgl32.Vec3 force buffers
//   - BytePool: size-class pooling for snapshot encode buffers
package pools
