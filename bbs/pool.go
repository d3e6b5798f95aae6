package bbs

import (
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// ObjectPool recycles the G1/G2 affine-point slices BatchVerify builds for
// its multi-pairing check, the one place in this package where the number
// of pooled objects scales with batch size and the allocation pattern
// recurs across calls.
type ObjectPool struct {
	g1AffineSlicePool sync.Pool
	g2AffineSlicePool sync.Pool
}

// NewObjectPool creates a new object pool.
func NewObjectPool() *ObjectPool {
	return &ObjectPool{
		g1AffineSlicePool: sync.Pool{
			New: func() interface{} {
				return make([]bls12381.G1Affine, 0, 8)
			},
		},
		g2AffineSlicePool: sync.Pool{
			New: func() interface{} {
				return make([]bls12381.G2Affine, 0, 8)
			},
		},
	}
}

// Singleton instance of the object pool.
var defaultPool = NewObjectPool()

// GetG1AffineSlice gets a slice of G1 Affine points from the pool.
func (p *ObjectPool) GetG1AffineSlice(capacity int) []bls12381.G1Affine {
	slice := p.g1AffineSlicePool.Get().([]bls12381.G1Affine)
	if cap(slice) < capacity {
		return make([]bls12381.G1Affine, 0, capacity)
	}
	return slice[:0]
}

// PutG1AffineSlice returns a slice of G1 Affine points to the pool.
func (p *ObjectPool) PutG1AffineSlice(slice []bls12381.G1Affine) {
	if slice != nil {
		p.g1AffineSlicePool.Put(slice)
	}
}

// GetG2AffineSlice gets a slice of G2 Affine points from the pool.
func (p *ObjectPool) GetG2AffineSlice(capacity int) []bls12381.G2Affine {
	slice := p.g2AffineSlicePool.Get().([]bls12381.G2Affine)
	if cap(slice) < capacity {
		return make([]bls12381.G2Affine, 0, capacity)
	}
	return slice[:0]
}

// PutG2AffineSlice returns a slice of G2 Affine points to the pool.
func (p *ObjectPool) PutG2AffineSlice(slice []bls12381.G2Affine) {
	if slice != nil {
		p.g2AffineSlicePool.Put(slice)
	}
}

// Global helper functions to use the default pool.

// GetG1AffineSlice gets a slice of G1 Affine points from the default pool.
func GetG1AffineSlice(capacity int) []bls12381.G1Affine {
	return defaultPool.GetG1AffineSlice(capacity)
}

// PutG1AffineSlice returns a slice of G1 Affine points to the default pool.
func PutG1AffineSlice(slice []bls12381.G1Affine) {
	defaultPool.PutG1AffineSlice(slice)
}

// GetG2AffineSlice gets a slice of G2 Affine points from the default pool.
func GetG2AffineSlice(capacity int) []bls12381.G2Affine {
	return defaultPool.GetG2AffineSlice(capacity)
}

// PutG2AffineSlice returns a slice of G2 Affine points to the default pool.
func PutG2AffineSlice(slice []bls12381.G2Affine) {
	defaultPool.PutG2AffineSlice(slice)
}
