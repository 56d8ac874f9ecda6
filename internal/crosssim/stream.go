package crosssim

import "math/rand/v2"

// pcgSequence fixes the PCG stream selector so that the seed alone
// determines every draw.
const pcgSequence = 0x5eedc0ffee

// NewStream returns the single random stream a simulation consumes. It is
// not safe for concurrent use; each simulation owns its own stream.
func NewStream(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), pcgSequence))
}

// DeriveSeed mixes a parent seed with a stream identifier (SplitMix64
// finalizer) so that related runs get decorrelated seeds.
func DeriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}
