// Package mix implements the avalanche mix functions used to expand short
// seeds into full generator states.
package mix

// Golden64 is the 64-bit golden ratio increment used by the splitmix seed
// expansion.
const Golden64 = 0x9e3779b97f4a7c15

// Golden32 is the 32-bit golden ratio increment.
const Golden32 = 0x9e3779b9

// Mix13 is variant 13 of Stafford's tuned splitmix64 finalizer. Small input
// differences produce large, decorrelated output differences.
func Mix13(u uint64) uint64 {
	u ^= u >> 30
	u *= 0xbf58476d1ce4e5b9
	u ^= u >> 27
	u *= 0x94d049bb133111eb
	u ^= u >> 31
	return u
}

// Triple32 is the hash-prospector "triple32" finalizer, the 32-bit analogue
// of Mix13.
func Triple32(u uint32) uint32 {
	u = (u ^ (u >> 17)) * 0xed5ad4bb
	u = (u ^ (u >> 11)) * 0xac4c1b51
	u = (u ^ (u >> 15)) * 0x31848bab
	return u ^ (u >> 14)
}
