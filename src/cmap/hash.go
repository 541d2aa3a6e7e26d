package cmap

import "github.com/cespare/xxhash/v2"

const fnvPrime32 = 16777619
const fnvOffset32 = uint64(2166136261)

// Fnv32 returns an FNV-1 hash of a string using the 32-bit offset basis and
// prime, so it can be used directly as a Map hasher. The arithmetic runs in
// 64 bits without truncation: the low 32 bits equal the 32-bit FNV-1 hash,
// the upper 32 bits are generally not zero.
func Fnv32(s string) uint64 {
	hash := fnvOffset32
	for i := 0; i < len(s); i++ {
		hash *= fnvPrime32
		hash ^= uint64(s[i])
	}
	return hash
}

// Fnv32s hashes a sequence of strings as if they had been concatenated.
func Fnv32s(s ...string) uint64 {
	hash := fnvOffset32
	for _, x := range s {
		for i := 0; i < len(x); i++ {
			hash *= fnvPrime32
			hash ^= uint64(x[i])
		}
	}
	return hash
}

// XXHash returns a 64-bit xxHash of a string. It outperforms Fnv32 on
// anything longer than a few dozen bytes; this is the default hasher we
// recommend to callers of New.
func XXHash(s string) uint64 {
	return xxhash.Sum64String(s)
}

// XXHashes hashes a sequence of strings as if they had been concatenated.
func XXHashes(s ...string) uint64 {
	d := xxhash.New()
	for _, x := range s {
		d.WriteString(x)
	}
	return d.Sum64()
}
