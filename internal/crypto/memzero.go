package crypto

import (
	"runtime"

	"dotflow/internal/domain"
)

// Wipe zeroes the provided buffer. This is best-effort and aims to
// reduce the chance of the compiler eliding the write.
//
//go:noinline
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b)
}

// WipeKey zeroes the key material of every given chain key.
func WipeKey(keys ...domain.ChainKey) {
	for _, k := range keys {
		Wipe(k.Key)
	}
}

// WipeBundle zeroes every key held by a bundle.
func WipeBundle(b domain.IdentityKeyBundle) {
	for _, k := range b.Keys {
		Wipe(k.Key)
	}
}
