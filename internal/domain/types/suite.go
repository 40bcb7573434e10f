package types

import "fmt"

// CipherSuite tags the AEAD construction used for a chain. The set is closed:
// the cipher engine switches on the tag and rejects anything else.
type CipherSuite uint8

const (
	SuiteUnknown CipherSuite = iota
	// SuiteAES256GCM is AES-256 in GCM mode with a random 96-bit nonce.
	SuiteAES256GCM
	// SuiteXChaCha20Poly1305 is XChaCha20-Poly1305 with a random 192-bit nonce.
	SuiteXChaCha20Poly1305
)

// DefaultSuite is used when a chain does not request a specific suite.
const DefaultSuite = SuiteAES256GCM

var suiteNames = map[CipherSuite]string{
	SuiteAES256GCM:         "aes-256-gcm",
	SuiteXChaCha20Poly1305: "xchacha20-poly1305",
}

// String returns the canonical name of the suite.
func (s CipherSuite) String() string {
	if n, ok := suiteNames[s]; ok {
		return n
	}
	return fmt.Sprintf("suite(%d)", uint8(s))
}

// Valid reports whether s is one of the supported suites.
func (s CipherSuite) Valid() bool {
	_, ok := suiteNames[s]
	return ok
}

// ParseCipherSuite maps a canonical name back to its tag.
func ParseCipherSuite(name string) (CipherSuite, error) {
	for s, n := range suiteNames {
		if n == name {
			return s, nil
		}
	}
	return SuiteUnknown, fmt.Errorf("unknown cipher suite %q", name)
}
