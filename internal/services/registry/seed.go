package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"dotflow/internal/domain"
)

// seedFile is the chains.yaml layout:
//
//	chains:
//	  - name: polkadot
//	    rpc_urls: ["wss://rpc.polkadot.io"]
//	    account_type: AccountId32
//	    suite: aes-256-gcm
type seedFile struct {
	Chains []seedChain `yaml:"chains"`
}

type seedChain struct {
	Name             string `yaml:"name"`
	domain.ChainInfo `yaml:",inline"`
	Suite            string `yaml:"suite"`
}

// ParseChains decodes a chain seed document. Chains keep file order, which
// becomes their ID order when seeded into an empty registry.
func ParseChains(r io.Reader) ([]domain.ChainInfo, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode chains: %w", err)
	}
	out := make([]domain.ChainInfo, 0, len(f.Chains))
	for i, c := range f.Chains {
		info := c.ChainInfo
		if c.Suite != "" {
			suite, err := domain.ParseCipherSuite(c.Suite)
			if err != nil {
				return nil, fmt.Errorf("chain %d (%s): %w", i, c.Name, err)
			}
			info.Suite = suite
		}
		out = append(out, info)
	}
	return out, nil
}

// LoadChainsFile reads and decodes a chain seed file.
func LoadChainsFile(path string) ([]domain.ChainInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseChains(f)
}
