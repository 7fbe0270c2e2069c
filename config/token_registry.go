package config

import (
	"github.com/BurntSushi/toml"
)

// ApprovedToken describes one fee token the platform accepts. Decimals is
// authoritative for base-unit conversion: USDC-style mints carry 6, native
// SOL carries 9.
type ApprovedToken struct {
	Symbol   string `toml:"symbol"`
	Mint     string `toml:"mint"`
	Decimals int    `toml:"decimals"`
}

type TokenRegistry struct {
	Tokens []ApprovedToken `toml:"tokens"`
}

func LoadTokenRegistry(path string) (*TokenRegistry, error) {
	var registry TokenRegistry
	if _, err := toml.DecodeFile(path, &registry); err != nil {
		return nil, err
	}

	return &registry, nil
}

func (r *TokenRegistry) Lookup(mint string) (ApprovedToken, bool) {
	for _, t := range r.Tokens {
		if t.Mint == mint {
			return t, true
		}
	}

	return ApprovedToken{}, false
}

func (r *TokenRegistry) IsApproved(mint string) bool {
	_, ok := r.Lookup(mint)
	return ok
}
