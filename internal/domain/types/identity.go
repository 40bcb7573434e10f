package types

// Identity is the ledger-side record of a registered identity.
type Identity struct {
	ID              IdentityID `json:"id"`
	Owner           AccountID  `json:"owner"`
	RecoveryAccount AccountID  `json:"recovery_account,omitempty"`
}

// AccountType is the address format a chain expects for transfers.
type AccountType string

const (
	AccountID32  AccountType = "AccountId32"
	AccountKey20 AccountType = "AccountKey20"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool { return t == AccountID32 || t == AccountKey20 }

// ChainInfo describes a chain in the chain registry.
type ChainInfo struct {
	ID          ChainID     `json:"id" yaml:"-"`
	RPCURLs     []string    `json:"rpc_urls" yaml:"rpc_urls"`
	AccountType AccountType `json:"account_type" yaml:"account_type"`
	Suite       CipherSuite `json:"suite" yaml:"-"`
}
