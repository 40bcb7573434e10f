package types

// AddressRecord is the public, encrypted address of an identity on a chain.
type AddressRecord struct {
	Identity   IdentityID  `json:"identity"`
	Chain      ChainID     `json:"chain"`
	Ciphertext []byte      `json:"ciphertext"`
	Nonce      []byte      `json:"nonce"`
	KeyVersion KeyVersion  `json:"key_version"`
	Suite      CipherSuite `json:"suite"`
	UpdatedAt  int64       `json:"updated_at"`
}

// AddressBookEntry links an identity into an account's address book.
type AddressBookEntry struct {
	Owner    AccountID  `json:"owner"`
	Identity IdentityID `json:"identity"`
	Nickname Nickname   `json:"nickname,omitempty"`
}
