// Shoal is a Redfish aggregator service.
// Copyright (C) 2025  Matthew Burns
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package secret derives an at-rest encryption key from an operator-supplied
// passphrase and uses it to protect the BMC password of saved connection
// profiles (address and username stay in plaintext; never the live session
// token or a cached Redfish resource).
// Thin wrapper around pkg/crypto.Encryptor.
package secret

import "raidctl/pkg/crypto"

// EnvVaultKey is the environment variable cmd/raidctl reads the vault
// passphrase from when a profile store is in use.
const EnvVaultKey = "RAIDCTL_VAULT_KEY"

// Vault encrypts and decrypts strings (BMC passwords) with a key derived
// from a single passphrase.
type Vault struct {
	enc *crypto.Encryptor
}

// NewVault derives a Vault's key from passphrase. An empty passphrase is
// rejected rather than silently falling back to plaintext storage.
func NewVault(passphrase string) (*Vault, error) {
	enc, err := crypto.NewEncryptor(passphrase)
	if err != nil {
		return nil, err
	}
	return &Vault{enc: enc}, nil
}

// Seal encrypts plaintext and returns a base64-encoded
// version||nonce||ciphertext envelope.
// An empty plaintext seals to "" so absent BMC passwords round-trip as absent.
func (v *Vault) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	return v.enc.Encrypt(plaintext)
}

// Open decrypts a value produced by Seal.
func (v *Vault) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	return v.enc.Decrypt(sealed)
}
