// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package crypto

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

var (
	errInvalidSignatureLen = errors.New("invalid signature length")
	errInvalidRecoveryID   = errors.New("invalid signature recovery id")
)

// Ecrecover returns the uncompressed public key (65 bytes, 0x04-prefixed)
// that produced sig over hash. sig is the 65-byte [R || S || V] signature
// consumed by the ECRECOVER precompile (V in {0,1}).
func Ecrecover(hash, sig []byte) ([]byte, error) {
	pub, err := sigToPub(hash, sig)
	if err != nil {
		return nil, err
	}
	return pub.SerializeUncompressed(), nil
}

func sigToPub(hash, sig []byte) (*secp256k1.PublicKey, error) {
	if len(sig) != 65 {
		return nil, errInvalidSignatureLen
	}
	if sig[64] >= 4 {
		return nil, errInvalidRecoveryID
	}
	// decred's RecoverCompact expects [V || R || S] with V offset by 27
	// (plus 4 for compressed keys, which we don't want here).
	btcsig := make([]byte, 65)
	btcsig[0] = sig[64] + 27
	copy(btcsig[1:], sig[:64])

	pub, _, err := secp256k1.RecoverCompact(btcsig, hash)
	if err != nil {
		return nil, fmt.Errorf("ecrecover: %w", err)
	}
	return pub, nil
}

// PubkeyToAddress derives the 20-byte Ethereum address belonging to an
// uncompressed public key, as Keccak256(pubkey[1:])[12:].
func PubkeyToAddress(pubkey []byte) []byte {
	h := Keccak256(pubkey[1:])
	return h[12:]
}
