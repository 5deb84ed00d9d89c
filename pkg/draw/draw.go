// Package draw implements the pseudo-random character selection for
// multi-supply mints. Selection is a pure function of the seed so the whole
// path is deterministic under test; the production entropy source is injected
// by the caller (see pkg/entropy).
package draw

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"market-core/pkg/errno"
)

// Seed mixes the transition-level entropy with the caller address and a
// per-transaction counter. The counter increments once per minted unit inside
// a multi-unit call, so two units of the same call never hash the same input
// even though entropy and caller are fixed for the whole transition.
func Seed(entropy []byte, caller string, counter uint64) []byte {
	var c [8]byte
	binary.BigEndian.PutUint64(c[:], counter)
	return crypto.Keccak256(entropy, common.HexToAddress(caller).Bytes(), c[:])
}

// Select picks an index in [0, n) from the seed. n is the size of the
// available set, already filtered down to characters with remaining supply,
// so whatever index comes out maps to a slot that can actually be consumed.
func Select(n int, seed []byte) (int, error) {
	if n <= 0 {
		return 0, errno.ErrSupplyExhausted
	}
	v := new(big.Int).SetBytes(seed)
	return int(v.Mod(v, big.NewInt(int64(n))).Int64()), nil
}
