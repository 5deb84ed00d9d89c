package crypto_util

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
)

// DeriveCollectionAddress derives a deterministic address for a newly created
// collection from its creator and the registry nonce (how many collections the
// factory has created so far). Mirrors contract-style CREATE addressing: the
// last 20 bytes of keccak256(creator || nonce).
func DeriveCollectionAddress(creator string, nonce uint64) string {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	sum := Keccak256(common.HexToAddress(creator).Bytes(), n[:])
	return common.BytesToAddress(sum[12:]).Hex()
}

// DeriveListingKey derives the opaque listing identifier from
// (collection, tokenId, seller). Different sellers listing the same token id
// therefore get distinct keys, which is what allows multiple concurrent
// listings of the same multi-supply id.
func DeriveListingKey(collection string, tokenID uint64, seller string) string {
	var t [8]byte
	binary.BigEndian.PutUint64(t[:], tokenID)
	sum := Keccak256(common.HexToAddress(collection).Bytes(), t[:], common.HexToAddress(seller).Bytes())
	return "0x" + hex.EncodeToString(sum)
}
