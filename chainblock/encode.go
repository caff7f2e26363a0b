package chainblock

import (
	"encoding/binary"

	"oraclenet.dev/node/primitives"
)

// EncodeHeader canonically serializes a header; it is what HashHeader
// hashes and what block_sig signs over.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, 0, 4+4+32+32*8+20+32+32)
	buf = appendU32(buf, MagicNumber)
	buf = appendU32(buf, h.Version)
	buf = appendU32(buf, h.Epoch)
	buf = append(buf, h.HashPrevBlock.Bytes()...)

	roots := []primitives.Hash{
		h.MerkleRoots.Mint, h.MerkleRoots.ValueTransfer, h.MerkleRoots.DataRequest,
		h.MerkleRoots.Commit, h.MerkleRoots.Reveal, h.MerkleRoots.Tally,
		h.MerkleRoots.Stake, h.MerkleRoots.Unstake,
	}
	for _, r := range roots {
		buf = append(buf, r.Bytes()...)
	}

	buf = append(buf, h.Proof.LeadershipPKH[:]...)
	buf = append(buf, h.Proof.VRFOutput.Bytes()...)
	return buf
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}
