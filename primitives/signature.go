package primitives

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// PublicKeyHash is the 20-byte hash of a compressed secp256k1 public key,
// the `pkh` referenced throughout the data model (output pkh, witness pkh).
type PublicKeyHash [20]byte

// PKHFromPublicKey derives the pkh the way the teacher derives short
// identifiers from longer digests: SHA-256 then truncate, rather than
// RIPEMD160(SHA256(.)) — there is no ecosystem dependency in the pack for
// RIPEMD160 and the teacher never reaches for one either (see DESIGN.md).
func PKHFromPublicKey(pub *secp256k1.PublicKey) PublicKeyHash {
	full := SumHash(pub.SerializeCompressed())
	var pkh PublicKeyHash
	copy(pkh[:], full[:20])
	return pkh
}

// KeyedSignature carries both the signer's public key and a low-S
// normalized secp256k1 signature over the body hash of its enclosing
// transaction.
type KeyedSignature struct {
	PublicKey *secp256k1.PublicKey
	Signature *ecdsa.Signature
}

// Sign produces a low-S secp256k1 signature over digest using priv.
// ecdsa.Sign already normalizes S to the lower half of the group order,
// matching the "low-S normalized" requirement.
func Sign(priv *secp256k1.PrivateKey, digest Hash) KeyedSignature {
	sig := ecdsa.Sign(priv, digest[:])
	return KeyedSignature{PublicKey: priv.PubKey(), Signature: sig}
}

// Verify reports whether ks authenticates digest.
func (ks KeyedSignature) Verify(digest Hash) bool {
	if ks.PublicKey == nil || ks.Signature == nil {
		return false
	}
	return ks.Signature.Verify(digest[:], ks.PublicKey)
}

// SerializeDER returns the DER encoding of the signature component only.
func (ks KeyedSignature) SerializeDER() []byte {
	if ks.Signature == nil {
		return nil
	}
	return ks.Signature.Serialize()
}

// ParseKeyedSignature reconstructs a KeyedSignature from its wire parts.
func ParseKeyedSignature(pubkeyCompressed []byte, sigDER []byte) (KeyedSignature, error) {
	pub, err := secp256k1.ParsePubKey(pubkeyCompressed)
	if err != nil {
		return KeyedSignature{}, fmt.Errorf("primitives: parse pubkey: %w", err)
	}
	sig, err := ecdsa.ParseDERSignature(sigDER)
	if err != nil {
		return KeyedSignature{}, fmt.Errorf("primitives: parse signature: %w", err)
	}
	return KeyedSignature{PublicKey: pub, Signature: sig}, nil
}
