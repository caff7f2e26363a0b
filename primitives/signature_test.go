package primitives

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	digest := SumHash([]byte("body"))
	ks := Sign(priv, digest)
	if !ks.Verify(digest) {
		t.Fatalf("signature did not verify under its own digest")
	}
}

func TestVerifyRejectsTamperedDigest(t *testing.T) {
	priv, _ := secp256k1.GeneratePrivateKey()
	digest := SumHash([]byte("body"))
	ks := Sign(priv, digest)
	tampered := SumHash([]byte("body-tampered"))
	if ks.Verify(tampered) {
		t.Fatalf("signature verified under a different digest")
	}
}

func TestParseKeyedSignatureRoundTrip(t *testing.T) {
	priv, _ := secp256k1.GeneratePrivateKey()
	digest := SumHash([]byte("body"))
	ks := Sign(priv, digest)

	parsed, err := ParseKeyedSignature(ks.PublicKey.SerializeCompressed(), ks.SerializeDER())
	if err != nil {
		t.Fatalf("ParseKeyedSignature: %v", err)
	}
	if !parsed.Verify(digest) {
		t.Fatalf("parsed signature failed to verify")
	}
}

func TestPKHFromPublicKeyIsStable(t *testing.T) {
	priv, _ := secp256k1.GeneratePrivateKey()
	pub := priv.PubKey()
	a := PKHFromPublicKey(pub)
	b := PKHFromPublicKey(pub)
	if a != b {
		t.Fatalf("PKH derivation is not deterministic")
	}
}
