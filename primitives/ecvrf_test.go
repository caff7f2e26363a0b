package primitives

import (
	"bytes"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

func TestVRFProveVerifyRoundTrip(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	alpha := VRFMessage(42, SumHash([]byte("prev")), nil)

	proof, beta, err := VRFProve(priv, alpha)
	if err != nil {
		t.Fatalf("VRFProve: %v", err)
	}
	gotBeta, ok := VRFVerify(priv.PubKey(), alpha, proof)
	if !ok {
		t.Fatalf("VRFVerify rejected a valid proof")
	}
	if gotBeta != beta {
		t.Fatalf("verify produced a different output hash than prove")
	}
}

func TestVRFVerifyRejectsWrongMessage(t *testing.T) {
	priv, _ := secp256k1.GeneratePrivateKey()
	alpha := VRFMessage(1, Hash{}, nil)
	proof, _, err := VRFProve(priv, alpha)
	if err != nil {
		t.Fatalf("VRFProve: %v", err)
	}
	otherAlpha := VRFMessage(2, Hash{}, nil)
	if _, ok := VRFVerify(priv.PubKey(), otherAlpha, proof); ok {
		t.Fatalf("verify accepted a proof for a different message")
	}
}

func TestVRFVerifyRejectsWrongKey(t *testing.T) {
	priv, _ := secp256k1.GeneratePrivateKey()
	other, _ := secp256k1.GeneratePrivateKey()
	alpha := VRFMessage(7, Hash{}, nil)
	proof, _, err := VRFProve(priv, alpha)
	if err != nil {
		t.Fatalf("VRFProve: %v", err)
	}
	if _, ok := VRFVerify(other.PubKey(), alpha, proof); ok {
		t.Fatalf("verify accepted a proof under the wrong public key")
	}
}

func TestVRFIsDeterministic(t *testing.T) {
	priv, _ := secp256k1.GeneratePrivateKey()
	alpha := VRFMessage(99, SumHash([]byte("x")), nil)
	_, beta1, err := VRFProve(priv, alpha)
	if err != nil {
		t.Fatalf("VRFProve (1): %v", err)
	}
	_, beta2, err := VRFProve(priv, alpha)
	if err != nil {
		t.Fatalf("VRFProve (2): %v", err)
	}
	if !bytes.Equal(beta1[:], beta2[:]) {
		t.Fatalf("VRF output must be deterministic for identical inputs")
	}
}
