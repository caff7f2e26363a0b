package primitives

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ECVRF implements the ECVRF-SECP256K1-SHA256-TAI ciphersuite: hash-to-curve
// by try-and-increment, a Schnorr-like proof (Gamma, c, s) with a 16-byte
// challenge, and SHA-256 proof-to-hash. This is the same construction the
// original node's VRF dependency uses; secp256k1 has no standardized RFC 9381 ciphersuite, so this
// hand-rolled construction is the idiomatic choice every secp256k1-based
// VRF in the ecosystem makes (see DESIGN.md).
const (
	vrfSuiteID  = 0xFE
	vrfChalLen  = 16
	vrfMaxTries = 256
)

// VRFProof is a Gamma curve point plus a (c, s) Schnorr-like challenge
// response. This package defines no byte serialization for it.
type VRFProof struct {
	Gamma secp256k1.JacobianPoint
	C     secp256k1.ModNScalar
	S     secp256k1.ModNScalar
}

// VRFMessage builds the canonical VRF input (epoch, hash_prev_vrf [, dr_pointer])
// described in §4.1.
func VRFMessage(epoch uint32, hashPrevVRF Hash, drPointer *Hash) []byte {
	buf := make([]byte, 0, 4+32+32)
	buf = append(buf, byte(epoch>>24), byte(epoch>>16), byte(epoch>>8), byte(epoch))
	buf = append(buf, hashPrevVRF[:]...)
	if drPointer != nil {
		buf = append(buf, drPointer[:]...)
	}
	return buf
}

// VRFProve computes the VRF proof and output hash for alpha under priv.
func VRFProve(priv *secp256k1.PrivateKey, alpha []byte) (VRFProof, Hash, error) {
	pub := priv.PubKey()
	h, err := hashToCurveTAI(pub, alpha)
	if err != nil {
		return VRFProof{}, Hash{}, err
	}

	var gamma secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&priv.Key, &h, &gamma)
	gamma.ToAffine()

	k := vrfNonce(priv, &h)

	var kG, kH secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&k, &kG)
	kG.ToAffine()
	secp256k1.ScalarMultNonConst(&k, &h, &kH)
	kH.ToAffine()

	c := vrfHashPoints(&h, &gamma, &kG, &kH)

	// s = k + c*x (mod n)
	var s secp256k1.ModNScalar
	s.Set(&c)
	s.Mul(&priv.Key)
	s.Add(&k)

	proof := VRFProof{Gamma: gamma, C: c, S: s}
	beta := vrfProofToHash(&gamma)
	return proof, beta, nil
}

// VRFVerify checks proof against pub and alpha, returning the output hash
// on success.
func VRFVerify(pub *secp256k1.PublicKey, alpha []byte, proof VRFProof) (Hash, bool) {
	h, err := hashToCurveTAI(pub, alpha)
	if err != nil {
		return Hash{}, false
	}

	var pubJ secp256k1.JacobianPoint
	pub.AsJacobian(&pubJ)

	// U = s*G - c*Y = s*G + (-c)*Y
	var negC secp256k1.ModNScalar
	negC.NegateVal(&proof.C)
	var sG, cY, u secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&proof.S, &sG)
	secp256k1.ScalarMultNonConst(&negC, &pubJ, &cY)
	secp256k1.AddNonConst(&sG, &cY, &u)
	u.ToAffine()

	// V = s*H - c*Gamma
	var sH, cGamma, v secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&proof.S, &h, &sH)
	secp256k1.ScalarMultNonConst(&negC, &proof.Gamma, &cGamma)
	secp256k1.AddNonConst(&sH, &cGamma, &v)
	v.ToAffine()

	cPrime := vrfHashPoints(&h, &proof.Gamma, &u, &v)
	if !cPrime.Equals(&proof.C) {
		return Hash{}, false
	}
	return vrfProofToHash(&proof.Gamma), true
}

// hashToCurveTAI hashes (pub, alpha) onto the curve by the
// try-and-increment method: hash a counter-tagged preimage, treat the
// digest as an x-coordinate candidate, and accept the first candidate
// that decompresses to a valid point.
func hashToCurveTAI(pub *secp256k1.PublicKey, alpha []byte) (secp256k1.JacobianPoint, error) {
	pubBytes := pub.SerializeCompressed()
	for ctr := 0; ctr < vrfMaxTries; ctr++ {
		h := sha256.New()
		h.Write([]byte{vrfSuiteID, 0x01})
		h.Write(pubBytes)
		h.Write(alpha)
		h.Write([]byte{byte(ctr)})
		sum := h.Sum(nil)

		var x secp256k1.FieldVal
		if overflow := x.SetByteSlice(sum); overflow {
			continue
		}
		var y secp256k1.FieldVal
		if !secp256k1.DecompressY(&x, false, &y) {
			continue
		}
		var p secp256k1.JacobianPoint
		p.X = x
		p.Y = y
		p.Z.SetInt(1)
		p.ToAffine()
		return p, nil
	}
	return secp256k1.JacobianPoint{}, fmt.Errorf("primitives: hash-to-curve exhausted %d tries", vrfMaxTries)
}

// vrfNonce derives a deterministic per-message nonce from priv and the
// hashed curve point, the same role RFC6979 plays for ECDSA signing but
// specialized to the VRF's own transcript.
func vrfNonce(priv *secp256k1.PrivateKey, h *secp256k1.JacobianPoint) secp256k1.ModNScalar {
	mac := hmac.New(sha256.New, priv.Serialize())
	mac.Write(pointBytes(h))
	sum := mac.Sum(nil)
	var k secp256k1.ModNScalar
	k.SetByteSlice(sum)
	return k
}

// vrfHashPoints is ECVRF_hash_points: hash the transcript of curve points
// and reduce to a cLen=16 byte challenge, interpreted as a scalar.
func vrfHashPoints(points ...*secp256k1.JacobianPoint) secp256k1.ModNScalar {
	h := sha256.New()
	h.Write([]byte{vrfSuiteID, 0x02})
	for _, p := range points {
		h.Write(pointBytes(p))
	}
	sum := h.Sum(nil)[:vrfChalLen]
	var c secp256k1.ModNScalar
	c.SetByteSlice(sum)
	return c
}

// vrfProofToHash is ECVRF_proof_to_hash: SHA-256 over a domain-tagged
// compressed Gamma point, producing the 32-byte VRF output.
func vrfProofToHash(gamma *secp256k1.JacobianPoint) Hash {
	h := sha256.New()
	h.Write([]byte{vrfSuiteID, 0x03})
	h.Write(pointBytes(gamma))
	h.Write([]byte{0x00})
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

func pointBytes(p *secp256k1.JacobianPoint) []byte {
	q := *p
	q.ToAffine()
	pub := secp256k1.NewPublicKey(&q.X, &q.Y)
	return pub.SerializeCompressed()
}

// ThresholdFromHash interprets a VRF output hash as a big-endian 256-bit
// unsigned integer for threshold comparisons.
func ThresholdFromHash(h Hash) [32]byte {
	return h
}
