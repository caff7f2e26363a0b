package reputation

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"oraclenet.dev/node/primitives"
)

// MiningProof is the (VRF proof, beta hash) pair a block header carries
// as its proof of eligibility.
type MiningProof struct {
	Proof primitives.VRFProof
	Beta  primitives.Hash
}

// ProveMiningEligibility computes the VRF proof for epoch e and returns
// it alongside whether beta falls under the mining threshold derived
// from trs. Callers that are not eligible still get a valid proof back;
// it is the caller's responsibility not to broadcast an ineligible one.
func ProveMiningEligibility(priv *secp256k1.PrivateKey, trs *TotalSet, epoch uint32, hashPrevVRF primitives.Hash, floorNumerator, floorDenominator uint64) (MiningProof, bool, error) {
	alpha := primitives.VRFMessage(epoch, hashPrevVRF, nil)
	proof, beta, err := primitives.VRFProve(priv, alpha)
	if err != nil {
		return MiningProof{}, false, err
	}
	pkh := primitives.PKHFromPublicKey(priv.PubKey())
	threshold := MiningThreshold(trs, pkh, floorNumerator, floorDenominator)
	return MiningProof{Proof: proof, Beta: beta}, BelowThreshold(beta, threshold), nil
}

// VerifyMiningEligibility recomputes beta from the supplied proof and
// checks both the VRF and the threshold.
func VerifyMiningEligibility(pub *secp256k1.PublicKey, trs *TotalSet, epoch uint32, hashPrevVRF primitives.Hash, proof primitives.VRFProof, floorNumerator, floorDenominator uint64) bool {
	alpha := primitives.VRFMessage(epoch, hashPrevVRF, nil)
	beta, ok := primitives.VRFVerify(pub, alpha, proof)
	if !ok {
		return false
	}
	pkh := primitives.PKHFromPublicKey(pub)
	threshold := MiningThreshold(trs, pkh, floorNumerator, floorDenominator)
	return BelowThreshold(beta, threshold)
}

// ProveWitnessEligibility is the data-request analogue of
// ProveMiningEligibility: alpha is bound to the DR pointer so a single
// key's VRF output differs across concurrently-eligible requests
//.
func ProveWitnessEligibility(priv *secp256k1.PrivateKey, trs *TotalSet, ars *ActiveSet, epoch uint32, hashPrevVRF primitives.Hash, drPointer primitives.Hash, w, d uint64) (MiningProof, bool, error) {
	alpha := primitives.VRFMessage(epoch, hashPrevVRF, &drPointer)
	proof, beta, err := primitives.VRFProve(priv, alpha)
	if err != nil {
		return MiningProof{}, false, err
	}
	pkh := primitives.PKHFromPublicKey(priv.PubKey())
	threshold, _ := WitnessThreshold(trs, ars, pkh, w, d)
	return MiningProof{Proof: proof, Beta: beta}, BelowThreshold(beta, threshold), nil
}
