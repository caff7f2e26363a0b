package chaintx

import (
	"encoding/binary"
	"fmt"

	"oraclenet.dev/node/primitives"
)

// Encode produces the canonical byte encoding of a transaction body, the
// input to Hash and to signature digests. It is deliberately a flat,
// versionless format: a tag
// byte for Kind followed by a kind-specific body, with CompactSize varints
// for counts and byte-string lengths. Signatures are not part of it.
func Encode(t *Transaction) ([]byte, error) {
	buf := []byte{byte(t.Kind)}

	switch t.Kind {
	case KindValueTransfer, KindDataRequest, KindStake:
		buf = encodeInputs(buf, t.Inputs)
		buf = encodeOutputs(buf, t.Outputs)
		if t.Kind == KindDataRequest {
			if t.DataRequest == nil {
				return nil, fmt.Errorf("chaintx: data request transaction missing descriptor")
			}
			buf = encodeDRO(buf, t.DataRequest)
		}
		if t.Kind == KindStake {
			if t.Stake == nil {
				return nil, fmt.Errorf("chaintx: stake transaction missing body")
			}
			buf = primitives.AppendBytes(buf, t.Stake.Authorizer[:])
			buf = appendU64(buf, t.Stake.Value)
			buf = appendU64(buf, t.Stake.ChangeValue)
		}

	case KindUnstake:
		buf = encodeInputs(buf, t.Inputs)
		buf = encodeOutputs(buf, t.Outputs)

	case KindCommit:
		if t.Commit == nil {
			return nil, fmt.Errorf("chaintx: commit transaction missing body")
		}
		buf = primitives.AppendBytes(buf, t.Commit.DRPointer.Bytes())
		buf = primitives.AppendBytes(buf, t.Commit.CommitHash.Bytes())
		buf = primitives.AppendBytes(buf, t.Commit.WitnessPKH[:])
		buf = encodeInputs(buf, t.Commit.CollateralIn)
		if t.Commit.ChangeOutput != nil {
			buf = append(buf, 1)
			buf = encodeOutput(buf, *t.Commit.ChangeOutput)
		} else {
			buf = append(buf, 0)
		}

	case KindReveal:
		if t.Reveal == nil {
			return nil, fmt.Errorf("chaintx: reveal transaction missing body")
		}
		buf = primitives.AppendBytes(buf, t.Reveal.DRPointer.Bytes())
		buf = primitives.AppendBytes(buf, t.Reveal.CommitHash.Bytes())
		buf = primitives.AppendBytes(buf, t.Reveal.WitnessPKH[:])
		buf = primitives.AppendBytes(buf, t.Reveal.Reveal)

	case KindTally:
		if t.Tally == nil {
			return nil, fmt.Errorf("chaintx: tally transaction missing body")
		}
		buf = primitives.AppendBytes(buf, t.Tally.DRPointer.Bytes())
		buf = primitives.AppendBytes(buf, t.Tally.Result)
		buf = primitives.AppendCompactSize(buf, uint64(len(t.Tally.Outcomes)))
		for _, o := range t.Tally.Outcomes {
			buf = append(buf, byte(o.Kind))
			buf = append(buf, o.PKH[:]...)
		}
		buf = encodeOutputs(buf, t.Tally.Outputs)

	case KindMint:
		if t.Mint == nil {
			return nil, fmt.Errorf("chaintx: mint transaction missing body")
		}
		buf = appendU32(buf, t.Mint.Epoch)
		buf = encodeOutputs(buf, t.Outputs)

	default:
		return nil, fmt.Errorf("chaintx: unknown transaction kind %d", t.Kind)
	}
	return buf, nil
}

func encodeInputs(buf []byte, ins []TxInput) []byte {
	buf = primitives.AppendCompactSize(buf, uint64(len(ins)))
	for _, in := range ins {
		buf = primitives.AppendBytes(buf, in.Pointer.TxHash.Bytes())
		buf = appendU32(buf, in.Pointer.OutputIndex)
	}
	return buf
}

func encodeOutputs(buf []byte, outs []ValueTransferOutput) []byte {
	buf = primitives.AppendCompactSize(buf, uint64(len(outs)))
	for _, o := range outs {
		buf = encodeOutput(buf, o)
	}
	return buf
}

func encodeOutput(buf []byte, o ValueTransferOutput) []byte {
	buf = append(buf, o.PKH[:]...)
	buf = appendU64(buf, o.Value)
	buf = appendU64(buf, o.TimeLock)
	return buf
}

func encodeDRO(buf []byte, dro *DataRequestOutput) []byte {
	buf = primitives.AppendBytes(buf, dro.RadonScript)
	buf = primitives.AppendBytes(buf, dro.TallyScript)
	buf = appendU16(buf, dro.Witnesses)
	buf = appendU16(buf, dro.BackupWitnesses)
	buf = appendU64(buf, dro.CommitFee)
	buf = appendU64(buf, dro.RevealFee)
	buf = appendU64(buf, dro.TallyFee)
	buf = appendU64(buf, dro.Collateral)
	buf = append(buf, dro.MinConsensusPercent)
	buf = appendU64(buf, dro.TotalReward)
	return buf
}

func appendU16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}
