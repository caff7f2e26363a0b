package primitives

import "testing"

func TestMerkleRootSingleLeaf(t *testing.T) {
	leaf := SumHash([]byte("leaf"))
	root := MerkleRoot([]Hash{leaf})
	if root != leaf {
		t.Fatalf("single-leaf root should equal the leaf itself")
	}
}

func TestMerkleInclusionProofRoundTrip(t *testing.T) {
	leaves := make([]Hash, 5)
	for i := range leaves {
		leaves[i] = SumHash([]byte{byte(i)})
	}
	root := MerkleRoot(leaves)

	for i := range leaves {
		proof, err := BuildInclusionProof(leaves, i)
		if err != nil {
			t.Fatalf("BuildInclusionProof(%d): %v", i, err)
		}
		if !proof.Verify(leaves[i], root) {
			t.Fatalf("proof for leaf %d did not verify", i)
		}
	}
}

func TestMerkleInclusionProofRejectsNonMember(t *testing.T) {
	leaves := make([]Hash, 4)
	for i := range leaves {
		leaves[i] = SumHash([]byte{byte(i)})
	}
	root := MerkleRoot(leaves)
	proof, err := BuildInclusionProof(leaves, 0)
	if err != nil {
		t.Fatalf("BuildInclusionProof: %v", err)
	}
	notMember := SumHash([]byte("not-a-member"))
	if proof.Verify(notMember, root) {
		t.Fatalf("proof verified a non-member leaf")
	}
}

func TestInclusionProofAppendComposes(t *testing.T) {
	outerLeaves := make([]Hash, 2)
	outerLeaves[0] = SumHash([]byte("dr-a"))
	outerLeaves[1] = SumHash([]byte("dr-b"))
	outerRoot := MerkleRoot(outerLeaves)
	outerProof, err := BuildInclusionProof(outerLeaves, 1)
	if err != nil {
		t.Fatalf("outer proof: %v", err)
	}

	innerLeaves := make([]Hash, 4)
	for i := range innerLeaves {
		innerLeaves[i] = SumHash([]byte{'r', byte(i)})
	}
	innerProof, err := BuildInclusionProof(innerLeaves, 2)
	if err != nil {
		t.Fatalf("inner proof: %v", err)
	}

	// The value outerLeaves[1] must itself be the merkle root of innerLeaves
	// for the composed proof to resolve to outerRoot.
	outerLeaves[1] = MerkleRoot(innerLeaves)
	outerRoot = MerkleRoot(outerLeaves)
	outerProof, err = BuildInclusionProof(outerLeaves, 1)
	if err != nil {
		t.Fatalf("outer proof (2): %v", err)
	}

	combined := outerProof.Append(innerProof)
	if !combined.Verify(innerLeaves[2], outerRoot) {
		t.Fatalf("composed proof did not verify")
	}
}

func TestCompactSizeRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000, 1 << 40}
	for _, n := range cases {
		buf := AppendCompactSize(nil, n)
		got, consumed, err := ReadCompactSize(buf)
		if err != nil {
			t.Fatalf("ReadCompactSize(%d): %v", n, err)
		}
		if got != n || consumed != len(buf) {
			t.Fatalf("roundtrip mismatch for %d: got=%d consumed=%d len=%d", n, got, consumed, len(buf))
		}
	}
}

func TestCompactSizeRejectsNonMinimal(t *testing.T) {
	buf := []byte{0xfd, 0x05, 0x00} // encodes 5, should have used single-byte form
	if _, _, err := ReadCompactSize(buf); err == nil {
		t.Fatalf("expected non-minimal encoding to be rejected")
	}
}
