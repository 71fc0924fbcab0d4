package sale

import (
	"bytes"
	"encoding/binary"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SignatureVerifier checks a detached signature over a message hash against a
// signer identity. The default implementation recovers a secp256k1 public key
// from a 65-byte [R || S || V] envelope; deployments may substitute their own
// oracle.
type SignatureVerifier func(signer [20]byte, msgHash [32]byte, signature []byte) error

// WhitelistLeaf builds the Merkle leaf for an allow-list entry: the keccak256
// hash of the little-endian index followed by the participant identity.
func WhitelistLeaf(index uint32, user [20]byte) [32]byte {
	buf := make([]byte, 4+len(user))
	binary.LittleEndian.PutUint32(buf[:4], index)
	copy(buf[4:], user[:])
	var leaf [32]byte
	copy(leaf[:], ethcrypto.Keccak256(buf))
	return leaf
}

// WhitelistMessage builds the canonical message hash attested by a delegated
// signer: keccak256 of the campaign identifier followed by the participant
// identity.
func WhitelistMessage(campaign [32]byte, user [20]byte) [32]byte {
	var msg [32]byte
	copy(msg[:], ethcrypto.Keccak256(campaign[:], user[:]))
	return msg
}

// VerifyMerkleProof reports whether leaf is part of the Merkle tree with the
// given root. At each step the running hash and the proof element are ordered
// byte-wise, smaller value first, so verification is independent of left and
// right position in the tree.
func VerifyMerkleProof(proofs [][32]byte, root [32]byte, leaf [32]byte) bool {
	computed := leaf
	for _, proof := range proofs {
		if bytes.Compare(computed[:], proof[:]) < 0 {
			copy(computed[:], ethcrypto.Keccak256(computed[:], proof[:]))
		} else {
			copy(computed[:], ethcrypto.Keccak256(proof[:], computed[:]))
		}
	}
	return computed == root
}

func verifyDetachedSignature(signer [20]byte, msgHash [32]byte, signature []byte) error {
	if len(signature) != 65 {
		return ErrNotWhitelisted
	}
	pubKey, err := ethcrypto.SigToPub(msgHash[:], signature)
	if err != nil {
		return ErrNotWhitelisted
	}
	recovered := ethcrypto.PubkeyToAddress(*pubKey)
	if [20]byte(recovered) != signer {
		return ErrNotWhitelisted
	}
	return nil
}

// ProofMaterial carries whatever the participant supplies to prove allow-list
// membership. Merkle mode consumes Index and Proofs; signer mode consumes
// Signature; campaigns without an authority ignore it entirely.
type ProofMaterial struct {
	Index     uint32
	Proofs    [][32]byte
	Signature []byte
}

func (e *Engine) verifyWhitelist(campaign *Campaign, user [20]byte, material ProofMaterial) error {
	switch campaign.Allowlist.Mode {
	case AllowlistNone:
		return nil
	case AllowlistMerkle:
		leaf := WhitelistLeaf(material.Index, user)
		if !VerifyMerkleProof(material.Proofs, campaign.Allowlist.Root, leaf) {
			return ErrNotWhitelisted
		}
		return nil
	case AllowlistSigner:
		msg := WhitelistMessage(campaign.ID, user)
		return e.sigVerifier(campaign.Allowlist.Signer, msg, material.Signature)
	default:
		return ErrNotWhitelisted
	}
}
