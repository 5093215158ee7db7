// Copyright (c) 2023 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// TokenPrefix is the byte that marks the start of a token payload at the
	// head of a serialized locking script.
	TokenPrefix = 0xef

	// MaxTokenCommitmentLength is the consensus maximum length of a
	// non-fungible token commitment.
	MaxTokenCommitmentLength = 40
)

// Token structure bits stored in the high nibble of the token bitfield.
const (
	tokenHasAmount           = 0x10
	tokenHasNFT              = 0x20
	tokenHasCommitmentLength = 0x40
	tokenReserved            = 0x80
)

// TokenCapability is the permission carried by a non-fungible token.  It is
// stored in the low nibble of the token bitfield.
type TokenCapability uint8

const (
	// TokenCapabilityNone marks an immutable NFT or a fungible-only
	// payload.
	TokenCapabilityNone TokenCapability = 0x00

	// TokenCapabilityMutable marks an NFT whose commitment may be changed
	// by the spending transaction.
	TokenCapabilityMutable TokenCapability = 0x01

	// TokenCapabilityMinting marks an NFT that may create new tokens of its
	// category.
	TokenCapabilityMinting TokenCapability = 0x02
)

// String returns the capability in human-readable form.
func (c TokenCapability) String() string {
	switch c {
	case TokenCapabilityNone:
		return "none"
	case TokenCapabilityMutable:
		return "mutable"
	case TokenCapabilityMinting:
		return "minting"
	}
	return fmt.Sprintf("unknown(0x%02x)", uint8(c))
}

// TokenData is the token payload optionally attached to a transaction output.
// On the wire it sits between the TokenPrefix byte and the real locking script:
//
//	category (32) | bitfield (1) | [commitment (varbytes)] | [amount (varint)]
type TokenData struct {
	Category   chainhash.Hash
	Bitfield   uint8
	Amount     int64
	Commitment []byte
}

// NewFungibleTokenData returns a payload carrying only a fungible amount of
// the given category.
func NewFungibleTokenData(category *chainhash.Hash, amount int64) *TokenData {
	return &TokenData{
		Category: *category,
		Bitfield: tokenHasAmount,
		Amount:   amount,
	}
}

// NewNFTTokenData returns a payload carrying a non-fungible token with the
// given capability and commitment.  A non-zero amount additionally attaches
// fungible tokens of the same category.
func NewNFTTokenData(category *chainhash.Hash, capability TokenCapability,
	commitment []byte, amount int64) *TokenData {

	bitfield := uint8(tokenHasNFT) | uint8(capability)
	if len(commitment) > 0 {
		bitfield |= tokenHasCommitmentLength
	}
	if amount != 0 {
		bitfield |= tokenHasAmount
	}
	return &TokenData{
		Category:   *category,
		Bitfield:   bitfield,
		Amount:     amount,
		Commitment: commitment,
	}
}

// Capability returns the NFT capability encoded in the low nibble of the
// bitfield.
func (td *TokenData) Capability() TokenCapability {
	return TokenCapability(td.Bitfield & 0x0f)
}

// HasNFT returns whether the payload encodes a non-fungible token.
func (td *TokenData) HasNFT() bool {
	return td.Bitfield&tokenHasNFT != 0
}

// HasAmount returns whether the payload encodes a fungible amount.
func (td *TokenData) HasAmount() bool {
	return td.Bitfield&tokenHasAmount != 0
}

// HasCommitmentLength returns whether the payload encodes an NFT commitment.
func (td *TokenData) HasCommitmentLength() bool {
	return td.Bitfield&tokenHasCommitmentLength != 0
}

// IsMintingNFT returns whether the payload is an NFT with the minting
// capability.
func (td *TokenData) IsMintingNFT() bool {
	return td.HasNFT() && td.Capability() == TokenCapabilityMinting
}

// IsMutableNFT returns whether the payload is an NFT with the mutable
// capability.
func (td *TokenData) IsMutableNFT() bool {
	return td.HasNFT() && td.Capability() == TokenCapabilityMutable
}

// IsValidBitfield returns whether the bitfield describes a well formed
// payload.
func (td *TokenData) IsValidBitfield() bool {
	structure := td.Bitfield & 0xf0
	if structure == 0 || structure&tokenReserved != 0 {
		return false
	}
	if td.Bitfield&0x0f > uint8(TokenCapabilityMinting) {
		return false
	}
	if !td.HasNFT() && !td.HasAmount() {
		return false
	}
	if !td.HasNFT() && (td.Capability() != TokenCapabilityNone ||
		td.HasCommitmentLength()) {

		return false
	}
	return true
}

// SerializeSize returns the number of bytes it would take to serialize the
// payload, excluding the TokenPrefix byte.
func (td *TokenData) SerializeSize() int {
	n := chainhash.HashSize + 1
	if td.HasCommitmentLength() {
		n += VarBytesSerializeSize(td.Commitment)
	}
	if td.HasAmount() {
		n += VarIntSerializeSize(uint64(td.Amount))
	}
	return n
}

// Serialize encodes the payload to w.  The TokenPrefix byte is not written.
func (td *TokenData) Serialize(w io.Writer) error {
	if !td.IsValidBitfield() {
		str := fmt.Sprintf("invalid token bitfield 0x%02x", td.Bitfield)
		return messageError("TokenData.Serialize", str)
	}
	if _, err := w.Write(td.Category[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{td.Bitfield}); err != nil {
		return err
	}
	if td.HasCommitmentLength() {
		if len(td.Commitment) == 0 {
			return messageError("TokenData.Serialize",
				"token commitment may not be empty")
		}
		if err := WriteVarBytes(w, td.Commitment); err != nil {
			return err
		}
	}
	if td.HasAmount() {
		if td.Amount <= 0 {
			str := fmt.Sprintf("token amount %d out of range", td.Amount)
			return messageError("TokenData.Serialize", str)
		}
		if err := WriteVarInt(w, uint64(td.Amount)); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes a payload from r into the receiver.  The TokenPrefix
// byte must already have been consumed.
func (td *TokenData) Deserialize(r io.Reader) error {
	if _, err := io.ReadFull(r, td.Category[:]); err != nil {
		return err
	}
	var bitfield [1]byte
	if _, err := io.ReadFull(r, bitfield[:]); err != nil {
		return err
	}
	td.Bitfield = bitfield[0]
	if !td.IsValidBitfield() {
		str := fmt.Sprintf("invalid token bitfield 0x%02x", td.Bitfield)
		return messageError("TokenData.Deserialize", str)
	}

	td.Commitment = nil
	if td.HasCommitmentLength() {
		commitment, err := ReadVarBytes(r, MaxSize, "token commitment")
		if err != nil {
			return err
		}
		if len(commitment) == 0 {
			return messageError("TokenData.Deserialize",
				"token commitment may not be empty")
		}
		td.Commitment = commitment
	}

	td.Amount = 0
	if td.HasAmount() {
		amount, err := ReadVarInt(r)
		if err != nil {
			return err
		}
		if amount > math.MaxInt64 {
			str := fmt.Sprintf("token amount %d out of range", amount)
			return messageError("TokenData.Deserialize", str)
		}
		if amount == 0 {
			return messageError("TokenData.Deserialize",
				"token amount may not be 0")
		}
		td.Amount = int64(amount)
	}
	return nil
}

// Copy returns a deep copy of the payload.
func (td *TokenData) Copy() *TokenData {
	newTD := *td
	if td.Commitment != nil {
		newTD.Commitment = make([]byte, len(td.Commitment))
		copy(newTD.Commitment, td.Commitment)
	}
	return &newTD
}

// Equal returns whether both payloads are identical.
func (td *TokenData) Equal(other *TokenData) bool {
	if td == nil || other == nil {
		return td == other
	}
	return td.Category == other.Category &&
		td.Bitfield == other.Bitfield &&
		td.Amount == other.Amount &&
		bytes.Equal(td.Commitment, other.Commitment)
}

// String returns the payload in human-readable form.
func (td *TokenData) String() string {
	return fmt.Sprintf("category=%v bitfield=0x%02x capability=%v "+
		"amount=%d commitment=%x", td.Category, td.Bitfield,
		td.Capability(), td.Amount, td.Commitment)
}

// WrapScriptPubKey returns the serialized form of a locking script together
// with its optional token payload, as it appears in an output on the wire.
// Without a payload the locking script is returned unchanged.
func WrapScriptPubKey(td *TokenData, pkScript []byte) ([]byte, error) {
	if td == nil {
		return pkScript, nil
	}
	var buf bytes.Buffer
	buf.Grow(1 + td.SerializeSize() + len(pkScript))
	buf.WriteByte(TokenPrefix)
	if err := td.Serialize(&buf); err != nil {
		return nil, err
	}
	buf.Write(pkScript)
	return buf.Bytes(), nil
}

// UnwrapScriptPubKey splits a serialized output script into its token payload
// and the real locking script.  When the blob does not start with TokenPrefix,
// or the payload following the prefix is malformed, the whole blob is treated
// as the locking script and no payload is returned.
func UnwrapScriptPubKey(wrapped []byte) (*TokenData, []byte) {
	if len(wrapped) == 0 || wrapped[0] != TokenPrefix {
		return nil, wrapped
	}

	r := bytes.NewReader(wrapped[1:])
	var td TokenData
	if err := td.Deserialize(r); err != nil {
		return nil, wrapped
	}
	offset := len(wrapped) - r.Len()
	return &td, wrapped[offset:]
}
