// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// TxVersion is the current latest supported transaction version.
	TxVersion = 2

	// MaxTxInSequenceNum is the maximum sequence number the sequence field
	// of a transaction input can be.
	MaxTxInSequenceNum uint32 = 0xffffffff

	// MaxPrevOutIndex is the maximum index the index field of a previous
	// outpoint can be.
	MaxPrevOutIndex uint32 = 0xffffffff

	// SequenceLockTimeDisabled is a flag that if set on a transaction
	// input's sequence number, the sequence number will not be interpreted
	// as a relative locktime.
	SequenceLockTimeDisabled = 1 << 31

	// SequenceLockTimeIsSeconds is a flag that if set on a transaction
	// input's sequence number, the relative locktime has units of 512
	// seconds.
	SequenceLockTimeIsSeconds = 1 << 22

	// SequenceLockTimeMask is a mask that extracts the relative locktime
	// when masked against the transaction input sequence number.
	SequenceLockTimeMask = 0x0000ffff

	// MaxMessagePayload is the maximum number of bytes a serialized
	// transaction is allowed to occupy.
	MaxMessagePayload = 1024 * 1024 * 32

	// NullValue is the value of a blanked output.
	NullValue int64 = -1
)

const (
	// defaultTxInOutAlloc is the default size used for the backing array
	// for transaction inputs and outputs.  The array will dynamically grow
	// as needed, but this figure is intended to provide enough space for
	// the number of inputs and outputs in a typical transaction without
	// needing to grow the backing array multiple times.
	defaultTxInOutAlloc = 15

	// minTxInPayload is the minimum payload size for a transaction input.
	// PreviousOutPoint.Hash + PreviousOutPoint.Index 4 bytes + Varint for
	// SignatureScript length 1 byte + Sequence 4 bytes.
	minTxInPayload = 9 + chainhash.HashSize

	// maxTxInPerMessage is the maximum number of transactions inputs that
	// a transaction which fits into a message could possibly have.
	maxTxInPerMessage = (MaxMessagePayload / minTxInPayload) + 1

	// minTxOutPayload is the minimum payload size for a transaction output.
	// Value 8 bytes + Varint for PkScript length 1 byte.
	minTxOutPayload = 9

	// maxTxOutPerMessage is the maximum number of transactions outputs that
	// a transaction which fits into a message could possibly have.
	maxTxOutPerMessage = (MaxMessagePayload / minTxOutPayload) + 1
)

// OutPoint defines a bitcoin data type that is used to track previous
// transaction outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new bitcoin transaction outpoint point with the
// provided hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{
		Hash:  *hash,
		Index: index,
	}
}

// String returns the OutPoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	// Allocate enough for hash string, colon, and 10 digits.  Although
	// at the time of writing, the number of digits can be no greater than
	// the length of the decimal representation of maxTxOutPerMessage, the
	// maximum message payload may increase in the future and this
	// optimization may go unnoticed, so allocate space for 10 decimal
	// digits, which will fit any uint32.
	buf := make([]byte, 2*chainhash.HashSize+1, 2*chainhash.HashSize+1+10)
	copy(buf, o.Hash.String())
	buf[2*chainhash.HashSize] = ':'
	buf = strconv.AppendUint(buf, uint64(o.Index), 10)
	return string(buf)
}

// TxIn defines a bitcoin transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction input.
func (t *TxIn) SerializeSize() int {
	// Outpoint Hash 32 bytes + Outpoint Index 4 bytes + Sequence 4 bytes +
	// serialized varint size for the length of SignatureScript +
	// SignatureScript bytes.
	return 40 + VarBytesSerializeSize(t.SignatureScript)
}

// NewTxIn returns a new bitcoin transaction input with the provided
// previous outpoint point and signature script with a default sequence of
// MaxTxInSequenceNum.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// TxOut defines a bitcoin transaction output.  PkScript is the real locking
// script; an attached token payload is kept separately in TokenData and only
// merged with the locking script when serialized.
type TxOut struct {
	Value     int64
	PkScript  []byte
	TokenData *TokenData
}

// SerializeSize returns the number of bytes it would take to serialize the
// the transaction output.
func (t *TxOut) SerializeSize() int {
	// Value 8 bytes + serialized varint size for the length of the wrapped
	// PkScript + wrapped PkScript bytes.
	n := len(t.PkScript)
	if t.TokenData != nil {
		n += 1 + t.TokenData.SerializeSize()
	}
	return 8 + VarIntSerializeSize(uint64(n)) + n
}

// IsNull returns whether the output is a blanked output as used by the legacy
// SIGHASH_SINGLE signature hash.
func (t *TxOut) IsNull() bool {
	return t.Value == NullValue && len(t.PkScript) == 0 && t.TokenData == nil
}

// NewTxOut returns a new bitcoin transaction output with the provided
// transaction value and public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{
		Value:    value,
		PkScript: pkScript,
	}
}

// NewTokenTxOut returns a new transaction output carrying the provided token
// payload in addition to the value and locking script.
func NewTokenTxOut(value int64, pkScript []byte, td *TokenData) *TxOut {
	return &TxOut{
		Value:     value,
		PkScript:  pkScript,
		TokenData: td,
	}
}

// NewNullTxOut returns a blanked output.
func NewNullTxOut() *TxOut {
	return &TxOut{Value: NullValue}
}

// MsgTx implements a bitcoin cash transaction.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// TxHash generates the Hash for the transaction.
func (msg *MsgTx) TxHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	_ = msg.Serialize(buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Copy creates a deep copy of a transaction so that the original does not get
// modified when the copy is manipulated.
func (msg *MsgTx) Copy() *MsgTx {
	newTx := MsgTx{
		Version:  msg.Version,
		TxIn:     make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:    make([]*TxOut, 0, len(msg.TxOut)),
		LockTime: msg.LockTime,
	}

	for _, oldTxIn := range msg.TxIn {
		var newScript []byte
		if oldTxIn.SignatureScript != nil {
			newScript = make([]byte, len(oldTxIn.SignatureScript))
			copy(newScript, oldTxIn.SignatureScript)
		}
		newTx.TxIn = append(newTx.TxIn, &TxIn{
			PreviousOutPoint: oldTxIn.PreviousOutPoint,
			SignatureScript:  newScript,
			Sequence:         oldTxIn.Sequence,
		})
	}

	for _, oldTxOut := range msg.TxOut {
		var newScript []byte
		if oldTxOut.PkScript != nil {
			newScript = make([]byte, len(oldTxOut.PkScript))
			copy(newScript, oldTxOut.PkScript)
		}
		var td *TokenData
		if oldTxOut.TokenData != nil {
			td = oldTxOut.TokenData.Copy()
		}
		newTx.TxOut = append(newTx.TxOut, &TxOut{
			Value:     oldTxOut.Value,
			PkScript:  newScript,
			TokenData: td,
		})
	}

	return &newTx
}

// Deserialize decodes a transaction from r into the receiver using the
// legacy consensus format.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	version, err := readUint32(r)
	if err != nil {
		return err
	}
	msg.Version = int32(version)

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}

	// Prevent more input transactions than could possibly fit into a
	// message.  It would be possible to cause memory exhaustion and panics
	// without a sane upper bound on this count.
	if count > uint64(maxTxInPerMessage) {
		str := fmt.Sprintf("too many input transactions to fit into "+
			"max message size [count %d, max %d]", count,
			maxTxInPerMessage)
		return messageError("MsgTx.Deserialize", str)
	}

	msg.TxIn = make([]*TxIn, count)
	for i := uint64(0); i < count; i++ {
		ti := new(TxIn)
		if err := readTxIn(r, ti); err != nil {
			return err
		}
		msg.TxIn[i] = ti
	}

	count, err = ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > uint64(maxTxOutPerMessage) {
		str := fmt.Sprintf("too many output transactions to fit into "+
			"max message size [count %d, max %d]", count,
			maxTxOutPerMessage)
		return messageError("MsgTx.Deserialize", str)
	}

	msg.TxOut = make([]*TxOut, count)
	for i := uint64(0); i < count; i++ {
		to := new(TxOut)
		if err := ReadTxOut(r, to); err != nil {
			return err
		}
		msg.TxOut[i] = to
	}

	msg.LockTime, err = readUint32(r)
	return err
}

// Serialize encodes the transaction to w using the legacy consensus format.
func (msg *MsgTx) Serialize(w io.Writer) error {
	if err := writeUint32(w, uint32(msg.Version)); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeTxIn(w, ti); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := WriteTxOut(w, to); err != nil {
			return err
		}
	}

	return writeUint32(w, msg.LockTime)
}

// SerializeSize returns the number of bytes it would take to serialize the
// the transaction.
func (msg *MsgTx) SerializeSize() int {
	// Version 4 bytes + LockTime 4 bytes + Serialized varint size for the
	// number of transaction inputs and outputs.
	n := 8 + VarIntSerializeSize(uint64(len(msg.TxIn))) +
		VarIntSerializeSize(uint64(len(msg.TxOut)))

	for _, txIn := range msg.TxIn {
		n += txIn.SerializeSize()
	}
	for _, txOut := range msg.TxOut {
		n += txOut.SerializeSize()
	}
	return n
}

// Bytes returns the serialized transaction.
func (msg *MsgTx) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	if err := msg.Serialize(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromBytes decodes a serialized transaction into the receiver.  Trailing
// bytes are rejected.
func (msg *MsgTx) FromBytes(b []byte) error {
	r := bytes.NewReader(b)
	if err := msg.Deserialize(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		str := fmt.Sprintf("%d trailing bytes after transaction", r.Len())
		return messageError("MsgTx.FromBytes", str)
	}
	return nil
}

// NewMsgTx returns a new bitcoin cash transaction message with no inputs or
// outputs and the given version.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{
		Version: version,
		TxIn:    make([]*TxIn, 0, defaultTxInOutAlloc),
		TxOut:   make([]*TxOut, 0, defaultTxInOutAlloc),
	}
}

// ReadOutPoint reads the next sequence of bytes from r as an OutPoint.
func ReadOutPoint(r io.Reader, op *OutPoint) error {
	if _, err := io.ReadFull(r, op.Hash[:]); err != nil {
		return err
	}

	var err error
	op.Index, err = readUint32(r)
	return err
}

// WriteOutPoint encodes op to the bitcoin protocol encoding for an OutPoint
// to w.
func WriteOutPoint(w io.Writer, op *OutPoint) error {
	if _, err := w.Write(op.Hash[:]); err != nil {
		return err
	}
	return writeUint32(w, op.Index)
}

// readTxIn reads the next sequence of bytes from r as a transaction input.
func readTxIn(r io.Reader, ti *TxIn) error {
	if err := ReadOutPoint(r, &ti.PreviousOutPoint); err != nil {
		return err
	}

	var err error
	ti.SignatureScript, err = ReadVarBytes(r, MaxMessagePayload,
		"transaction input signature script")
	if err != nil {
		return err
	}

	ti.Sequence, err = readUint32(r)
	return err
}

// writeTxIn encodes ti to the bitcoin protocol encoding for a transaction
// input to w.
func writeTxIn(w io.Writer, ti *TxIn) error {
	if err := WriteOutPoint(w, &ti.PreviousOutPoint); err != nil {
		return err
	}
	if err := WriteVarBytes(w, ti.SignatureScript); err != nil {
		return err
	}
	return writeUint32(w, ti.Sequence)
}

// ReadTxOut reads the next sequence of bytes from r as a transaction output.
// A token payload at the head of the serialized script is split off into
// TokenData.
func ReadTxOut(r io.Reader, to *TxOut) error {
	value, err := readUint64(r)
	if err != nil {
		return err
	}
	to.Value = int64(value)

	wrapped, err := ReadVarBytes(r, MaxMessagePayload,
		"transaction output public key script")
	if err != nil {
		return err
	}
	to.TokenData, to.PkScript = UnwrapScriptPubKey(wrapped)
	return nil
}

// WriteTxOut encodes to into the bitcoin protocol encoding for a transaction
// output to w.  Any token payload is written ahead of the locking script.
func WriteTxOut(w io.Writer, to *TxOut) error {
	if err := writeUint64(w, uint64(to.Value)); err != nil {
		return err
	}
	wrapped, err := WrapScriptPubKey(to.TokenData, to.PkScript)
	if err != nil {
		return err
	}
	return WriteVarBytes(w, wrapped)
}
