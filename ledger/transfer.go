package ledger

import (
	"encoding/binary"

	"tokenlounge/domain"
)

// Legacy wire-format transaction building for a single token transfer.
// Layout: header, compact array of account keys, recent blockhash, compact
// array of instructions. The only signer is the custodial authority.

const transferInstructionTag = 3 // token program Transfer

// buildTransferMessage serializes the message moving amount minor units
// from source to dest, authorized by authority.
//
// Account ordering is significant: signers first, then writable accounts,
// then read-only. Index 0 must be the fee payer.
func buildTransferMessage(authority, source, dest domain.Wallet, amount uint64, blockhash [32]byte) []byte {
	msg := make([]byte, 0, 192)

	// header: 1 required signature, 0 readonly signed, 1 readonly unsigned
	msg = append(msg, 1, 0, 1)

	// account keys: authority (signer, fee payer), source, dest, token program
	msg = appendShortVecLen(msg, 4)
	msg = append(msg, authority[:]...)
	msg = append(msg, source[:]...)
	msg = append(msg, dest[:]...)
	msg = append(msg, tokenProgramID[:]...)

	msg = append(msg, blockhash[:]...)

	// single instruction: token program Transfer(source, dest, owner)
	msg = appendShortVecLen(msg, 1)
	msg = append(msg, 3) // program id index: token program
	msg = appendShortVecLen(msg, 3)
	msg = append(msg, 1, 2, 0) // source, dest, authority

	var data [9]byte
	data[0] = transferInstructionTag
	binary.LittleEndian.PutUint64(data[1:], amount)
	msg = appendShortVecLen(msg, len(data))
	msg = append(msg, data[:]...)

	return msg
}

// serializeTransaction prepends the signature list to the signed message.
func serializeTransaction(signature []byte, message []byte) []byte {
	tx := make([]byte, 0, 1+len(signature)+len(message))
	tx = appendShortVecLen(tx, 1)
	tx = append(tx, signature...)
	tx = append(tx, message...)
	return tx
}

// appendShortVecLen writes a compact-u16 length prefix (7 bits per byte,
// high bit marks continuation).
func appendShortVecLen(b []byte, n int) []byte {
	for {
		if n < 0x80 {
			return append(b, byte(n))
		}
		b = append(b, byte(n&0x7f)|0x80)
		n >>= 7
	}
}
