package ledger

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTransferMessage_Layout(t *testing.T) {
	req := require.New(t)

	authority := testWallet(1)
	source := testWallet(2)
	dest := testWallet(3)
	var blockhash [32]byte
	for i := range blockhash {
		blockhash[i] = 0xAA
	}
	amount := uint64(123_456_789)

	msg := buildTransferMessage(authority, source, dest, amount, blockhash)

	// header + keys len + 4 keys + blockhash + instr len + program idx
	// + accounts len + 3 accounts + data len + 9 data bytes
	req.Len(msg, 3+1+4*32+32+1+1+1+3+1+9)

	// header: one signer, one read-only unsigned account (the program)
	req.Equal(byte(1), msg[0])
	req.Equal(byte(0), msg[1])
	req.Equal(byte(1), msg[2])
	req.Equal(byte(4), msg[3])

	keys := msg[4 : 4+4*32]
	req.Equal(authority[:], keys[0:32])
	req.Equal(source[:], keys[32:64])
	req.Equal(dest[:], keys[64:96])
	req.Equal(tokenProgramID[:], keys[96:128])

	req.Equal(blockhash[:], msg[132:164])

	instr := msg[164:]
	req.Equal(byte(1), instr[0]) // one instruction
	req.Equal(byte(3), instr[1]) // program id index -> token program
	req.Equal(byte(3), instr[2]) // three accounts
	req.Equal([]byte{1, 2, 0}, instr[3:6])
	req.Equal(byte(9), instr[6]) // data length
	req.Equal(byte(transferInstructionTag), instr[7])
	req.Equal(amount, binary.LittleEndian.Uint64(instr[8:16]))
}

func TestBuildTransferMessage_Deterministic(t *testing.T) {
	req := require.New(t)
	var blockhash [32]byte
	a := buildTransferMessage(testWallet(1), testWallet(2), testWallet(3), 42, blockhash)
	b := buildTransferMessage(testWallet(1), testWallet(2), testWallet(3), 42, blockhash)
	req.Equal(a, b)
}

func TestSerializeTransaction(t *testing.T) {
	req := require.New(t)
	sig := make([]byte, 64)
	for i := range sig {
		sig[i] = byte(i)
	}
	msg := []byte{9, 8, 7}

	tx := serializeTransaction(sig, msg)
	req.Equal(byte(1), tx[0]) // one signature
	req.Equal(sig, tx[1:65])
	req.Equal(msg, tx[65:])
}

func TestAppendShortVecLen(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		n        int
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xff, 0x01}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}
	for _, tt := range tests {
		req.Equal(tt.expected, appendShortVecLen(nil, tt.n), "n=%d", tt.n)
	}
}
