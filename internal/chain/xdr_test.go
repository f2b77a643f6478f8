package chain

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToStroops(t *testing.T) {
	cases := []struct {
		amount  float64
		want    int64
		wantErr bool
	}{
		{amount: 1, want: 10_000_000},
		{amount: 0.25, want: 2_500_000},
		{amount: 0.0000001, want: 1},
		{amount: 3.14, want: 31_400_000},
		{amount: 0, wantErr: true},
		{amount: -2, wantErr: true},
	}

	for _, tc := range cases {
		got, err := ToStroops(tc.amount)
		if tc.wantErr {
			assert.Error(t, err, "amount %v", tc.amount)
			continue
		}
		require.NoError(t, err, "amount %v", tc.amount)
		assert.Equal(t, tc.want, got, "amount %v", tc.amount)
	}
}

func TestBuildAndSign(t *testing.T) {
	seed, _ := randomSeed(t)
	kp, err := ParseSeed(seed)
	require.NoError(t, err)

	destSeed, _ := randomSeed(t)
	destKP, err := ParseSeed(destSeed)
	require.NoError(t, err)

	tx := PaymentTx{
		Destination: destKP.Address(),
		AmountPi:    2.5,
		Memo:        "payment-id-123",
		SeqNum:      42,
		MaxTime:     1_900_000_000,
	}

	envelope, err := BuildAndSign(kp, "Pi Testnet", tx)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(envelope)
	require.NoError(t, err)

	// Envelope discriminant, then the source account.
	require.True(t, len(raw) > 48)
	assert.Equal(t, envelopeTypeTx, binary.BigEndian.Uint32(raw[0:4]))
	assert.Equal(t, keyTypeEd25519, binary.BigEndian.Uint32(raw[4:8]))
	assert.Equal(t, kp.PublicKey(), raw[8:40])
	assert.Equal(t, baseFee, binary.BigEndian.Uint32(raw[40:44]))
	assert.Equal(t, uint64(42), binary.BigEndian.Uint64(raw[44:52]))

	// The text memo is embedded verbatim, padded to a word boundary.
	assert.True(t, strings.Contains(string(raw), tx.Memo))

	// The trailing decorated signature verifies against the signature base.
	sigLen := int(binary.BigEndian.Uint32(raw[len(raw)-68 : len(raw)-64]))
	require.Equal(t, 64, sigLen)
	signature := raw[len(raw)-64:]
	hint := raw[len(raw)-72 : len(raw)-68]
	assert.Equal(t, kp.PublicKey()[28:], []byte(hint))

	// Reconstruct the signed digest from the envelope body (everything between
	// the envelope discriminant and the signature block).
	body := raw[4 : len(raw)-76]
	digest := sha256.Sum256(signaturePayload("Pi Testnet", body))
	assert.True(t, ed25519.Verify(ed25519.PublicKey(kp.PublicKey()), digest[:], signature))
}

func TestBuildAndSignValidation(t *testing.T) {
	seed, _ := randomSeed(t)
	kp, err := ParseSeed(seed)
	require.NoError(t, err)

	destSeed, _ := randomSeed(t)
	destKP, err := ParseSeed(destSeed)
	require.NoError(t, err)
	dest := destKP.Address()

	_, err = BuildAndSign(kp, "Pi Testnet", PaymentTx{Destination: dest, AmountPi: 1, Memo: strings.Repeat("x", 29), SeqNum: 1})
	assert.Error(t, err, "memo over 28 bytes")

	_, err = BuildAndSign(kp, "Pi Testnet", PaymentTx{Destination: "not-an-address", AmountPi: 1, SeqNum: 1})
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = BuildAndSign(kp, "Pi Testnet", PaymentTx{Destination: dest, AmountPi: 0, SeqNum: 1})
	assert.Error(t, err, "zero amount")
}

func TestNetworkPassphraseChangesSignature(t *testing.T) {
	seed, _ := randomSeed(t)
	kp, err := ParseSeed(seed)
	require.NoError(t, err)

	destSeed, _ := randomSeed(t)
	destKP, err := ParseSeed(destSeed)
	require.NoError(t, err)

	tx := PaymentTx{Destination: destKP.Address(), AmountPi: 1, Memo: "m", SeqNum: 7, MaxTime: 1_900_000_000}

	testnet, err := BuildAndSign(kp, "Pi Testnet", tx)
	require.NoError(t, err)
	mainnet, err := BuildAndSign(kp, "Pi Network", tx)
	require.NoError(t, err)

	assert.NotEqual(t, testnet, mainnet)
}
