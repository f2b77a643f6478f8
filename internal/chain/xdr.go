package chain

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
)

// XDR discriminants for the envelope subset needed to pay out native Pi:
// a v1 transaction carrying a single payment operation with a text memo.
const (
	envelopeTypeTx   uint32 = 2
	keyTypeEd25519   uint32 = 0
	precondTime      uint32 = 1
	memoTypeText     uint32 = 1
	opTypePayment    uint32 = 1
	assetTypeNative  uint32 = 0
	maxMemoTextBytes        = 28
)

// StroopsPerPi is the number of base units in one Pi, matching the Stellar
// protocol's seven decimal places.
const StroopsPerPi = 10_000_000

// baseFee is charged per operation; the Pi chain inherits Stellar's fee model.
const baseFee uint32 = 100_000

// PaymentTx describes a native-asset payment to be signed and submitted.
type PaymentTx struct {
	Destination string
	AmountPi    float64
	Memo        string
	SeqNum      int64
	MaxTime     uint64
}

// ToStroops converts a Pi amount into chain base units, rejecting amounts that
// do not fit the chain's precision.
func ToStroops(amount float64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	stroops := math.Round(amount * StroopsPerPi)
	if stroops > math.MaxInt64 || stroops < 1 {
		return 0, fmt.Errorf("amount out of range")
	}
	return int64(stroops), nil
}

// BuildAndSign serializes the payment transaction, signs it for the given
// network passphrase and returns the base64 envelope Horizon accepts.
func BuildAndSign(kp *Keypair, passphrase string, tx PaymentTx) (string, error) {
	if len(tx.Memo) > maxMemoTextBytes {
		return "", fmt.Errorf("memo exceeds %d bytes", maxMemoTextBytes)
	}
	dest, err := DecodeAddress(tx.Destination)
	if err != nil {
		return "", err
	}
	stroops, err := ToStroops(tx.AmountPi)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	writeAccount(&body, kp.PublicKey())
	writeUint32(&body, baseFee)
	writeUint64(&body, uint64(tx.SeqNum))

	// Preconditions: an upper time bound keeps an unsubmitted envelope from
	// becoming valid again long after the payout attempt.
	writeUint32(&body, precondTime)
	writeUint64(&body, 0)
	writeUint64(&body, tx.MaxTime)

	writeUint32(&body, memoTypeText)
	writeString(&body, tx.Memo)

	// One payment operation, no per-op source override.
	writeUint32(&body, 1)
	writeUint32(&body, 0) // sourceAccount not present
	writeUint32(&body, opTypePayment)
	writeAccount(&body, dest)
	writeUint32(&body, assetTypeNative)
	writeUint64(&body, uint64(stroops))

	writeUint32(&body, 0) // tx ext

	sigPayload := signaturePayload(passphrase, body.Bytes())
	digest := sha256.Sum256(sigPayload)
	signature := kp.Sign(digest[:])
	hint := kp.Hint()

	var env bytes.Buffer
	writeUint32(&env, envelopeTypeTx)
	env.Write(body.Bytes())
	writeUint32(&env, 1) // one decorated signature
	env.Write(hint[:])
	writeOpaque(&env, signature)

	return base64.StdEncoding.EncodeToString(env.Bytes()), nil
}

// signaturePayload prefixes the transaction body with the network id and
// envelope type, per the protocol's signature base rules.
func signaturePayload(passphrase string, txBody []byte) []byte {
	networkID := sha256.Sum256([]byte(passphrase))
	var buf bytes.Buffer
	buf.Write(networkID[:])
	writeUint32(&buf, envelopeTypeTx)
	buf.Write(txBody)
	return buf.Bytes()
}

func writeAccount(w *bytes.Buffer, pub []byte) {
	writeUint32(w, keyTypeEd25519)
	w.Write(pub)
}

func writeUint32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func writeUint64(w *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

func writeString(w *bytes.Buffer, s string) {
	writeOpaque(w, []byte(s))
}

func writeOpaque(w *bytes.Buffer, data []byte) {
	writeUint32(w, uint32(len(data)))
	w.Write(data)
	if pad := len(data) % 4; pad != 0 {
		w.Write(make([]byte, 4-pad))
	}
}
