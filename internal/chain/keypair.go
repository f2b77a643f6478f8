package chain

import (
	"crypto/ed25519"
	"encoding/base32"
	"errors"
	"fmt"
)

// Strkey version bytes for the Stellar-derived key encoding the Pi blockchain
// uses: G... addresses carry public keys, S... seeds carry private key seeds.
const (
	versionAccountID byte = 6 << 3  // 'G'
	versionSeed      byte = 18 << 3 // 'S'
)

var (
	// ErrInvalidSeed indicates the wallet seed is not a valid S... strkey.
	ErrInvalidSeed = errors.New("invalid wallet seed")

	// ErrInvalidAddress indicates a destination is not a valid G... address.
	ErrInvalidAddress = errors.New("invalid account address")

	b32 = base32.StdEncoding.WithPadding(base32.NoPadding)
)

// Keypair holds the signing identity derived from a wallet private seed.
type Keypair struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// ParseSeed derives a keypair from an S... secret seed.
func ParseSeed(seed string) (*Keypair, error) {
	raw, err := decodeStrkey(seed, versionSeed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	priv := ed25519.NewKeyFromSeed(raw)
	return &Keypair{pub: priv.Public().(ed25519.PublicKey), priv: priv}, nil
}

// Address returns the G... account address of the keypair.
func (k *Keypair) Address() string {
	return encodeStrkey(k.pub, versionAccountID)
}

// PublicKey returns the raw 32-byte ed25519 public key.
func (k *Keypair) PublicKey() []byte {
	out := make([]byte, len(k.pub))
	copy(out, k.pub)
	return out
}

// Hint returns the last four bytes of the public key, used as the signature
// hint in decorated signatures.
func (k *Keypair) Hint() [4]byte {
	var hint [4]byte
	copy(hint[:], k.pub[len(k.pub)-4:])
	return hint
}

// Sign signs the given payload with the private key.
func (k *Keypair) Sign(payload []byte) []byte {
	return ed25519.Sign(k.priv, payload)
}

// DecodeAddress extracts the raw public key from a G... account address.
func DecodeAddress(address string) ([]byte, error) {
	raw, err := decodeStrkey(address, versionAccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return raw, nil
}

func encodeStrkey(payload []byte, version byte) string {
	data := make([]byte, 0, 1+len(payload)+2)
	data = append(data, version)
	data = append(data, payload...)
	checksum := crc16(data)
	data = append(data, byte(checksum&0xff), byte(checksum>>8))
	return b32.EncodeToString(data)
}

func decodeStrkey(key string, version byte) ([]byte, error) {
	raw, err := b32.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("base32 decode: %w", err)
	}
	if len(raw) != 1+32+2 {
		return nil, fmt.Errorf("unexpected length %d", len(raw))
	}
	if raw[0] != version {
		return nil, fmt.Errorf("unexpected version byte %#x", raw[0])
	}
	payload := raw[1 : len(raw)-2]
	want := uint16(raw[len(raw)-2]) | uint16(raw[len(raw)-1])<<8
	if crc16(raw[:len(raw)-2]) != want {
		return nil, errors.New("checksum mismatch")
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

// crc16 computes CRC16-XModem (poly 0x1021, init 0) over data.
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
