package qrcode

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
)

// clockSkewTolerance absorbs minor drift between the issuing and scanning
// hosts when checking token age.
const clockSkewTolerance = 5 * time.Minute

// tokenPayload is the wire shape sealed inside a token. Field names are kept
// short; the QR pixel count grows with token length.
type tokenPayload struct {
	GUID     string `json:"g"`
	Code     string `json:"c"`
	ClassID  uint   `json:"k"`
	UserID   uint   `json:"u"`
	IssuedAt int64  `json:"t"`
}

// Codec seals ticket payloads with XChaCha20-Poly1305. Every token carries a
// fresh random nonce, so sealing the same payload twice yields different
// tokens and forged or tampered tokens fail authentication.
type Codec struct {
	aead   cipher.AEAD
	maxAge time.Duration
}

// NewCodec builds a codec from a hex-encoded 256-bit key. maxAge bounds how
// old a token may be at scan time; zero disables the age check.
func NewCodec(keyHex string, maxAge time.Duration) (*Codec, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid QR key encoding: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("QR key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	return &Codec{aead: aead, maxAge: maxAge}, nil
}

func (c *Codec) Encode(payload *ticketing.QRPayload) (string, error) {
	if payload == nil {
		return "", fmt.Errorf("payload is required")
	}

	plaintext, err := json.Marshal(tokenPayload{
		GUID:     payload.TicketGUID,
		Code:     payload.TicketCode,
		ClassID:  payload.ClassID,
		UserID:   payload.UserID,
		IssuedAt: payload.IssuedAt.Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode opens a token and validates its age. Any failure collapses into
// ErrQRCodeInvalid; callers never learn whether the token was malformed,
// forged, or merely stale.
func (c *Codec) Decode(token string, now time.Time) (*ticketing.QRPayload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ticketing.ErrQRCodeInvalid
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize+c.aead.Overhead() {
		return nil, ticketing.ErrQRCodeInvalid
	}

	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return nil, ticketing.ErrQRCodeInvalid
	}

	var payload tokenPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, ticketing.ErrQRCodeInvalid
	}
	if payload.GUID == "" {
		return nil, ticketing.ErrQRCodeInvalid
	}

	issuedAt := time.Unix(payload.IssuedAt, 0).UTC()
	if issuedAt.After(now.Add(clockSkewTolerance)) {
		return nil, ticketing.ErrQRCodeInvalid
	}
	if c.maxAge > 0 && now.Sub(issuedAt) > c.maxAge {
		return nil, ticketing.ErrQRCodeInvalid
	}

	return &ticketing.QRPayload{
		TicketGUID: payload.GUID,
		TicketCode: payload.Code,
		ClassID:    payload.ClassID,
		UserID:     payload.UserID,
		IssuedAt:   issuedAt,
	}, nil
}
