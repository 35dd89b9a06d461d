package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ScannerClaims identifies a gate scanner device. ScannerID is recorded in
// the scan audit log for every admitted ticket.
type ScannerClaims struct {
	ScannerID string `json:"scanner_id"`
	Venue     string `json:"venue,omitempty"`
	jwt.RegisteredClaims
}

// ScannerTokenService issues and verifies the bearer tokens that gate
// scanner devices present on the scan endpoint.
type ScannerTokenService struct {
	secret   []byte
	expHours int
}

func NewScannerTokenService(secret string, expHours int) *ScannerTokenService {
	if expHours <= 0 {
		expHours = 24
	}
	return &ScannerTokenService{
		secret:   []byte(secret),
		expHours: expHours,
	}
}

func (s *ScannerTokenService) Generate(scannerID, venue string) (string, error) {
	if scannerID == "" {
		return "", fmt.Errorf("scanner id is required")
	}

	now := time.Now().UTC()
	claims := &ScannerClaims{
		ScannerID: scannerID,
		Venue:     venue,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign scanner token: %w", err)
	}

	return signed, nil
}

func (s *ScannerTokenService) Verify(tokenString string) (*ScannerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ScannerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse scanner token: %w", err)
	}

	claims, ok := token.Claims.(*ScannerClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid scanner token")
	}
	if claims.ScannerID == "" {
		return nil, fmt.Errorf("scanner token missing scanner id")
	}

	return claims, nil
}
