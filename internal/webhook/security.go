package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
)

// Verify reports whether signature is the hex encoded HMAC-SHA256 of body
// keyed with secret. Undecodable signatures are simply not valid.
func Verify(secret, body []byte, signature string) bool {
	expectedSig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)

	// Constant-time comparison on raw bytes
	return hmac.Equal(expectedSig, mac.Sum(nil))
}

// SecurityValidator validates webhook requests
type SecurityValidator struct {
	config SecurityConfig
}

func NewSecurityValidator(config SecurityConfig) *SecurityValidator {
	return &SecurityValidator{config: config}
}

// ValidateGitHubSignature checks the X-Hub-Signature-256 header value against payload.
func (v *SecurityValidator) ValidateGitHubSignature(payload []byte, signature string) error {
	if v.config.Secret == "" {
		return ErrSecretNotConfigured
	}
	if signature == "" {
		return ErrMissingSignature
	}

	// GitHub sends signature as "sha256=<hex>"
	if !strings.HasPrefix(signature, signaturePrefix) {
		return ErrInvalidSignatureFormat
	}

	if !Verify([]byte(v.config.Secret), payload, strings.TrimPrefix(signature, signaturePrefix)) {
		return ErrSignatureMismatch
	}

	return nil
}

// ValidateIPAddress checks if the client IP is whitelisted
func (v *SecurityValidator) ValidateIPAddress(ip string) error {
	if len(v.config.AllowedIPs) == 0 {
		return nil // No IP restriction
	}

	parsed := net.ParseIP(ip)
	for _, allowedIP := range v.config.AllowedIPs {
		if ip == allowedIP {
			return nil
		}

		// Check CIDR range
		if strings.Contains(allowedIP, "/") {
			_, ipNet, err := net.ParseCIDR(allowedIP)
			if err != nil {
				continue
			}
			if parsed != nil && ipNet.Contains(parsed) {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: %s", ErrIPNotAllowed, ip)
}
