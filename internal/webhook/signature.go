package webhook

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// SignatureHeader carries the hex HMAC-SHA512 of the raw request body.
const SignatureHeader = "x-paystack-signature"

// VerifySignature checks the webhook signature over the exact raw payload
// bytes. Re-serializing the body can alter byte content and break the
// signature, so callers must pass the bytes as received. A missing or
// malformed header is a plain verification failure, never an error.
func VerifySignature(raw []byte, secretKey, providedSignatureHex string) bool {
	if providedSignatureHex == "" {
		return false
	}

	provided, err := hex.DecodeString(providedSignatureHex)
	if err != nil {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(raw)

	return hmac.Equal(mac.Sum(nil), provided)
}
