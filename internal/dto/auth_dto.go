package dto

import "github.com/noah-isme/aita-go-api/internal/models"

// VerifyRequest carries the identity provider credential issued in the browser.
type VerifyRequest struct {
	Credential string `json:"credential"`
}

// VerifyResponse returns the canonical teacher profile resolved by the server.
type VerifyResponse struct {
	Teacher models.Teacher `json:"teacher"`
}
