// Package webhook handles incoming callbacks from the automation
// platform: workflow run completions, adapter activations, and secret
// rotations. These writes are what keep graph and readiness data fresh
// without polling.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// VerifySignature validates the X-Fitscope-Signature header against the payload.
func VerifySignature(payload []byte, signature string, secret []byte) error {
	if !strings.HasPrefix(signature, "sha256=") {
		return fmt.Errorf("invalid signature format")
	}
	sig, err := hex.DecodeString(signature[7:])
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := mac.Sum(nil)

	if !hmac.Equal(sig, expected) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

// Sign computes the signature header value for a payload. Used by tests
// and by partners implementing the callback contract.
func Sign(payload, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// WorkflowRunEvent reports one finished workflow execution.
type WorkflowRunEvent struct {
	TenantID    string    `json:"tenant_id"`
	WorkflowKey string    `json:"workflow_key"`
	Status      string    `json:"status"` // "success", "error"
	StartedAt   time.Time `json:"started_at"`
}

// IntegrationEvent reports an adapter being switched on or off.
type IntegrationEvent struct {
	TenantID  string `json:"tenant_id"`
	AdapterID string `json:"adapter_id"`
	Action    string `json:"action"` // "activated", "deactivated"
}

// SecretEvent reports a provider credential being rotated or revoked.
type SecretEvent struct {
	TenantID string `json:"tenant_id"`
	Provider string `json:"provider"`
	Action   string `json:"action"` // "activated", "revoked"
}

// ParseEvent parses a callback payload based on the event type.
func ParseEvent(eventType string, payload []byte) (interface{}, error) {
	switch eventType {
	case "workflow_run":
		var e WorkflowRunEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse workflow_run event: %w", err)
		}
		return &e, nil
	case "integration":
		var e IntegrationEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse integration event: %w", err)
		}
		return &e, nil
	case "secret":
		var e SecretEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse secret event: %w", err)
		}
		return &e, nil
	default:
		return nil, fmt.Errorf("unsupported event type: %s", eventType)
	}
}
