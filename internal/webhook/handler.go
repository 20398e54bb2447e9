package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Store is the write surface the webhook needs. Satisfied by
// tenant.Service; narrowed here so tests can fake it.
type Store interface {
	RecordWorkflowRun(ctx context.Context, tenantID, workflowKey, status string, startedAt time.Time) error
	SetIntegrationActive(ctx context.Context, tenantID, adapterID string, active bool) error
	SetSecretActive(ctx context.Context, tenantID, provider string, active bool) error
}

// Handler processes incoming automation platform callbacks.
type Handler struct {
	secret []byte
	store  Store
}

// NewHandler creates a new webhook Handler.
func NewHandler(secret []byte, store Store) *Handler {
	return &Handler{secret: secret, store: store}
}

// ServeHTTP handles incoming webhook requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1 MB limit
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Fitscope-Signature")
	if err := VerifySignature(body, signature, h.secret); err != nil {
		log.Printf("webhook signature verification failed: %v", err)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-Fitscope-Event")
	if eventType == "" {
		http.Error(w, "missing X-Fitscope-Event header", http.StatusBadRequest)
		return
	}

	event, err := ParseEvent(eventType, body)
	if err != nil {
		log.Printf("webhook parse error for %s: %v", eventType, err)
		http.Error(w, "unsupported event", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	switch e := event.(type) {
	case *WorkflowRunEvent:
		if err := h.handleWorkflowRun(ctx, e); err != nil {
			log.Printf("handle workflow_run event: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

	case *IntegrationEvent:
		if err := h.handleIntegration(ctx, e); err != nil {
			log.Printf("handle integration event: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

	case *SecretEvent:
		if err := h.handleSecret(ctx, e); err != nil {
			log.Printf("handle secret event: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

func (h *Handler) handleWorkflowRun(ctx context.Context, e *WorkflowRunEvent) error {
	if e.TenantID == "" || e.WorkflowKey == "" {
		return fmt.Errorf("workflow_run event missing tenant_id or workflow_key")
	}
	startedAt := e.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}
	if err := h.store.RecordWorkflowRun(ctx, e.TenantID, e.WorkflowKey, e.Status, startedAt); err != nil {
		return fmt.Errorf("record workflow run %s: %w", e.WorkflowKey, err)
	}
	return nil
}

func (h *Handler) handleIntegration(ctx context.Context, e *IntegrationEvent) error {
	if e.TenantID == "" || e.AdapterID == "" {
		return fmt.Errorf("integration event missing tenant_id or adapter_id")
	}
	active := e.Action == "activated"
	if err := h.store.SetIntegrationActive(ctx, e.TenantID, e.AdapterID, active); err != nil {
		return fmt.Errorf("set integration %s: %w", e.AdapterID, err)
	}
	return nil
}

func (h *Handler) handleSecret(ctx context.Context, e *SecretEvent) error {
	if e.TenantID == "" || e.Provider == "" {
		return fmt.Errorf("secret event missing tenant_id or provider")
	}
	active := e.Action == "activated"
	if err := h.store.SetSecretActive(ctx, e.TenantID, e.Provider, active); err != nil {
		return fmt.Errorf("set secret %s: %w", e.Provider, err)
	}
	return nil
}
