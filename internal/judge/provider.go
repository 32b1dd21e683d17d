package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ironwill-app/ironwill/internal/config"
)

// Timeout bounds the single judgment call. There is no retry: a slow or
// failing judge maps to a no-verdict submission, never to a second call.
const Timeout = 30 * time.Second

const auditPath = "/internal/judge/audit"

// Provider is the judgment gateway the orchestrator consults for a
// verdict on a proof. Implementations must return an error for every
// transport, status or decode failure; callers absorb the error as
// "no verdict".
type Provider interface {
	Judge(ctx context.Context, req *AuditRequest) (*AuditResponse, error)
}

type httpProvider struct {
	baseURL        string
	internalSecret string
	client         *http.Client
}

func NewHTTPProvider(baseURL, internalSecret string) Provider {
	return &httpProvider{
		baseURL:        baseURL,
		internalSecret: internalSecret,
		client:         &http.Client{Timeout: Timeout},
	}
}

func (p *httpProvider) Judge(ctx context.Context, req *AuditRequest) (*AuditResponse, error) {
	log := config.WithContext(ctx)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode judgment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+auditPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build judgment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Internal-Secret", p.internalSecret)

	start := time.Now()
	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		log.WithError(err).Warn("Judgment call failed")
		return nil, fmt.Errorf("judgment call failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		log.Warnf("Judgment service returned status %d", httpResp.StatusCode)
		return nil, fmt.Errorf("judgment service returned status %d", httpResp.StatusCode)
	}

	var resp AuditResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		log.WithError(err).Warn("Failed to decode judgment response")
		return nil, fmt.Errorf("failed to decode judgment response: %w", err)
	}

	log.WithField("request_id", req.RequestID).
		Infof("Judgment verdict %q in %s", resp.Verdict, time.Since(start).Round(time.Millisecond))
	return &resp, nil
}
