package judge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ironwill-app/ironwill/internal/judge"
)

func testRequest() *judge.AuditRequest {
	return &judge.AuditRequest{
		RequestID:        "req-1",
		UserID:           "user-1",
		GoalID:           "goal-1",
		GoalContext:      judge.GoalContext{Title: "Read 20 pages"},
		Criteria:         judge.Criteria{Config: json.RawMessage(`{"metric":"pages"}`)},
		ProofURL:         "s3://proofs/users/u/goals/g/2026-08-31_abc",
		Timezone:         "America/New_York",
		CurrentTimeLocal: "2026-08-31T21:30:00-04:00",
	}
}

func TestJudge(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotSecret string
		var gotBody judge.AuditRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/internal/judge/audit" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			gotSecret = r.Header.Get("X-Internal-Secret")
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("failed to decode request body: %v", err)
			}

			impact := 0.75
			resp := judge.AuditResponse{
				Verdict:          judge.VerdictPass,
				Remarks:          "Looks legitimate.",
				ExtractedMetrics: json.RawMessage(`{"primary_value":21}`),
				ScoreImpact:      &impact,
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		provider := judge.NewHTTPProvider(server.URL, "test-secret")
		resp, err := provider.Judge(context.Background(), testRequest())
		if err != nil {
			t.Fatalf("Judge failed: %v", err)
		}

		if gotSecret != "test-secret" {
			t.Errorf("internal secret header = %q, want test-secret", gotSecret)
		}
		if gotBody.RequestID != "req-1" || gotBody.GoalContext.Title != "Read 20 pages" {
			t.Errorf("request not marshalled as expected: %+v", gotBody)
		}
		if resp.Verdict != judge.VerdictPass {
			t.Errorf("verdict = %q, want PASS", resp.Verdict)
		}
		if resp.ScoreImpact == nil || *resp.ScoreImpact != 0.75 {
			t.Errorf("score impact = %v, want 0.75", resp.ScoreImpact)
		}
	})

	t.Run("NonSuccessStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}))
		defer server.Close()

		provider := judge.NewHTTPProvider(server.URL, "wrong-secret")
		if _, err := provider.Judge(context.Background(), testRequest()); err == nil {
			t.Fatal("Judge should fail on non-200 status")
		}
	})

	t.Run("MalformedBody", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		provider := judge.NewHTTPProvider(server.URL, "test-secret")
		if _, err := provider.Judge(context.Background(), testRequest()); err == nil {
			t.Fatal("Judge should fail on undecodable body")
		}
	})

	t.Run("ConnectionRefused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		provider := judge.NewHTTPProvider(server.URL, "test-secret")
		if _, err := provider.Judge(context.Background(), testRequest()); err == nil {
			t.Fatal("Judge should fail when the service is unreachable")
		}
	})
}
