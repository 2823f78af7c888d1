package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/a3mc/lead-inspector/internal/application/domain"
	"github.com/a3mc/lead-inspector/internal/application/ports"
	"github.com/a3mc/lead-inspector/internal/logger"
)

// skipBlameResponse is the typed contract for the skip-blame endpoint.
// Validators is a pointer so a structurally absent list can be told apart
// from an empty one.
type skipBlameResponse struct {
	Data struct {
		Validators *[]skipBlameValidator `json:"validators"`
	} `json:"data"`
}

type skipBlameValidator struct {
	IdentityPubkey string `json:"identity_pubkey"`
}

// leaderboardResponse is the typed contract for the voting latency
// leaderboard. Latency fields are pointers: records without them carry no
// usable enrichment and are treated as not found.
type leaderboardResponse struct {
	Records []leaderboardRecord `json:"records"`
}

type leaderboardRecord struct {
	NodeAddress  string  `json:"nodeAddress"`
	TotalLatency *uint64 `json:"totalLatency"`
	VotedSlots   *uint64 `json:"votedSlots"`
}

// enrichmentHTTPAdapter implements ports.EnrichmentProvider against the two
// public JSON services. Nothing is cached between calls.
type enrichmentHTTPAdapter struct {
	client         *http.Client
	skipBlameURL   string
	leaderboardURL string
}

// NewEnrichmentHTTPAdapter is the constructor used from main.go.
func NewEnrichmentHTTPAdapter(skipBlameURL, leaderboardURL string, timeout time.Duration) ports.EnrichmentProvider {
	return &enrichmentHTTPAdapter{
		client:         &http.Client{Timeout: timeout},
		skipBlameURL:   skipBlameURL,
		leaderboardURL: leaderboardURL,
	}
}

// OnSkipBlameList fetches the skip-blame list and tests identity against it
// with exact string equality. A response without the validators array logs
// a warning and degrades to "not on list"; any other failure is fatal.
func (a *enrichmentHTTPAdapter) OnSkipBlameList(ctx context.Context, identity string) (bool, error) {
	var resp skipBlameResponse
	if err := a.getJSON(ctx, a.skipBlameURL, &resp); err != nil {
		return false, errors.Wrap(err, "failed to fetch skip blame data")
	}
	if resp.Data.Validators == nil {
		logger.Warn("'validators' array missing or JSON response changed")
		return false, nil
	}
	for _, v := range *resp.Data.Validators {
		if v.IdentityPubkey == identity {
			return true, nil
		}
	}
	return false, nil
}

// LatencyRank posts an empty payload to the leaderboard and scans records
// for the first nodeAddress match. Rank is the one-based position of that
// record; average latency is totalLatency over votedSlots. A missing record
// or missing fields yield (nil, nil).
func (a *enrichmentHTTPAdapter) LatencyRank(ctx context.Context, identity string) (*domain.LatencyStats, error) {
	var resp leaderboardResponse
	if err := a.postJSON(ctx, a.leaderboardURL, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to fetch latency leaderboard")
	}
	for i, record := range resp.Records {
		if record.NodeAddress != identity {
			continue
		}
		if record.TotalLatency == nil || record.VotedSlots == nil || *record.VotedSlots == 0 {
			return nil, nil
		}
		return &domain.LatencyStats{
			AverageLatency: float64(*record.TotalLatency) / float64(*record.VotedSlots),
			Rank:           i + 1,
		}, nil
	}
	return nil, nil
}

func (a *enrichmentHTTPAdapter) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return a.do(req, out)
}

func (a *enrichmentHTTPAdapter) postJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte("{}")))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, out)
}

func (a *enrichmentHTTPAdapter) do(req *http.Request, out interface{}) error {
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "failed to parse response JSON")
	}
	return nil
}
