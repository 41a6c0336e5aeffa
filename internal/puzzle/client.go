// internal/puzzle/client.go
//
// Adapter for the external puzzle provider. Each fetch returns a question
// asset reference plus the ground-truth solution string. The solution is
// stored server-side only; stripping it from client responses is the
// caller's job. No retries: a failed fetch surfaces ErrUpstream and no
// round is created.

package puzzle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultURL is the public banana-puzzle API.
const DefaultURL = "https://marcconrad.com/uob/banana/api.php"

const defaultTimeout = 5 * time.Second

// ErrUpstream wraps any transport failure or non-200 from the provider.
var ErrUpstream = errors.New("puzzle provider unavailable")

// Puzzle is one fetched round: a question image URL and its solution.
type Puzzle struct {
	Question string `json:"question"`
	Solution string `json:"solution"`
}

// Client fetches puzzles over HTTPS with a bounded timeout.
type Client struct {
	url  string
	http *http.Client
}

// NewClient builds a Client for the given provider URL (DefaultURL if empty).
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// Fetch requests one puzzle from the provider.
func (c *Client) Fetch(ctx context.Context) (Puzzle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Puzzle{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return Puzzle{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Puzzle{}, fmt.Errorf("%w: status %d", ErrUpstream, res.StatusCode)
	}

	var p struct {
		Question string          `json:"question"`
		Solution json.RawMessage `json:"solution"`
	}
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return Puzzle{}, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return Puzzle{Question: p.Question, Solution: rawToString(p.Solution)}, nil
}

// rawToString renders the provider's solution field as a plain string.
// The API has served it both as a JSON number and as a quoted string.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}
