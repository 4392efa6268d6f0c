package client

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultHermesURL is the Pyth hermes endpoint serving the latest signed
// accumulator updates.
const DefaultHermesURL = "https://hermes.pyth.network/api/latest_vaas"

var ErrNoHermesMessage = errors.New("hermes returned no messages")

// HermesClient fetches signed Pyth price updates from a hermes instance.
type HermesClient struct {
	log        *logrus.Entry
	endpoint   string
	httpClient *http.Client
}

func NewHermesClient(endpoint string) *HermesClient {
	if endpoint == "" {
		endpoint = DefaultHermesURL
	}

	return &HermesClient{
		log:      logrus.StandardLogger().WithField("type", "priceproxy/hermes"),
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// LatestUpdate returns the most recent accumulator update message for the
// given hex encoded feed id, wire decoded from the base64 the API serves.
func (c *HermesClient) LatestUpdate(feedIDHex string) ([]byte, error) {
	requestURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hermes endpoint")
	}

	query := requestURL.Query()
	query.Set("ids[]", feedIDHex)
	requestURL.RawQuery = query.Encode()

	c.log.WithField("feed_id", feedIDHex).Debug("fetching hermes update")

	resp, err := c.httpClient.Get(requestURL.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to query hermes")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("hermes returned status %d", resp.StatusCode)
	}

	var messages []string
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		return nil, errors.Wrap(err, "invalid hermes response")
	}
	if len(messages) == 0 {
		return nil, ErrNoHermesMessage
	}

	decoded, err := base64.StdEncoding.DecodeString(messages[0])
	if err != nil {
		return nil, errors.Wrap(err, "invalid base64 encoded message")
	}

	return decoded, nil
}
