package countries

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	commonhttp "leasing-wizard/internal/common/http"
	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/models"
)

// ErrUpstreamStatus is returned when the country API answers with a non-2xx status.
var ErrUpstreamStatus = errors.New("COUNTRY_API_STATUS")

// HTTPSource fetches countries from a restcountries v3.1 compatible API.
type HTTPSource struct {
	client  *commonhttp.Client
	baseURL string
	region  string
	logger  logger.Logger
}

func NewHTTPSource(client *commonhttp.Client, baseURL, region string, log logger.Logger) *HTTPSource {
	return &HTTPSource{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		region:  region,
		logger:  log,
	}
}

// Endpoint is the URL the source fetches.
func (s *HTTPSource) Endpoint() string {
	return fmt.Sprintf("%s/v3.1/region/%s", s.baseURL, url.PathEscape(s.region))
}

// Region is the region the source is scoped to.
func (s *HTTPSource) Region() string {
	return s.region
}

func (s *HTTPSource) List(ctx context.Context) ([]models.Country, error) {
	endpoint := s.Endpoint()

	body, err := s.client.GetBody(ctx, endpoint)
	if err != nil {
		var statusErr *commonhttp.StatusError
		if errors.As(err, &statusErr) {
			return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, statusErr.StatusCode)
		}
		return nil, fmt.Errorf("fetch countries: %w", err)
	}

	var out []models.Country
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode countries: %w", err)
	}

	s.logger.Debug("Fetched countries", map[string]interface{}{
		"endpoint": endpoint,
		"count":    len(out),
	})
	return out, nil
}
