package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/maxviazov/users-admin/internal/httpclient"
	"github.com/maxviazov/users-admin/internal/repository"
)

type pinger struct{ client *httpclient.Client }

// NewPinger checks upstream readiness with the smallest possible list call.
// Probe failures are logged by the client but never shown to users.
func NewPinger(client *httpclient.Client) repository.Pinger { return &pinger{client: client} }

func (p *pinger) Ping(ctx context.Context) error {
	q := url.Values{"page": {"1"}, "per_page": {"1"}}
	return p.client.DoJSON(httpclient.Silent(ctx), http.MethodGet, usersPath, q, nil, nil)
}
