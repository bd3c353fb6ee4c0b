package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/julis-sh/mitgliederinfo/internal/api/rest"
	"github.com/julis-sh/mitgliederinfo/internal/model"
)

type page[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

// collect follows next links from first until a page without one, one
// request at a time, and returns all values in page order.
func collect[T any](ctx context.Context, c *Client, token string, first rest.Request) ([]T, error) {
	var (
		items []T
		seen  = make(map[string]struct{})
		req   = first
	)
	req.Method = http.MethodGet

	for pages := 0; ; pages++ {
		if pages == c.cfg.MaxPages {
			return nil, model.NewErrDecode(fmt.Errorf("pagination exceeded %d pages", c.cfg.MaxPages))
		}

		var p page[T]
		if err := c.get(ctx, token, req, &p); err != nil {
			return nil, err
		}
		items = append(items, p.Value...)

		if p.NextLink == "" {
			return items, nil
		}
		if err := c.checkNextLink(p.NextLink, seen); err != nil {
			return nil, model.NewErrDecode(err)
		}
		seen[p.NextLink] = struct{}{}
		req = rest.Request{Method: http.MethodGet, URL: p.NextLink}
	}
}

func (c *Client) checkNextLink(link string, seen map[string]struct{}) error {
	if _, ok := seen[link]; ok {
		return fmt.Errorf("repeated next link %q", link)
	}
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("failed to parse next link: %w", err)
	}
	if !u.IsAbs() || u.Host != c.rest.BaseURL().Host {
		return fmt.Errorf("next link %q points outside %s", link, c.rest.BaseURL().Host)
	}
	return nil
}
