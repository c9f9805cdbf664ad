package client

import (
	"context"
	"net/url"

	"github.com/persistorai/kinnet/internal/models"
)

// PersonService handles person lookups.
type PersonService struct {
	c *Client
}

// Get returns one person, labelled for locale ("" uses the server default).
func (s *PersonService) Get(ctx context.Context, id models.PersonID, locale string) (*Person, error) {
	params := url.Values{}
	if locale != "" {
		params.Set("locale", locale)
	}
	var resp Person
	if err := s.c.get(ctx, "/api/v1/persons/"+id.String(), params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
