package corporate

import (
	"context"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/client"
	"github.com/rs/zerolog"
)

const destination = "corporate-api"

// Client talks to the corporate account service. Every call other than Login
// is made on behalf of the session token it is given.
type Client struct {
	client *client.Client
}

func NewClient(logger *zerolog.Logger, optionFuncs ...client.OptionFunc) (*Client, error) {
	c, err := client.New(logger, destination, optionFuncs...)
	if err != nil {
		return nil, err
	}

	return &Client{client: c}, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.client.Post(ctx, "/auth/logout", nil, nil, client.WithBearer(token))
}

func (c *Client) GetPreferences(ctx context.Context, token string) (schema.Preferences, error) {
	var preferences schema.Preferences
	err := c.client.Get(ctx, "/preferences", &preferences, client.WithBearer(token))
	return preferences, err
}

func (c *Client) UpdatePreferences(ctx context.Context, token string, preferences schema.Preferences) (schema.Preferences, error) {
	var updated schema.Preferences
	err := c.client.Put(ctx, "/preferences", preferences, &updated, client.WithBearer(token))
	return updated, err
}

type logoUploadRequest struct {
	ContentType string `json:"contentType"`
}

// LogoUploadURL returns a pre-signed URL the browser uploads the logo to directly.
func (c *Client) LogoUploadURL(ctx context.Context, token string, contentType string) (schema.LogoUpload, error) {
	var upload schema.LogoUpload
	err := c.client.Post(ctx, "/preferences/logo-upload-url", logoUploadRequest{ContentType: contentType}, &upload, client.WithBearer(token))
	return upload, err
}

func (c *Client) ListFavourites(ctx context.Context, token string) ([]schema.FavouriteTrip, error) {
	var favourites []schema.FavouriteTrip
	err := c.client.Get(ctx, "/favourites", &favourites, client.WithBearer(token))
	return favourites, err
}

func (c *Client) CreateFavourite(ctx context.Context, token string, favourite schema.FavouriteTrip) (schema.FavouriteTrip, error) {
	var created schema.FavouriteTrip
	err := c.client.Post(ctx, "/favourites", favourite, &created, client.WithBearer(token))
	return created, err
}

func (c *Client) UpdateFavourite(ctx context.Context, token string, id string, favourite schema.FavouriteTrip) (schema.FavouriteTrip, error) {
	var updated schema.FavouriteTrip
	err := c.client.Put(ctx, client.PathEscape("favourites", id), favourite, &updated, client.WithBearer(token))
	return updated, err
}

func (c *Client) DeleteFavourite(ctx context.Context, token string, id string) error {
	return c.client.Delete(ctx, client.PathEscape("favourites", id), client.WithBearer(token))
}

func (c *Client) ListPassengers(ctx context.Context, token string) ([]schema.Passenger, error) {
	var passengers []schema.Passenger
	err := c.client.Get(ctx, "/passengers", &passengers, client.WithBearer(token))
	return passengers, err
}

func (c *Client) CreatePassenger(ctx context.Context, token string, passenger schema.Passenger) (schema.Passenger, error) {
	var created schema.Passenger
	err := c.client.Post(ctx, "/passengers", passenger, &created, client.WithBearer(token))
	return created, err
}

func (c *Client) UpdatePassenger(ctx context.Context, token string, id string, passenger schema.Passenger) (schema.Passenger, error) {
	var updated schema.Passenger
	err := c.client.Put(ctx, client.PathEscape("passengers", id), passenger, &updated, client.WithBearer(token))
	return updated, err
}

func (c *Client) DeletePassenger(ctx context.Context, token string, id string) error {
	return c.client.Delete(ctx, client.PathEscape("passengers", id), client.WithBearer(token))
}
