package portal

import (
	"context"
	"sync"

	"bitbucket.org/crgw/transfers-web/internal/schema"
)

type corporateAPIMock struct {
	getPreferencesMock    func(ctx context.Context, token string) (schema.Preferences, error)
	updatePreferencesMock func(ctx context.Context, token string, preferences schema.Preferences) (schema.Preferences, error)
	logoUploadURLMock     func(ctx context.Context, token string, contentType string) (schema.LogoUpload, error)
	listFavouritesMock    func(ctx context.Context, token string) ([]schema.FavouriteTrip, error)
	createFavouriteMock   func(ctx context.Context, token string, favourite schema.FavouriteTrip) (schema.FavouriteTrip, error)
	updateFavouriteMock   func(ctx context.Context, token string, id string, favourite schema.FavouriteTrip) (schema.FavouriteTrip, error)
	deleteFavouriteMock   func(ctx context.Context, token string, id string) error
	listPassengersMock    func(ctx context.Context, token string) ([]schema.Passenger, error)
	createPassengerMock   func(ctx context.Context, token string, passenger schema.Passenger) (schema.Passenger, error)
	updatePassengerMock   func(ctx context.Context, token string, id string, passenger schema.Passenger) (schema.Passenger, error)
	deletePassengerMock   func(ctx context.Context, token string, id string) error
	tokens                []string
	sync.Mutex
}

func (m *corporateAPIMock) seen(token string) {
	m.Lock()
	defer m.Unlock()
	m.tokens = append(m.tokens, token)
}

func (m *corporateAPIMock) GetPreferences(ctx context.Context, token string) (schema.Preferences, error) {
	m.seen(token)
	return m.getPreferencesMock(ctx, token)
}

func (m *corporateAPIMock) UpdatePreferences(ctx context.Context, token string, preferences schema.Preferences) (schema.Preferences, error) {
	m.seen(token)
	return m.updatePreferencesMock(ctx, token, preferences)
}

func (m *corporateAPIMock) LogoUploadURL(ctx context.Context, token string, contentType string) (schema.LogoUpload, error) {
	m.seen(token)
	return m.logoUploadURLMock(ctx, token, contentType)
}

func (m *corporateAPIMock) ListFavourites(ctx context.Context, token string) ([]schema.FavouriteTrip, error) {
	m.seen(token)
	return m.listFavouritesMock(ctx, token)
}

func (m *corporateAPIMock) CreateFavourite(ctx context.Context, token string, favourite schema.FavouriteTrip) (schema.FavouriteTrip, error) {
	m.seen(token)
	return m.createFavouriteMock(ctx, token, favourite)
}

func (m *corporateAPIMock) UpdateFavourite(ctx context.Context, token string, id string, favourite schema.FavouriteTrip) (schema.FavouriteTrip, error) {
	m.seen(token)
	return m.updateFavouriteMock(ctx, token, id, favourite)
}

func (m *corporateAPIMock) DeleteFavourite(ctx context.Context, token string, id string) error {
	m.seen(token)
	return m.deleteFavouriteMock(ctx, token, id)
}

func (m *corporateAPIMock) ListPassengers(ctx context.Context, token string) ([]schema.Passenger, error) {
	m.seen(token)
	return m.listPassengersMock(ctx, token)
}

func (m *corporateAPIMock) CreatePassenger(ctx context.Context, token string, passenger schema.Passenger) (schema.Passenger, error) {
	m.seen(token)
	return m.createPassengerMock(ctx, token, passenger)
}

func (m *corporateAPIMock) UpdatePassenger(ctx context.Context, token string, id string, passenger schema.Passenger) (schema.Passenger, error) {
	m.seen(token)
	return m.updatePassengerMock(ctx, token, id, passenger)
}

func (m *corporateAPIMock) DeletePassenger(ctx context.Context, token string, id string) error {
	m.seen(token)
	return m.deletePassengerMock(ctx, token, id)
}

type authMock struct {
	token string
}

func (m *authMock) Login(ctx context.Context, credentials schema.Credentials) (schema.LoginResult, error) {
	if credentials.Password != "secret" {
		return schema.LoginResult{}, schema.APIError{StatusCode: 401, Message: "Invalid email or password"}
	}
	return schema.LoginResult{Token: m.token}, nil
}

func (m *authMock) VerifySession(ctx context.Context, token string) (schema.VerifiedSession, error) {
	return schema.VerifiedSession{
		User:    schema.User{ID: "u-1", Name: "Ada Lovelace", Email: "ada@acme.example", Phone: "+447700900123"},
		Account: schema.Account{ID: "acc-1", Name: "Acme Ltd", PaymentTerms: schema.PaymentTermsNet30},
	}, nil
}

func (m *authMock) Logout(ctx context.Context, token string) error {
	return nil
}
