package schema

import "time"

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

func (u User) Contact() ContactDetails {
	return ContactDetails{
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
	}
}

type Account struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	PaymentTerms PaymentTerms `json:"paymentTerms"`
}

type NameBoardFormat string

const (
	NameBoardPassenger        NameBoardFormat = "passenger"
	NameBoardCompany          NameBoardFormat = "company"
	NameBoardPassengerCompany NameBoardFormat = "passenger-company"
	NameBoardLogo             NameBoardFormat = "logo"
)

type Preferences struct {
	NameBoardFormat    NameBoardFormat `json:"nameBoardFormat"`
	LogoURL            *string         `json:"logoUrl,omitempty"`
	DefaultPassengerID *string         `json:"defaultPassengerId,omitempty"`
	DefaultPassengers  *int            `json:"defaultPassengers,omitempty"`
	DefaultLuggage     *int            `json:"defaultLuggage,omitempty"`
	DefaultVehicle     *string         `json:"defaultVehicleClass,omitempty"`
}

type LogoUpload struct {
	UploadURL string    `json:"uploadUrl"`
	LogoURL   string    `json:"logoUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// FavouriteTrip and Passenger are server owned directory records used to prefill forms.
type FavouriteTrip struct {
	ID      string         `json:"id,omitempty"`
	Name    string         `json:"name"`
	Journey JourneyRequest `json:"journey"`
}

type Passenger struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name"`
	Email string  `json:"email,omitempty"`
	Phone string  `json:"phone,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

func (p Passenger) Contact() ContactDetails {
	return ContactDetails{
		Name:  p.Name,
		Email: p.Email,
		Phone: p.Phone,
	}
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// VerifiedSession is what the auth service returns for a valid token.
type VerifiedSession struct {
	User    User    `json:"user"`
	Account Account `json:"account"`
}
