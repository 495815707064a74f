package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the account document. Email and CPF are unique across all users;
// PasswordHash never holds plaintext. While unconfirmed the document carries
// a pending confirmation token and expiry; confirmation clears both and
// records the consumed token so a repeated confirm stays a no-op.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	PasswordHash        string             `bson:"password_hash" json:"-"`
	CPF                 string             `bson:"cpf" json:"cpf,omitempty"`
	BirthDate           string             `bson:"birth_date" json:"birth_date,omitempty"`
	Phone               string             `bson:"phone" json:"phone,omitempty"`
	Admin               bool               `bson:"admin" json:"admin"`
	Confirmed           bool               `bson:"confirmed" json:"confirmed"`
	ConfirmationToken   string             `bson:"confirmation_token,omitempty" json:"-"`
	ConfirmationExpires *time.Time         `bson:"confirmation_expires,omitempty" json:"-"`
	ConsumedToken       string             `bson:"confirmed_token,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at" json:"updated_at"`
	LastLoginAt         *time.Time         `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
}

// BeginConfirmation attaches a pending confirmation token valid for ttl.
func (u *User) BeginConfirmation(token string, ttl time.Duration) {
	expires := time.Now().Add(ttl)
	u.Confirmed = false
	u.ConfirmationToken = token
	u.ConfirmationExpires = &expires
}

// ConfirmationExpired reports whether the pending window has closed.
func (u *User) ConfirmationExpired(now time.Time) bool {
	return u.ConfirmationExpires != nil && now.After(*u.ConfirmationExpires)
}

// Summary returns the public view of a user, as returned by login.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Admin: u.Admin,
	}
}

// UserSummary is the public identity projection of a user.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

// Product is the catalog document. Title is unique; SalePrice, when present,
// is strictly less than Price.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Price       float64            `bson:"price" json:"price"`
	SalePrice   *float64           `bson:"sale_price,omitempty" json:"sale_price,omitempty"`
	OnSale      bool               `bson:"on_sale" json:"on_sale"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Rating      float64            `bson:"rating" json:"rating"`
	Reviews     int                `bson:"reviews" json:"reviews"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
