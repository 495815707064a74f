package auth

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// birthDateLayouts are the accepted birth date formats, most specific first.
var birthDateLayouts = []string{time.RFC3339, "2006-01-02"}

// RegisterUserMessage is the typed registration payload.
type RegisterUserMessage struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CPF       string `json:"cpf"`
	BirthDate string `json:"birth_date"`
	Phone     string `json:"phone"`
}

func (m RegisterUserMessage) Type() string { return "user.register" }

// ProductPayload is the typed product payload. Numeric fields are pointers so
// absence and zero stay distinguishable at the boundary.
type ProductPayload struct {
	Title       string   `json:"title"`
	Price       *float64 `json:"price"`
	SalePrice   *float64 `json:"sale_price"`
	OnSale      bool     `json:"on_sale"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Quantity    *int     `json:"quantity"`
	Rating      *float64 `json:"rating"`
	Reviews     int      `json:"reviews"`
}

func (p ProductPayload) Type() string { return "product.create" }

// ValidateUserData checks a registration payload and aggregates every
// violation into one result instead of failing on the first.
func ValidateUserData(data RegisterUserMessage) ValidationResult {
	var errs []string

	required := []struct {
		label string
		value string
	}{
		{"Name", data.Name},
		{"Email", data.Email},
		{"Password", data.Password},
		{"CPF", data.CPF},
		{"Birth date", data.BirthDate},
		{"Phone", data.Phone},
	}
	for _, f := range required {
		if f.value == "" {
			errs = append(errs, f.label+" is required")
		}
	}

	if data.Email != "" && !ValidEmail(data.Email) {
		errs = append(errs, "Invalid email format")
	}

	if data.CPF != "" && !ValidCPF(data.CPF) {
		errs = append(errs, "Invalid CPF format")
	}

	if data.Phone != "" && !ValidPhone(data.Phone) {
		errs = append(errs, "Invalid phone number format")
	}

	if data.Password != "" {
		errs = append(errs, ValidatePassword(data.Password)...)
	}

	if data.Name != "" {
		// Bounds count characters, not bytes.
		name := utf8.RuneCountInString(SanitizeString(data.Name))
		if name < 2 {
			errs = append(errs, "Name must be at least 2 characters long")
		}
		if name > 100 {
			errs = append(errs, "Name must be less than 100 characters")
		}
	}

	if data.BirthDate != "" {
		errs = append(errs, validateBirthDate(data.BirthDate)...)
	}

	return newResult(errs)
}

func validateBirthDate(value string) []string {
	var birth time.Time
	var err error
	for _, layout := range birthDateLayouts {
		if birth, err = time.Parse(layout, value); err == nil {
			break
		}
	}
	if err != nil {
		return []string{"Invalid birth date format"}
	}

	var errs []string
	// Calendar-year age, matching the registry's original rule.
	age := time.Now().Year() - birth.Year()
	if age < 13 {
		errs = append(errs, "User must be at least 13 years old")
	}
	if age > 120 {
		errs = append(errs, "Invalid birth date")
	}
	return errs
}

// ValidateProductData checks a product payload and aggregates every violation
// into one result.
func ValidateProductData(data ProductPayload) ValidationResult {
	var errs []string

	if data.Title == "" {
		errs = append(errs, "Title is required")
	}
	if data.Price == nil {
		errs = append(errs, "Price is required")
	}
	if data.Description == "" {
		errs = append(errs, "Description is required")
	}
	if data.Category == "" {
		errs = append(errs, "Category is required")
	}
	if data.Quantity == nil {
		errs = append(errs, "Quantity is required")
	}

	if data.Price != nil && *data.Price <= 0 {
		errs = append(errs, "Price must be greater than 0")
	}

	if data.SalePrice != nil {
		if *data.SalePrice <= 0 {
			errs = append(errs, "Sale price must be greater than 0")
		}
		if data.Price != nil && *data.SalePrice >= *data.Price {
			errs = append(errs, "Sale price must be less than regular price")
		}
	}

	if data.Quantity != nil && *data.Quantity < 0 {
		errs = append(errs, "Quantity cannot be negative")
	}

	if data.Rating != nil && (*data.Rating < 0 || *data.Rating > 5) {
		errs = append(errs, "Rating must be between 0 and 5")
	}

	if data.Title != "" {
		title := utf8.RuneCountInString(SanitizeString(data.Title))
		if title < 3 {
			errs = append(errs, "Title must be at least 3 characters long")
		}
		if title > 200 {
			errs = append(errs, "Title must be less than 200 characters")
		}
	}

	if data.Description != "" {
		description := utf8.RuneCountInString(SanitizeString(data.Description))
		if description < 10 {
			errs = append(errs, "Description must be at least 10 characters long")
		}
		if description > 1000 {
			errs = append(errs, "Description must be less than 1000 characters")
		}
	}

	return newResult(errs)
}

// Product builds the sanitized product record from a payload that already
// passed ValidateProductData.
func (p ProductPayload) Product() *Product {
	prod := &Product{
		Title:       SanitizeString(p.Title),
		OnSale:      p.OnSale,
		Description: SanitizeString(p.Description),
		Image:       SanitizeString(p.Image),
		Category:    SanitizeString(p.Category),
		Reviews:     p.Reviews,
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.SalePrice != nil {
		prod.SalePrice = p.SalePrice
	}
	if p.Quantity != nil {
		prod.Quantity = *p.Quantity
	}
	if p.Rating != nil {
		prod.Rating = *p.Rating
	}
	return prod
}

// String renders the payload for debug logs without leaking the password.
func (m RegisterUserMessage) String() string {
	return fmt.Sprintf("RegisterUserMessage{Name:%q Email:%q CPF:%q Phone:%q}", m.Name, m.Email, m.CPF, m.Phone)
}
