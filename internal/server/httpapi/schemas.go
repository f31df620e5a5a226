package httpapi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/contacthub/internal/server/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs validator tags and converts the first failure into a
// 400 with a readable field message.
func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if ok := errors.As(err, &verrs); ok && len(verrs) > 0 {
			fe := verrs[0]
			return ErrBadRequest(fmt.Sprintf("field %s failed validation (%s)", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return ErrBadRequestWrap("invalid request", err)
	}
	return nil
}

// Date marshals as a bare calendar date, e.g. "1990-12-10".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// --- auth schemas ---

type UserCreate struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func NewUserResponse(u *models.User) *UserResponse {
	resp := &UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		IsActive: u.IsActive,
		Role:     u.RoleName,
	}
	if u.Avatar.Valid {
		resp.AvatarURL = u.Avatar.String
	}
	return resp
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type AvatarResponse struct {
	URL string `json:"url"`
}

// --- contact schemas ---

type ContactCreate struct {
	FirstName      string `json:"first_name" validate:"required,max=50"`
	LastName       string `json:"last_name" validate:"required,max=50"`
	Email          string `json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phone_number" validate:"required,max=20"`
	Birthday       Date   `json:"birthday" validate:"required"`
	AdditionalInfo string `json:"additional_info,omitempty" validate:"max=500"`
}

func (c *ContactCreate) Model() *models.Contact {
	m := &models.Contact{
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Birthday:    c.Birthday.Time,
	}
	if c.AdditionalInfo != "" {
		m.AdditionalInfo.Valid = true
		m.AdditionalInfo.String = c.AdditionalInfo
	}
	return m
}

type ContactResponse struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Birthday       Date   `json:"birthday"`
	AdditionalInfo string `json:"additional_info,omitempty"`
	OwnerID        string `json:"owner_id"`
}

func NewContactResponse(c *models.Contact) *ContactResponse {
	resp := &ContactResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Birthday:    Date{c.Birthday},
		OwnerID:     c.OwnerID,
	}
	if c.AdditionalInfo.Valid {
		resp.AdditionalInfo = c.AdditionalInfo.String
	}
	return resp
}

func NewContactListResponse(list []*models.Contact) []*ContactResponse {
	out := make([]*ContactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, NewContactResponse(c))
	}
	return out
}
