package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const RoleUser = "user"

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"                  json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"                  json:"email"`
	PasswordHash string    `gorm:"column:password;not null"              json:"-"`
	Name         string    `gorm:"not null"                              json:"name"`
	Role         string    `gorm:"size:20;not null;default:'user'"      json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// PublicUser is the only shape of a user that leaves the service layer.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"              json:"id"`
	Name         string    `gorm:"not null"                          json:"name"`
	Brand        string    `gorm:"not null"                          json:"brand"`
	NetVolume    string    `gorm:"column:net_volume;not null"        json:"netVolume"`
	Vintage      *string   `json:"vintage"`
	Type         string    `gorm:"not null"                          json:"type"`
	SugarContent *string   `gorm:"column:sugar_content"              json:"sugarContent"`
	Appellation  *string   `json:"appellation"`
	SKU          string    `gorm:"column:sku;uniqueIndex;not null"   json:"sku"`
	Alcohol      *string   `json:"alcohol"`
	Country      string    `gorm:"not null"                          json:"country"`
	EAN          *string   `gorm:"column:ean;uniqueIndex"            json:"ean"`
	ImageURL     *string   `gorm:"column:image_url"                  json:"imageUrl"`
	QRCode       string    `gorm:"column:qr_code;type:text;not null" json:"qrCode"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Ingredient struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey"                                     json:"id"`
	Name        string                      `gorm:"not null;uniqueIndex:idx_ingredients_name_category"       json:"name"`
	Category    string                      `gorm:"not null;uniqueIndex:idx_ingredients_name_category;index" json:"category"`
	ENumber     *string                     `gorm:"column:e_number"                                          json:"eNumber"`
	Allergens   datatypes.JSONSlice[string] `json:"allergens"`
	Description *string                     `json:"description"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (i *Ingredient) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Allergens == nil {
		i.Allergens = datatypes.JSONSlice[string]{}
	}
	return nil
}

func All() []any {
	return []any{&User{}, &Product{}, &Ingredient{}}
}
