package transport

import (
	"strings"

	"gorm.io/datatypes"

	"github.com/Skotchmaster/wine_catalog/internal/models"
	"github.com/Skotchmaster/wine_catalog/internal/util"
)

type RegisterRequest struct {
	Email           string `json:"email"           validate:"required,email,max=255"`
	Password        string `json:"password"        validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Name            string `json:"name"            validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponse struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

type CreateProductRequest struct {
	Name         string  `json:"name"         validate:"required,max=255"`
	Brand        string  `json:"brand"        validate:"required,max=255"`
	NetVolume    string  `json:"netVolume"    validate:"required,max=64"`
	Vintage      *string `json:"vintage"      validate:"omitnil,max=32"`
	Type         string  `json:"type"         validate:"required,max=128"`
	SugarContent *string `json:"sugarContent" validate:"omitnil,max=64"`
	Appellation  *string `json:"appellation"  validate:"omitnil,max=255"`
	SKU          string  `json:"sku"          validate:"required,max=255"`
	Alcohol      *string `json:"alcohol"      validate:"omitnil,max=32"`
	Country      string  `json:"country"      validate:"required,max=128"`
	EAN          *string `json:"ean"          validate:"omitnil,max=32"`
	ImageURL     *string `json:"imageUrl"     validate:"omitnil,max=1024"`
}

// Normalize trims text fields and turns blank optional fields into nil.
func (r *CreateProductRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Brand = strings.TrimSpace(r.Brand)
	r.NetVolume = strings.TrimSpace(r.NetVolume)
	r.Type = strings.TrimSpace(r.Type)
	r.SKU = strings.TrimSpace(r.SKU)
	r.Country = strings.TrimSpace(r.Country)
	for _, p := range []**string{&r.Vintage, &r.SugarContent, &r.Appellation, &r.Alcohol, &r.EAN, &r.ImageURL} {
		*p = blankToNil(*p)
	}
}

func (r *CreateProductRequest) Model() models.Product {
	return models.Product{
		Name:         r.Name,
		Brand:        r.Brand,
		NetVolume:    r.NetVolume,
		Vintage:      r.Vintage,
		Type:         r.Type,
		SugarContent: r.SugarContent,
		Appellation:  r.Appellation,
		SKU:          r.SKU,
		Alcohol:      r.Alcohol,
		Country:      r.Country,
		EAN:          r.EAN,
		ImageURL:     r.ImageURL,
	}
}

// ProductRequestFrom copies the user-editable fields of p.
func ProductRequestFrom(p models.Product) CreateProductRequest {
	return CreateProductRequest{
		Name:         p.Name,
		Brand:        p.Brand,
		NetVolume:    p.NetVolume,
		Vintage:      p.Vintage,
		Type:         p.Type,
		SugarContent: p.SugarContent,
		Appellation:  p.Appellation,
		SKU:          p.SKU,
		Alcohol:      p.Alcohol,
		Country:      p.Country,
		EAN:          p.EAN,
		ImageURL:     p.ImageURL,
	}
}

type PatchProductRequest struct {
	Name         *string `json:"name"         validate:"omitnil,min=1,max=255"`
	Brand        *string `json:"brand"        validate:"omitnil,min=1,max=255"`
	NetVolume    *string `json:"netVolume"    validate:"omitnil,min=1,max=64"`
	Vintage      *string `json:"vintage"      validate:"omitnil,max=32"`
	Type         *string `json:"type"         validate:"omitnil,min=1,max=128"`
	SugarContent *string `json:"sugarContent" validate:"omitnil,max=64"`
	Appellation  *string `json:"appellation"  validate:"omitnil,max=255"`
	SKU          *string `json:"sku"          validate:"omitnil,min=1,max=255"`
	Alcohol      *string `json:"alcohol"      validate:"omitnil,max=32"`
	Country      *string `json:"country"      validate:"omitnil,min=1,max=128"`
	EAN          *string `json:"ean"          validate:"omitnil,max=32"`
	ImageURL     *string `json:"imageUrl"     validate:"omitnil,max=1024"`
}

// Normalize trims the required text fields so blank values fail validation.
func (r *PatchProductRequest) Normalize() {
	for _, p := range []*string{r.Name, r.Brand, r.NetVolume, r.Type, r.SKU, r.Country} {
		trimInPlace(p)
	}
}

// Fields returns the column assignments for the fields present in the patch.
// Optional columns sent as blank strings are cleared.
func (r *PatchProductRequest) Fields() map[string]any {
	f := map[string]any{}
	setTrimmed(f, "name", r.Name)
	setTrimmed(f, "brand", r.Brand)
	setTrimmed(f, "net_volume", r.NetVolume)
	setTrimmed(f, "type", r.Type)
	setTrimmed(f, "sku", r.SKU)
	setTrimmed(f, "country", r.Country)
	setOptional(f, "vintage", r.Vintage)
	setOptional(f, "sugar_content", r.SugarContent)
	setOptional(f, "appellation", r.Appellation)
	setOptional(f, "alcohol", r.Alcohol)
	setOptional(f, "ean", r.EAN)
	setOptional(f, "image_url", r.ImageURL)
	return f
}

type CreateIngredientRequest struct {
	Name        string   `json:"name"        validate:"required,max=255"`
	Category    string   `json:"category"    validate:"required,max=128"`
	ENumber     *string  `json:"eNumber"     validate:"omitnil,max=16"`
	Allergens   []string `json:"allergens"   validate:"omitempty,dive,required,max=64"`
	Description *string  `json:"description" validate:"omitnil,max=2000"`
}

func (r *CreateIngredientRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	r.ENumber = blankToNil(r.ENumber)
	r.Description = blankToNil(r.Description)
	r.Allergens = trimSet(r.Allergens)
}

func (r *CreateIngredientRequest) Model() models.Ingredient {
	return models.Ingredient{
		Name:        r.Name,
		Category:    r.Category,
		ENumber:     r.ENumber,
		Allergens:   r.Allergens,
		Description: r.Description,
	}
}

func IngredientRequestFrom(i models.Ingredient) CreateIngredientRequest {
	return CreateIngredientRequest{
		Name:        i.Name,
		Category:    i.Category,
		ENumber:     i.ENumber,
		Allergens:   append([]string(nil), i.Allergens...),
		Description: i.Description,
	}
}

type PatchIngredientRequest struct {
	Name        *string   `json:"name"        validate:"omitnil,min=1,max=255"`
	Category    *string   `json:"category"    validate:"omitnil,min=1,max=128"`
	ENumber     *string   `json:"eNumber"     validate:"omitnil,max=16"`
	Allergens   *[]string `json:"allergens"   validate:"omitnil,dive,required,max=64"`
	Description *string   `json:"description" validate:"omitnil,max=2000"`
}

func (r *PatchIngredientRequest) Normalize() {
	trimInPlace(r.Name)
	trimInPlace(r.Category)
}

func (r *PatchIngredientRequest) Fields() map[string]any {
	f := map[string]any{}
	setTrimmed(f, "name", r.Name)
	setTrimmed(f, "category", r.Category)
	setOptional(f, "e_number", r.ENumber)
	setOptional(f, "description", r.Description)
	if r.Allergens != nil {
		f["allergens"] = datatypes.JSONSlice[string](trimSet(*r.Allergens))
	}
	return f
}

type ProductList struct {
	Products   []models.Product `json:"products"`
	Pagination util.Page        `json:"pagination"`
}

type IngredientList struct {
	Ingredients []models.Ingredient `json:"ingredients"`
	Pagination  util.Page           `json:"pagination"`
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func trimInPlace(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func setTrimmed(f map[string]any, col string, v *string) {
	if v != nil {
		f[col] = strings.TrimSpace(*v)
	}
}

func setOptional(f map[string]any, col string, v *string) {
	if v == nil {
		return
	}
	if t := blankToNil(v); t != nil {
		f[col] = *t
	} else {
		f[col] = nil
	}
}

// trimSet trims, drops blanks and removes repeats, keeping first-seen order.
func trimSet(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
