package models

// Profile is the customer account record; fetched whole, edited field by field,
// always saved whole.
type Profile struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Email        string `json:"email"`
	IDCardNumber string `json:"id_card_number"`
	PhoneNumber  string `json:"phone_number"`
	Latitude     string `json:"latitude"`
	Longitude    string `json:"longitude"`
	Avatar       string `json:"avatar,omitempty"`
}

// ProfileField keys addressable by the inline editor.
const (
	FieldName      = "name"
	FieldAddress   = "address"
	FieldCity      = "city"
	FieldEmail     = "email"
	FieldIDCard    = "id_card_number"
	FieldPhone     = "phone_number"
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
)

// ProfileFields is the editable field set in display order.
var ProfileFields = []string{
	FieldName, FieldIDCard, FieldPhone, FieldEmail,
	FieldAddress, FieldCity, FieldLatitude, FieldLongitude,
}

// Value returns the current value of a field by key.
func (p Profile) Value(key string) string {
	switch key {
	case FieldName:
		return p.Name
	case FieldAddress:
		return p.Address
	case FieldCity:
		return p.City
	case FieldEmail:
		return p.Email
	case FieldIDCard:
		return p.IDCardNumber
	case FieldPhone:
		return p.PhoneNumber
	case FieldLatitude:
		return p.Latitude
	case FieldLongitude:
		return p.Longitude
	}
	return ""
}

// SetValue assigns a field by key, ignoring unknown keys.
func (p *Profile) SetValue(key, value string) {
	switch key {
	case FieldName:
		p.Name = value
	case FieldAddress:
		p.Address = value
	case FieldCity:
		p.City = value
	case FieldEmail:
		p.Email = value
	case FieldIDCard:
		p.IDCardNumber = value
	case FieldPhone:
		p.PhoneNumber = value
	case FieldLatitude:
		p.Latitude = value
	case FieldLongitude:
		p.Longitude = value
	}
}
