package entities

import "time"

type Field struct {
	FieldID  string   `gorm:"primaryKey" json:"id"`
	FarmerID string   `gorm:"index" json:"farmer_id"`
	OwnerUID string   `gorm:"index" json:"owner_uid"`
	Type     string   `json:"type"`
	Address  string   `json:"address"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Area     *float64 `json:"area"` // decare

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location reports the field's coordinate pair. A pair with only one half
// set counts as absent.
func (f *Field) Location() (lat, lng float64, ok bool) {
	if f.Lat == nil || f.Lng == nil {
		return 0, 0, false
	}
	return *f.Lat, *f.Lng, true
}
