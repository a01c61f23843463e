package entities

import "time"

type Farmer struct {
	FarmerID string `gorm:"primaryKey" json:"id"`
	OwnerUID string `gorm:"index" json:"owner_uid"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
