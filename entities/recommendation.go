package entities

import (
	"fmt"
	"time"
)

type RecommendationKind string

const (
	KindPesticide  RecommendationKind = "pesticide"
	KindFertilizer RecommendationKind = "fertilizer"
	KindOther      RecommendationKind = "other"
)

// SubKinds lists the allowed sub-kinds per kind. A kind with no entries takes
// no sub-kind.
var SubKinds = map[RecommendationKind][]string{
	KindPesticide: {
		"Fungusit",
		"İnsektisit",
		"Herbisit",
		"Akarisit",
		"Nematisit",
		"Rodentisit",
		"Bakterisit",
	},
	KindFertilizer: {
		"Azotlu Gübreler",
		"Fosforlu Gübreler",
		"Potasyumlu Gübreler",
		"Kompoze NPK Gübreler",
		"Mikro Element Gübreleri",
		"Organik Gübreler",
		"Yaprak Gübreleri",
	},
	KindOther: {},
}

type Recommendation struct {
	RecommendationID string             `gorm:"primaryKey" json:"id"`
	OwnerUID         string             `gorm:"index" json:"owner_uid"`
	Name             string             `gorm:"index" json:"name"`
	Kind             RecommendationKind `json:"kind"`
	SubKind          *string            `json:"sub_kind"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateKind checks kind and sub-kind against the catalog. An empty
// sub-kind is normalized to nil.
func ValidateKind(kind RecommendationKind, subKind *string) (*string, error) {
	allowed, ok := SubKinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown recommendation kind %q", kind)
	}
	if subKind == nil || *subKind == "" {
		return nil, nil
	}
	for _, s := range allowed {
		if s == *subKind {
			return subKind, nil
		}
	}
	return nil, fmt.Errorf("sub-kind %q is not valid for kind %q", *subKind, kind)
}
