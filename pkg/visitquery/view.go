package visitquery

import (
	"strings"

	"tarlatakip/entities"
)

// VisitView is a visit joined with its farmer, field and recommendation
// names. Farmer and Field are nil when the lookup failed.
type VisitView struct {
	entities.Visit
	Farmer              *entities.Farmer `json:"farmer"`
	Field               *entities.Field  `json:"field"`
	RecommendationNames []string         `json:"recommendation_names"`
}

// Denormalize joins visits with refs, keeping their order.
func Denormalize(visits []entities.Visit, refs *References) []VisitView {
	if refs == nil {
		refs = newReferences()
	}
	out := make([]VisitView, 0, len(visits))
	for _, v := range visits {
		view := VisitView{Visit: v, RecommendationNames: make([]string, 0, len(v.RecommendationIDs))}
		if f, ok := refs.Farmer(v.FarmerID); ok {
			view.Farmer = &f
		}
		if f, ok := refs.Field(v.FarmerID, v.FieldID); ok {
			view.Field = &f
		}
		for _, id := range v.RecommendationIDs {
			view.RecommendationNames = append(view.RecommendationNames, refs.RecommendationName(id))
		}
		out = append(out, view)
	}
	return out
}

// FarmerName falls back to the raw id.
func (v *VisitView) FarmerName() string {
	if v.Farmer != nil {
		return v.Farmer.Name
	}
	return v.FarmerID
}

func (v *VisitView) FarmerPhone() string {
	if v.Farmer != nil {
		return v.Farmer.Phone
	}
	return ""
}

// FieldType falls back to the raw id.
func (v *VisitView) FieldType() string {
	if v.Field != nil {
		return v.Field.Type
	}
	return v.FieldID
}

func (v *VisitView) FieldAddress() string {
	if v.Field != nil {
		return v.Field.Address
	}
	return ""
}

func (v *VisitView) Recommendations() string {
	return strings.Join(v.RecommendationNames, ", ")
}

// searchParts are the texts free-text search looks at: the note, the
// resolved farmer and field values, then each recommendation name. Missing
// references contribute nothing and blank values are dropped.
func (v *VisitView) searchParts() []string {
	parts := make([]string, 0, 5+len(v.RecommendationNames))
	add := func(s string) {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	add(v.Note)
	if v.Farmer != nil {
		add(v.Farmer.Name)
		add(v.Farmer.Phone)
	}
	if v.Field != nil {
		add(v.Field.Type)
		add(v.Field.Address)
	}
	for _, name := range v.RecommendationNames {
		add(name)
	}
	return parts
}
