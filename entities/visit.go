package entities

import "time"

// InstantLayout is the stored form of Visit.Date. It is fixed-width UTC so
// that lexical order on the column equals chronological order.
const InstantLayout = "2006-01-02T15:04:05.000Z"

type Visit struct {
	VisitID    string `gorm:"primaryKey" json:"id"`
	Path       string `gorm:"uniqueIndex" json:"path"`
	ParentPath string `gorm:"index" json:"-"` // farmers/{f}/fields/{g}
	// FarmerID and FieldID are denormalized copies of the parents; documents
	// written by older clients leave them empty.
	FarmerID          string   `gorm:"index" json:"farmer_id"`
	FieldID           string   `gorm:"index" json:"field_id"`
	OwnerUID          string   `gorm:"index" json:"owner_uid"`
	Date              string   `gorm:"index" json:"date"`
	Note              string   `json:"note"`
	RecommendationIDs []string `gorm:"serializer:json" json:"recommendation_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FormatInstant(t time.Time) string { return t.UTC().Format(InstantLayout) }

// Instant parses the stored date. Dates written in RFC 3339 by other clients
// are accepted as well.
func (v *Visit) Instant() (time.Time, bool) {
	if v.Date == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(InstantLayout, v.Date); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, v.Date); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Millis is the visit instant in epoch milliseconds, 0 when the stored date
// cannot be parsed.
func (v *Visit) Millis() int64 {
	t, ok := v.Instant()
	if !ok {
		return 0
	}
	return t.UnixMilli()
}
