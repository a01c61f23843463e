// Package docpath builds and parses the hierarchical document paths of the
// store: farmers/{farmerId}/fields/{fieldId}/visits/{visitId}.
package docpath

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Farmers         = "farmers"
	Fields          = "fields"
	Visits          = "visits"
	Recommendations = "recommendations"

	// MinVisitSegments is the segment count of the shortest path that names
	// both parents of a visit.
	MinVisitSegments = 6
)

var ErrShortPath = errors.New("docpath: path has too few segments")

// Parents identifies the farmer and field a visit is nested under.
type Parents struct {
	FarmerID string
	FieldID  string
}

func Farmer(farmerID string) string { return Farmers + "/" + farmerID }

func Field(farmerID, fieldID string) string {
	return Farmer(farmerID) + "/" + Fields + "/" + fieldID
}

// VisitParent is the path of the visits collection under a field.
func VisitParent(farmerID, fieldID string) string {
	return Field(farmerID, fieldID) + "/" + Visits
}

func Visit(farmerID, fieldID, visitID string) string {
	return VisitParent(farmerID, fieldID) + "/" + visitID
}

// ParseVisit extracts the parent identifiers from a visit path. The farmer is
// the id after the first collection segment, the field the id after the
// second. Paths shorter than MinVisitSegments are rejected.
func ParseVisit(path string) (Parents, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < MinVisitSegments {
		return Parents{}, fmt.Errorf("%w: %q has %d, need %d", ErrShortPath, path, len(parts), MinVisitSegments)
	}
	p := Parents{FarmerID: parts[1], FieldID: parts[3]}
	if p.FarmerID == "" || p.FieldID == "" {
		return Parents{}, fmt.Errorf("docpath: empty parent id in %q", path)
	}
	return p, nil
}
