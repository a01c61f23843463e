// Package seed loads farmers, fields, visits and recommendations for one
// account from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"tarlatakip/entities"
	farmerSvc "tarlatakip/pkg/farmer/service"
	fieldSvc "tarlatakip/pkg/field/service"
	recSvc "tarlatakip/pkg/recommendation/service"
	visitSvc "tarlatakip/pkg/visit/service"
)

type File struct {
	Recommendations []Recommendation `yaml:"recommendations"`
	Farmers         []Farmer         `yaml:"farmers"`
}

// Recommendation.Key is how visits in the same file refer to it.
type Recommendation struct {
	Key     string  `yaml:"key"`
	Name    string  `yaml:"name"`
	Kind    string  `yaml:"kind"`
	SubKind *string `yaml:"sub_kind"`
}

type Farmer struct {
	Name   string  `yaml:"name"`
	Phone  string  `yaml:"phone"`
	Fields []Field `yaml:"fields"`
}

type Field struct {
	Type    string   `yaml:"type"`
	Address string   `yaml:"address"`
	Lat     *float64 `yaml:"lat"`
	Lng     *float64 `yaml:"lng"`
	Area    *float64 `yaml:"area"`
	Visits  []Visit  `yaml:"visits"`
}

type Visit struct {
	Date            string   `yaml:"date"`
	Note            string   `yaml:"note"`
	Recommendations []string `yaml:"recommendations"`
}

// Summary counts what Apply created.
type Summary struct {
	Recommendations int
	Farmers         int
	Fields          int
	Visits          int
}

func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &f, nil
}

// Services are the write paths a seed goes through, so seeded data passes
// the same validation as API input.
type Services struct {
	Farmers         farmerSvc.FarmerService
	Fields          fieldSvc.FieldService
	Visits          visitSvc.VisitService
	Recommendations recSvc.RecommendationService
}

// Apply creates everything in f for uid. It stops at the first failure;
// documents created before it stay.
func Apply(ctx context.Context, s Services, uid string, f *File) (*Summary, error) {
	sum := &Summary{}
	recIDs := map[string]string{}
	for _, r := range f.Recommendations {
		rec, err := s.Recommendations.Create(ctx, uid, recSvc.RecommendationInput{
			Name:    r.Name,
			Kind:    entities.RecommendationKind(r.Kind),
			SubKind: r.SubKind,
		})
		if err != nil {
			return sum, fmt.Errorf("recommendation %q: %w", r.Name, err)
		}
		key := r.Key
		if key == "" {
			key = r.Name
		}
		recIDs[key] = rec.RecommendationID
		sum.Recommendations++
	}

	for _, fa := range f.Farmers {
		farmer, err := s.Farmers.Create(ctx, uid, farmerSvc.FarmerInput{Name: fa.Name, Phone: fa.Phone})
		if err != nil {
			return sum, fmt.Errorf("farmer %q: %w", fa.Name, err)
		}
		sum.Farmers++
		for _, fi := range fa.Fields {
			field, err := s.Fields.CreateField(ctx, uid, farmer.FarmerID, fieldSvc.FieldInput{
				Type: fi.Type, Address: fi.Address, Lat: fi.Lat, Lng: fi.Lng, Area: fi.Area,
			})
			if err != nil {
				return sum, fmt.Errorf("field %q of %q: %w", fi.Type, fa.Name, err)
			}
			sum.Fields++
			for _, v := range fi.Visits {
				ids := make([]string, 0, len(v.Recommendations))
				for _, key := range v.Recommendations {
					id, ok := recIDs[key]
					if !ok {
						return sum, fmt.Errorf("visit on %s: unknown recommendation %q", v.Date, key)
					}
					ids = append(ids, id)
				}
				_, err := s.Visits.CreateVisit(ctx, uid, farmer.FarmerID, field.FieldID, visitSvc.VisitInput{
					Date: v.Date, Note: v.Note, RecommendationIDs: ids,
				})
				if err != nil {
					return sum, fmt.Errorf("visit on %s: %w", v.Date, err)
				}
				sum.Visits++
			}
		}
	}
	return sum, nil
}
