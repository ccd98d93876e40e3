// Package demo seeds the demo school used by the dashboard and the tests.
package demo

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/core/school"
)

const (
	SchoolID = "demo-school-1"
	PageID   = "demo-page-1"
)

type Result struct {
	Message  string `json:"message"`
	SchoolID string `json:"school_id,omitempty"`
	PageID   string `json:"page_id,omitempty"`
	Created  bool   `json:"-"`
}

// Seed creates the demo school and its published home page, unless the school already exists.
func Seed(ctx context.Context, schools *school.Service, pages *page.Service) (Result, error) {
	_, err := schools.GetByID(ctx, SchoolID)
	switch {
	case err == nil:
		return Result{Message: "Data already seeded"}, nil
	case !core.IsNotFound(err):
		return Result{}, errors.Wrap(err, "checking demo school")
	}

	sch, err := schools.Create(ctx, school.NewSchool{
		ID:             SchoolID,
		Name:           "Sunshine Elementary",
		Slug:           "sunshine-elementary",
		PrimaryColor:   school.DefaultPrimaryColor,
		SecondaryColor: school.DefaultSecondaryColor,
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "creating demo school")
	}

	p, err := pages.Create(ctx, page.NewPage{
		ID:          PageID,
		SchoolID:    sch.ID,
		Name:        "Home",
		Slug:        "home",
		IsPublished: true,
		Components:  HomeComponents(),
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "creating demo page")
	}

	return Result{Message: "Demo data seeded successfully", SchoolID: sch.ID, PageID: p.ID, Created: true}, nil
}

// HomeComponents returns the components of the demo home page.
func HomeComponents() []editor.Component {
	return []editor.Component{
		{ID: "comp-1", Type: catalog.TypeHero, Order: 0, Props: catalog.Props{
			"title":           "Welcome to Sunshine Elementary",
			"subtitle":        "Where Every Child Shines Bright",
			"backgroundImage": "https://images.unsplash.com/photo-1523050854058-8df90110c9f1?q=80&w=2070&auto=format&fit=crop",
			"buttonText":      "Enroll Now",
			"buttonLink":      "#contact",
		}},
		{ID: "comp-2", Type: catalog.TypeFeatures, Order: 1, Props: catalog.Props{
			"title": "Why Choose Sunshine Elementary?",
			"features": []interface{}{
				map[string]interface{}{"icon": "GraduationCap", "title": "Excellence in Education", "description": "Award-winning curriculum designed for success"},
				map[string]interface{}{"icon": "Users", "title": "Dedicated Teachers", "description": "Experienced educators who care about every student"},
				map[string]interface{}{"icon": "Building", "title": "Modern Facilities", "description": "State-of-the-art classrooms and sports facilities"},
			},
		}},
		{ID: "comp-3", Type: catalog.TypeAnnouncements, Order: 2, Props: catalog.Props{
			"title": "Latest News & Updates",
			"items": []interface{}{
				map[string]interface{}{"title": "Parent-Teacher Conference", "date": "Jan 15, 2026", "excerpt": "Join us for our upcoming parent-teacher conference to discuss your child's progress."},
				map[string]interface{}{"title": "Spring Break Schedule", "date": "Jan 10, 2026", "excerpt": "Important dates for the upcoming spring break period."},
				map[string]interface{}{"title": "Science Fair Winners", "date": "Jan 5, 2026", "excerpt": "Congratulations to all our talented science fair participants!"},
			},
		}},
		{ID: "comp-4", Type: catalog.TypeGallery, Order: 3, Props: catalog.Props{
			"title": "Life at Sunshine Elementary",
			"images": []interface{}{
				"https://images.unsplash.com/photo-1509062522246-3755977927d7?q=80&w=2132&auto=format&fit=crop",
				"https://images.unsplash.com/photo-1427504494785-3a9ca28497b1?q=80&w=2070&auto=format&fit=crop",
				"https://images.unsplash.com/photo-1592280771884-f25f2b8423f5?q=80&w=1974&auto=format&fit=crop",
				"https://images.unsplash.com/photo-1564981797816-1043664bf78d?q=80&w=1974&auto=format&fit=crop",
			},
		}},
		{ID: "comp-5", Type: catalog.TypeContact, Order: 4, Props: catalog.Props{
			"title":   "Get in Touch",
			"address": "123 Sunshine Lane, Happy Valley, HV 12345",
			"phone":   "(555) 123-4567",
			"email":   "info@sunshine-elementary.edu",
			"showMap": true,
		}},
	}
}
