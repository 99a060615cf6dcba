package models

import "strings"

// Category — дивизион турнира, к которому относятся команды и матчи.
type Category string

const (
	CategoryMasculino Category = "MASCULINO"
	CategoryFemeninoA Category = "FEMENINO_A"
	CategoryFemeninoB Category = "FEMENINO_B"
)

const DefaultCategory = CategoryMasculino

// Categories lists every division in display order.
var Categories = []Category{CategoryMasculino, CategoryFemeninoA, CategoryFemeninoB}

func (c Category) Valid() bool {
	switch c {
	case CategoryMasculino, CategoryFemeninoA, CategoryFemeninoB:
		return true
	}
	return false
}

// Label returns the human form used in notification texts ("FEMENINO A").
func (c Category) Label() string {
	return strings.Replace(string(c), "_", " ", 1)
}

// ParseCategory accepts both the stored form and the label form.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "_"))
	return c, c.Valid()
}
