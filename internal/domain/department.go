package domain

import (
	"strings"

	"github.com/gosimple/slug"
)

// Department is one of the fixed administrative units that grievances are filed against.
type Department string

const (
	DepartmentHealth      Department = "Health"
	DepartmentPublicWorks Department = "Public Works"
	DepartmentWaterSupply Department = "Water Supply"
	DepartmentElectricity Department = "Electricity"
	DepartmentRevenue     Department = "Revenue"
	DepartmentEducation   Department = "Education"
)

var departments = []Department{
	DepartmentHealth,
	DepartmentPublicWorks,
	DepartmentWaterSupply,
	DepartmentElectricity,
	DepartmentRevenue,
	DepartmentEducation,
}

// Departments returns the catalog in display order.
func Departments() []Department {
	out := make([]Department, len(departments))
	copy(out, departments)
	return out
}

// ParseDepartment accepts either the display name or its URL slug.
func ParseDepartment(val string) (Department, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false
	}
	for _, dept := range departments {
		if string(dept) == val || dept.Slug() == val {
			return dept, true
		}
	}
	return "", false
}

// Valid reports whether d is part of the catalog.
func (d Department) Valid() bool {
	for _, dept := range departments {
		if dept == d {
			return true
		}
	}
	return false
}

// Slug is the URL form of the department name, e.g. "public-works".
func (d Department) Slug() string {
	return slug.Make(string(d))
}

func (d Department) String() string {
	return string(d)
}
