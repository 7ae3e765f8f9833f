package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepartmentsOrder(t *testing.T) {
	assert.Equal(t, []Department{
		"Health", "Public Works", "Water Supply", "Electricity", "Revenue", "Education",
	}, Departments())
}

func TestDepartmentsReturnsCopy(t *testing.T) {
	list := Departments()
	list[0] = "Parks"
	assert.Equal(t, DepartmentHealth, Departments()[0])
}

func TestParseDepartment(t *testing.T) {
	cases := []struct {
		in   string
		want Department
		ok   bool
	}{
		{"Public Works", DepartmentPublicWorks, true},
		{"public-works", DepartmentPublicWorks, true},
		{"water-supply", DepartmentWaterSupply, true},
		{"Health", DepartmentHealth, true},
		{"health", DepartmentHealth, true},
		{"public works", "", false},
		{"Parks", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseDepartment(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestDepartmentValid(t *testing.T) {
	assert.True(t, DepartmentRevenue.Valid())
	assert.False(t, Department("Parks").Valid())
	assert.False(t, Department("").Valid())
}

func TestUserRole(t *testing.T) {
	assert.Equal(t, RoleCitizen, (&User{}).Role())
	assert.Equal(t, RoleDepartmentAdmin, (&User{IsAdmin: true}).Role())
}
