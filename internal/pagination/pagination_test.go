package pagination_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/pagination"
)

func TestParams_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   pagination.Params
		want pagination.Params
	}{
		{"zero values", pagination.Params{}, pagination.Params{Page: 1, Limit: 10}},
		{"negative", pagination.Params{Page: -3, Limit: -1}, pagination.Params{Page: 1, Limit: 10}},
		{"over max", pagination.Params{Page: 2, Limit: 500}, pagination.Params{Page: 2, Limit: 100}},
		{"kept", pagination.Params{Page: 4, Limit: 25}, pagination.Params{Page: 4, Limit: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.in.Normalize()); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())
}

func TestNewMeta(t *testing.T) {
	p := pagination.Params{Page: 2, Limit: 10}

	assert.Equal(t, pagination.Meta{Page: 2, Limit: 10, Total: 0, TotalPages: 0}, pagination.NewMeta(p, 0))
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 10, Total: 10, TotalPages: 1}, pagination.NewMeta(p, 10))
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 10, Total: 21, TotalPages: 3}, pagination.NewMeta(p, 21))
}
