package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/statekit/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want environment.Environment
	}{
		{in: "production", want: environment.Production},
		{in: "prod", want: environment.Production},
		{in: " PROD ", want: environment.Production},
		{in: "staging", want: environment.Staging},
		{in: "stage", want: environment.Staging},
		{in: "development", want: environment.Development},
		{in: "", want: environment.Development},
		{in: "qa", want: environment.Development},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, environment.Parse(tt.in))
		})
	}
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, environment.Production.IsProduction())
	assert.False(t, environment.Staging.IsProduction())
	assert.True(t, environment.Development.IsDevelopment())
	assert.False(t, environment.Production.IsDevelopment())
}
