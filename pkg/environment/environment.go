package environment

import "strings"

type Environment string

const (
	// Development for development environment.
	Development Environment = "development"
	// Production for production environment.
	Production Environment = "production"
	// Staging for staging environment.
	Staging Environment = "staging"
)

// Parse normalizes an environment name. Short forms such as "prod" are
// accepted; anything unknown is treated as Development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Production), "prod":
		return Production
	case string(Staging), "stage":
		return Staging
	default:
		return Development
	}
}

func (e Environment) IsProduction() bool {
	return e == Production
}

func (e Environment) IsDevelopment() bool {
	return e == Development
}
