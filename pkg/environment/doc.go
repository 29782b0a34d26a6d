// Package environment names the deployment environments the server knows
// about and normalizes user supplied names with Parse.
//
//	env := environment.Parse(os.Getenv("APP_ENV")) // "prod" -> Production
//	if env.IsProduction() { ... }
package environment
