// Package constants holds shared application constants.
package constants

// Deployment environments.
const (
	EnvDevelop    = "develop"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Pub/Sub provider selection.
const (
	PubSubProviderInproc = "inproc"
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
