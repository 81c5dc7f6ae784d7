// Package constants holds string identifiers shared between config and infra.
package constants

// Pub/Sub providers accepted by the pubsub.provider config key.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Store drivers accepted by the store.driver config key.
const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

// Account event types.
const (
	AccountEventRegistered = "account.registered"
	AccountEventModified   = "account.modified"
	AccountEventDeleted    = "account.deleted"
)

// EnvDevelop is the env.env value of local development deployments.
const EnvDevelop = "develop"
