package logstore

// Config carries the runtime settings of the log store.
type Config struct {
	// Solo marks the process as a standalone master: writes are executed
	// directly against the backend without consensus involvement.
	Solo bool

	// LogRetention is the minimum number of applied records kept around
	// after compaction. Unapplied records are never purged.
	LogRetention uint64

	// FederationEnabled controls whether solo-mode writes additionally
	// produce a log record, carrying the write's federated index, for
	// cross-cluster replication.
	FederationEnabled bool
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Solo:         false,
		LogRetention: 100000,
	}
}
