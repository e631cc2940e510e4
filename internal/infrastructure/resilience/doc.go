/*
Package resilience provides a circuit breaker for the preference store.

When the storage backend keeps failing (full disk, locked database) every
mutation would otherwise pay for a doomed write and log the same error. The
breaker opens after a run of consecutive failures, rejects calls for a
cooldown, then lets one probe through to decide whether to close again.

# Usage

	breaker := resilience.New("storage", resilience.Settings{
		Threshold: 5,
		Cooldown:  30 * time.Second,
	})

	err := breaker.Do(func() error {
		return store.Set(ctx, key, value)
	})

# States

	Closed --[threshold failures]-> Open --[cooldown]-> Half-Open --[probe ok]-> Closed
	                                  ^                     |
	                                  +----[probe failed]---+
*/
package resilience
