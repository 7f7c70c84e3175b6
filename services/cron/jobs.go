package cron

import (
	"fmt"
	"time"
)

// stalePaymentAge is how long a pending order may sit before the gateway is
// assumed to have abandoned it.
const stalePaymentAge = 24 * time.Hour

// ExpireStalePayments fails pending payment orders older than the cutoff.
func (m *CronManager) ExpireStalePayments() (string, error) {
	n, err := m.store.ExpireStalePayments(stalePaymentAge)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("expired %d stale pending payments", n), nil
}

// CleanupExpiredTokens prunes blacklist entries whose tokens have expired on
// their own.
func (m *CronManager) CleanupExpiredTokens() (string, error) {
	n, err := m.store.CleanupExpiredTokens()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("removed %d expired blacklist entries", n), nil
}
