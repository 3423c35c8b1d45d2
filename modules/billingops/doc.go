// Package billingops exposes the reconciliation engine over an
// operator-facing JSON API: per-account reconcile (with dry-run),
// force-sync, cooldown reset, duplicate cleanup, access checks, and
// batch sweeps.
//
// The router carries no authentication of its own; mount it behind the
// host application's admin middleware.
package billingops
