// Package audit records plan changes and subscription cancellations as
// append-only entries.
//
// Every tier fix applied by reconciliation and every duplicate
// cancellation attempt produces one entry tagged with an Action
// (PLAN_UPGRADE, PLAN_DOWNGRADE, SUBSCRIPTION_CANCELED), the before and
// after tiers, and free-form details. The actor is "system-sync" for
// automated fixes or a human admin ID for manual ones.
//
// Audit persistence is strictly best-effort from the engine's point of
// view: wrap storage with WithAsyncBuffer so a slow or failed audit
// backend can never block or fail a reconciliation. A dropped entry is
// logged; a blocked reconciliation is a bug.
package audit
