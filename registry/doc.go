// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registry is the durable store of enrolled voters.

Identifiers are case-insensitive and stored normalized to upper case.
Biometric templates are unique across the registry: the same fingerprint can
never enroll under two identities. Voter records are written once at
registration and never mutated; the only destructive operation is PurgeAll,
which clears the whole registry.

ListAll tolerates malformed rows (missing identifier, truncated template) by
logging and skipping them instead of failing the listing — a bad row written
by external tooling must not take down the voter export used for matching.
*/
package registry
