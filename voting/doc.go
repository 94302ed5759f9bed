// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package voting runs the post-verification flow: admitting a verified
// session, listing candidates, and casting a ballot. Casting re-checks
// eligibility and appends to both the ballot log and the eligibility log
// under a per-voter lock, so concurrent attempts for the same voter cannot
// double-vote.
package voting
