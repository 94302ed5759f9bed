// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package verify implements the login verification gate.

# State Machine

Each login attempt is one Gate walking:

	no_scan → first_captured → both_captured → verified | rejected

RecordFirstScan and RecordSecondScan accumulate the two captures. Verify
consumes the client-side matcher's result (matched voter ID + score + vendor
error code) and settles the attempt:

  - vendor error code > 0        → rejected (device.Error)
  - empty identifier or score
    below the inclusive threshold → rejected (ErrVerificationFailed)
  - voter inside lockout window  → rejected (ErrAlreadyVoted)
  - otherwise                    → verified, enrolled voter returned

Rejection is terminal for the attempt: the gate clears its captures and the
voter restarts from the first scan. Re-recording the first scan from any
non-terminal state restarts the attempt in place.

The lockout window is checked exactly once, at the verify transition; the
voting orchestrator re-checks it at cast time against stale verified state.

Registry and ledger access go through the VoterLookup and RecentVoteChecker
interfaces so the gate can be exercised with fakes.
*/
package verify
