// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session tracks per-requester state across the registration, login,
and voting flows.

Each browser session maps (via the session cookie) to one Session holding:

  - Pending: a registration capture awaiting voter details
  - Gate: the login verification state machine in progress
  - Voter: the authenticated voter after a successful verification
  - Admin: whether the admin credential was presented

Sessions live in an in-memory Store with a sliding TTL and a background
janitor. They are deliberately per-requester: in-flight scan data is never
held in process-wide shared state, so one voter's captures can never surface
in another voter's flow.
*/
package session
