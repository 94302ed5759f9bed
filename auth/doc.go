// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication helpers.

# Admin Password

The admin panel is gated by a single static credential from configuration,
compared in constant time:

	if err := auth.CheckAdminPassword(submitted, cfg.AdminPassword); err != nil {
		// reject
	}

Credential mechanics beyond this check (rotation, hashing at rest) belong to
the deployment, not this service.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(12)  // 24 hex characters

Used for candidate row identifiers on CSV import.
*/
package auth
