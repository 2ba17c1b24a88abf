// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

/*
Package auth provides account registration, login and request authentication.

Key Components:

  - JWTManager: HS256 token generation, validation and revocation
  - Service: register, login, profile update, password change and logout
  - RevocationStore: signed-out token IDs, in memory or in Badger
  - Middleware: puts validated Claims on the request context

Authentication Modes (AUTH_MODE):

 1. jwt (default): every protected route needs a bearer token, read from
    the Authorization header, the "token" cookie, or a "token" query
    parameter (browsers cannot set headers on WebSocket upgrades).
 2. none: development only. Requests run as a fixed local user with the
    admin role.

Tokens carry the user ID, email, role and subscription tier, so handlers can
check quotas without a user lookup. They live for security.session_timeout
(24h by default). Each token has a unique ID; logout records it in the
revocation store until the token expires, and the middleware rejects it.

Registration lowercases the email, hashes the password with bcrypt, grants
the admin role to emails listed in security.admin_emails, and subscribes the
user to the newsletter on a best-effort basis.

Usage:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	jwtManager.UseRevocationStore(auth.NewBadgerRevocationStore(store))
	svc := auth.NewService(db, jwtManager, newsletterClient, cfg.Security.AdminEmails)
	mw := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode)

	r.With(mw.Authenticate).Get("/api/v1/auth/me", handler)
*/
package auth
