// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

/*
Package api serves the ViralAI REST API over a Chi router.

Every response uses the same envelope:

	{"success": true, "data": {...}, "meta": {"timestamp": "...", "duration_ms": 12}}
	{"success": false, "error": {"code": "QUOTA_EXCEEDED", "message": "...", "details": {...}}, "meta": {...}}

Route groups:

	/api/v1/health/*        liveness and readiness, no auth
	/api/v1/auth/*          register, login (strict rate limit), me, profile,
	                        change-password, logout
	/api/v1/keywords/*      suggestions, research, trends, niches, video stats
	/api/v1/content/*       generation, images, humanizer, blocks, metrics
	/api/v1/links           trackable links and analytics
	/api/v1/usage           monthly usage and limits
	/api/v1/admin/*         admin role only
	/api/v1/ws              progress stream, token in ?token=
	/r/{code}               public short-link redirect
	/metrics                Prometheus

Authenticated routes pass auth.Middleware, which puts the JWT claims on the
context, and then authz.Middleware, which asks Casbin whether the claims'
role may perform the request's action on its path.

Service errors are mapped to status codes in one place, respondServiceError.
Optional integrations that are not configured answer 503 FEATURE_UNAVAILABLE
and quota denials answer 429 QUOTA_EXCEEDED with the limit in details.
*/
package api
