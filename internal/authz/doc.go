// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

// Package authz provides route authorization using Casbin.
//
// Requests pass through authentication first, then this package:
//
//	Request -> auth.Middleware -> authz.Middleware -> Handler
//
// # RBAC Model
//
//	[request_definition]
//	r = sub, obj, act
//
//	[policy_definition]
//	p = sub, obj, act
//
//	[role_definition]
//	g = _, _
//
//	[policy_effect]
//	e = some(where (p.eft == allow))
//
//	[matchers]
//	m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && r.act == p.act
//
// The subject is the role carried in the JWT ("user" or "admin"), the
// object is the request path, and the action is derived from the method:
// GET/HEAD/OPTIONS are read, POST/PUT/PATCH are write, DELETE is delete.
//
// The embedded policy.csv grants users the keyword, content, link and usage
// routes and grants admins the /api/v1/admin area on top (g, admin, user).
// security.casbin_model_path and security.casbin_policy_path replace the
// embedded files; a policy file is polled for changes every 30 seconds.
//
// Decisions are cached per (role, path, action) for five minutes and
// counted in viralai_authz_decisions_total.
package authz
