// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package api

import (
	"net/http"

	"github.com/NetRider88/viralAI/internal/auth"
)

// Register creates an account and returns a session.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if !decodeBody(w, r, &in) {
		return
	}
	session, err := h.auth.Register(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(session)
}

// Login exchanges credentials for a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in auth.LoginInput
	if !decodeBody(w, r, &in) {
		return
	}
	session, err := h.auth.Login(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(session)
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		NewResponseWriter(w, r).Unauthorized("authentication required")
		return
	}
	user, err := h.auth.Me(r.Context(), claims)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(user)
}

// UpdateProfile changes the caller's name and avatar. PUT and PATCH behave
// the same: omitted fields are kept.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in auth.ProfileInput
	if !decodeBody(w, r, &in) {
		return
	}
	user, err := h.auth.UpdateProfile(r.Context(), claims, in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(user)
}

// ChangePassword replaces the caller's password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in auth.ChangePasswordInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := h.auth.ChangePassword(r.Context(), claims, in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(map[string]string{"message": "password changed"})
}

// Logout revokes the bearer token used for this request.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.auth.Logout(r.Context(), claims); err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(map[string]string{"message": "logged out"})
}

// currentUser returns the caller's claims. Routes using it sit behind
// auth.Middleware, so nil claims mean a wiring bug and are answered with 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		NewResponseWriter(w, r).Unauthorized("authentication required")
		return nil, false
	}
	return claims, true
}
