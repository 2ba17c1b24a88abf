// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package models

import "time"

// Subscription tiers. Quotas per tier come from config.
const (
	TierFree   = "free"
	TierPro    = "pro"
	TierAgency = "agency"
)

// Roles understood by the authorization policy.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatar_url"`
	PasswordHash string    `json:"-"`
	Tier         string    `json:"tier"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
