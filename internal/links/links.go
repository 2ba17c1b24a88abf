// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

// Package links creates trackable short links and records their clicks.
package links

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/database"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/metrics"
	"github.com/NetRider88/viralAI/internal/models"
)

const (
	codeAlphabet     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts  = 5
	analyticsSample  = 100
	recentClickCount = 20
)

var (
	// ErrLinkNotFound is returned for an unknown code, or a link owned by
	// someone else.
	ErrLinkNotFound = errors.New("link not found")

	// ErrInvalidDestination is returned for a destination that is not an
	// absolute http(s) URL.
	ErrInvalidDestination = errors.New("destination must be an absolute http or https URL")
)

// Store persists links and clicks.
type Store interface {
	CreateLink(ctx context.Context, l *models.TrackableLink) error
	GetLink(ctx context.Context, id string) (*models.TrackableLink, error)
	GetLinkByCode(ctx context.Context, code string) (*models.TrackableLink, error)
	ListLinks(ctx context.Context, userID string) ([]models.TrackableLink, error)
	RecordClick(ctx context.Context, c *models.LinkClick) error
	RecentClicks(ctx context.Context, linkID string, limit int) ([]models.LinkClick, error)
}

// Service manages trackable links.
type Service struct {
	store      Store
	baseURL    string
	codeLength int
	now        func() time.Time
}

// NewService creates a Service. Codes are 6 characters unless configured.
func NewService(store Store, cfg config.LinksConfig) *Service {
	n := cfg.CodeLength
	if n <= 0 {
		n = 6
	}
	return &Service{
		store:      store,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		codeLength: n,
		now:        time.Now,
	}
}

// Create makes a new short link to destination. platformContentID may be
// empty.
func (s *Service) Create(ctx context.Context, userID, destination, platformContentID string) (*models.TrackableLink, error) {
	u, err := url.Parse(destination)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidDestination
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateCode(s.codeLength)
		if err != nil {
			return nil, err
		}
		link := &models.TrackableLink{
			ID:                uuid.NewString(),
			UserID:            userID,
			ShortCode:         code,
			DestinationURL:    destination,
			PlatformContentID: platformContentID,
			CreatedAt:         s.now().UTC(),
		}
		err = s.store.CreateLink(ctx, link)
		if errors.Is(err, database.ErrDuplicate) {
			logging.Ctx(ctx).Debug().Str("code", code).Msg("short code collision, retrying")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create link: %w", err)
		}
		link.FullURL = s.FullURL(code)
		return link, nil
	}
	return nil, fmt.Errorf("create link: no free short code after %d attempts", maxCodeAttempts)
}

// FullURL is the public redirect URL for code.
func (s *Service) FullURL(code string) string {
	return s.baseURL + "/" + code
}

// List returns the user's links with their full URLs.
func (s *Service) List(ctx context.Context, userID string) ([]models.TrackableLink, error) {
	links, err := s.store.ListLinks(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range links {
		links[i].FullURL = s.FullURL(links[i].ShortCode)
	}
	return links, nil
}

// Resolve returns the destination for code and records the click. A click
// that fails to record is logged; the redirect still happens.
func (s *Service) Resolve(ctx context.Context, code string, info ClickInfo) (string, error) {
	link, err := s.store.GetLinkByCode(ctx, code)
	if errors.Is(err, database.ErrNotFound) {
		return "", ErrLinkNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve link: %w", err)
	}

	agent := ParseUserAgent(info.UserAgent)
	click := &models.LinkClick{
		ID:         uuid.NewString(),
		LinkID:     link.ID,
		IP:         info.IP,
		UserAgent:  info.UserAgent,
		Referer:    info.Referer,
		Country:    info.Country,
		DeviceType: agent.Device,
		Browser:    agent.Browser,
		OS:         agent.OS,
		ClickedAt:  s.now().UTC(),
	}
	if err := s.store.RecordClick(ctx, click); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("code", code).Msg("failed to record link click")
	} else {
		metrics.LinkClicks.Inc()
	}
	return link.DestinationURL, nil
}

// Analytics summarizes the last 100 clicks on one of the user's links.
func (s *Service) Analytics(ctx context.Context, userID, linkID string) (*models.LinkAnalytics, error) {
	link, err := s.store.GetLink(ctx, linkID)
	if errors.Is(err, database.ErrNotFound) || (err == nil && link.UserID != userID) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("link analytics: %w", err)
	}

	clicks, err := s.store.RecentClicks(ctx, linkID, analyticsSample)
	if err != nil {
		return nil, fmt.Errorf("link analytics: %w", err)
	}

	link.FullURL = s.FullURL(link.ShortCode)
	out := &models.LinkAnalytics{
		Link:      *link,
		ByCountry: map[string]int64{},
		ByDevice:  map[string]int64{},
		ByBrowser: map[string]int64{},
		Sampled:   len(clicks),
		Recent:    clicks[:min(len(clicks), recentClickCount)],
	}
	for _, c := range clicks {
		out.ByCountry[orUnknown(c.Country)]++
		out.ByDevice[orUnknown(c.DeviceType)]++
		out.ByBrowser[orUnknown(c.Browser)]++
	}
	if out.Recent == nil {
		out.Recent = []models.LinkClick{}
	}
	return out, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func generateCode(n int) (string, error) {
	alphabet := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, alphabet)
		if err != nil {
			return "", fmt.Errorf("generate short code: %w", err)
		}
		b[i] = codeAlphabet[idx.Int64()]
	}
	return string(b), nil
}
