// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package newsletter

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/upstream"
)

// defaultListID is Listmonk's first list, created on install.
const defaultListID = 1

// Subscriber adds people to the mailing list.
type Subscriber interface {
	Subscribe(ctx context.Context, email, name string) error
	Available() bool
}

// New returns a Listmonk subscriber, or an unavailable one when no URL is
// configured.
func New(cfg config.NewsletterConfig) Subscriber {
	if cfg.ListmonkURL == "" {
		return unavailable{upstream.NewUnavailable("newsletter", "LISTMONK_URL")}
	}

	lists := cfg.ListIDs
	if len(lists) == 0 {
		lists = []int{defaultListID}
	}

	opts := upstream.Options{
		Name:       "listmonk",
		BaseURL:    cfg.ListmonkURL,
		Timeout:    10 * time.Second,
		MaxRetries: 1,
	}
	if cfg.Username != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + cfg.Password))
		opts.Headers = map[string]string{"Authorization": "Basic " + creds}
	}

	return &Listmonk{client: upstream.NewClient(opts), lists: lists}
}

// Listmonk talks to the Listmonk subscribers API.
type Listmonk struct {
	client *upstream.Client
	lists  []int
}

type subscriberRequest struct {
	Email                   string `json:"email"`
	Name                    string `json:"name"`
	Status                  string `json:"status"`
	Lists                   []int  `json:"lists"`
	PreconfirmSubscriptions bool   `json:"preconfirm_subscriptions"`
}

// Subscribe creates an enabled, preconfirmed subscriber. An empty name falls
// back to the local part of the email.
func (l *Listmonk) Subscribe(ctx context.Context, email, name string) error {
	if name = strings.TrimSpace(name); name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	_, err := l.client.PostJSON(ctx, "/api/subscribers", subscriberRequest{
		Email:                   email,
		Name:                    name,
		Status:                  "enabled",
		Lists:                   l.lists,
		PreconfirmSubscriptions: true,
	})
	if upstream.StatusCode(err) == http.StatusConflict {
		logging.Ctx(ctx).Debug().Msg("newsletter subscriber already exists")
		return nil
	}
	if err != nil {
		return fmt.Errorf("newsletter subscribe: %w", err)
	}
	return nil
}

// Available reports true.
func (l *Listmonk) Available() bool { return true }

type unavailable struct {
	upstream.Unavailable
}

func (u unavailable) Subscribe(context.Context, string, string) error { return u.Err() }
