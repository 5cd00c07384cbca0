package readmodel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/RangaDM/shopfront/errors"
	"github.com/RangaDM/shopfront/httpclient"
	"github.com/RangaDM/shopfront/logger"
	"github.com/RangaDM/shopfront/ringlog"
)

// notificationService is the logical name the notifications view resolves.
const notificationService = "notification"

// Notification is the gateway's view of one notification. The timestamp is
// passed through as the backend rendered it.
type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Recipient string `json:"recipient"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

// notificationRow matches the notification service's wire format.
type notificationRow struct {
	NotificationID string `json:"notification_id"`
	Type           string `json:"type"`
	Message        string `json:"message"`
	Recipient      string `json:"recipient"`
	Timestamp      string `json:"timestamp"`
	Status         string `json:"status"`
}

type notificationsDoc struct {
	Notifications []notificationRow `json:"notifications"`
}

// Notifications is the cached notification feed.
type Notifications struct {
	resolver AddressResolver
	httpc    *httpclient.Client
	ring     *ringlog.Log
	log      *logger.Logger

	mu          sync.RWMutex
	list        []Notification
	refreshedAt time.Time
}

// NewNotifications creates the notifications view.
func NewNotifications(cfg Config, resolver AddressResolver, ring *ringlog.Log, log *logger.Logger) (*Notifications, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpc, err := httpclient.New(httpclient.Config{Timeout: cfg.FetchTimeout})
	if err != nil {
		return nil, err
	}

	return &Notifications{
		resolver: resolver,
		httpc:    httpc,
		ring:     ring,
		log:      log.WithComponent("notifications"),
	}, nil
}

// Refresh fetches the feed from the notification service and replaces the
// cached view. On failure the previous view keeps serving.
func (n *Notifications) Refresh(ctx context.Context) error {
	addr, err := n.resolver.Resolve(notificationService)
	if err != nil {
		n.ring.Record(ringlog.DirectionError, notificationService,
			fmt.Sprintf("notifications refresh failed: %v", err))
		n.log.Warn("notifications refresh failed", logger.ErrorFields("resolve", err))
		return err
	}

	n.ring.Record(ringlog.DirectionRequest, notificationService,
		fmt.Sprintf("GET %s/notifications", addr))

	resp, err := n.httpc.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   addr + "/notifications",
	})
	if err != nil {
		appErr := mapFetchError("refresh notifications", "notification service", err)
		n.ring.Record(ringlog.DirectionError, notificationService,
			fmt.Sprintf("notifications refresh failed: %v", appErr))
		n.log.Warn("notifications refresh failed", logger.ErrorFields("fetch", appErr))
		return appErr
	}

	var doc notificationsDoc
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		appErr := apperrors.ServiceUnavailable("notification service").
			WithCause(fmt.Errorf("parsing notifications payload: %w", err))
		n.ring.Record(ringlog.DirectionError, notificationService,
			fmt.Sprintf("notifications refresh failed: %v", appErr))
		n.log.Warn("notifications refresh failed", logger.ErrorFields("decode", appErr))
		return appErr
	}

	list := make([]Notification, 0, len(doc.Notifications))
	for _, row := range doc.Notifications {
		list = append(list, Notification{
			ID:        row.NotificationID,
			Type:      row.Type,
			Message:   row.Message,
			Recipient: row.Recipient,
			Timestamp: row.Timestamp,
			Status:    row.Status,
		})
	}

	n.mu.Lock()
	n.list = list
	n.refreshedAt = time.Now()
	n.mu.Unlock()

	n.ring.Record(ringlog.DirectionResponse, notificationService,
		fmt.Sprintf("fetched %d notifications", len(list)))
	n.log.Debug("notifications view refreshed", logger.Fields("notifications", len(list)))
	return nil
}

// Get returns a copy of the cached feed.
func (n *Notifications) Get() []Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Notification, len(n.list))
	copy(out, n.list)
	return out
}

// RefreshedAt returns when the view last refreshed successfully, zero if
// never.
func (n *Notifications) RefreshedAt() time.Time {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.refreshedAt
}
