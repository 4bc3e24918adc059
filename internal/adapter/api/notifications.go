package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/teamqueries/internal/domain"
	"github.com/heartmarshall/teamqueries/internal/wire"
)

// FetchNotifications returns the session user's notifications, newest first.
func (c *Client) FetchNotifications(ctx context.Context) ([]domain.Notification, error) {
	var list wire.NotificationList
	if err := c.do(ctx, domain.OpFetchNotifications, http.MethodGet, "/notifications", nil, &list); err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(list))
	for _, dto := range list {
		n, err := dto.ToDomain()
		if err != nil {
			c.log.WarnContext(ctx, "skipping undecodable notification", slog.String("error", err.Error()))
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// MarkNotificationsRead marks every notification of the session user read.
func (c *Client) MarkNotificationsRead(ctx context.Context) error {
	return c.do(ctx, domain.OpMarkNotificationsRead, http.MethodPut, "/notifications/read", nil, nil)
}
