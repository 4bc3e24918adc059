package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/heartmarshall/teamqueries/internal/domain"
	"github.com/heartmarshall/teamqueries/internal/wire"
)

// NewRequest is the payload of a submission.
type NewRequest struct {
	Kind  domain.RequestKind
	Text  string
	Leave *domain.LeaveRange
}

// requestResponse accepts a request returned bare or as {"request": {...}}.
type requestResponse struct {
	wire.RequestDTO
	Wrapped *wire.RequestDTO `json:"request"`
}

func (r requestResponse) dto() wire.RequestDTO {
	if r.Wrapped != nil {
		return *r.Wrapped
	}
	return r.RequestDTO
}

// FetchRequests returns every request visible to the session user. Records
// that fail to decode are skipped and logged.
func (c *Client) FetchRequests(ctx context.Context) ([]domain.Request, error) {
	return c.fetchRequestList(ctx, domain.OpFetchRequests, "/requests")
}

// FetchDetailed returns the admin activity log: every request with its
// number, requester and acting admin populated.
func (c *Client) FetchDetailed(ctx context.Context) ([]domain.Request, error) {
	return c.fetchRequestList(ctx, domain.OpFetchDetailed, "/requests/detailed")
}

func (c *Client) fetchRequestList(ctx context.Context, op domain.Operation, path string) ([]domain.Request, error) {
	var list wire.RequestList
	if err := c.do(ctx, op, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}

	out := make([]domain.Request, 0, len(list))
	for _, dto := range list {
		req, err := dto.ToDomain()
		if err != nil {
			c.log.WarnContext(ctx, "skipping undecodable request", slog.String("error", err.Error()))
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

// SubmitRequest creates a request and returns the server's record.
func (c *Client) SubmitRequest(ctx context.Context, in NewRequest) (domain.Request, error) {
	body, err := jsonPayload(wire.SubmitBody{
		Query:      in.Text,
		Kind:       in.Kind.String(),
		LeaveRange: wire.FromLeaveRange(in.Leave),
	})
	if err != nil {
		return domain.Request{}, wrapDecode(domain.OpSubmitRequest, err)
	}

	var resp requestResponse
	if err := c.do(ctx, domain.OpSubmitRequest, http.MethodPost, "/requests", body, &resp); err != nil {
		return domain.Request{}, err
	}
	req, err := resp.dto().ToDomain()
	if err != nil {
		return domain.Request{}, wrapDecode(domain.OpSubmitRequest, err)
	}
	return req, nil
}

// UpdateStatus moves a request to status and returns the server's record.
func (c *Client) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus, comment string) (domain.Request, error) {
	body, err := jsonPayload(wire.StatusBody{Status: status.String(), Comment: comment})
	if err != nil {
		return domain.Request{}, wrapDecode(domain.OpUpdateStatus, err)
	}

	var resp requestResponse
	if err := c.do(ctx, domain.OpUpdateStatus, http.MethodPut, "/requests/"+url.PathEscape(id), body, &resp); err != nil {
		return domain.Request{}, err
	}
	req, err := resp.dto().ToDomain()
	if err != nil {
		return domain.Request{}, wrapDecode(domain.OpUpdateStatus, err)
	}
	return req, nil
}

// DeleteRequest deletes a request.
func (c *Client) DeleteRequest(ctx context.Context, id string) error {
	return c.do(ctx, domain.OpDeleteRequest, http.MethodDelete, "/requests/"+url.PathEscape(id), nil, nil)
}
