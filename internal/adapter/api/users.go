package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/teamqueries/internal/domain"
	"github.com/heartmarshall/teamqueries/internal/wire"
)

// Session is the result of a successful login.
type Session struct {
	Token string
	User  domain.User
}

// userResponse accepts a user returned bare or as {"user": {...}}.
type userResponse struct {
	wire.UserDTO
	Wrapped *wire.UserDTO `json:"user"`
}

func (r userResponse) dto() wire.UserDTO {
	if r.Wrapped != nil {
		return *r.Wrapped
	}
	return r.UserDTO
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, mobile, password string) (Session, error) {
	body, err := jsonPayload(wire.LoginBody{Mobile: mobile, Password: password})
	if err != nil {
		return Session{}, wrapDecode(domain.OpLogin, err)
	}

	var resp wire.LoginResponse
	if err := c.do(ctx, domain.OpLogin, http.MethodPost, "/login", body, &resp); err != nil {
		return Session{}, err
	}
	if resp.Token == "" {
		return Session{}, &domain.OperationError{Op: domain.OpLogin, Message: "response carries no token", Err: domain.ErrTransport}
	}
	user, err := resp.User.ToDomain()
	if err != nil {
		return Session{}, wrapDecode(domain.OpLogin, err)
	}
	return Session{Token: resp.Token, User: user}, nil
}

// FetchUsers returns every user. Admin only on the server side.
func (c *Client) FetchUsers(ctx context.Context) ([]domain.User, error) {
	var list wire.UserList
	if err := c.do(ctx, domain.OpFetchUsers, http.MethodGet, "/admin/users", nil, &list); err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(list))
	for _, dto := range list {
		u, err := dto.ToDomain()
		if err != nil {
			c.log.WarnContext(ctx, "skipping undecodable user", slog.String("error", err.Error()))
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// UpdateRole sets the role of a user.
func (c *Client) UpdateRole(ctx context.Context, userID string, role domain.UserRole) error {
	body, err := jsonPayload(wire.RoleBody{UserID: userID, Role: role.String()})
	if err != nil {
		return wrapDecode(domain.OpUpdateRole, err)
	}
	return c.do(ctx, domain.OpUpdateRole, http.MethodPut, "/admin/users/role", body, nil)
}

// UpdateLeaveBalance sets the paid leave balance of a user.
func (c *Client) UpdateLeaveBalance(ctx context.Context, userID string, balance decimal.Decimal, reason string) error {
	body, err := jsonPayload(wire.NewLeaveBalanceBody(userID, balance, reason))
	if err != nil {
		return wrapDecode(domain.OpUpdateLeaveBalance, err)
	}
	return c.do(ctx, domain.OpUpdateLeaveBalance, http.MethodPut, "/admin/users/leave-balance", body, nil)
}

// DeleteUser deletes a user account.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, domain.OpDeleteUser, http.MethodDelete, "/admin/users/"+url.PathEscape(userID), nil, nil)
}

// ProfileUpdate is the payload of UpdateProfile. Image is optional.
type ProfileUpdate struct {
	Name          string
	Image         io.Reader
	ImageFilename string
}

// UpdateProfile changes the session user's name and, optionally, picture.
func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (domain.User, error) {
	body, err := multipartPayload(in)
	if err != nil {
		return domain.User{}, wrapDecode(domain.OpUpdateProfile, err)
	}

	var resp userResponse
	if err := c.do(ctx, domain.OpUpdateProfile, http.MethodPut, "/profile", body, &resp); err != nil {
		return domain.User{}, err
	}
	user, err := resp.dto().ToDomain()
	if err != nil {
		return domain.User{}, wrapDecode(domain.OpUpdateProfile, err)
	}
	return user, nil
}

func multipartPayload(in ProfileUpdate) (*payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("name", in.Name); err != nil {
		return nil, err
	}
	if in.Image != nil {
		name := in.ImageFilename
		if name == "" {
			name = "profile"
		}
		part, err := w.CreateFormFile("profileImage", name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, in.Image); err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return &payload{contentType: w.FormDataContentType(), body: buf.Bytes()}, nil
}
