package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dalemusser/hygienedash/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// AuthUser is the account returned by a successful login.
type AuthUser struct {
	ID    string
	Phone string
	Name  string
	Role  string
}

// flexID accepts a JSON number or string.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

type loginResponse struct {
	ID    flexID `json:"id"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// SendLoginOTP asks the API to text a sign-in code to phone.
func (c *Client) SendLoginOTP(ctx context.Context, phone string) error {
	return c.postJSON(ctx, "send-login-otp", map[string]string{"phone": phone}, nil)
}

// SendRegistrationOTP asks the API to text a registration code to phone.
func (c *Client) SendRegistrationOTP(ctx context.Context, phone string) error {
	return c.postJSON(ctx, "send-registration-otp", map[string]string{"phone": phone}, nil)
}

// Login exchanges a phone and code for the account.
func (c *Client) Login(ctx context.Context, phone, otp string) (AuthUser, error) {
	var out loginResponse
	if err := c.postJSON(ctx, "login", map[string]string{"phone": phone, "otp": otp}, &out); err != nil {
		return AuthUser{}, err
	}
	u := AuthUser{ID: string(out.ID), Phone: out.Phone, Name: out.Name, Role: out.Role}
	if u.Phone == "" {
		u.Phone = phone
	}
	return u, nil
}

// VerifyRegistrationOTP checks a registration code.
func (c *Client) VerifyRegistrationOTP(ctx context.Context, phone, otp string) error {
	return c.postJSON(ctx, "verify-registration-otp", map[string]string{"phone": phone, "otp": otp}, nil)
}

// Register creates the account after its code has been verified.
func (c *Client) Register(ctx context.Context, phone, name, role string) error {
	return c.postJSON(ctx, "register", map[string]string{"phone": phone, "name": name, "role": role}, nil)
}

// postJSON posts body to {base}/dashboard/{op}. Every failure is an
// *APIError. When out is non-nil a 2xx body is decoded into it.
func (c *Client) postJSON(ctx context.Context, op string, body any, out any) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Auth(), c.log, "auth "+op)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return &APIError{Op: op, Detail: GenericMessage, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/dashboard/"+op, bytes.NewReader(payload))
	if err != nil {
		return &APIError{Op: op, Detail: GenericMessage, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		ae := &APIError{Op: op, Detail: GenericMessage, Err: err}
		if isTimeout(err) {
			ae.Detail, ae.Timeout = TimeoutMessage, true
		}
		c.log.Warn("auth request failed", zap.String("op", op), zap.Bool("timeout", ae.Timeout), zap.Error(err))
		return ae
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		ae := &APIError{Op: op, Status: resp.StatusCode, Detail: GenericMessage, Err: err}
		if isTimeout(err) {
			ae.Detail, ae.Timeout = TimeoutMessage, true
		}
		return ae
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := detailFrom(data)
		c.log.Info("auth request rejected",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail))
		return &APIError{
			Op:     op,
			Status: resp.StatusCode,
			Detail: detail,
			Err:    fmt.Errorf("%s returned HTTP %d", op, resp.StatusCode),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{Op: op, Status: resp.StatusCode, Detail: GenericMessage, Err: fmt.Errorf("decode %s: %w", op, err)}
		}
	}
	return nil
}
