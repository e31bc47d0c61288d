package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dalemusser/hygienedash/internal/app/system/timeouts"
	"github.com/dalemusser/hygienedash/internal/domain/models"
	"go.uber.org/zap"
)

// Endpoint names used in logs and metrics.
const (
	EndpointAttendances   = "attendances"
	EndpointRegistrations = "registrations"
)

var errNotArray = errors.New("response is not a JSON array")

// AttendanceResult is the outcome of FetchAttendance. Err holds the cause
// when Source is SourceFallback.
type AttendanceResult struct {
	Records []models.AttendanceRecord
	Source  Source
	Err     error
}

// UsersResult is the outcome of FetchUsers.
type UsersResult struct {
	Records []models.UserRecord
	Source  Source
	Err     error
}

// FetchAttendance reads GET /attendances. When ctx itself was cancelled
// (a newer cycle superseded this one) the fallback is returned without a
// warning or a fetch observation.
func (c *Client) FetchAttendance(ctx context.Context) AttendanceResult {
	var recs []models.AttendanceRecord
	if err := c.getJSON(ctx, EndpointAttendances, &recs); err != nil {
		if ctx.Err() != nil {
			c.log.Debug("attendance fetch cancelled", zap.Error(err))
			return AttendanceResult{Records: FallbackAttendance(), Source: SourceFallback, Err: err}
		}
		c.log.Warn("API unavailable, using fallback attendance data",
			zap.String("endpoint", EndpointAttendances), zap.Error(err))
		c.observe(EndpointAttendances, SourceFallback)
		return AttendanceResult{Records: FallbackAttendance(), Source: SourceFallback, Err: err}
	}
	c.log.Info("Successfully fetched attendance data from API", zap.Int("records", len(recs)))
	c.observe(EndpointAttendances, SourceLive)
	return AttendanceResult{Records: recs, Source: SourceLive}
}

// FetchUsers reads GET /registrations.
func (c *Client) FetchUsers(ctx context.Context) UsersResult {
	var recs []models.UserRecord
	if err := c.getJSON(ctx, EndpointRegistrations, &recs); err != nil {
		if ctx.Err() != nil {
			c.log.Debug("users fetch cancelled", zap.Error(err))
			return UsersResult{Records: FallbackUsers(), Source: SourceFallback, Err: err}
		}
		c.log.Warn("API unavailable, using fallback users data",
			zap.String("endpoint", EndpointRegistrations), zap.Error(err))
		c.observe(EndpointRegistrations, SourceFallback)
		return UsersResult{Records: FallbackUsers(), Source: SourceFallback, Err: err}
	}
	c.log.Info("Successfully fetched users data from API", zap.Int("records", len(recs)))
	c.observe(EndpointRegistrations, SourceLive)
	return UsersResult{Records: recs, Source: SourceLive}
}

// getJSON decodes a JSON array from GET {base}/{endpoint} into out, which
// must point to a slice. A JSON null is rejected.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Read(), c.log, "fetch "+endpoint)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return fmt.Errorf("GET %s returned HTTP %d", endpoint, resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	if len(raw) == 0 || raw[0] != '[' {
		return fmt.Errorf("decode %s: %w", endpoint, errNotArray)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}
