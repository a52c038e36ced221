package smoke

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/rethrow/pkg/status"
)

// Result is the outcome for one user
type Result struct {
	User      User
	SignUpErr error
	// Session is nil when the user was not created or the login failed
	Session  *Session
	LoginErr error
}

// Created reports whether sign-up succeeded
func (r Result) Created() bool {
	return r.SignUpErr == nil
}

// LoggedIn reports whether the login succeeded
func (r Result) LoggedIn() bool {
	return r.Created() && r.LoginErr == nil && r.Session != nil
}

// 📊 Report is the smoke run summary
type Report struct {
	BaseURL string
	Results []Result
}

// Created is "created n/total"
func (r *Report) Created() status.Tally {
	t := status.Tally{Label: "created", Total: len(r.Results)}
	for _, res := range r.Results {
		if res.Created() {
			t.Succeeded++
		}
	}
	return t
}

// LoggedIn counts logins among created users
func (r *Report) LoggedIn() status.Tally {
	t := status.Tally{Label: "logged in"}
	for _, res := range r.Results {
		if !res.Created() {
			continue
		}
		t.Total++
		if res.LoggedIn() {
			t.Succeeded++
		}
	}
	return t
}

// OK reports whether every user was created and logged in
func (r *Report) OK() bool {
	c, l := r.Created(), r.LoggedIn()
	return c.Succeeded == c.Total && l.Succeeded == l.Total
}

// 🚀 Run checks health, then creates every user and logs in with the ones
// that were created. Per-call failures are recorded on the result; only an
// unhealthy backend returns an error.
func Run(ctx context.Context, c *Client, users []User) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	if err := c.Health(ctx); err != nil {
		return nil, errors.Errorf("probing %s: %w", c.BaseURL(), err)
	}
	logger.Info().Str("url", c.BaseURL()).Msg("backend healthy")

	report := &Report{BaseURL: c.BaseURL(), Results: make([]Result, len(users))}
	for i, u := range users {
		report.Results[i].User = u
		if err := c.SignUp(ctx, u); err != nil {
			report.Results[i].SignUpErr = err
			logger.Warn().Err(err).Str("email", u.Email).Msg("sign up failed")
			continue
		}
		logger.Info().Str("email", u.Email).Msg("user created")
	}

	for i := range report.Results {
		res := &report.Results[i]
		if !res.Created() {
			continue
		}
		s, err := c.SignIn(ctx, res.User.Email, res.User.Password)
		if err != nil {
			res.LoginErr = err
			logger.Warn().Err(err).Str("email", res.User.Email).Msg("login failed")
			continue
		}
		res.Session = s
		logger.Info().Str("email", res.User.Email).Str("user_id", s.User.ID).Msg("login succeeded")
	}

	return report, nil
}
