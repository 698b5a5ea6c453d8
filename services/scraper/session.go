package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookitnow-backend/lib/browser"

	"github.com/pquerna/otp/totp"
	"go.opentelemetry.io/otel/codes"
)

const selectorTimeout = time.Second * 30

// Credentials is everything needed to establish an authenticated
// session, including the shared secret for the optional TOTP
// challenge.
type Credentials struct {
	LoginURL   string `json:"login_url"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	TotpSecret string `json:"totp_secret"`
}

// Login drives the login form through to the post-login landing page,
// handling the TOTP challenge when the site presents one. On success
// the session is sitting on the calendar page with the front desk link
// visible. Checkpoint screenshots are diagnostic and never fail the
// login.
//
// A non-empty codeOverride is entered verbatim instead of a generated
// TOTP code; manual triggers use this when the shared secret has
// rotated.
func Login(ctx context.Context, session *browser.Session, creds Credentials, codeOverride string) error {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	err := session.Navigate(creds.LoginURL, selectorTimeout)
	if err != nil {
		span.SetStatus(codes.Error, "failed to load login page")
		return fmt.Errorf("%w: loading login page: %v", ErrLoginFailed, err)
	}
	err = session.WaitVisible(selLoginSubmit, selectorTimeout)
	if err != nil {
		span.SetStatus(codes.Error, "submit not found")
		return fmt.Errorf("%w: submit button not found: %v", ErrLoginFailed, err)
	}

	err = session.Type(selLoginUsername, creds.Username)
	if err != nil {
		return fmt.Errorf("%w: filling username: %v", ErrLoginFailed, err)
	}
	err = session.Type(selLoginPassword, creds.Password)
	if err != nil {
		return fmt.Errorf("%w: filling password: %v", ErrLoginFailed, err)
	}
	session.Screenshot("login")

	err = session.ClickNavigate(selLoginSubmit, selOtpOrFrontDesk, selectorTimeout)
	if err != nil {
		span.SetStatus(codes.Error, "post-submit marker not found")
		return fmt.Errorf("%w: neither OTP field nor front desk link appeared: %v", ErrLoginFailed, err)
	}

	otpRequired, err := session.Exists(selOtpCode)
	if err != nil {
		return fmt.Errorf("%w: checking for OTP field: %v", ErrLoginFailed, err)
	}
	if otpRequired {
		err = submitOtp(ctx, session, creds.TotpSecret, codeOverride)
		if err != nil {
			return err
		}
	}

	session.Screenshot("calendar")
	return nil
}

func submitOtp(ctx context.Context, session *browser.Session, secret, codeOverride string) error {
	ctx, span := tracer.Start(ctx, "submitOtp")
	defer span.End()

	code := codeOverride
	if code == "" {
		var err error
		code, err = totp.GenerateCode(secret, time.Now())
		if err != nil {
			span.SetStatus(codes.Error, "totp generation failed")
			return fmt.Errorf("%w: generating TOTP code: %v", ErrLoginFailed, err)
		}
		slog.InfoContext(ctx, "OTP was required, generated a code")
	} else {
		slog.InfoContext(ctx, "OTP was required, using manually supplied code")
	}

	err := session.Type(selOtpCode, code)
	if err != nil {
		return fmt.Errorf("%w: filling OTP code: %v", ErrLoginFailed, err)
	}

	// have the site remember this browser so most runs skip the
	// challenge entirely; the checkbox is not always rendered, and
	// clicking a selector the view doesn't have would burn the whole
	// action timeout
	present, err := session.Exists(selRememberBrowser)
	if err != nil {
		return fmt.Errorf("%w: checking for remember-browser: %v", ErrLoginFailed, err)
	}
	if present {
		remembered, err := session.IsChecked(selRememberBrowser)
		if err != nil {
			return fmt.Errorf("%w: checking remember-browser state: %v", ErrLoginFailed, err)
		}
		if !remembered {
			err = session.Click(selRememberBrowser)
			if err != nil {
				return fmt.Errorf("%w: toggling remember-browser: %v", ErrLoginFailed, err)
			}
		}
	}
	session.Screenshot("otp")

	err = session.ClickNavigate(selLoginSubmit, selFrontDeskLink, selectorTimeout)
	if err != nil {
		span.SetStatus(codes.Error, "otp marker not found")
		return fmt.Errorf("%w: front desk link did not appear after OTP: %v", ErrLoginFailed, err)
	}
	return nil
}
