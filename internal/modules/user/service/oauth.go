package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Justin66666/teachersLoungeBE/internal/modules/user/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/linkedin"
)

const (
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	linkedInUserInfoURL = "https://api.linkedin.com/v2/userinfo"
)

// OAuthOptions configures an authorization-code exchange with one provider.
type OAuthOptions struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoint     oauth2.Endpoint
	UserInfoURL  string
}

func GoogleOptions(clientID, clientSecret, redirectURL string) OAuthOptions {
	return OAuthOptions{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		UserInfoURL:  googleUserInfoURL,
	}
}

func LinkedInOptions(clientID, clientSecret, redirectURL string) OAuthOptions {
	return OAuthOptions{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     linkedin.Endpoint,
		UserInfoURL:  linkedInUserInfoURL,
	}
}

// GoogleAuth exchanges a web or native authorization code. Native clients use
// PKCE and send code_verifier; web clients rely on the configured client secret.
func (s *authService) GoogleAuth(ctx context.Context, input dto.GoogleAuthInput) (*dto.AuthResponse, error) {
	conf := &oauth2.Config{
		ClientID:     s.google.ClientID,
		ClientSecret: s.google.ClientSecret,
		RedirectURL:  s.google.RedirectURL,
		Endpoint:     s.google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
	if input.ClientID != "" {
		conf.ClientID = input.ClientID
	}
	if input.RedirectURI != "" {
		conf.RedirectURL = input.RedirectURI
	}

	var opts []oauth2.AuthCodeOption
	if input.CodeVerifier != "" {
		conf.ClientSecret = ""
		opts = append(opts, oauth2.VerifierOption(input.CodeVerifier))
	} else if conf.ClientSecret == "" {
		return nil, apperror.New(http.StatusInternalServerError, "Google client secret is not configured", nil)
	}

	tok, err := conf.Exchange(ctx, input.Code, opts...)
	if err != nil {
		return nil, apperror.New(http.StatusBadRequest, "Failed to exchange authorization code", err)
	}

	var info struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := fetchUserInfo(ctx, conf.Client(ctx, tok), s.google.UserInfoURL, &info); err != nil {
		return nil, apperror.Upstream("Failed to fetch Google profile", err)
	}
	if info.Email == "" {
		return nil, apperror.BadRequest("Google account has no email address")
	}

	return s.loginOrCreate(ctx, socialProfile{
		Provider:   ProviderGoogle,
		ProviderID: info.ID,
		Email:      info.Email,
		FirstName:  info.GivenName,
		LastName:   info.FamilyName,
		Verified:   true,
	})
}

func (s *authService) LinkedInAuth(ctx context.Context, input dto.LinkedInAuthInput) (*dto.AuthResponse, error) {
	if s.linkedIn.ClientSecret == "" {
		return nil, apperror.New(http.StatusInternalServerError, "LinkedIn client secret is not configured", nil)
	}

	conf := &oauth2.Config{
		ClientID:     s.linkedIn.ClientID,
		ClientSecret: s.linkedIn.ClientSecret,
		RedirectURL:  s.linkedIn.RedirectURL,
		Endpoint:     s.linkedIn.Endpoint,
		Scopes:       []string{"openid", "profile", "email"},
	}
	if input.RedirectURI != "" {
		conf.RedirectURL = input.RedirectURI
	}

	tok, err := conf.Exchange(ctx, input.Code)
	if err != nil {
		return nil, apperror.New(http.StatusBadRequest, "Failed to exchange authorization code", err)
	}

	var info struct {
		Sub        string `json:"sub"`
		Email      string `json:"email"`
		Name       string `json:"name"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := fetchUserInfo(ctx, conf.Client(ctx, tok), s.linkedIn.UserInfoURL, &info); err != nil {
		return nil, apperror.Upstream("Failed to fetch LinkedIn profile", err)
	}
	if info.Email == "" {
		return nil, apperror.BadRequest("LinkedIn account has no email address")
	}

	first := info.GivenName
	if first == "" {
		first = info.Name
	}
	return s.loginOrCreate(ctx, socialProfile{
		Provider:   ProviderLinkedIn,
		ProviderID: info.Sub,
		Email:      info.Email,
		FirstName:  first,
		LastName:   info.FamilyName,
		Verified:   true,
	})
}

func fetchUserInfo(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("userinfo returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
