// Package google talks to Google's OAuth2 endpoints: it builds the consent URL,
// exchanges authorization codes and verifies the returned identity tokens.
package google

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/apperr"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

const tracerName = "github.com/Denis-Pavliha-s-p/strapi-google-auth/google"

var errMissingIDToken = errors.New("token response has no id_token")

// Client is safe for concurrent use. The zero value talks to the real Google endpoints.
type Client struct {
	// HTTPClient is used for the token exchange. Defaults to a client with a 10s timeout.
	HTTPClient *http.Client
	// Endpoint overrides Google's auth and token URLs, mostly for tests.
	Endpoint *oauth2.Endpoint
	Verifier *Verifier
	Tracer   trace.Tracer

	once sync.Once
}

func (c *Client) endpoint() oauth2.Endpoint {
	if c.Endpoint != nil {
		return *c.Endpoint
	}
	return googleoauth.Endpoint
}

func (c *Client) tracer() trace.Tracer {
	if c.Tracer != nil {
		return c.Tracer
	}
	return otel.Tracer(tracerName)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *Client) config(creds auth_fields.GoogleCredential, scopes []string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURL,
		Scopes:       scopes,
		Endpoint:     c.endpoint(),
	}
}

// AuthCodeURL builds the consent URL. It always asks for offline access and forces the consent prompt.
func (c *Client) AuthCodeURL(creds auth_fields.GoogleCredential, scopes []string) string {
	return c.config(creds, scopes).AuthCodeURL("", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades code for tokens and returns the raw identity token.
// Provider failures come back as apperr.ErrTokenExchange with Google's message kept.
func (c *Client) Exchange(ctx context.Context, creds auth_fields.GoogleCredential, code string) (string, error) {
	ctx, span := c.tracer().Start(ctx, "google.exchange")
	defer span.End()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient())
	token, err := c.config(creds, nil).Exchange(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "exchange failed")
		return "", apperr.Wrap(err, apperr.ErrTokenExchange, exchangeMessage(err))
	}
	raw, _ := token.Extra("id_token").(string)
	if raw == "" {
		span.SetStatus(codes.Error, "no id_token")
		return "", apperr.Wrap(errMissingIDToken, apperr.ErrTokenExchange, "No identity token in provider response")
	}
	span.SetAttributes(attribute.Bool("google.id_token", true))
	return raw, nil
}

// VerifyIDToken checks signature, issuer, expiry and that the audience is exactly audience.
func (c *Client) VerifyIDToken(ctx context.Context, raw, audience string) (*auth_fields.Identity, error) {
	c.once.Do(func() {
		if c.Verifier == nil {
			c.Verifier = NewRemoteVerifier(context.Background())
		}
	})
	return c.Verifier.Verify(ctx, raw, audience)
}

func exchangeMessage(err error) string {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.ErrorDescription != "" {
			return re.ErrorDescription
		}
		if re.ErrorCode != "" {
			return re.ErrorCode
		}
	}
	return err.Error()
}
