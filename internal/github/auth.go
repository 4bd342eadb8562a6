package github

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// MaxJWTDuration is the longest lifetime GitHub accepts for an App JWT
const MaxJWTDuration = 10 * time.Minute

// jwtClockSkew backdates iat so a runner clock slightly ahead of GitHub's is accepted
const jwtClockSkew = 60 * time.Second

// AppCredentials identifies a GitHub App installation
type AppCredentials struct {
	AppID          string
	InstallationID int64
	PrivateKey     []byte
}

// JWTGenerator signs GitHub App JWTs
type JWTGenerator struct {
	appID      string
	privateKey *rsa.PrivateKey
	nowFunc    func() time.Time
}

// NewJWTGenerator creates a JWT generator from an App ID and a PEM encoded private key
func NewJWTGenerator(appID string, privateKeyPEM []byte) (*JWTGenerator, error) {
	if appID == "" {
		return nil, fmt.Errorf("app ID cannot be empty")
	}

	privateKey, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &JWTGenerator{
		appID:      appID,
		privateKey: privateKey,
		nowFunc:    time.Now,
	}, nil
}

// GenerateToken creates a JWT valid for the maximum duration GitHub allows
func (g *JWTGenerator) GenerateToken() (string, error) {
	now := g.nowFunc()

	claims := jwt.RegisteredClaims{
		Issuer:    g.appID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-jwtClockSkew)),
		ExpiresAt: jwt.NewNumericDate(now.Add(MaxJWTDuration - jwtClockSkew)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(g.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// parsePrivateKey parses a PKCS#1 or PKCS#8 PEM encoded RSA key
func parsePrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}

	if block.Type == "RSA PRIVATE KEY" {
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}

	return rsaKey, nil
}

// installationTokenSource mints installation access tokens on demand
type installationTokenSource struct {
	jwt            *JWTGenerator
	installationID int64
	httpClient     *http.Client
	apiURL         string
}

// NewAppTokenSource returns a token source that exchanges App JWTs for installation tokens.
// Wrap it in oauth2.ReuseTokenSource (NewClient does) so tokens are only minted on expiry.
func NewAppTokenSource(creds AppCredentials, apiURL string, httpClient *http.Client) (oauth2.TokenSource, error) {
	if creds.InstallationID <= 0 {
		return nil, fmt.Errorf("installation ID must be positive")
	}

	generator, err := NewJWTGenerator(creds.AppID, creds.PrivateKey)
	if err != nil {
		return nil, err
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &installationTokenSource{
		jwt:            generator,
		installationID: creds.InstallationID,
		httpClient:     httpClient,
		apiURL:         apiURL,
	}, nil
}

// Token implements oauth2.TokenSource
func (s *installationTokenSource) Token() (*oauth2.Token, error) {
	appJWT, err := s.jwt.GenerateToken()
	if err != nil {
		return nil, err
	}

	client := github.NewClient(s.httpClient).WithAuthToken(appJWT)
	if s.apiURL != "" && s.apiURL != DefaultAPIURL {
		client, err = client.WithEnterpriseURLs(s.apiURL, s.apiURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure API URL %s: %w", s.apiURL, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slog.Debug("GitHub API: Creating installation token", "installation_id", s.installationID)
	token, _, err := client.Apps.CreateInstallationToken(ctx, s.installationID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create installation token: %w", err)
	}

	return &oauth2.Token{
		AccessToken: token.GetToken(),
		Expiry:      token.GetExpiresAt().Time,
	}, nil
}
