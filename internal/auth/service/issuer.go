package service

import (
	"fmt"

	"github.com/crituk/authcore/internal/auth/domain"
	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/jwtx"
)

// TokenType is reported with every service token.
const TokenType = "Bearer"

// TokenIssuer mints access, refresh and service tokens, each under its own
// secret.
type TokenIssuer struct {
	codec   *jwtx.Codec
	secrets Secrets
	clients *ClientRegistry
}

func NewTokenIssuer(codec *jwtx.Codec, secrets Secrets, clients *ClientRegistry) *TokenIssuer {
	return &TokenIssuer{codec: codec, secrets: secrets, clients: clients}
}

func (i *TokenIssuer) IssueAccessToken(id jwtx.Identity) (string, error) {
	return i.issue(id, jwtx.ClassAccess)
}

func (i *TokenIssuer) IssueRefreshToken(id jwtx.Identity) (string, error) {
	return i.issue(id, jwtx.ClassRefresh)
}

// IssueUserSession mints an access and a refresh token carrying the same
// identity.
func (i *TokenIssuer) IssueUserSession(id jwtx.Identity) (domain.TokenPair, error) {
	access, err := i.IssueAccessToken(id)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := i.IssueRefreshToken(id)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueServiceToken performs the client-credentials grant. A wrong id and a
// wrong secret are indistinguishable to the caller.
func (i *TokenIssuer) IssueServiceToken(clientID, clientSecret string) (domain.ServiceToken, error) {
	if !i.clients.IsValid(clientID, clientSecret) {
		return domain.ServiceToken{}, authsdk.ErrInvalidClientCredentials
	}

	ttl := i.secrets.ttl(jwtx.ClassService)
	token, err := i.codec.EncodeService(clientID, i.secrets.key(jwtx.ClassService), ttl)
	if err != nil {
		return domain.ServiceToken{}, fmt.Errorf("encode service token: %w", err)
	}
	return domain.ServiceToken{AccessToken: token, TokenType: TokenType, ExpiresIn: ttl}, nil
}

func (i *TokenIssuer) issue(id jwtx.Identity, class jwtx.Class) (string, error) {
	token, err := i.codec.EncodeUser(id, class, i.secrets.key(class), i.secrets.ttl(class))
	if err != nil {
		return "", fmt.Errorf("encode %s token: %w", class, err)
	}
	return token, nil
}
