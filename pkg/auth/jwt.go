package auth

import (
	"net/http"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds the JWT authenticator configuration.
type JWTConfig struct {
	// Secret is the HMAC signing secret used to verify tokens.
	Secret []byte

	// Issuer is the expected iss claim. Empty skips the check.
	Issuer string

	// Audience is the expected aud claim. Empty skips the check.
	Audience string
}

// JWT validates HMAC-signed bearer tokens. The token's sub claim becomes
// the identity subject; a space-separated scope claim becomes the scope
// list.
type JWT struct {
	cfg    JWTConfig
	parser *jwtlib.Parser
}

// NewJWT creates a JWT authenticator.
func NewJWT(cfg JWTConfig) *JWT {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwtlib.WithAudience(cfg.Audience))
	}
	return &JWT{cfg: cfg, parser: jwtlib.NewParser(opts...)}
}

// Authenticate validates the bearer token. Tokens that do not look like
// JWTs (no two dots) yield Abstain so an API key authenticator later in
// the chain can claim them.
func (j *JWT) Authenticate(r *http.Request) Result {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return Result{Decision: Abstain}
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if strings.Count(token, ".") != 2 {
		return Result{Decision: Abstain}
	}

	claims := jwtlib.MapClaims{}
	_, err := j.parser.ParseWithClaims(token, claims, func(t *jwtlib.Token) (any, error) {
		return j.cfg.Secret, nil
	})
	if err != nil {
		return Result{Decision: No, Err: err}
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return Result{Decision: No, Err: ErrUnauthenticated}
	}

	identity := &Identity{Subject: subject}
	if scope, ok := claims["scope"].(string); ok && scope != "" {
		identity.Scopes = strings.Fields(scope)
	}
	return Result{Decision: Yes, Identity: identity}
}
