// Package auth provides registration, credential checks and bearer-token
// authentication for the API.
//
// Clients obtain a pair of JWTs (HS256) from the token endpoint: a short
// lived access token sent as "Authorization: Bearer <token>" and a longer
// lived refresh token that can only be exchanged for a new access token.
//
// # Configuration
//
//	AUTH_JWT_SECRET=<hex>          # Auto-generated if empty
//	AUTH_ACCESS_TOKEN_TTL=15m      # Access token lifetime
//	AUTH_REFRESH_TOKEN_TTL=24h     # Refresh token lifetime
//	AUTH_BCRYPT_COST=12            # bcrypt cost factor
//
// # Usage
//
//	tokens := auth.NewTokenService(secret, cfg.Auth)
//	router.Use(auth.NewMiddleware(tokens).Handler())
//
// Extract user in handlers:
//
//	userID := auth.GetUserID(c)
package auth
