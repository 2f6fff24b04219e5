package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/rs/zerolog/log"
)

const tokenTTL = 24 * time.Hour

// JWTClaims custom claims with user id
type JWTClaims struct {
	User *int64 `json:"user"`
	jwt.StandardClaims
}

// AuthResponse response for authentication
type AuthResponse struct {
	Token string `json:"token"`
}

// authService implements methods for API authentication
type authService struct {
	telegramToken string
	jwtSecret     []byte
	owner         int64
}

// requestUser returns telegram user ID put to context by UserCtx
func requestUser(r *http.Request) int64 {
	userID, _ := r.Context().Value(ctxUserIDKey).(int64)
	return userID
}

func unauthorized(w http.ResponseWriter) {
	writeText(w, http.StatusUnauthorized, "unauthorized")
}

// allowed reports whether user may use the API
func (s *authService) allowed(userID int64) bool {
	return s.owner == 0 || s.owner == userID
}

// createToken creates JWT token
func (s *authService) createToken(userID int64) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		User: &userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(tokenTTL).Unix(),
			NotBefore: now.Unix(),
		},
	})
	tokenStr, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return tokenStr, nil
}

// checkTelegramHash validates login widget data
// docs: https://core.telegram.org/widgets/login#checking-authorization
func (s *authService) checkTelegramHash(query url.Values) bool {
	pairs := make([]string, 0, len(query))
	for key, values := range query {
		if key == "hash" {
			continue
		}
		for _, val := range values {
			pairs = append(pairs, key+"="+val)
		}
	}
	sort.Strings(pairs)
	secretKey := sha256.Sum256([]byte(s.telegramToken))
	h := hmac.New(sha256.New, secretKey[:])
	h.Write([]byte(strings.Join(pairs, "\n")))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(query.Get("hash")))
}

// TelegramRedirectHandler handles authentication after Telegram redirect
func (s *authService) TelegramRedirectHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !s.checkTelegramHash(query) {
		unauthorized(w)
		return
	}
	userID, err := strconv.ParseInt(query.Get("id"), 10, 64)
	if err != nil {
		log.Error().Err(err).Str("userID", query.Get("id")).Msg("failed to parse user id")
		writeText(w, http.StatusBadRequest, "invalid ID")
		return
	}
	if !s.allowed(userID) {
		log.Warn().Int64("user", userID).Msg("login attempt from foreign user")
		writeText(w, http.StatusForbidden, "forbidden")
		return
	}

	token, err := s.createToken(userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to create token")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Token: token})
}

// UserCtx checks authorization token and adds user to context
func (s *authService) UserCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestToken, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || requestToken == "" {
			unauthorized(w)
			return
		}
		token, err := jwt.ParseWithClaims(requestToken, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return s.jwtSecret, nil
		})
		if err != nil {
			unauthorized(w)
			return
		}

		claims := token.Claims.(*JWTClaims)
		if claims.User == nil {
			unauthorized(w)
			return
		}
		now := time.Now().Unix()
		if claims.NotBefore > now || claims.ExpiresAt < now {
			unauthorized(w)
			return
		}
		if !s.allowed(*claims.User) {
			writeText(w, http.StatusForbidden, "forbidden")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserIDKey, *claims.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
