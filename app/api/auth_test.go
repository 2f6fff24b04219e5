package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwnerID = 7

// loginParams returns login widget fields for user
func loginParams(id string) map[string]string {
	return map[string]string{
		"id":         id,
		"first_name": "Hanako",
		"username":   "hanako_jp",
		"photo_url":  "https://t.me/i/userpic/320/hanako.jpg",
		"auth_date":  "1700000000",
	}
}

// signLogin signs login fields the way telegram does:
// HMAC-SHA256 of sorted "key=value" lines keyed by sha256 of bot token
func signLogin(token string, params map[string]string) url.Values {
	lines := make([]string, 0, len(params))
	query := url.Values{}
	for k, v := range params {
		lines = append(lines, k+"="+v)
		query.Set(k, v)
	}
	sort.Strings(lines)
	secret := sha256.Sum256([]byte(token))
	h := hmac.New(sha256.New, secret[:])
	h.Write([]byte(strings.Join(lines, "\n")))
	query.Set("hash", hex.EncodeToString(h.Sum(nil)))
	return query
}

func TestCheckTelegramHash(t *testing.T) {
	s := &authService{telegramToken: testTGToken, jwtSecret: []byte(testJWTSecret)}

	t.Run("known vector", func(t *testing.T) {
		query := url.Values{
			"id":         {"1"},
			"first_name": {"John"},
			"username":   {"jDoe"},
			"photo_url":  {"http://test.com/image.png"},
			"auth_date":  {"1653049612"},
			"hash":       {"c2fe93ce56c9134877d29222dc40797a981db7603f7ead30967940bf0b97da02"},
		}
		assert.True(t, s.checkTelegramHash(query))
	})
	t.Run("signed", func(t *testing.T) {
		assert.True(t, s.checkTelegramHash(signLogin(testTGToken, loginParams("1"))))
	})
	t.Run("other bot token", func(t *testing.T) {
		assert.False(t, s.checkTelegramHash(signLogin(testTGToken+"0", loginParams("1"))))
	})
	t.Run("tampered field", func(t *testing.T) {
		query := signLogin(testTGToken, loginParams("1"))
		query.Set("id", "7")
		assert.False(t, s.checkTelegramHash(query))
	})
	t.Run("added field", func(t *testing.T) {
		query := signLogin(testTGToken, loginParams("1"))
		query.Set("last_name", "Yamada")
		assert.False(t, s.checkTelegramHash(query))
	})
	t.Run("without hash", func(t *testing.T) {
		query := signLogin(testTGToken, loginParams("1"))
		query.Del("hash")
		assert.False(t, s.checkTelegramHash(query))
	})
}

func TestTelegramRedirectHandler(t *testing.T) {
	tbl := []struct {
		name   string
		owner  int64
		query  url.Values
		status int
		body   string
		user   int64
	}{
		{name: "any user", query: signLogin(testTGToken, loginParams("1")), status: http.StatusOK, user: 1},
		{name: "owner", owner: testOwnerID, query: signLogin(testTGToken, loginParams("7")), status: http.StatusOK, user: testOwnerID},
		{name: "foreign user", owner: testOwnerID, query: signLogin(testTGToken, loginParams("1")), status: http.StatusForbidden, body: "forbidden"},
		{name: "forged hash", query: signLogin("000:forged", loginParams("1")), status: http.StatusUnauthorized, body: "unauthorized"},
		{name: "signed non numeric id", query: signLogin(testTGToken, loginParams("hanako")), status: http.StatusBadRequest, body: "invalid ID"},
		{name: "empty query", query: url.Values{}, status: http.StatusUnauthorized, body: "unauthorized"},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			s := &authService{telegramToken: testTGToken, jwtSecret: []byte(testJWTSecret), owner: tt.owner}
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/telegram?"+tt.query.Encode(), nil)
			recorder := httptest.NewRecorder()
			s.TelegramRedirectHandler(recorder, req)
			r := recorder.Result()
			require.Equal(t, tt.status, r.StatusCode)
			if tt.status != http.StatusOK {
				assert.Equal(t, tt.body, recorder.Body.String())
				return
			}

			var res AuthResponse
			require.NoError(t, json.NewDecoder(r.Body).Decode(&res))
			token, err := jwt.ParseWithClaims(res.Token, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(testJWTSecret), nil
			})
			require.NoError(t, err)
			claims := token.Claims.(*JWTClaims)
			require.NotNil(t, claims.User)
			assert.Equal(t, tt.user, *claims.User)
			assert.InDelta(t, time.Now().Add(tokenTTL).Unix(), claims.ExpiresAt, 5)
		})
	}
}

func TestLoginThroughRouter(t *testing.T) {
	ts, cancel := getTestServer(nil, nil)
	defer cancel()

	r, err := http.Get(ts.URL + "/api/v1/auth/telegram?" + signLogin(testTGToken, loginParams("1")).Encode())
	require.NoError(t, err)
	defer r.Body.Close()
	require.Equal(t, http.StatusOK, r.StatusCode)
	var res AuthResponse
	require.NoError(t, json.NewDecoder(r.Body).Decode(&res))

	req, err := http.NewRequest(http.MethodGet, ts.URL+collectionsPath, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	r2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer r2.Body.Close()
	assert.Equal(t, http.StatusOK, r2.StatusCode)
}

// signClaims signs arbitrary claims with secret
func signClaims(t *testing.T, secret string, claims jwt.Claims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestUserCtxMiddleware(t *testing.T) {
	type userAsText struct {
		User string `json:"user"`
		jwt.StandardClaims
	}
	owner := int64(testOwnerID)
	stranger := int64(1)
	now := time.Now().UTC()
	valid := jwt.StandardClaims{ExpiresAt: now.Add(time.Hour).Unix(), NotBefore: now.Unix()}

	tbl := []struct {
		name   string
		header string
		status int
	}{
		{name: "owner", header: "Bearer " + signClaims(t, testJWTSecret, JWTClaims{User: &owner, StandardClaims: valid}), status: http.StatusOK},
		{name: "foreign user", header: "Bearer " + signClaims(t, testJWTSecret, JWTClaims{User: &stranger, StandardClaims: valid}), status: http.StatusForbidden},
		{name: "without header", header: "", status: http.StatusUnauthorized},
		{name: "bearer only", header: "Bearer ", status: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer collections", status: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic " + signClaims(t, testJWTSecret, JWTClaims{User: &owner, StandardClaims: valid}), status: http.StatusUnauthorized},
		{name: "other secret", header: "Bearer " + signClaims(t, testJWTSecret+"x", JWTClaims{User: &owner, StandardClaims: valid}), status: http.StatusUnauthorized},
		{name: "without user", header: "Bearer " + signClaims(t, testJWTSecret, JWTClaims{StandardClaims: valid}), status: http.StatusUnauthorized},
		{name: "user as text", header: "Bearer " + signClaims(t, testJWTSecret, userAsText{User: "7", StandardClaims: valid}), status: http.StatusUnauthorized},
		{
			name: "expired",
			header: "Bearer " + signClaims(t, testJWTSecret, JWTClaims{User: &owner, StandardClaims: jwt.StandardClaims{
				ExpiresAt: now.Add(-time.Minute).Unix(), NotBefore: now.Add(-tokenTTL).Unix(),
			}}),
			status: http.StatusUnauthorized,
		},
		{
			name: "not yet valid",
			header: "Bearer " + signClaims(t, testJWTSecret, JWTClaims{User: &owner, StandardClaims: jwt.StandardClaims{
				ExpiresAt: now.Add(tokenTTL).Unix(), NotBefore: now.Add(time.Hour).Unix(),
			}}),
			status: http.StatusUnauthorized,
		},
	}
	s := &authService{telegramToken: testTGToken, jwtSecret: []byte(testJWTSecret), owner: testOwnerID}
	handler := s.UserCtx(&emptyHandler{})
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete} {
				req := httptest.NewRequest(method, collectionsPath, nil)
				if tt.header != "" {
					req.Header.Set("Authorization", tt.header)
				}
				recorder := httptest.NewRecorder()
				handler.ServeHTTP(recorder, req)
				assert.Equal(t, tt.status, recorder.Code, method)
			}
		})
	}
}

func TestRequestUser(t *testing.T) {
	s := &authService{telegramToken: testTGToken, jwtSecret: []byte(testJWTSecret)}
	var user int64
	handler := s.UserCtx(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user = requestUser(r)
	}))
	token, err := s.createToken(testOwnerID)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, collectionsPath, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, int64(testOwnerID), user)

	assert.Zero(t, requestUser(httptest.NewRequest(http.MethodGet, collectionsPath, nil)))
}
