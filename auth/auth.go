// Package auth keeps bearer-token and cookie sessions for dispatched
// requests and exposes a token check as a pipeline middleware, so an
// invalid token flows through the installing tier's recovery chain.
package auth

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/lestrrat/go-jwx/jwk"
	"github.com/pkg/errors"
	"github.com/swishcloud/gostudy/common"
	"github.com/swishcloud/gostudy/keygenerator"

	"github.com/swishcloud/godispatch"
	"golang.org/x/oauth2"
)

var access_token_cookie_name string

var (
	mutex    sync.Mutex
	sessions []session
)

type session struct {
	token  *oauth2.Token
	Claims map[string]interface{}
	Data   map[string]interface{}
}

func Login(ctx *godispatch.Context, token *oauth2.Token, jwk_json_url string) *session {
	mutex.Lock()
	defer mutex.Unlock()
	session := session{}
	session.token = token
	session.Claims = extractIdTokenClaims(token.Extra("id_token").(string), jwk_json_url)
	session.Data = map[string]interface{}{}
	cookie := http.Cookie{Name: access_token_cookie_name, Value: session.token.AccessToken, Path: "/", Expires: time.Now().Add(7 * 24 * time.Hour)}
	sessions = append(sessions, session)
	http.SetCookie(ctx.Writer, &cookie)
	return &session
}

func Logout(ctx *godispatch.Context, postLogout func(id_token string)) {
	expire := time.Now().Add(-7 * 24 * time.Hour)
	newCookie := http.Cookie{
		Name:    access_token_cookie_name,
		Value:   "",
		Expires: expire,
	}
	http.SetCookie(ctx.Writer, &newCookie)
	s, err := GetSessionByToken(ctx)
	if err != nil {
		panic(err)
	}
	postLogout(s.token.Extra("id_token").(string))
}

func HasLoggedIn(ctx *godispatch.Context) bool {
	_, err := GetSessionByToken(ctx)
	return err == nil
}

// Middleware checks the request's token against the introspection
// endpoint and signals the failure into the pipeline, leaving the
// response to the tier's recovery chain.
func Middleware(introspectTokenURL string) godispatch.MiddlewareFunc {
	return func(ctx *godispatch.Context) error {
		if ok, err := CheckToken(ctx, introspectTokenURL); !ok {
			return errors.Wrap(err, "token check failed")
		}
		return nil
	}
}

func CheckToken(ctx *godispatch.Context, introspectTokenURL string) (ok bool, err error) {
	accessToken, err := GetBearerToken(ctx)
	if err != nil {
		session, err := GetSessionByToken(ctx)
		if err != nil {
			return false, err
		}
		accessToken = session.token.AccessToken
	}
	b := common.SendRestApiRequest("GET", accessToken, introspectTokenURL, nil, true)
	m := map[string]interface{}{}
	err = json.Unmarshal(b, &m)
	if err != nil {
		return false, err
	}
	if m["error"] != nil {
		return false, errors.New(m["error"].(string))
	}
	isActive := m["data"].(bool)
	if !isActive {
		return false, errors.New("the token is not valid")
	}
	return true, nil
}

func GetBearerToken(ctx *godispatch.Context) (string, error) {
	authorization := ctx.Request.Header["Authorization"]
	if len(authorization) == 0 {
		return "", errors.New("not found bearer token")
	}
	if match, _ := regexp.MatchString("Bearer .+", authorization[0]); !match {
		return "", errors.New("not found bearer token")
	}
	token := []rune(authorization[0])
	token = token[7:]
	return string(token), nil
}

func GetSessionByToken(ctx *godispatch.Context) (*session, error) {
	cookie, err := ctx.Request.Cookie(access_token_cookie_name)
	if err != nil {
		return nil, err
	}
	mutex.Lock()
	defer mutex.Unlock()
	for i := 0; i < len(sessions); i++ {
		if sessions[i].token.AccessToken == cookie.Value {
			return &sessions[i], nil
		}
	}
	return nil, errors.New("not found session")
}

func init() {
	k, err := keygenerator.NewKey(4, false, false, false, true)
	if err != nil {
		panic(err)
	}
	access_token_cookie_name = "access_token_" + k
}

func extractIdTokenClaims(tokenString string, jwk_json_url string) map[string]interface{} {
	set, err := jwk.Fetch(jwk_json_url)
	if err != nil {
		panic(err)
	}
	k, err := set.Keys[0].Materialize()
	if err != nil {
		panic(err)
	}
	pk := k.(*rsa.PublicKey)
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return pk, nil
	})
	if err != nil {
		panic(err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims
	}
	return nil
}
