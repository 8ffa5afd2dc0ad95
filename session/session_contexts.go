package session

import (
	"cocina/bizerror"
	"cocina/domain"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const TokenExpiration = 24 * time.Hour

var TokenCache = cache.New(TokenExpiration, 1*time.Minute)

const KeySecCtx = "SecCtx"
const KeySecToken = "sec_token"

type Identity struct {
	ID      types.ID       `json:"id"`
	Name    string         `json:"name"`
	Account string         `json:"account"`
	Station domain.Station `json:"station"`
}

type Context struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`

	SigningTime time.Time `json:"-"`
}

// Sign mints a token for the chef and caches the resulting context. The
// credential check itself belongs to the identity collaborator, not here.
func Sign(chef *domain.Chef) *Context {
	secCtx := &Context{
		Token: uuid.New().String(),
		Identity: Identity{
			ID: chef.ID, Name: chef.Name, Account: chef.Account, Station: chef.Station,
		},
		SigningTime: time.Now(),
	}
	TokenCache.Set(secCtx.Token, secCtx, TokenExpiration)
	return secCtx
}

func FindSecurityContext(ctx *gin.Context) *Context {
	value, found := ctx.Get(KeySecCtx)
	if !found {
		return nil
	}
	secCtx, ok := value.(*Context)
	if !ok || secCtx.Token == "" {
		return nil
	}
	return secCtx
}

func SaveSecurityContext(ctx *gin.Context, secCtx *Context) {
	if secCtx != nil && secCtx.Token != "" {
		ctx.Set(KeySecCtx, secCtx)
	}
}

func SimpleAuthFilter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(KeySecToken)
		if err != nil {
			panic(bizerror.ErrUnauthenticated)
		}
		securityContextValue, found := TokenCache.Get(token)
		if !found {
			panic(bizerror.ErrUnauthenticated)
		}
		secCtx, ok := securityContextValue.(*Context)
		if !ok {
			panic(bizerror.ErrUnauthenticated)
		}
		SaveSecurityContext(ctx, secCtx)
		ctx.Next()
	}
}
