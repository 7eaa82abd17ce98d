package httpcontext

import (
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskboard/usecase"
)

// CookieStore keeps caller preferences in response cookies. Values written
// during a request are visible to later reads of the same request.
type CookieStore struct {
	ctx     *fasthttp.RequestCtx
	written map[string]string
}

var _ usecase.PreferenceStore = (*CookieStore)(nil)

// NewCookieStore binds a preference store to the request.
func NewCookieStore(ctx *fasthttp.RequestCtx) *CookieStore {
	return &CookieStore{ctx: ctx, written: map[string]string{}}
}

func (s *CookieStore) Get(key string) (string, bool) {
	if v, ok := s.written[key]; ok {
		return v, v != ""
	}
	v := string(s.ctx.Request.Header.Cookie(key))
	return v, v != ""
}

func (s *CookieStore) Set(key, value string, opts usecase.PreferenceOptions) {
	s.written[key] = value

	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)

	c.SetKey(key)
	c.SetValue(value)
	if opts.Path != "" {
		c.SetPath(opts.Path)
	}
	c.SetHTTPOnly(opts.HTTPOnly)
	c.SetSecure(opts.Secure)
	if opts.MaxAge > 0 {
		c.SetMaxAge(int(opts.MaxAge.Seconds()))
	}
	c.SetSameSite(sameSite(opts.SameSite))
	s.ctx.Response.Header.SetCookie(c)
}

// ClearCookie expires a cookie on the client.
func ClearCookie(ctx *fasthttp.RequestCtx, name string) {
	ctx.Response.Header.DelClientCookie(name)
}

func sameSite(mode string) fasthttp.CookieSameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return fasthttp.CookieSameSiteStrictMode
	case "none":
		return fasthttp.CookieSameSiteNoneMode
	default:
		return fasthttp.CookieSameSiteLaxMode
	}
}
