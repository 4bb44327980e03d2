// Package cookiejar adapts a single HTTP exchange into session persistence.
package cookiejar

import (
	"net/http"
	"sort"
	"time"

	"github.com/target/mmk-sso/internal/ports"
)

var _ ports.SessionPersistence = (*Jar)(nil)

// Options control the attributes of written cookies.
type Options struct {
	// Domain scopes cookies; empty means host-only.
	Domain string
	// Path defaults to "/".
	Path string
}

// Jar reads cookies from the request and writes Set-Cookie headers to the response.
// Writes are visible to later reads through the same Jar.
type Jar struct {
	w    http.ResponseWriter
	r    *http.Request
	opts Options

	// pending holds values written during this request; nil marks a deletion.
	pending map[string]*string
}

// New returns a Jar bound to one request/response pair.
func New(w http.ResponseWriter, r *http.Request, opts Options) *Jar {
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &Jar{w: w, r: r, opts: opts, pending: make(map[string]*string)}
}

// Get returns the current value of the named cookie.
func (j *Jar) Get(name string) (string, bool) {
	if v, ok := j.pending[name]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	c, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Names lists the cookies currently visible, sorted.
func (j *Jar) Names() []string {
	seen := make(map[string]struct{})
	for _, c := range j.r.Cookies() {
		seen[c.Name] = struct{}{}
	}
	for name, v := range j.pending {
		if v == nil {
			delete(seen, name)
			continue
		}
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set writes a Secure, HttpOnly, SameSite=Strict cookie.
func (j *Jar) Set(name, value string, maxAge time.Duration) {
	v := value
	j.pending[name] = &v
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     j.opts.Path,
		Domain:   j.opts.Domain,
		MaxAge:   int(maxAge / time.Second),
		Expires:  time.Now().Add(maxAge).UTC(),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// Delete expires the named cookie. It mirrors the attributes used by Set so
// browsers match the original cookie.
func (j *Jar) Delete(name string) {
	j.pending[name] = nil
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     j.opts.Path,
		Domain:   j.opts.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
