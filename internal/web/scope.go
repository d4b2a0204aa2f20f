package web

import (
	"errors"
	"fmt"
	"net/url"
)

// Scope is the origin a worker is registered for. Relative request paths
// resolve against it.
type Scope struct {
	base *url.URL
}

func ParseScope(rawURL string) (Scope, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Scope{}, fmt.Errorf("parse scope: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Scope{}, errors.New("scope must be an http or https URL")
	}
	if u.Host == "" {
		return Scope{}, errors.New("scope must include a host")
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return Scope{base: u}, nil
}

// Resolve returns ref as an absolute URL within the scope's origin.
func (s Scope) Resolve(ref string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return s.base.ResolveReference(r).String(), nil
}

func (s Scope) String() string {
	if s.base == nil {
		return ""
	}
	return s.base.String()
}
