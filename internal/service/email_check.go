package service

import (
	"context"
	"errors"
	"net"
	"strings"
)

// EmailChecker tells whether an address can receive mail at all.
type EmailChecker interface {
	Exists(ctx context.Context, email string) (bool, error)
}

// MXChecker accepts addresses whose domain publishes an MX record, or an
// address record as the implicit fallback.
type MXChecker struct {
	Resolver *net.Resolver
}

func (c *MXChecker) Exists(ctx context.Context, email string) (bool, error) {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false, nil
	}

	domain := email[at+1:]

	r := c.Resolver
	if r == nil {
		r = net.DefaultResolver
	}

	mx, err := r.LookupMX(ctx, domain)
	if err == nil && len(mx) > 0 {
		return true, nil
	}

	if err != nil && !isNotFound(err) {
		return false, err
	}

	hosts, err := r.LookupHost(ctx, domain)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}

		return false, err
	}

	return len(hosts) > 0, nil
}

func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}

// AllowAllChecker skips the check.
type AllowAllChecker struct{}

func (AllowAllChecker) Exists(context.Context, string) (bool, error) {
	return true, nil
}
