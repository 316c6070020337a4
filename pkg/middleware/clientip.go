package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/shashiranjanraj/eatn/config"
)

// ClientIP returns the address a request came from. X-Forwarded-For is read
// only when the direct peer is one of TRUSTED_PROXIES, and then the
// rightmost hop that is not itself a trusted proxy wins.
func ClientIP(r *http.Request) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}

	proxies := trustedProxies()
	if !trusted(proxies, peer) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	client := peer
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		client = hop
		if !trusted(proxies, hop) {
			break
		}
	}
	return client
}

// trustedProxies parses TRUSTED_PROXIES. Entries are CIDR ranges or single
// addresses; malformed entries are skipped.
func trustedProxies() []netip.Prefix {
	var out []netip.Prefix
	for _, s := range config.TrustedProxies() {
		if p, err := netip.ParsePrefix(s); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(s); err == nil {
			a = a.Unmap()
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return out
}

func trusted(proxies []netip.Prefix, ip string) bool {
	if len(proxies) == 0 {
		return false
	}
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range proxies {
		if p.Contains(a) {
			return true
		}
	}
	return false
}
