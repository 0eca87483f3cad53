package extract

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

// ErrForbiddenAddress is returned when a URL resolves to an address the server must not reach:
// loopback, private, link-local, multicast or unspecified.
var ErrForbiddenAddress = errors.New("url points to a non-public address")

const maxRedirects = 5

// carrier-grade NAT, not covered by net.IP.IsPrivate
var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func publicIP(ip net.IP) bool {
	switch {
	case ip == nil,
		ip.IsLoopback(),
		ip.IsPrivate(),
		ip.IsUnspecified(),
		ip.IsLinkLocalUnicast(),
		ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(),
		ip.IsMulticast(),
		sharedAddressSpace.Contains(ip):
		return false
	}
	return true
}

// dialControl runs after DNS resolution, so it sees the address actually being dialed
func dialControl(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	if !publicIP(net.ParseIP(host)) {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, host)
	}
	return nil
}

// checkHost rejects hosts that are obviously internal before any connection is attempted
func checkHost(hostname string) error {
	hostname = strings.TrimSuffix(strings.ToLower(hostname), ".")
	if hostname == "localhost" || strings.HasSuffix(hostname, ".localhost") {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, hostname)
	}
	if ip := net.ParseIP(hostname); ip != nil && !publicIP(ip) {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, hostname)
	}
	return nil
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return ErrInvalidURL
	}
	return checkHost(req.URL.Hostname())
}

// newPublicClient returns a client that only connects to public addresses, including after
// redirects. Proxies are ignored since they would dial on our behalf.
func newPublicClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   dialControl,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &http.Client{
		Timeout:       timeout,
		Transport:     transport,
		CheckRedirect: checkRedirect,
	}
}
