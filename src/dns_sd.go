package callerid

/*------------------------------------------------------------------
 *
 * Purpose:   	Announce the metrics HTTP service using DNS-SD so
 *		monitoring can find each line interface without anyone
 *		typing in addresses and ports.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/brutella/dnssd"
)

const DNS_SD_SERVICE = "_http._tcp"

/* By default, "callerid on <hostname>", or just "callerid" if hostname
 * cannot be obtained.
 */
func dns_sd_default_service_name() string {
	var hostname, hostnameErr = os.Hostname()
	if hostnameErr != nil {
		return "callerid"
	}

	// on some systems, an FQDN is returned; remove domain part
	hostname, _, _ = strings.Cut(hostname, ".")

	return "callerid on " + hostname
}

// DNSSDAnnounce runs until ctx is cancelled.
func DNSSDAnnounce(ctx context.Context, name string, port int, path string) error {
	if name == "" {
		name = dns_sd_default_service_name()
	}

	var cfg = dnssd.Config{ //nolint:exhaustruct
		Name: name,
		Type: DNS_SD_SERVICE,
		Port: port,
		Text: map[string]string{"path": path},
	}

	var sv, svErr = dnssd.NewService(cfg)
	if svErr != nil {
		return fmt.Errorf("DNS-SD: failed to create service: %w", svErr)
	}

	var rp, rpErr = dnssd.NewResponder()
	if rpErr != nil {
		return fmt.Errorf("DNS-SD: failed to create responder: %w", rpErr)
	}

	if _, addErr := rp.Add(sv); addErr != nil {
		return fmt.Errorf("DNS-SD: failed to add service: %w", addErr)
	}

	text_color_set(DW_COLOR_INFO)
	dw_printf("DNS-SD: Announcing metrics on port %d as '%s'\n", port, name)

	if err := rp.Respond(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("DNS-SD: responder error: %w", err)
	}

	return nil
}
