// Package inputs resolves the ordered list of IP addresses to process.
package inputs

import (
	"bufio"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"unicode"
)

var (
	ErrNoIPs      = errors.New("no IP address to process")
	ErrIPNotValid = errors.New("IP address is not valid")
)

// Resolve produces the deduplicated, first-seen ordered list of IP
// addresses to process. Precedence: command line override, then input
// file, then the environment-configured default list. Every candidate
// must be a valid IPv4 or IPv6 address; anything else fails the run
// before any network call.
func Resolve(override []string, inputFile string,
	envDefault []string) (ips []netip.Addr, err error) {
	var candidates []string
	switch {
	case len(override) > 0:
		candidates = override
	case inputFile != "":
		candidates, err = readIPsFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("reading input file: %w", err)
		}
	default:
		candidates = envDefault
	}

	ips = make([]netip.Addr, 0, len(candidates))
	seen := make(map[netip.Addr]struct{}, len(candidates))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		ip, err := netip.ParseAddr(candidate)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrIPNotValid, candidate)
		}
		_, ok := seen[ip]
		if ok {
			continue
		}
		seen[ip] = struct{}{}
		ips = append(ips, ip)
	}

	if len(ips) == 0 {
		return nil, fmt.Errorf("%w: set the --ips flag, "+
			"the INPUT_FILE path or the TARGET_IPS list", ErrNoIPs)
	}

	return ips, nil
}

// SplitList splits a comma or whitespace separated list of
// IP addresses, as given to the --ips flag.
func SplitList(s string) (parts []string) {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// readIPsFile reads one IP address per line,
// skipping blank lines and # comments.
func readIPsFile(filepath string) (candidates []string, err error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		candidates = append(candidates, line)
	}
	err = scanner.Err()
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	err = file.Close()
	if err != nil {
		return nil, fmt.Errorf("closing file: %w", err)
	}

	return candidates, nil
}
