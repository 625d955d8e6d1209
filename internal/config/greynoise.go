package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type GreyNoise struct {
	// APIKey is sent as the `key` header on every request.
	APIKey *string
	BaseURL string
}

func (g *GreyNoise) setDefaults() {
	g.APIKey = gosettings.DefaultPointer(g.APIKey, "")
	g.BaseURL = gosettings.DefaultComparable(g.BaseURL, "https://api.greynoise.io")
}

var (
	ErrAPIKeyNotSet     = errors.New("API key is not set")
	ErrBaseURLNotValid  = errors.New("base URL is not valid")
	ErrBaseURLBadScheme = errors.New("base URL scheme must be http or https")
)

func (g GreyNoise) Validate() (err error) {
	if *g.APIKey == "" {
		return fmt.Errorf("%w: set GN_API_KEY", ErrAPIKeyNotSet)
	}

	u, err := url.Parse(g.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBaseURLNotValid, g.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %s", ErrBaseURLBadScheme, g.BaseURL)
	}

	return nil
}

func (g GreyNoise) String() string {
	return g.toLinesNode().String()
}

func (g GreyNoise) toLinesNode() *gotree.Node {
	node := gotree.New("GreyNoise API")
	node.Appendf("Base URL: %s", g.BaseURL)
	apiKeyState := "[not set]"
	if *g.APIKey != "" {
		apiKeyState = "[set]"
	}
	node.Appendf("API key: %s", apiKeyState)
	return node
}

func (g *GreyNoise) read(r *reader.Reader) {
	g.APIKey = r.Get("GN_API_KEY", reader.ForceLowercase(false))
	g.BaseURL = strings.TrimSuffix(
		r.String("GN_BASE_URL", reader.ForceLowercase(false)), "/")
}
