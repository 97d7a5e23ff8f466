package transport

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/agentstation/locrecon/pkg/errors"
)

// Quote percent-encodes s for use inside a query string value. Spaces
// become %20 and "/" is left as is, matching the encoding id.loc.gov
// links are built with.
func Quote(s string) string {
	q := url.QueryEscape(s)
	return strings.NewReplacer("+", "%20", "%2F", "/").Replace(q)
}

// DecodeJSON decodes a JSON body into target, wrapping failures as parse errors.
func DecodeJSON(body []byte, target any, source string) error {
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", source, err)
	}
	return nil
}
