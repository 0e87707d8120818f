// Package sanitize scrubs credential-shaped substrings out of code text before it
// is embedded in an LLM prompt. Redaction is intentionally aggressive: a false
// positive costs a little prompt context, a false negative leaks a secret.
package sanitize

import (
	"regexp"
)

const (
	redacted      = "[REDACTED]"
	redactedToken = "[REDACTED-TOKEN]"
	redactedJWT   = "[REDACTED-JWT]"
	redactedAWS   = "[REDACTED-AWS-KEY]"
)

// rule is a single regexp replacement. The rules are disjoint by construction and
// each one is a fixed point of its own replacement, which makes Sanitize
// idempotent as a whole.
type rule struct {
	re   *regexp.Regexp
	repl string
}

var rules = []rule{
	// PEM / OpenSSH private key blocks: keep the markers, blank the body.
	{
		regexp.MustCompile(`(?s)(-----BEGIN [A-Z ]*PRIVATE KEY-----).*?(-----END [A-Z ]*PRIVATE KEY-----)`),
		"${1}\n" + redacted + "\n${2}",
	},

	// Bearer-token and API-key style HTTP header values.
	{
		regexp.MustCompile(`(?i)((?:authorization|proxy-authorization)\s*:\s*(?:bearer|basic|token)\s+)[A-Za-z0-9\-._~+/]+=*`),
		"${1}" + redacted,
	},
	{
		regexp.MustCompile(`(?i)((?:x-api-key|api-key|apikey)\s*:\s*)[A-Za-z0-9\-._~+/]+=*`),
		"${1}" + redacted,
	},

	// JWT-shaped triplets of base64url segments.
	{
		regexp.MustCompile(`\b[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{5,}\b`),
		redactedJWT,
	},

	// Vendor token prefixes: GitHub, Slack, OpenAI/Anthropic, Stripe.
	{regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{20,}\b`), redactedToken},
	{regexp.MustCompile(`\bgithub_pat_[A-Za-z0-9_]{20,}\b`), redactedToken},
	{regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`), redactedToken},
	{regexp.MustCompile(`\bsk-ant-[A-Za-z0-9_-]{16,}\b`), redactedToken},
	{regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{16,}\b`), redactedToken},
	{regexp.MustCompile(`\b[sr]k_live_[A-Za-z0-9]{16,}\b`), redactedToken},

	// AWS access key IDs.
	{regexp.MustCompile(`\b(?:AKIA|ASIA|ABIA|ACCA)[0-9A-Z]{16}\b`), redactedAWS},

	// key=value / key: value assignments where the key name looks sensitive,
	// JSON/YAML quoted-string form first, bare form second.
	{
		regexp.MustCompile(`(?i)("[\w.-]*(?:secret|token|password|key)[\w.-]*"\s*:\s*")[^"]{6,}(")`),
		"${1}" + redacted + "${2}",
	},
	{
		regexp.MustCompile(`(?i)('[\w.-]*(?:secret|token|password|key)[\w.-]*'\s*:\s*')[^']{6,}(')`),
		"${1}" + redacted + "${2}",
	},
	{
		regexp.MustCompile(`(?i)\b([\w.-]*(?:secret|token|password|key)[\w.-]*\s*[=:]\s*)[^\s"',;]{6,}`),
		"${1}" + redacted,
	},

	// Catch-all: long hex or base64 looking blobs.
	{regexp.MustCompile(`\b[0-9a-fA-F]{30,}\b`), redacted},
	{regexp.MustCompile(`\b[A-Za-z0-9+/]{30,}={0,2}\b`), redacted},
}

// Sanitize replaces credential-shaped substrings in text with fixed redaction
// markers. It never fails and is idempotent: sanitizing already sanitized text
// is a no-op.
func Sanitize(text string) string {
	for _, r := range rules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return text
}
