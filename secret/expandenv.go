package secret

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict expands environment variables in s.
//
// Semantics:
//   - Only the braced form `${VAR}` is expanded; a bare `$` is kept, so
//     header values such as passwords pass through unchanged.
//   - If `${VAR}` is present but VAR is missing from the environment, it errors.
//   - `$${` emits a literal `${` (escape hatch).
func ExpandEnvStrict(s string) (string, error) {
	const sentinel = "\x00HEALTHQUERY_SECRET_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$${", sentinel)

	missing := make(map[string]struct{})
	out := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := envVarPattern.FindStringSubmatch(match)[1]
		v, ok := os.LookupEnv(key)
		if !ok {
			missing[key] = struct{}{}
		}
		return v
	})
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(keys, ", "))
	}

	return strings.ReplaceAll(out, sentinel, "${"), nil
}
