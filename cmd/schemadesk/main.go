package main

import (
	"os"
	"strings"

	"schemadesk/internal/cli"
	"schemadesk/internal/store"
)

func isModelID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, store.PrefixModel+"-") && len(s) > len(store.PrefixModel)+1
}

// Root persistent flags that take a separate value token.
var valueFlags = map[string]bool{
	"--dir":       true,
	"--config":    true,
	"--format":    true,
	"--log-level": true,
}

// rewriteModelShortcut turns `schemadesk [flags] <model-id>` into
// `schemadesk [flags] models show <model-id>`. Cobra would otherwise treat the
// id as an unknown subcommand. Only the first positional token is considered.
func rewriteModelShortcut(argv []string) []string {
	rewrite := func(at, skip int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:at]...)
		out = append(out, "models", "show")
		return append(out, argv[at+skip:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			// Everything after -- is positional; drop the marker so cobra still
			// resolves the subcommand.
			if i+1 < len(argv) && isModelID(argv[i+1]) {
				return rewrite(i, 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case isModelID(a):
			return rewrite(i, 0)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	os.Args = rewriteModelShortcut(os.Args)

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
