package checks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ibis01/Crypto-weaver/internal/pipeline"
)

// importProbeTemplate is the Python snippet the check feeds to the
// interpreter. Any exception counts as a failed import, not just
// ImportError: a settings module that raises on load means the bot
// cannot start either.
const importProbeTemplate = `import importlib, sys
failed = []
for name in %s:
    try:
        importlib.import_module(name)
    except Exception as exc:
        failed.append(name + ": " + str(exc))
if failed:
    print("\n".join(failed))
    sys.exit(1)
`

// ImportProbe verifies the interpreter can load every module the bot
// needs at startup, project packages included. The runner's working
// directory puts the workspace on the module path.
func ImportProbe(runner CommandRunner, binary string, modules []string) pipeline.Check {
	return pipeline.Check{
		Name:     "imports",
		Summary:  "Core and project modules import cleanly",
		Severity: pipeline.SeverityFatal,
		Action: func(ctx context.Context) (pipeline.Result, error) {
			if len(modules) == 0 {
				return pipeline.Pass("no modules configured"), nil
			}

			probe, err := buildImportProbe(modules)
			if err != nil {
				return pipeline.Result{}, err
			}

			output, err := runner.Run(ctx, binary, "-c", probe)
			if err != nil {
				if exited(err) {
					return pipeline.Fail("module imports failed", tail(output, detailLines)), nil
				}
				return pipeline.Result{}, fmt.Errorf("run import probe: %w", err)
			}

			return pipeline.Pass(fmt.Sprintf("all %d modules importable", len(modules))), nil
		},
	}
}

// buildImportProbe renders the probe for the given module list. A JSON
// array of strings is also a valid Python list literal.
func buildImportProbe(modules []string) (string, error) {
	list, err := json.Marshal(modules)
	if err != nil {
		return "", fmt.Errorf("encode module list: %w", err)
	}
	return fmt.Sprintf(importProbeTemplate, list), nil
}
