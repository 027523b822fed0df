package checks

import (
	"context"
	"fmt"

	"github.com/ibis01/Crypto-weaver/internal/pipeline"
)

// Artifacts records side effects checks leave behind so cleanup can remove
// them. The registry is written by the build check and read by the cleanup
// hook; no other check touches it. The pipeline is strictly sequential, so
// no locking is needed.
type Artifacts struct {
	imageTag string
}

// RegisterImage records a built image tag for later removal.
func (a *Artifacts) RegisterImage(tag string) {
	a.imageTag = tag
}

// ImageTag returns the registered image tag, empty when nothing was built.
func (a *Artifacts) ImageTag() string {
	return a.imageTag
}

// Cleanup returns the best-effort hook that removes registered artifacts.
// A run where the build never registered anything is a no-op.
func (a *Artifacts) Cleanup(runner CommandRunner) pipeline.CleanupFunc {
	return func(ctx context.Context) error {
		if a.imageTag == "" {
			return nil
		}

		output, err := runner.Run(ctx, "docker", "rmi", "-f", a.imageTag)
		if err != nil {
			return fmt.Errorf("remove image %s: %w: %s", a.imageTag, err, tail(output, detailLines))
		}
		return nil
	}
}
