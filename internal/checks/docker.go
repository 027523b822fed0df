package checks

import (
	"context"
	"fmt"

	"github.com/ibis01/Crypto-weaver/internal/pipeline"
)

// DockerBuild builds the deployment image and registers the tag with
// the artifact registry so cleanup can remove it after the run. The
// tag carries the run ID so concurrent gates on different clones never
// clobber each other's images.
func DockerBuild(runner CommandRunner, reg *Artifacts, image, dockerfile, buildContext, runID string) pipeline.Check {
	return pipeline.Check{
		Name:     "docker-build",
		Summary:  "Deployment image builds from the Dockerfile",
		Severity: pipeline.SeverityFatal,
		Action: func(ctx context.Context) (pipeline.Result, error) {
			tag := fmt.Sprintf("%s:gate-%s", image, shortID(runID))

			args := []string{"build", "-t", tag}
			if dockerfile != "" {
				args = append(args, "-f", dockerfile)
			}
			args = append(args, buildContext)

			output, err := runner.Run(ctx, "docker", args...)
			if err != nil {
				switch {
				case notInstalled(err):
					return pipeline.Fail("docker is not installed", ""), nil
				case exited(err):
					return pipeline.Fail("docker build failed", tail(output, detailLines)), nil
				}
				return pipeline.Result{}, fmt.Errorf("run docker build: %w", err)
			}

			reg.RegisterImage(tag)
			return pipeline.Pass(fmt.Sprintf("image %s builds", tag)), nil
		},
	}
}

// shortID trims a run ID down to a tag-friendly prefix.
func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
