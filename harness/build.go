package harness

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// TargetName is the CMake target and file name of the benchmark executable.
const TargetName = "benchmark"

// ResolveBinary returns the expected path of the benchmark executable in
// a CMake build directory.
func ResolveBinary(buildDir string) string {
	return filepath.Join(buildDir, TargetName)
}

// Build compiles the benchmark executable in an already configured CMake
// build directory and returns its path. Build output goes to stderr so it
// never mixes with the report.
func Build(
	ctx context.Context,
	logger *slog.Logger,
	buildDir string,
) (string, error) {
	binPath := ResolveBinary(buildDir)

	logger.InfoContext(ctx, "building benchmark",
		slog.String("build_dir", buildDir),
	)

	if _, err := os.Stat(filepath.Join(buildDir, "CMakeCache.txt")); err != nil {
		return "", fmt.Errorf("build dir %s is not configured: %w", buildDir, err)
	}

	cmd := exec.CommandContext(
		ctx, "cmake", "--build", buildDir, "--target", TargetName,
	)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("build %s: %w", TargetName, err)
	}

	if _, err := os.Stat(binPath); err != nil {
		return "", fmt.Errorf(
			"build %s: binary not found at %s", TargetName, binPath,
		)
	}

	logger.InfoContext(ctx, "benchmark built",
		slog.String("binary", binPath),
	)

	return binPath, nil
}
