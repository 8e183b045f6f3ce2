package archive

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"ghvault/internal/archive/interfaces"
	"ghvault/internal/providers"
	"ghvault/internal/structures"
)

// GitManager publishes artifacts through the git CLI. All commands target
// the configured repository via "git -C <dir>". The repository must
// already exist with a configured remote; construction fails immediately
// when it does not, construction is the wrong place to retry from.
type GitManager struct {
	dir     string
	remote  string
	retrier *Retrier
	logger  providers.Logger
}

func NewGitManager(conf *structures.Config, logger providers.Logger) (interfaces.RemoteStoreInterface, error) {
	gm := &GitManager{
		dir:    conf.Git.RepoPath,
		remote: conf.Git.Remote,
		retrier: NewRetrier(
			conf.Git.MaxRetries,
			conf.Git.InitialWait,
			conf.Git.BackoffFactor,
			IsRetriableGit,
			providers.TypeGit,
			logger,
		),
		logger: logger,
	}

	if _, err := gm.run(context.Background(), "rev-parse", "--git-dir"); err != nil {
		return nil, &GitOperationError{Op: "open repository", Err: fmt.Errorf("%s is not a valid git repository: %w", gm.dir, err)}
	}
	return gm, nil
}

// CommitAndPush stages paths, commits with message, and pushes the active
// branch to the configured remote. The whole sequence is retried as a
// unit with bounded backoff. When a retry follows a failed push the
// commit already exists and git reports "nothing to commit"; that commit
// error is treated as success so the retry reaches the push again.
func (gm *GitManager) CommitAndPush(ctx context.Context, message string, paths []string) error {
	return gm.retrier.Do(ctx, "commit and push", func() error {
		for _, path := range paths {
			if _, err := gm.run(ctx, "add", path); err != nil {
				return &GitOperationError{Op: "add " + path, Err: err}
			}
		}

		if _, err := gm.run(ctx, "commit", "-m", message); err != nil {
			if !strings.Contains(err.Error(), "nothing to commit") {
				return &GitOperationError{Op: "commit", Err: err}
			}
		}

		branch, err := gm.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
		if err != nil {
			return &GitOperationError{Op: "resolve branch", Err: err}
		}

		if _, err := gm.run(ctx, "push", gm.remote, branch); err != nil {
			return &GitOperationError{Op: "push", Err: err}
		}

		gm.logger.Infof(providers.TypeGit, "Pushed %q (%d paths) to %s/%s", message, len(paths), gm.remote, branch)
		return nil
	})
}

// run executes one git command, returning trimmed stdout. Stderr is
// captured and folded into the error.
func (gm *GitManager) run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", gm.dir}, args...)
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", fullArgs...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		// git reports some failures on stdout only (e.g. "nothing to
		// commit"), so fold both streams into the error.
		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = strings.TrimSpace(stdout.String())
		}
		return "", fmt.Errorf("git %s in %s: %w (output: %s)",
			strings.Join(args, " "), gm.dir, err, output)
	}
	return strings.TrimSpace(stdout.String()), nil
}
