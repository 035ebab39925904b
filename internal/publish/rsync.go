package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"git.home.luguber.info/inful/toolbuilder/internal/logfields"
)

// RsyncPublisher transfers directory trees over rsync/ssh. Host key checks
// are disabled because CI nodes are reimaged and the destination host is
// pinned by configuration.
type RsyncPublisher struct {
	// SSHCommand overrides the remote shell (rsync -e). Defaults to a
	// Kerberos-forwarding ssh without host key verification.
	SSHCommand string
}

const defaultSSHCommand = `ssh -K -o StrictHostKeyChecking=no -o UserKnownHostsFile=/dev/null`

// Publish copies localPath to the remote descriptor (host:path).
func (p RsyncPublisher) Publish(ctx context.Context, localPath, remote string) error {
	sshCmd := p.SSHCommand
	if sshCmd == "" {
		sshCmd = defaultSSHCommand
	}
	cmd := exec.CommandContext(ctx, "rsync", "-avz", "-e", sshCmd, localPath, remote)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	slog.Info("Publishing via rsync", logfields.Path(localPath), slog.String("remote", remote))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("rsync %s to %s: %w", localPath, remote, err)
	}
	return nil
}
