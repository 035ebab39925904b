// Package auth covers the opaque credential precondition: nodes that push
// documentation to the remote host need a Kerberos ticket first.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"git.home.luguber.info/inful/toolbuilder/internal/config"
)

// EnsureTicket obtains a Kerberos ticket from the configured keytab. The
// pipeline treats this as a precondition: failure aborts before any stage
// runs, since the documentation transfer would fail later anyway.
func EnsureTicket(ctx context.Context, kerb config.KerberosConfig) error {
	cmd := exec.CommandContext(ctx, "/usr/bin/kinit", kerb.Principal, "-5", "-V", "-k", "-t", kerb.Keytab)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	slog.Info("Obtaining Kerberos ticket", "principal", kerb.Principal)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("kinit for %s: %w", kerb.Principal, err)
	}
	return nil
}
