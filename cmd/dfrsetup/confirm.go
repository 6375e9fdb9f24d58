package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dfrsetup/internal/preflight"
)

// promptConfirm asks the operator to acknowledge a hardware mismatch. Only a
// single "y" proceeds; empty input or anything else declines.
func promptConfirm(cmd *cobra.Command, detail string) (bool, error) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", detail)
	fmt.Fprint(out, "Continue anyway? [y/N]: ")

	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	return preflight.Confirmed(answer), nil
}
