package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dfrsetup/internal/pkgmgr"
	"dfrsetup/internal/plan"
	"dfrsetup/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show host readiness and installed tiny-dfr artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := ctx.plan()
			out := cmd.OutOrStdout()

			checks := []preflight.Result{
				preflight.CheckPrivilege(),
				preflight.CheckHardware(p),
				checkPackageManager(),
			}
			rows := make([][]string, 0, len(checks))
			for _, res := range checks {
				status := "ok"
				if !res.Passed {
					status = "fail"
				}
				rows = append(rows, []string{res.Name, status, res.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows))

			artifacts := [][]string{
				artifactRow("Daemon binary", p.BinaryPath()),
				artifactRow("Helper script", p.HelperScriptPath()),
				artifactRow("Main unit", unitPath(p, plan.UnitMain)),
				artifactRow("Resume unit", unitPath(p, plan.UnitResume)),
				artifactRow("System config", p.SystemConfigPath()),
				artifactRow("Environment fragment", p.EnvFilePath()),
			}
			fmt.Fprintln(out, renderTable([]string{"Artifact", "Path", "Installed"}, artifacts))
			return nil
		},
	}
}

func checkPackageManager() preflight.Result {
	mgr := pkgmgr.Detect()
	if mgr == pkgmgr.Unsupported {
		return preflight.Result{Name: "Package manager", Detail: pkgmgr.ErrUnsupported.Error()}
	}
	return preflight.Result{Name: "Package manager", Passed: true, Detail: mgr.String()}
}

func artifactRow(name, path string) []string {
	return []string{name, path, yesNo(pathExists(path))}
}

func unitPath(p plan.Plan, unit string) string {
	return filepath.Join(p.UnitDir(), unit)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
