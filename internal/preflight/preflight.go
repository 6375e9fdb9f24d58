package preflight

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"dfrsetup/internal/plan"
)

// ErrRootUser is returned when dfrsetup is invoked with elevated privilege.
// The tool escalates individual operations through sudo instead; running the
// whole process as root would leave user-tier files owned by root.
var ErrRootUser = errors.New("refusing to run as root: invoke dfrsetup as the desktop user")

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// supportedModelPrefixes is the hardware allow-list. Only Apple laptops with
// a Touch Bar (T1/T2 Intel generations and Apple Silicon models exposing the
// strip) are known to work.
var supportedModelPrefixes = []string{
	"MacBookPro13,",
	"MacBookPro14,",
	"MacBookPro15,",
	"MacBookPro16,",
	"MacBookPro17,",
	"MacBookPro18,",
	"Mac14,",
}

// CheckPrivilege fails when the effective UID is 0.
func CheckPrivilege() Result {
	if os.Geteuid() == 0 {
		return Result{Name: "Privilege", Detail: ErrRootUser.Error()}
	}
	return Result{Name: "Privilege", Passed: true, Detail: fmt.Sprintf("running as uid %d", os.Geteuid())}
}

// CheckHardware reads the DMI product name and matches it against the
// allow-list. A missing DMI node (VMs, non-x86 hosts without the table) is
// reported as a mismatch, not an error: the operator may still confirm.
func CheckHardware(p plan.Plan) Result {
	const name = "Hardware"

	model, err := ReadModel(p)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("cannot read hardware identity (%v)", err)}
	}
	if ModelSupported(model) {
		return Result{Name: name, Passed: true, Detail: model}
	}
	return Result{Name: name, Detail: fmt.Sprintf("%s is not a known Touch Bar model", model)}
}

// ReadModel returns the trimmed DMI product name.
func ReadModel(p plan.Plan) (string, error) {
	data, err := os.ReadFile(p.DMIProductNamePath())
	if err != nil {
		return "", err
	}
	model := strings.TrimSpace(string(data))
	if model == "" {
		return "", errors.New("empty product name")
	}
	return model, nil
}

// ModelSupported matches model against the allow-list by prefix.
func ModelSupported(model string) bool {
	model = strings.TrimSpace(model)
	for _, prefix := range supportedModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

// Confirmed interprets an interactive answer to the hardware-mismatch
// prompt. Only a single case-insensitive "y" proceeds; empty input or
// anything else aborts.
func Confirmed(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}
