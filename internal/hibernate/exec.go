package hibernate

import (
	"os/exec"
)

// commandContext is a seam for tests; production always execs powercfg.
var commandContext = exec.CommandContext
