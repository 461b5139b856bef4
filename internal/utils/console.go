package utils

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// DebugMode controls whether PrintDebug output is visible.
var DebugMode = false

// QuietMode suppresses informational messages (errors/warnings still shown).
var QuietMode = false

// projectPrefix is the standard tag for all console output.
const projectPrefix = "[TSR]"

var (
	red      = color.New(color.FgRed).SprintFunc()
	green    = color.New(color.FgGreen).SprintFunc()
	yellow   = color.New(color.FgYellow).SprintFunc()
	blueBold = color.New(color.FgBlue, color.Bold).SprintFunc()
	magenta  = color.New(color.FgMagenta).SprintFunc()
	cyan     = color.New(color.FgCyan).SprintFunc()
	gray     = color.New(color.FgWhite).SprintFunc()
	bold     = color.New(color.Bold).SprintFunc()
)

// StyleError formats critical failure messages (Red).
func StyleError(msg string) string { return red(msg) }

// StyleSuccess formats success messages (Green).
func StyleSuccess(msg string) string { return green(msg) }

// StyleWarning formats non-critical warnings (Yellow).
func StyleWarning(msg string) string { return yellow(msg) }

// StyleHint formats helpful tips or suggestions (Cyan).
func StyleHint(msg string) string { return cyan(msg) }

// StyleInfo formats status labels or properties (Magenta).
func StyleInfo(msg string) string { return magenta(msg) }

// StyleCommand formats shell commands or flags (Gray/Faint).
func StyleCommand(cmd string) string { return gray(cmd) }

// StyleTitle formats section titles (Bold Cyan).
func StyleTitle(title string) string { return bold(cyan(title)) }

// StyleNumber formats counts, sizes, or IDs (Magenta).
func StyleNumber(num interface{}) string {
	return magenta(fmt.Sprintf("%v", num))
}

// StylePath formats file paths (Bold Blue).
func StylePath(path string) string { return blueBold(path) }

// StyleName formats names, identifiers, or keys (Yellow).
func StyleName(name string) string { return yellow(name) }

// PrintMessage prints standard info: [TSR] message
func PrintMessage(format string, a ...interface{}) {
	if QuietMode {
		return
	}
	fmt.Printf("%s %s\n", projectPrefix, fmt.Sprintf(format, a...))
}

// PrintSuccess prints a green success message.
func PrintSuccess(format string, a ...interface{}) {
	if QuietMode {
		return
	}
	fmt.Printf("%s %s\n", projectPrefix, green(fmt.Sprintf(format, a...)))
}

// PrintNote prints a cyan note: [TSR][NOTE] message
func PrintNote(format string, a ...interface{}) {
	if QuietMode {
		return
	}
	fmt.Printf("%s[%s] %s\n", projectPrefix, cyan("NOTE"), fmt.Sprintf(format, a...))
}

// PrintWarning prints a yellow warning to stderr: [TSR][WARN] message
func PrintWarning(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s[%s] %s\n", projectPrefix, yellow("WARN"), fmt.Sprintf(format, a...))
}

// PrintError prints a red error to stderr: [TSR][ERROR] message
func PrintError(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s[%s] %s\n", projectPrefix, red("ERROR"), fmt.Sprintf(format, a...))
}

// PrintDebug prints gray debug info when DebugMode is enabled.
func PrintDebug(format string, a ...interface{}) {
	if !DebugMode {
		return
	}
	fmt.Printf("%s[%s] %s\n", projectPrefix, gray("DEBUG"), fmt.Sprintf(format, a...))
}
