package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// OpenFile opens a session file in $EDITOR, jumping to the given 1-based
// line when the editor supports it.
func OpenFile(filePath string, lineNum int) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}
	if lineNum < 1 {
		lineNum = 1
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	return openInEditor(editor, filePath, lineNum)
}

func openInEditor(editor, filePath string, lineNum int) error {
	var cmd *exec.Cmd

	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		cmd = exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		cmd = exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		cmd = exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		cmd = exec.Command(editor, filePath)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
