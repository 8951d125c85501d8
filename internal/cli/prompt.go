package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/agbru/matbench/internal/errors"
)

// SizePrompt is printed before reading a matrix size from the user.
const SizePrompt = "Enter the matrix size: "

// PromptSize asks for a matrix size until a line parses as an integer, then
// hands it to check. Unparsable lines are re-asked; a value rejected by
// check is returned as an error. End of input without a number is a
// ConfigError.
func PromptSize(in io.Reader, out io.Writer, check func(int) error) (int, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, SizePrompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, apperrors.IOError{Path: "stdin", Cause: err}
			}
			fmt.Fprintln(out)
			return 0, apperrors.NewConfigError("no matrix size given")
		}
		line := strings.TrimSpace(scanner.Text())
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(out, "%q is not a whole number, try again.\n", line)
			continue
		}
		if err := check(n); err != nil {
			return 0, err
		}
		return n, nil
	}
}
