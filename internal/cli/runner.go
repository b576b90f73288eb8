package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner は外部コマンドを実行するインターフェース
type Runner interface {
	// Run はコマンドを実行し、標準出力を返す
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner はos/execでコマンドを実行するRunner
type ExecRunner struct{}

// NewExecRunner はExecRunnerを作成
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run はコマンドを実行する共通関数
// 失敗時は標準エラー出力をエラーメッセージに含める
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), &CommandError{
			Command: strings.Join(append([]string{name}, args...), " "),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return stdout.Bytes(), nil
}

// CommandError はコマンド実行の失敗を表す
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Command, e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCoder は終了コードを持つエラー
type ExitCoder interface {
	ExitCode() int
}

// ExitCode はエラーからコマンドの終了コードを取り出す
// 終了コードを持たないエラーの場合は-1を返す
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
