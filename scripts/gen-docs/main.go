package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"volboot/cmd"
)

func main() {
	docsDir := "./docs"
	if len(os.Args) > 1 {
		docsDir = os.Args[1]
	}

	// 既存のdocsディレクトリをクリーン
	if err := os.RemoveAll(docsDir); err != nil {
		log.Fatalf("Failed to clean docs directory: %v", err)
	}
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		log.Fatalf("Failed to create docs directory: %v", err)
	}

	// ルートコマンドはdocs/README.mdとして生成
	if err := genSingleMarkdown(cmd.RootCmd, filepath.Join(docsDir, "README.md")); err != nil {
		log.Fatalf("Failed to generate root documentation: %v", err)
	}

	// トップレベルのコマンドごとに1ファイルへまとめる
	count := 1
	for _, group := range cmd.RootCmd.Commands() {
		if !group.IsAvailableCommand() || group.IsAdditionalHelpTopicCommand() {
			continue
		}

		commands := []*cobra.Command{group}
		for _, child := range group.Commands() {
			if child.IsAvailableCommand() && !child.IsAdditionalHelpTopicCommand() {
				commands = append(commands, child)
			}
		}

		filename := filepath.Join(docsDir, group.Name()+".md")
		if err := genGroupMarkdown(group.Name(), commands, filename); err != nil {
			log.Printf("Failed to generate documentation for %s: %v", group.Name(), err)
			continue
		}
		count++
	}

	fmt.Printf("✅ Documentation generated in %s (%d files)\n", docsDir, count)
}

// withoutInheritedFlags は継承フラグ（-P/-R/-e）を載せないコマンドか判定する
func withoutInheritedFlags(c *cobra.Command) bool {
	for ; c != nil; c = c.Parent() {
		switch c.Name() {
		case "env", "version":
			return true
		}
	}
	return false
}

// linkHandler は volboot_volume_attach → volume#volboot-volume-attach 形式にリンクを変換する
func linkHandler(name string) string {
	base := strings.TrimSuffix(name, ".md")
	if base == cmd.AppName {
		return "README.md"
	}

	parts := strings.Split(base, "_")
	if len(parts) < 2 || parts[0] != cmd.AppName {
		return name
	}
	if len(parts) > 2 {
		return parts[1] + ".md#" + strings.ReplaceAll(base, "_", "-")
	}
	return parts[1] + ".md"
}

// genSingleMarkdown は単一のコマンドのドキュメントを生成
func genSingleMarkdown(c *cobra.Command, filename string) error {
	buf := new(bytes.Buffer)
	if err := doc.GenMarkdownCustom(c, buf, linkHandler); err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(buf.String()), 0644)
}

// genGroupMarkdown はコマンドグループを目次付きの1ファイルにまとめて生成
func genGroupMarkdown(group string, commands []*cobra.Command, filename string) error {
	var content strings.Builder

	fmt.Fprintf(&content, "# %s Commands\n\n", group)
	content.WriteString("## Table of Contents\n\n")
	for _, c := range commands {
		fmt.Fprintf(&content, "- [%s](#%s)\n", c.CommandPath(), anchor(c.CommandPath()))
	}
	content.WriteString("\n---\n\n")

	for _, c := range commands {
		buf := new(bytes.Buffer)
		if err := doc.GenMarkdownCustom(c, buf, linkHandler); err != nil {
			return fmt.Errorf("failed to generate markdown for %s: %w", c.CommandPath(), err)
		}

		section := buf.String()
		if withoutInheritedFlags(c) {
			section = removeInheritedFlagsSection(section)
		}
		content.WriteString(section)
		content.WriteString("\n---\n\n")
	}

	return os.WriteFile(filename, []byte(content.String()), 0644)
}

var nonAnchor = regexp.MustCompile(`[^a-z0-9-]+`)

func anchor(path string) string {
	return nonAnchor.ReplaceAllString(strings.ReplaceAll(strings.ToLower(path), " ", "-"), "")
}

// removeInheritedFlagsSection は継承フラグセクションを削除
func removeInheritedFlagsSection(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	skipping := false

	for _, line := range lines {
		if strings.HasPrefix(line, "### Options inherited from parent commands") {
			skipping = true
			continue
		}
		// 次のセクションに到達したら除外モードを解除
		if skipping && strings.HasPrefix(line, "#") {
			skipping = false
		}
		if !skipping {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
