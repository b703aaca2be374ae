// Package main implements wavec, a thin driver that parses a single
// Wave source file and reports its diagnostics. It exists only to
// exercise the front-end's external-collaborator contract end to end
// (read file -> add to VFS -> parse -> emit); it performs no semantic
// analysis or codegen.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/smartoctopus/wave/internal/diag"
	"github.com/smartoctopus/wave/internal/lexer"
	"github.com/smartoctopus/wave/internal/parser"
	"github.com/smartoctopus/wave/internal/printer"
	"github.com/smartoctopus/wave/internal/vfs"
	"github.com/spf13/cobra"
)

func main() {
	var printTree bool

	cmdRoot := &cobra.Command{
		Use:           "wavec <file>",
		Short:         "parse a Wave source file and print its diagnostics",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], printTree)
		},
	}
	cmdRoot.Flags().BoolVar(&printTree, "print", false, "print the parsed declarations as S-expressions")

	if err := cmdRoot.Execute(); err != nil {
		log.Fatalf("wavec: %v", err)
	}
}

func run(path string, printTree bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	fs := vfs.New()
	defer fs.Cleanup()
	fileID := fs.AddFile(path, string(content))

	tree, diags := parser.ParseWithDiagnostics(fileID, string(content))
	diag.Emit(diags, fs)

	if printTree {
		lexed := lexer.Lex(fileID, string(content))
		fmt.Println(printer.New(&tree, &lexed).Print())
	}

	if diag.HasErrors(diags) {
		os.Exit(1)
	}
	return nil
}
