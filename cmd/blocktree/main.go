// Package main provides an offline CLI for block documents: validation,
// rendering, orphan collection and subtree extraction.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Notifuse/emailbuilder/config"
	"github.com/Notifuse/emailbuilder/pkg/blocktree"
	"github.com/Notifuse/emailbuilder/pkg/render"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "blocktree",
		Short:         "Inspect and render email block documents",
		Version:       config.VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newGCCommand())
	rootCmd.AddCommand(newExtractCommand())

	return rootCmd
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a document against the tree invariants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := readDocument(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d blocks, root %q)\n", args[0], len(tree), blocktree.ResolveRootID(tree))
			return nil
		},
	}
}

func newRenderCommand() *cobra.Command {
	var (
		rootID   string
		showMJML bool
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a document to HTML",
		Example: `  # Render the whole email
  blocktree render welcome.json

  # Print the intermediate MJML of one container
  blocktree render welcome.json --root block-footer --mjml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if rootID == "" {
				rootID = blocktree.ResolveRootID(tree)
			}

			var out string
			if showMJML {
				out, err = render.ToMJML(tree, rootID)
			} else {
				out, err = render.ToHTML(cmd.Context(), tree, rootID)
			}
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", args[0], err)
			}

			_, err = io.WriteString(cmd.OutOrStdout(), strings.TrimRight(out, "\n")+"\n")
			return err
		},
	}

	cmd.Flags().StringVar(&rootID, "root", "", "Block to render from (default: the layout block)")
	cmd.Flags().BoolVar(&showMJML, "mjml", false, "Print MJML instead of compiled HTML")

	return cmd
}

func newGCCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gc <file>",
		Short: "Drop blocks that are unreachable from the root",
		Long: `Print the document without the blocks that cannot be reached from the root.
The removed ids are listed on stderr so the output can be redirected to a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := readDocument(args[0])
			if err != nil {
				return err
			}

			collected, removed := blocktree.CollectOrphans(tree)
			for _, id := range removed {
				fmt.Fprintf(cmd.ErrOrStderr(), "removed %s\n", id)
			}
			return writeDocument(cmd.OutOrStdout(), collected)
		},
	}
}

func newExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file> <blockId>",
		Short: "Print a block and everything below it as a standalone document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := readDocument(args[0])
			if err != nil {
				return err
			}

			sub, err := blocktree.ExtractSubtree(tree, args[1])
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), sub)
		},
	}
}

// readDocument loads and validates a serialized document
func readDocument(path string) (blocktree.Tree, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	tree, err := blocktree.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

func writeDocument(w io.Writer, tree blocktree.Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tree)
}
