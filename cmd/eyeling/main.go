// Command eyeling runs the N3 forward/backward reasoner over one or more
// input files and prints the resulting closure, following the same
// single-binary cobra wiring pattern the pack's other CLI tools use for
// their root command (flags bound in init, business logic kept out of
// RunE so it stays testable without exec'ing the binary).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eyereasoner/eyeling/internal/config"
	"github.com/eyereasoner/eyeling/internal/logging"
	"github.com/eyereasoner/eyeling/internal/parse"
	"github.com/eyereasoner/eyeling/internal/reason"
	"github.com/eyereasoner/eyeling/internal/term"
)

// version is overridden at build time via -ldflags, following the
// pack's convention for a --version flag that doesn't depend on VCS
// metadata being available in the build environment.
var version = "dev"

var (
	flagAST             bool
	flagEnforceHTTPS    bool
	flagProofComments   bool
	flagNoProofComments bool
	flagStrings         bool
	flagSuperRestricted bool
	flagStream          bool
	flagVerbose         bool
	flagConfigPath      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

var rootCmd = &cobra.Command{
	Use:          "eyeling [file...]",
	Short:        "An N3 forward/backward-chaining rule reasoner",
	Version:      version,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVar(&flagAST, "ast", false, "emit the parsed AST and exit")
	rootCmd.Flags().BoolVar(&flagEnforceHTTPS, "enforce-https", false, "rewrite http:// dereference targets to https://")
	rootCmd.Flags().BoolVar(&flagProofComments, "proof-comments", false, "annotate derived triples with the rule that produced them")
	rootCmd.Flags().BoolVar(&flagNoProofComments, "no-proof-comments", false, "explicitly disable proof comments (default)")
	rootCmd.Flags().BoolVar(&flagStrings, "strings", false, "print concatenated log:outputString values ordered by subject key")
	rootCmd.Flags().BoolVar(&flagSuperRestricted, "super-restricted", false, "disable builtins outside the core safe subset")
	rootCmd.Flags().BoolVar(&flagStream, "stream", false, "emit derived triples as they are produced")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.Flags().StringVar(&flagConfigPath, "config", "", "path to a .eyeling.yaml defaults file")
}

func run(cmd *cobra.Command, args []string) error {
	if flagConfigPath != "" {
		if err := applyConfigFile(cmd, flagConfigPath); err != nil {
			return err
		}
	}

	logger, err := logging.New(flagVerbose)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	if flagAST {
		return runAST(args)
	}

	opts := reason.Options{
		EnforceHTTPS:    flagEnforceHTTPS,
		Proof:           flagProofComments && !flagNoProofComments,
		SuperRestricted: flagSuperRestricted,
	}
	if flagStream {
		opts.OnDerived = func(line string) { fmt.Println(line) }
	}

	var lastErr, fuseErr error
	status := reason.RunFiles(context.Background(), args, opts, func(file string, res *reason.Result, err error) {
		if err != nil {
			if _, ok := err.(*reason.ContradictionError); ok {
				fuseErr = err
				fmt.Fprintf(os.Stderr, "%s: ** contradiction detected **\n", file)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %s\n", file, err)
			}
			logger.Errorw("reasoning failed", "file", file, "error", err)
			lastErr = err
			return
		}
		logger.Infow("closure computed", "file", file, "facts", len(res.Facts), "derivations", len(res.Derived))
		if flagStrings {
			fmt.Print(res.Strings())
			return
		}
		if !flagStream {
			fmt.Print(res.ClosureText)
		}
	})

	switch status {
	case 0:
		return nil
	case 2:
		return fuseErr
	default:
		if lastErr != nil {
			return lastErr
		}
		return fmt.Errorf("reasoning failed")
	}
}

func runAST(files []string) error {
	for _, f := range files {
		text, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		in := term.NewInterner()
		doc, err := parse.Parse(in, string(text), f)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d triples, %d forward rules, %d backward rules\n",
			f, len(doc.Triples), len(doc.ForwardRules), len(doc.BackwardRules))
	}
	return nil
}

func applyConfigFile(cmd *cobra.Command, path string) error {
	d, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	config.ApplyBool(&flagEnforceHTTPS, cmd.Flags().Changed("enforce-https"), d.EnforceHTTPS)
	config.ApplyBool(&flagProofComments, cmd.Flags().Changed("proof-comments"), d.ProofComments)
	config.ApplyBool(&flagSuperRestricted, cmd.Flags().Changed("super-restricted"), d.SuperRestricted)
	config.ApplyBool(&flagStream, cmd.Flags().Changed("stream"), d.Stream)
	config.ApplyBool(&flagVerbose, cmd.Flags().Changed("verbose"), d.Verbose)
	return nil
}

func exitCodeFor(err error) int {
	if _, ok := err.(*reason.ContradictionError); ok {
		return 2
	}
	return 1
}
