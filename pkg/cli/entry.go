// Package cli implements the lolc command line: subcommand dispatch over
// os.Args, diagnostics to stderr, exit 0 on success and 1 on any failure.
package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/kthxbye/lolc/internal/buildcache"
	"github.com/kthxbye/lolc/internal/codegen"
	"github.com/kthxbye/lolc/internal/config"
	"github.com/kthxbye/lolc/internal/diagnostics"
	"github.com/kthxbye/lolc/internal/ir"
	"github.com/kthxbye/lolc/internal/lexer"
	"github.com/kthxbye/lolc/internal/parser"
	"github.com/kthxbye/lolc/internal/pipeline"
	"github.com/kthxbye/lolc/internal/target/cvm"
	"github.com/kthxbye/lolc/internal/token"
)

func Execute() {
	if handleHelp() {
		return
	}
	if handleTokens() {
		return
	}
	if handleCheck() {
		return
	}
	if handleCompile() {
		return
	}

	printUsage()
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [arguments]

Commands:
  compile <file> [options]   compile a program to an executable
  check <file>               lex, parse and lower without emitting
  tokens <file>              dump the lexed token stream
  help                       show this message

Compile options:
  --cc <path>       C compiler to invoke (default %s)
  --target <name>   serialization target, c or asm (default %s)
  --out <path>      output executable path (default main)
  --emit-c <path>   write the C translation unit instead of compiling
  --stack <cells>   machine stack size (default %d)
  --heap <cells>    machine heap size (default %d)
  --no-cache        skip the build cache
`, os.Args[0], config.DefaultCC, config.DefaultTarget, config.DefaultStackSize, config.DefaultHeapSize)
}

func handleHelp() bool {
	if len(os.Args) < 2 {
		return false
	}
	if os.Args[1] != "help" && os.Args[1] != "-help" && os.Args[1] != "--help" {
		return false
	}
	printUsage()
	return true
}

func handleTokens() bool {
	if len(os.Args) < 2 || os.Args[1] != "tokens" {
		return false
	}
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s tokens <file>\n", os.Args[0])
		os.Exit(1)
	}

	source, err := os.ReadFile(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading source file: %s\n", err)
		os.Exit(1)
	}

	tokens := lexer.New(string(source)).Tokens()
	for _, t := range tokens {
		if t.Token.Type == token.ILLEGAL {
			fmt.Printf("%4d %-20s %d..%d (%s)\n", t.Index, t.Token.Type, t.Start, t.End, t.Token.Cause)
			continue
		}
		fmt.Printf("%4d %-20s %d..%d %q\n", t.Index, t.Token.Type, t.Start, t.End, t.Token.Lexeme)
	}

	if lexer.HasErrors(tokens) {
		os.Exit(1)
	}
	return true
}

func handleCheck() bool {
	if len(os.Args) < 2 || os.Args[1] != "check" {
		return false
	}
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s check <file>\n", os.Args[0])
		os.Exit(1)
	}

	sourcePath := os.Args[2]
	project, err := config.ForSource(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if _, errs := runPipeline(sourcePath, project); len(errs) > 0 {
		diagnostics.Print(os.Stderr, errs)
		os.Exit(1)
	}
	return true
}

type compileFlags struct {
	cc      string
	target  string
	out     string
	emitC   string
	stack   int32
	heap    int32
	noCache bool
}

func parseCompileFlags(args []string, project *config.Project) (*compileFlags, error) {
	flags := &compileFlags{
		cc:     project.CC,
		target: project.Target,
		out:    "main",
		stack:  project.StackSize,
		heap:   project.HeapSize,
	}

	i := 0
	next := func(flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		i++
		return args[i], nil
	}

	for ; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--cc":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			flags.cc = v
		case "--target":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			flags.target = v
		case "--out":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			flags.out = v
		case "--emit-c":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			flags.emitC = v
		case "--stack":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid --stack value %q", v)
			}
			flags.stack = int32(n)
		case "--heap":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid --heap value %q", v)
			}
			flags.heap = int32(n)
		case "--no-cache":
			flags.noCache = true
		default:
			return nil, fmt.Errorf("unknown option %q", arg)
		}
	}

	return flags, nil
}

// checkTarget validates the serialization target. asm is recognized by the
// flag grammar but lives outside this tool.
func checkTarget(name string) error {
	if name != "c" {
		return fmt.Errorf("target %q is not supported; only the c target is available", name)
	}
	return nil
}

func handleCompile() bool {
	if len(os.Args) < 2 || os.Args[1] != "compile" {
		return false
	}
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s compile <file> [options]\n", os.Args[0])
		os.Exit(1)
	}

	sourcePath := os.Args[2]
	project, err := config.ForSource(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	flags, err := parseCompileFlags(os.Args[3:], project)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if err := checkTarget(flags.target); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	code, err := emitTranslationUnit(sourcePath, project, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if code == "" {
		// Diagnostics already printed.
		os.Exit(1)
	}

	if flags.emitC != "" {
		if err := os.WriteFile(flags.emitC, []byte(code), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing C output: %s\n", err)
			os.Exit(1)
		}
		return true
	}

	if err := invokeCC(flags.cc, flags.out, code); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return true
}

// emitTranslationUnit produces the C unit for a source file, consulting
// the build cache first. An empty result with a nil error means the
// pipeline failed and diagnostics went to stderr.
func emitTranslationUnit(sourcePath string, project *config.Project, flags *compileFlags) (string, error) {
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return "", fmt.Errorf("reading source file: %w", err)
	}

	useCache := project.CacheEnabled() && !flags.noCache
	key := buildcache.Key(source, flags.target, flags.stack, flags.heap, int(ir.BaseIsStackPointer))

	var cache *buildcache.Cache
	if useCache {
		cache, err = buildcache.Open(filepath.Dir(sourcePath))
		if err == nil {
			defer cache.Close()
			if code, hit, err := cache.Lookup(key); err == nil && hit {
				return code, nil
			}
		}
	}

	project.StackSize = flags.stack
	project.HeapSize = flags.heap
	ctx, errs := runPipeline(sourcePath, project)
	if len(errs) > 0 {
		diagnostics.Print(os.Stderr, errs)
		return "", nil
	}

	code := ctx.IR.Assemble(cvm.New())

	if cache != nil {
		if err := cache.Store(key, code); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
		}
	}
	return code, nil
}

func runPipeline(sourcePath string, project *config.Project) (*pipeline.PipelineContext, []*diagnostics.Error) {
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		diag := diagnostics.NewError(diagnostics.ErrS001, token.LexedToken{}, fmt.Sprintf("reading source file: %s", err))
		diag.File = sourcePath
		return nil, []*diagnostics.Error{diag}
	}

	ctx := pipeline.NewPipelineContext(string(source))
	ctx.FilePath = sourcePath

	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&codegen.CodegenProcessor{Options: codegen.Options{
			StackSize: project.StackSize,
			HeapSize:  project.HeapSize,
			Frame:     ir.BaseIsStackPointer,
		}},
	).Run(ctx)

	return ctx, ctx.Errors
}

// invokeCC pipes the translation unit to the external C compiler through a
// uniquely named temporary file.
func invokeCC(cc, out, code string) error {
	tmpPath := filepath.Join(os.TempDir(), "lolc-"+uuid.NewString()+".c")
	if err := os.WriteFile(tmpPath, []byte(code), 0o644); err != nil {
		return fmt.Errorf("writing temporary C unit: %w", err)
	}
	defer os.Remove(tmpPath)

	cmd := exec.Command(cc, "-O2", "-o", out, "-x", "c", tmpPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", cc, err)
	}
	return nil
}
