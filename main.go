package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adan-lang/adango/ast"
	"github.com/adan-lang/adango/codegen"
	"github.com/adan-lang/adango/config"
	"github.com/adan-lang/adango/interp"
	"github.com/adan-lang/adango/lexer"
	"github.com/adan-lang/adango/parser"
	"github.com/adan-lang/adango/reader"
	"github.com/adan-lang/adango/report"
	"github.com/alecthomas/repr"
	"github.com/llir/llvm/ir"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

// project loads the manifest in the working directory. A file argument
// overrides the manifest's entry and makes the manifest optional.
func project(c *cli.Context) (*config.Manifest, error) {
	m, err := config.Load(".")

	file := c.Args().First()
	if file == "" {
		return m, err
	}
	if err != nil {
		m = config.New(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
		m.Root = "."
	}
	m.Entry = file
	return m, nil
}

func parseFile(path string) ([]ast.Statement, error) {
	handle, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	return parser.ParseSource(handle, path)
}

func compile(m *config.Manifest) (*ir.Module, error) {
	entry := m.EntryPath()
	stmts, err := parseFile(entry)
	if err != nil {
		return nil, err
	}

	opts := []codegen.Option{
		codegen.WithSourceDir(filepath.Dir(entry)),
		codegen.WithIncludeRoots(m.IncludeRoots()...),
	}
	if m.Library {
		opts = append(opts, codegen.AsLibrary())
	}

	report.Verbose("Compile", "%s (package %s)", entry, m.Package)
	return codegen.Compile(entry, stmts, opts...)
}

func emit(m *config.Manifest) (string, error) {
	mod, err := compile(m)
	if err != nil {
		return "", err
	}

	out := m.OutputPath()
	if err := ioutil.WriteFile(out, []byte(mod.String()), 0644); err != nil {
		return "", err
	}
	return out, nil
}

func main() {
	app := &cli.App{
		Name:  "adango",
		Usage: "AdaN compiler",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "loglevel",
				Value: "warn",
				Usage: "silent, error, warn or verbose",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "print errors with their stack trace",
			},
		},
		Before: func(c *cli.Context) error {
			level, err := report.ParseLogLevel(c.String("loglevel"))
			if err != nil {
				return err
			}
			report.InitReporter(level)
			return nil
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			if c.Bool("debug") {
				tracerr.PrintSourceColor(err)
			} else {
				report.Error("Error", tracerr.Unwrap(err))
			}
			os.Exit(1)
		},
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "create an adan.yaml in the current directory",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return fmt.Errorf("no package name provided")
					}
					if !config.IsValidIdentifier(name) {
						return fmt.Errorf("package name '%s' must be a valid identifier", name)
					}
					if err := config.New(name).Write("."); err != nil {
						return err
					}
					report.Success("Init", "wrote %s", config.YAMLFileName)
					return nil
				},
			},
			{
				Name:      "tokens",
				Usage:     "dump the tokens of a file",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					handle, err := os.Open(c.Args().First())
					if err != nil {
						return err
					}
					defer handle.Close()

					for _, tok := range lexer.Tokenize(handle, handle.Name()) {
						repr.Println(tok)
					}
					return nil
				},
			},
			{
				Name:      "ast",
				Usage:     "dump the syntax tree of a file",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					stmts, err := parseFile(c.Args().First())
					if err != nil {
						return err
					}
					repr.Println(stmts)
					return nil
				},
			},
			{
				Name:      "emit",
				Usage:     "write LLVM IR for the project",
				ArgsUsage: "[FILE]",
				Action: func(c *cli.Context) error {
					m, err := project(c)
					if err != nil {
						return err
					}
					out, err := emit(m)
					if err != nil {
						return err
					}
					report.Finished(out)
					return nil
				},
			},
			{
				Name:      "build",
				Usage:     "compile the project with clang",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Usage: "path of the executable or library",
					},
				},
				Action: func(c *cli.Context) error {
					m, err := project(c)
					if err != nil {
						return err
					}
					ll, err := emit(m)
					if err != nil {
						return err
					}

					out := c.String("output")
					if out == "" {
						out = m.BinaryPath()
					}

					cmd := exec.Command(m.Clang, "-o", out, ll, "-lm")
					if m.Library {
						cmd.Args = append(cmd.Args, "-shared", "-fPIC")
					}
					cmd.Args = append(cmd.Args, m.Link...)
					cmd.Stdout = os.Stdout
					cmd.Stderr = os.Stderr

					report.Verbose("Link", "%s", strings.Join(cmd.Args, " "))
					if err := cmd.Run(); err != nil {
						return tracerr.Wrap(err)
					}
					report.Finished(out)
					return nil
				},
			},
			{
				Name:      "run",
				Usage:     "interpret the project's main program",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-steps",
						Value: interp.DefaultMaxSteps,
					},
				},
				Action: func(c *cli.Context) error {
					m, err := project(c)
					if err != nil {
						return err
					}
					m.Library = false

					mod, err := compile(m)
					if err != nil {
						return err
					}

					in := interp.New(mod, os.Stdout)
					in.MaxSteps = c.Int("max-steps")
					code, err := in.Call("main")
					if err != nil {
						return err
					}
					if code, ok := code.(int64); ok && code != 0 {
						os.Exit(int(code))
					}
					return nil
				},
			},
			{
				Name:      "exports",
				Usage:     "list the programs exported by a compiled library",
				ArgsUsage: "LIBRARY",
				Action: func(c *cli.Context) error {
					data, err := reader.ReadExports(c.Args().First(), codegen.ExportsSymbol)
					if err != nil {
						return err
					}
					exports, err := codegen.ParseExports(data)
					if err != nil {
						return err
					}

					names := make([]string, 0, len(exports.Functions))
					for name := range exports.Functions {
						names = append(names, name)
					}
					sort.Strings(names)

					fmt.Printf("%s\n", exports.Module)
					for _, name := range names {
						fmt.Printf("  %s: %s\n", name, exports.Functions[name])
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
