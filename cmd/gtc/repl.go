package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/GriffinCanCode/gradualtype/internal/ast"
	"github.com/GriffinCanCode/gradualtype/internal/config"
	"github.com/GriffinCanCode/gradualtype/internal/frontend"
	"github.com/GriffinCanCode/gradualtype/internal/infer"
	"github.com/GriffinCanCode/gradualtype/internal/tenv"
	"github.com/GriffinCanCode/gradualtype/internal/types"
)

// replState carries the accumulated bindings across lines: one
// persistent class registry and symbol map for the session rather than
// a fresh environment per line.
type replState struct {
	classes *tenv.ClassRegistry
	names   []string
	values  map[string]types.Type
	counter int
}

func newReplState() *replState {
	return &replState{classes: tenv.NewBuiltinClassRegistry(), values: map[string]types.Type{}}
}

// runREPL starts an interactive one-expression-at-a-time synthesis/check
// loop: each line is synthesized and its inferred type (or diagnostics)
// printed, with no execution.
func runREPL(cfg config.Config) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".gtc_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	line.SetMultiLineMode(true)
	line.SetCompleter(func(in string) (c []string) {
		if strings.HasPrefix(in, ":") {
			for _, cmd := range []string{":help", ":quit", ":env", ":clear"} {
				if strings.HasPrefix(cmd, in) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	fmt.Printf("%s %s\n", bold("gtc"), bold(Version))
	fmt.Println(dim("Type :help for help, :quit to exit"))
	fmt.Println()

	state := newReplState()

	for {
		input, err := line.Prompt("gtc> ")
		if err == io.EOF {
			fmt.Println(green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Printf("%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if input == ":quit" || input == ":q" {
				fmt.Println(green("Goodbye!"))
				break
			}
			state.handleCommand(input)
			continue
		}

		state.eval(input, cfg.MaxErrorsPerModule)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (s *replState) handleCommand(cmd string) {
	switch cmd {
	case ":help", ":h":
		fmt.Println("REPL commands:")
		fmt.Println("  :help, :h    Show this help")
		fmt.Println("  :quit, :q    Exit the REPL")
		fmt.Println("  :env         List bound names and their types")
		fmt.Println("  :clear       Forget all bindings")
	case ":env":
		if len(s.names) == 0 {
			fmt.Println(dim("(no bindings yet)"))
			return
		}
		for _, n := range s.names {
			fmt.Printf("  %s : %s\n", cyan(n), yellow(types.Display(s.values[n])))
		}
	case ":clear":
		s.names = nil
		s.values = map[string]types.Type{}
		fmt.Println(dim("bindings cleared"))
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
	}
}

// eval synthesizes a type for one line of input. A bare expression is
// wrapped as an anonymous binding so the inferer has a statement to
// walk; an explicit `name = expr` line binds name for later lines.
func (s *replState) eval(input string, maxErrors int) {
	src := input
	bindName := fmt.Sprintf("_%d", s.counter)

	mod, err := frontend.Parse("<repl>", []byte(src+"\n"))
	if err != nil {
		fmt.Printf("%s: %v\n", red("Error"), err)
		return
	}
	// A bare expression (no top-level assignment) gets wrapped under a
	// throwaway name so the inferer always has a binding to report.
	if len(mod.Body) == 1 {
		if _, isExpr := mod.Body[0].(*ast.ExprStmt); isExpr {
			src = bindName + " = " + input
			mod, err = frontend.Parse("<repl>", []byte(src+"\n"))
			if err != nil {
				fmt.Printf("%s: %v\n", red("Error"), err)
				return
			}
		}
	}
	s.counter++

	i := infer.New("<repl>", []byte(src), s.classes, maxErrors)
	for _, n := range s.names {
		i.Env().Bind(n, s.values[n])
	}
	i.InferModule(mod)

	if diags := i.Diags.Diagnostics(); len(diags) > 0 {
		for _, d := range diags {
			fmt.Printf("%s %s\n", red(string(d.Code)), d.Message)
		}
		return
	}

	for _, stmt := range mod.Body {
		assign, ok := stmt.(*ast.AssignStmt)
		if !ok {
			continue
		}
		t, ok := i.Env().Lookup(assign.Target)
		if !ok {
			continue
		}
		if assign.Target == bindName {
			fmt.Printf("%s : %s\n", dim("_"), yellow(types.Display(t)))
		} else {
			fmt.Printf("%s : %s\n", cyan(assign.Target), yellow(types.Display(t)))
			if _, bound := s.values[assign.Target]; !bound {
				s.names = append(s.names, assign.Target)
			}
			s.values[assign.Target] = t
		}
	}
}
