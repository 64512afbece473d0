// Command remap is the REPL CLI described in spec §6: a line-oriented
// read-eval-print loop over remap source snippets, grounded on the
// teacher's cmd/hlb/command/app.go (urfave/cli flags, go-isatty banner
// gating) and cmd/hlb/main.go's direct-stdin-read entry point.
package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/logrusorgru/aurora"
	isatty "github.com/mattn/go-isatty"
	cli "github.com/urfave/cli/v2"
	"github.com/xlab/treeprint"

	remap "github.com/openllb/remap"
	"github.com/openllb/remap/ast"
	"github.com/openllb/remap/diagnostic"
	"github.com/openllb/remap/function"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/path"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/stdlib"
	"github.com/openllb/remap/value"
)

const banner = "VECTOR    REMAP    LANGUAGE"

func main() {
	app := &cli.App{
		Name:  "remap",
		Usage: "an interactive remap REPL",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "suppress the startup banner"},
		},
		Action: runREPL,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func runREPL(c *cli.Context) error {
	color := aurora.NewAurora(isatty.IsTerminal(os.Stdout.Fd()))

	if !c.Bool("quiet") {
		fmt.Println(color.Bold(banner).String())
	}

	rl, err := readline.New(color.Cyan("remap> ").String())
	if err != nil {
		return err
	}
	defer rl.Close()

	target := newMemTarget()
	fns := stdlib.NewRegistry()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return nil
		}

		switch line {
		case "":
			continue
		case "exit":
			return nil
		}

		if handled, err := handleCommand(line, target, fns, color); handled {
			if err != nil {
				fmt.Fprintln(os.Stderr, color.Red(err.Error()))
			}
			continue
		}

		result, err := remap.Compile(line, fns)
		if err != nil {
			printCompileError(err, line, color)
			continue
		}

		rt := runtime.New()
		v, term := rt.Resolve(target, result.Program, nil)
		if term != nil {
			if term.Abort {
				fmt.Println(color.Yellow(term.Error()))
			} else {
				fmt.Println(color.Red(term.Error()))
			}
			continue
		}

		s, _ := value.ToJSON(v)
		fmt.Println(s)
	}
}

// handleCommand intercepts the `:kind`/`:ast`/`:dump`/`:readonly` debug
// commands documented in SPEC_FULL.md's domain-stack table, reporting
// handled=true whether or not the command itself errored.
func handleCommand(line string, target *memTarget, fns *function.Registry, color aurora.Aurora) (handled bool, err error) {
	switch {
	case line == ":dump":
		s, err := value.ToJSON(target.event)
		if err != nil {
			return true, err
		}
		fmt.Println(s)
		return true, nil
	case line == ":kind":
		tree := treeprint.New()
		tree.SetValue("event")
		printKindTree(tree, kind.Any())
		fmt.Println(tree.String())
		return true, nil
	case strings.HasPrefix(line, ":ast "):
		src := strings.TrimPrefix(line, ":ast ")
		result, err := remap.Compile(src, fns)
		if err != nil {
			printCompileError(err, src, color)
			return true, nil
		}
		tree := treeprint.New()
		tree.SetValue("Program")
		printASTTree(tree, result.Program.Body)
		fmt.Println(tree.String())
		return true, nil
	case strings.HasPrefix(line, ":readonly "):
		raw := strings.TrimPrefix(line, ":readonly ")
		tp, err := path.ParseTargetPath(raw)
		if err != nil {
			return true, err
		}
		target.markReadOnly(tp)
		return true, nil
	default:
		return false, nil
	}
}

// printASTTree renders n's subtree under tree, one branch per child
// expression, mirroring printKindTree's branch-per-child recursion over
// ast.Expression's tagged-sum node kinds instead of kind.Kind's.
func printASTTree(tree treeprint.Tree, n ast.Expression) {
	switch node := n.(type) {
	case *ast.Block:
		for _, stmt := range node.Stmts {
			printASTTree(tree.AddBranch("Stmt"), stmt)
		}
	case *ast.If:
		printASTTree(tree.AddBranch("Cond"), node.Cond)
		printASTTree(tree.AddBranch("Then"), node.Then)
		if node.Else != nil {
			printASTTree(tree.AddBranch("Else"), node.Else)
		}
	case *ast.Abort:
		branch := tree.AddBranch("Abort")
		if node.Message != nil {
			printASTTree(branch.AddBranch("Message"), node.Message)
		}
	case *ast.Assignment:
		branch := tree.AddBranch("Assignment")
		printASTTree(branch.AddBranch("RHS"), node.RHS)
	case *ast.Literal:
		tree.AddNode(fmt.Sprintf("Literal(%s)", node.Val.String()))
	case *ast.ArrayLiteral:
		branch := tree.AddBranch("Array")
		for _, el := range node.Elements {
			printASTTree(branch, el)
		}
	case *ast.ObjectLiteral:
		branch := tree.AddBranch("Object")
		for _, kv := range node.Fields {
			printASTTree(branch.AddBranch(kv.Name), kv.Value)
		}
	case *ast.Variable:
		tree.AddNode(fmt.Sprintf("Variable(%s)", node.Name))
	case *ast.PathQuery:
		switch {
		case node.Prefix != nil:
			tp := path.NewTargetPath(*node.Prefix, node.SubPath)
			tree.AddNode(fmt.Sprintf("PathQuery(%s)", tp))
		case node.Variable != nil:
			tree.AddNode(fmt.Sprintf("PathQuery(%s%s)", *node.Variable, path.Serialize(node.SubPath)))
		default:
			printASTTree(tree.AddBranch(fmt.Sprintf("PathQuery(%s)", path.Serialize(node.SubPath))), node.Base)
		}
	case *ast.ErrorCoalesce:
		branch := tree.AddBranch("ErrorCoalesce")
		printASTTree(branch.AddBranch("Primary"), node.Primary)
		printASTTree(branch.AddBranch("Fallback"), node.Fallback)
	case *ast.AcknowledgeFallible:
		printASTTree(tree.AddBranch("AcknowledgeFallible(!)"), node.Inner)
	case *ast.FunctionExpression:
		tree.AddNode(fmt.Sprintf("Call(%s)", node.Identifier))
	default:
		tree.AddNode(fmt.Sprintf("%T", n))
	}
}

// printKindTree renders k's structure under tree: a leaf node for a scalar
// kind, and a branch per known field/index (plus one "*" branch for the
// collection's Unknown kind) for an array or object.
func printKindTree(tree treeprint.Tree, k kind.Kind) {
	switch {
	case k.IsObject() && k.Object != nil:
		branch := tree.AddBranch(k.String())
		keys := make([]string, 0, len(k.Object.Known))
		for key := range k.Object.Known {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			printKindTree(branch.AddBranch(key), k.Object.Known[key])
		}
		printKindTree(branch.AddBranch("*"), k.Object.Unknown)
	case k.IsArray() && k.Array != nil:
		branch := tree.AddBranch(k.String())
		idxs := make([]int, 0, len(k.Array.Known))
		for idx := range k.Array.Known {
			idxs = append(idxs, idx)
		}
		sort.Ints(idxs)
		for _, idx := range idxs {
			printKindTree(branch.AddBranch("["+strconv.Itoa(idx)+"]"), k.Array.Known[idx])
		}
		printKindTree(branch.AddBranch("*"), k.Array.Unknown)
	default:
		tree.AddNode(k.String())
	}
}

func printCompileError(err error, src string, color aurora.Aurora) {
	var spanErr *diagnostic.SpanError
	if errors.As(err, &spanErr) {
		fmt.Fprint(os.Stderr, spanErr.Pretty(src, color))
		return
	}
	fmt.Fprintln(os.Stderr, color.Red(err.Error()))
}
