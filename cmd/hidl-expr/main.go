// Package main is the main entrypoint to the hidl-expr tool, a workbench for
// evaluating hidl constant expressions and inspecting what the code
// generators would emit for them.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/davecgh/go-spew/spew"
	"github.com/lestrrat-go/strftime"

	"github.com/OpenKirin-Treble/platform-system-tools-hidl/src/conf"
	"github.com/OpenKirin-Treble/platform-system-tools-hidl/src/expr"
	"github.com/OpenKirin-Treble/platform-system-tools-hidl/src/parse"
	"github.com/OpenKirin-Treble/platform-system-tools-hidl/src/scalar"
)

var (
	executeExpr string
	castName    string
	debugDump   bool
	genDump     bool
	showVersion bool
)

func init() {
	flag.StringVar(&executeExpr, "e", "", "evaluate expression 'expr'")
	flag.StringVar(&castName, "k", "", "render at this scalar kind instead of the expression's own kind")
	flag.BoolVar(&debugDump, "d", false, "dump the expression tree")
	flag.BoolVar(&genDump, "gen", false, "emit a generated-constants block with header")
	flag.BoolVar(&showVersion, "v", false, "show version information")
}

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if showVersion {
		printVersion()
	}
	if executeExpr != "" {
		if genDump {
			fmt.Print(genHeader())
		}
		evalSrc(executeExpr)
	} else if args := flag.Args(); len(args) > 0 {
		if genDump {
			fmt.Print(genHeader())
		}
		for _, arg := range args {
			evalSrc(arg)
		}
	} else if !showVersion {
		runREPL()
	}
}

func printVersion() {
	fmt.Fprintf(os.Stderr, "%v\n", conf.FullVersion())
}

func printUsage() {
	printVersion()
	fmt.Fprint(os.Stderr, "\nUsage: hidl-expr [options] [expression ...]\n")
	flag.PrintDefaults()
}

func checkErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// genHeader stamps dump output the way generated interface files are
// stamped.
func genHeader() string {
	strf, err := strftime.New("%Y-%m-%d %H:%M:%S")
	checkErr(err)
	return fmt.Sprintf("// Autogenerated by hidl-expr on %s. Do not edit.\n", strf.FormatString(time.Now()))
}

// resolveCastKind picks the kind values are rendered at: the -k flag when
// given, the expression's own kind otherwise. Only arithmetic kinds are
// accepted; anything else is a user error, not a broken invariant.
func resolveCastKind(ex *expr.Expression) (scalar.Kind, error) {
	if castName == "" {
		return ex.Kind(), nil
	}
	k, ok := scalar.FromName(castName)
	if !ok || !k.IsArithmetic() {
		return 0, fmt.Errorf("unknown or unsupported scalar kind %q", castName)
	}
	return k, nil
}

func evalSrc(src string) {
	ex, err := parse.Parse("<string>", strings.NewReader(src))
	checkErr(err)
	printResult(ex)
}

func printResult(ex *expr.Expression) {
	if err := ex.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	if debugDump {
		spew.Dump(ex)
	}
	castKind, err := resolveCastKind(ex)
	checkErr(err)
	if genDump {
		fmt.Printf("%s %s = %s; // %s\n", castKind.CppType(), "value", ex.CppValue(castKind), ex.Expr())
		return
	}
	fmt.Printf("%s\tcpp:%s\tjava:%s\n", ex.Description(), ex.CppValue(castKind), ex.JavaValue(castKind))
}

func runREPL() {
	printVersion()
	fmt.Fprint(os.Stderr, "Press ctrl-c to quit.\n")
	rl, err := readline.New("> ")
	checkErr(err)
	for {
		src, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				break
			}
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ex, err := parse.Parse("<repl>", strings.NewReader(src))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		printResult(ex)
	}
}
