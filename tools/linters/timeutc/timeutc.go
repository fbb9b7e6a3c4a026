// Package timeutc reports wall-clock reads and conversions that leave the UTC
// location. Stored timestamps and recurrence anchors are compared as UTC
// calendar dates, so a stray local time shifts tasks across midnight.
//
// Reported:
//   - time.Now() not immediately followed by .UTC()
//   - calls to the time.Time.Local method
//   - references to time.Local
//
// A //nolint or //nolint:timeutc comment on the same or the preceding line
// suppresses a report.
package timeutc

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer is the timeutc analyzer.
var Analyzer = &analysis.Analyzer{
	Name:     "timeutc",
	Doc:      "reports time.Now() without .UTC(), Time.Local() and time.Local",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

const (
	msgNow      = "time.Now() should be followed by .UTC() for timezone consistency"
	msgLocal    = "Time.Local() converts to the process time zone; keep times in UTC"
	msgLocation = "time.Local depends on the process time zone; use time.UTC"
)

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	// time.Now() calls that are the receiver of .UTC()
	converted := make(map[*ast.CallExpr]bool)

	insp.Preorder([]ast.Node{(*ast.SelectorExpr)(nil)}, func(n ast.Node) {
		sel := n.(*ast.SelectorExpr)
		if sel.Sel.Name != "UTC" {
			return
		}
		if call, ok := ast.Unparen(sel.X).(*ast.CallExpr); ok && isTimeFunc(pass, call.Fun, "Now") {
			converted[call] = true
		}
	})

	nodes := []ast.Node{(*ast.CallExpr)(nil), (*ast.SelectorExpr)(nil)}
	insp.Preorder(nodes, func(n ast.Node) {
		switch n := n.(type) {
		case *ast.CallExpr:
			switch {
			case isTimeFunc(pass, n.Fun, "Now") && !converted[n]:
				report(pass, n, msgNow)
			case isTimeMethod(pass, n.Fun, "Local"):
				report(pass, n, msgLocal)
			}
		case *ast.SelectorExpr:
			if v, ok := pass.TypesInfo.Uses[n.Sel].(*types.Var); ok && inTimePackage(v) && v.Name() == "Local" {
				report(pass, n, msgLocation)
			}
		}
	})

	return nil, nil
}

// isTimeFunc reports whether expr refers to the package-level function time.<name>,
// whatever name the time package was imported under.
func isTimeFunc(pass *analysis.Pass, expr ast.Expr, name string) bool {
	sel, ok := ast.Unparen(expr).(*ast.SelectorExpr)
	if !ok {
		return false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Name() != name || !inTimePackage(fn) {
		return false
	}
	sig, ok := fn.Type().(*types.Signature)
	return ok && sig.Recv() == nil
}

func isTimeMethod(pass *analysis.Pass, expr ast.Expr, name string) bool {
	sel, ok := ast.Unparen(expr).(*ast.SelectorExpr)
	if !ok {
		return false
	}
	selection, ok := pass.TypesInfo.Selections[sel]
	if !ok || selection.Kind() != types.MethodVal {
		return false
	}
	fn, ok := selection.Obj().(*types.Func)
	return ok && fn.Name() == name && inTimePackage(fn)
}

func inTimePackage(obj types.Object) bool {
	return obj.Pkg() != nil && obj.Pkg().Path() == "time"
}

func report(pass *analysis.Pass, node ast.Node, msg string) {
	if suppressed(pass, node) {
		return
	}
	pass.Reportf(node.Pos(), "%s", msg)
}

// suppressed looks for a nolint directive on the node's line or the line above.
func suppressed(pass *analysis.Pass, node ast.Node) bool {
	pos := pass.Fset.Position(node.Pos())

	for _, file := range pass.Files {
		if pass.Fset.Position(file.Pos()).Filename != pos.Filename {
			continue
		}
		for _, group := range file.Comments {
			for _, c := range group.List {
				line := pass.Fset.Position(c.Pos()).Line
				if line != pos.Line && line != pos.Line-1 {
					continue
				}
				directive, ok := strings.CutPrefix(c.Text, "//nolint")
				if !ok {
					continue
				}
				linters, scoped := strings.CutPrefix(directive, ":")
				if !scoped {
					return true
				}
				fields := strings.Fields(linters)
				if len(fields) == 0 {
					continue
				}
				for name := range strings.SplitSeq(fields[0], ",") {
					if name == Analyzer.Name {
						return true
					}
				}
			}
		}
		return false
	}
	return false
}
