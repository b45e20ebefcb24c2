package schema

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sqldef/ddlschema/parser"
	"github.com/sqldef/ddlschema/util"
)

const (
	noCreateTableWarning  = "No CREATE TABLE statements found"
	missingTableNameError = "CREATE TABLE statement without a table name"
)

// Parse turns DDL text into a schema model using the given dialects in fallback
// order. It never fails: problems are reported in the result's Errors and Warnings.
func Parse(sql string, dialects []parser.Dialect, config Config) *ParseResult {
	pre := parser.Preprocess(sql)
	b := newBuilder(config, pre.CreateTables)

	if len(dialects) == 0 {
		b.errorf("no SQL dialect configured")
		return b.result
	}
	if len(pre.Unnamed) > 0 {
		for range pre.Unnamed {
			b.errorf(missingTableNameError)
		}
		return b.result
	}
	if len(pre.CreateTables) == 0 {
		b.warnf(noCreateTableWarning)
		return b.result
	}

	var trees []*parser.Tree
	if config.PerStatement {
		trees = b.parsePerStatement(pre.CreateTables, dialects, config.Concurrency)
	} else {
		trees = b.parseBatch(pre, dialects)
	}
	if len(trees) == 0 {
		return b.result
	}

	for _, tree := range trees {
		b.addTree(tree)
	}
	b.merge(parser.ExtractAlterTableConstraints(pre.Original))
	b.resolveForeignKeys()
	b.warnInferredKeys()
	return b.result
}

// parseBatch parses every CREATE TABLE in one call, so a single bad statement
// fails the whole input.
func (b *builder) parseBatch(pre *parser.Preprocessed, dialects []parser.Dialect) []*parser.Tree {
	_, tree, err := parser.ParseWithDialects(pre.SQL(), dialects)
	if err != nil {
		b.result.Errors = append(b.result.Errors, diagnostics(err)...)
		return nil
	}
	b.result.Dialect = tree.Dialect
	slog.Debug("Parsed CREATE TABLE statements", "dialect", tree.Dialect, "tables", len(tree.Tables))
	return []*parser.Tree{tree}
}

type statementResult struct {
	tree *parser.Tree
	err  error
}

// parsePerStatement gives every CREATE TABLE its own dialect fallback. Failed
// statements become warnings unless all of them fail.
func (b *builder) parsePerStatement(stmts []parser.CreateTableStatement, dialects []parser.Dialect, concurrency int) []*parser.Tree {
	results, err := util.ConcurrentMapFuncWithError(stmts, concurrency, func(stmt parser.CreateTableStatement) (statementResult, error) {
		_, tree, err := parser.ParseWithDialects(stmt.SQL+";", dialects)
		return statementResult{tree: tree, err: err}, nil
	})
	if err != nil {
		b.errorf("%s", err)
		return nil
	}

	var trees []*parser.Tree
	var failures []string
	for i, result := range results {
		if result.err != nil {
			for _, message := range diagnostics(result.err) {
				failures = append(failures, fmt.Sprintf("CREATE TABLE %s: %s", stmts[i].Name, message))
			}
			continue
		}
		trees = append(trees, result.tree)
		switch b.result.Dialect {
		case "":
			b.result.Dialect = result.tree.Dialect
		case result.tree.Dialect:
		default:
			b.result.Dialect = DialectMixed
		}
	}

	if len(trees) == 0 {
		b.result.Errors = append(b.result.Errors, failures...)
		return nil
	}
	b.result.Warnings = append(b.result.Warnings, failures...)
	return trees
}

func diagnostics(err error) []string {
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Messages()
	}
	return []string{err.Error()}
}
