package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/jessevdk/go-flags"
	_ "github.com/joho/godotenv/autoload"
	"github.com/k0kubun/pp/v3"
	"github.com/sqldef/ddlschema"
	"github.com/sqldef/ddlschema/database"
	"github.com/sqldef/ddlschema/database/file"
	"github.com/sqldef/ddlschema/database/mysql"
	"github.com/sqldef/ddlschema/database/sqlite3"
	"github.com/sqldef/ddlschema/parser"
	"github.com/sqldef/ddlschema/schema"
	"github.com/sqldef/ddlschema/server"
	"github.com/sqldef/ddlschema/util"
	"golang.org/x/term"
)

var version string

const mysqlDSNEnv = "DDLSCHEMA_MYSQL_DSN"

type options struct {
	Files        []string `short:"f" long:"file" description:"Read DDL from the file, rather than stdin" value-name:"filename" default:"-"`
	Sqlite       string   `long:"sqlite" description:"Read DDL from a SQLite database file" value-name:"path"`
	Mysql        bool     `long:"mysql" description:"Read DDL from the MySQL server in $DDLSCHEMA_MYSQL_DSN"`
	Config       string   `long:"config" description:"YAML file with parser settings" value-name:"path"`
	Dialects     []string `long:"dialect" description:"Grammar to try, in order (postgresql, mysql, sqlite). Repeatable" value-name:"name"`
	PerStatement bool     `long:"per-statement" description:"Parse each CREATE TABLE on its own and keep the ones that parse"`
	Concurrency  int      `long:"concurrency" description:"Statements parsed in parallel with --per-statement. Negative is unlimited" default:"0"`
	IDs          string   `long:"ids" description:"Identifiers for tables, columns and indexes" choice:"sequential" choice:"uuid"`
	Format       string   `long:"format" description:"Output format" choice:"text" choice:"json" choice:"yaml" default:"text"`
	DumpTree     bool     `long:"dump-tree" description:"Print the raw syntax tree instead of the schema"`
	Serve        string   `long:"serve" description:"Serve the parser over HTTP instead" value-name:"addr" optional:"yes" optional-value:":8080"`
	Help         bool     `long:"help" description:"Show this help"`
	Version      bool     `long:"version" description:"Show this version"`
}

func parseOptions(args []string) (*options, schema.Config) {
	var opts options
	p := flags.NewParser(&opts, flags.None)
	p.Usage = "[OPTIONS]"
	rest, err := p.ParseArgs(args)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		p.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	if len(rest) > 0 {
		fmt.Printf("Unexpected arguments: %v\n\n", rest)
		p.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	config, err := ddlschema.ParseConfig(opts.Config)
	if err != nil {
		log.Fatal(err)
	}
	return &opts, applyOptions(config, &opts)
}

// applyOptions lets command line flags override the config file.
func applyOptions(config schema.Config, opts *options) schema.Config {
	if len(opts.Dialects) > 0 {
		config.Dialects = opts.Dialects
	}
	if opts.PerStatement {
		config.PerStatement = true
	}
	if opts.Concurrency != 0 {
		config.Concurrency = opts.Concurrency
	}
	if opts.IDs != "" {
		config.IDs = opts.IDs
	}
	return config
}

func openSource(opts *options) (database.Database, error) {
	switch {
	case opts.Sqlite != "" && opts.Mysql:
		return nil, errors.New("--sqlite and --mysql are mutually exclusive")
	case opts.Sqlite != "":
		if _, err := os.Stat(opts.Sqlite); err != nil {
			return nil, err
		}
		return sqlite3.NewDatabase(database.Config{DbName: opts.Sqlite})
	case opts.Mysql:
		dsn := os.Getenv(mysqlDSNEnv)
		if dsn == "" {
			return nil, fmt.Errorf("--mysql requires $%s", mysqlDSNEnv)
		}
		config, err := mysql.ConfigFromDSN(dsn)
		if err != nil {
			return nil, err
		}
		return mysql.NewDatabase(config)
	default:
		return file.NewDatabase(opts.Files...), nil
	}
}

func main() {
	util.InitSlog()
	opts, config := parseOptions(os.Args[1:])

	if opts.Serve != "" {
		if err := config.Validate(); err != nil {
			log.Fatal(err)
		}
		slog.Info("Serving ddlschema", "addr", opts.Serve)
		if err := server.New(config).HTTPServer(opts.Serve).ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
		return
	}

	source, err := openSource(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer source.Close()

	ddl, err := source.ExportDDLs(context.Background())
	if err != nil {
		log.Fatalf("Failed to read DDL: %s", err)
	}

	if opts.DumpTree {
		if err := dumpTree(ddl, config); err != nil {
			log.Fatal(err)
		}
		return
	}

	result, err := ddlschema.ParseWithConfig(ddl, config)
	if err != nil {
		log.Fatal(err)
	}
	color := term.IsTerminal(int(os.Stdout.Fd()))
	if err := writeResult(os.Stdout, result, opts.Format, color); err != nil {
		log.Fatal(err)
	}
	if result.HasErrors() {
		os.Exit(1)
	}
}

func dumpTree(ddl string, config schema.Config) error {
	dialects := ddlschema.DefaultDialects()
	if len(config.Dialects) > 0 {
		var err error
		if dialects, err = ddlschema.DialectsByName(config.Dialects); err != nil {
			return err
		}
	}
	_, tree, err := parser.ParseWithDialects(parser.Preprocess(ddl).SQL(), dialects)
	if err != nil {
		return err
	}
	printer := pp.New()
	printer.SetColoringEnabled(term.IsTerminal(int(os.Stdout.Fd())))
	_, err = printer.Println(tree)
	return err
}
