package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/sqldef/ddlschema/schema"
)

func writeResult(w io.Writer, result *schema.ParseResult, format string, color bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		buf, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		_, err = w.Write(buf)
		return err
	case "text", "":
		return writeText(w, result, color)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

const (
	red    = "\x1b[31m"
	yellow = "\x1b[33m"
	reset  = "\x1b[0m"
)

func writeText(w io.Writer, result *schema.ParseResult, color bool) error {
	var b strings.Builder
	if result.Dialect != "" {
		fmt.Fprintf(&b, "-- dialect: %s\n", result.Dialect)
	}
	for _, table := range result.Tables {
		fmt.Fprintf(&b, "\nTABLE %s (%s)\n", table.Name, table.Engine)
		for _, column := range table.Columns {
			fmt.Fprintf(&b, "  %s %s%s\n", column.Name, column.Type, columnFlags(column))
		}
		for _, index := range table.Indexes {
			fmt.Fprintf(&b, "  %s %s (%s)\n", index.Type, index.Name, strings.Join(index.Columns, ", "))
		}
	}
	if len(result.ForeignKeyConstraints) > 0 {
		b.WriteString("\nFOREIGN KEYS\n")
		for _, fk := range result.ForeignKeyConstraints {
			fmt.Fprintf(&b, "  %s.%s -> %s.%s %s", fk.TableName, fk.ColumnName, fk.ReferencedTable, fk.ReferencedColumn, fk.Cardinality)
			if fk.OnDelete != "" {
				fmt.Fprintf(&b, " ON DELETE %s", fk.OnDelete)
			}
			if fk.OnUpdate != "" {
				fmt.Fprintf(&b, " ON UPDATE %s", fk.OnUpdate)
			}
			b.WriteString("\n")
		}
	}
	for _, warning := range result.Warnings {
		b.WriteString(paint("warning: ", yellow, color) + warning + "\n")
	}
	for _, message := range result.Errors {
		b.WriteString(paint("error: ", red, color) + message + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func columnFlags(column *schema.Column) string {
	var flags []string
	if column.IsPrimaryKey {
		flags = append(flags, "PRIMARY KEY")
	}
	if !column.IsNullable && !column.IsPrimaryKey {
		flags = append(flags, "NOT NULL")
	}
	if column.IsUnique {
		flags = append(flags, "UNIQUE")
	}
	if column.AutoIncrement {
		flags = append(flags, "AUTO_INCREMENT")
	}
	if column.DefaultValue != "" {
		flags = append(flags, "DEFAULT "+column.DefaultValue)
	}
	if column.IsForeignKey {
		flags = append(flags, fmt.Sprintf("REFERENCES %s(%s)", column.ReferencedTable, column.ReferencedColumn))
	}
	if len(flags) == 0 {
		return ""
	}
	return " " + strings.Join(flags, " ")
}

func paint(s string, code string, color bool) string {
	if !color {
		return s
	}
	return code + s + reset
}
