package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// maxChainDepth bounds how many wrapped causes are recorded per log line.
const maxChainDepth = 8

// StoreFailure describes a database error found in the chain.
type StoreFailure struct {
	Driver     string
	Code       string
	Constraint string
	Table      string
	Column     string
	Detail     string
}

// Diagnostics is the log-side view of an error. None of it is sent to clients.
type Diagnostics struct {
	Message string
	Code    Code
	Step    string
	Chain   []string
	Store   *StoreFailure
}

// Diagnose walks err and collects what an operator needs to find the cause.
func Diagnose(err error) Diagnostics {
	if err == nil {
		return Diagnostics{}
	}

	d := Diagnostics{Message: err.Error(), Code: CodeOf(err)}
	if typed := As(err); typed != nil {
		if details, ok := typed.Details().(map[string]any); ok {
			if step, ok := details["step"].(string); ok {
				d.Step = step
			}
		}
	}

	for e := err; e != nil && len(d.Chain) < maxChainDepth; e = stdErrors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	d.Store = storeFailure(err)
	return d
}

// Fields flattens the diagnostics into log fields, leaving out empty values.
func (d Diagnostics) Fields() map[string]any {
	fields := map[string]any{
		"error":      d.Message,
		"error_code": string(d.Code),
	}
	if len(d.Chain) > 1 {
		fields["error_chain"] = d.Chain
	}
	if d.Step != "" {
		fields["step"] = d.Step
	}
	if s := d.Store; s != nil {
		for key, value := range map[string]string{
			"db_driver":     s.Driver,
			"db_code":       s.Code,
			"db_constraint": s.Constraint,
			"db_table":      s.Table,
			"db_column":     s.Column,
			"db_detail":     s.Detail,
		} {
			if value != "" {
				fields[key] = value
			}
		}
	}
	return fields
}

func storeFailure(err error) *StoreFailure {
	var pgxErr *pgconn.PgError
	if stdErrors.As(err, &pgxErr) {
		return &StoreFailure{
			Driver:     "pgx",
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
		}
	}

	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return &StoreFailure{
			Driver:     "pq",
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
		}
	}

	return sqliteFailure(err.Error())
}

// sqliteFailure recognises "<KIND> constraint failed: table.column" messages.
func sqliteFailure(msg string) *StoreFailure {
	kinds := []string{"UNIQUE", "FOREIGN KEY", "NOT NULL", "CHECK"}
	for _, kind := range kinds {
		marker := kind + " constraint failed"
		idx := strings.Index(msg, marker)
		if idx < 0 {
			continue
		}
		failure := &StoreFailure{Driver: "sqlite", Code: kind}
		rest := strings.TrimPrefix(msg[idx+len(marker):], ":")
		target := strings.TrimSpace(strings.Split(rest, ",")[0])
		if table, column, ok := strings.Cut(target, "."); ok {
			failure.Table = table
			failure.Column = column
		}
		return failure
	}
	return nil
}
