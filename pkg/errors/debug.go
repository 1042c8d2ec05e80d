package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PGDiag holds the postgres diagnostics found in an error chain.
type PGDiag struct {
	Code       string
	Constraint string
	Table      string
	Column     string
	Detail     string
	Message    string
}

// ErrorDump is a flattened view of an error chain for logging.
type ErrorDump struct {
	TopMessage string
	Code       Code
	Chain      []string
	PG         *PGDiag
}

// Dump walks the chain and collects everything worth logging about err.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	dump := ErrorDump{TopMessage: err.Error()}
	if coded := As(err); coded != nil {
		dump.Code = coded.Code()
	}
	for link := err; link != nil; link = errors.Unwrap(link) {
		dump.Chain = append(dump.Chain, fmt.Sprintf("%T: %v", link, link))
	}
	dump.PG = pgDiag(err)
	return dump
}

// Fields renders the dump as structured log fields.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.PG != nil {
		fields["pg_code"] = d.PG.Code
		fields["pg_constraint"] = d.PG.Constraint
		fields["pg_table"] = d.PG.Table
		fields["pg_column"] = d.PG.Column
		fields["pg_detail"] = d.PG.Detail
		fields["pg_message"] = d.PG.Message
	}
	return fields
}

func pgDiag(err error) *PGDiag {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &PGDiag{
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &PGDiag{
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	return nil
}
