package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDumpCapturesChainAndPostgresDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "bills_assignment_id_key", TableName: "bills", Message: "duplicate key value"}
	err := Wrap(CodeDependency, fmt.Errorf("insert bill: %w", pgErr), "persist bill")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if len(dump.Chain) < 3 {
		t.Fatalf("expected at least 3 chain entries, got %d: %v", len(dump.Chain), dump.Chain)
	}
	if dump.PGConstraint != "bills_assignment_id_key" || dump.PGTable != "bills" {
		t.Fatalf("postgres details missing: %+v", dump)
	}

	fields := dump.Fields()
	if fields["pg_code"] != "23505" {
		t.Fatalf("expected pg_code field, got %v", fields["pg_code"])
	}
}

func TestDumpFieldsOmitEmptyPostgresDetails(t *testing.T) {
	fields := Dump(stdErrors.New("boom")).Fields()
	if _, ok := fields["pg_code"]; ok {
		t.Fatal("expected pg_code to be omitted for non-postgres errors")
	}
	if _, ok := fields["error_code"]; ok {
		t.Fatal("expected error_code to be omitted for untyped errors")
	}
	if fields["error"] != "boom" {
		t.Fatalf("unexpected error field %v", fields["error"])
	}
}
