package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectToSQL(t *testing.T) {
	t.Run("full statement", func(t *testing.T) {
		sql, args, err := Select("id", "name").
			From("teams").
			Where(Eq("tournament_id", "t20"), In("id", []any{"a", "b"})).
			OrderBy("name ASC").
			Limit(10).
			ToSQL()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantSQL := "SELECT id, name FROM teams WHERE tournament_id = $1 AND id IN ($2, $3) ORDER BY name ASC LIMIT 10"
		if sql != wantSQL {
			t.Fatalf("unexpected sql: got=%q want=%q", sql, wantSQL)
		}
		wantArgs := []any{"t20", "a", "b"}
		if !reflect.DeepEqual(args, wantArgs) {
			t.Fatalf("unexpected args: got=%v want=%v", args, wantArgs)
		}
	})

	t.Run("empty in list matches nothing", func(t *testing.T) {
		sql, args, err := Select("id").From("bids").Where(In("id", nil)).ToSQL()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sql != "SELECT id FROM bids WHERE 1 = 0" {
			t.Fatalf("unexpected sql: got=%q", sql)
		}
		if len(args) != 0 {
			t.Fatalf("unexpected args: got=%v", args)
		}
	})

	t.Run("is null and expr", func(t *testing.T) {
		sql, args, err := Select("id").
			From("players").
			Where(IsNull("sold_at"), Expr("base_price >= ?", 20)).
			ToSQL()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sql != "SELECT id FROM players WHERE sold_at IS NULL AND base_price >= $1" {
			t.Fatalf("unexpected sql: got=%q", sql)
		}
		if !reflect.DeepEqual(args, []any{20}) {
			t.Fatalf("unexpected args: got=%v", args)
		}
	})

	t.Run("missing table", func(t *testing.T) {
		if _, _, err := Select("id").ToSQL(); err == nil {
			t.Fatalf("expected error for missing table")
		}
	})
}

func TestInsertToSQL(t *testing.T) {
	t.Run("multi row with suffix", func(t *testing.T) {
		sql, args, err := InsertInto("players").
			Columns("id", "name").
			Values("p1", "Rohit").
			Values("p2", "Bumrah").
			Suffix("ON CONFLICT (id) DO NOTHING").
			ToSQL()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantSQL := "INSERT INTO players (id, name) VALUES ($1, $2), ($3, $4) ON CONFLICT (id) DO NOTHING"
		if sql != wantSQL {
			t.Fatalf("unexpected sql: got=%q want=%q", sql, wantSQL)
		}
		if !reflect.DeepEqual(args, []any{"p1", "Rohit", "p2", "Bumrah"}) {
			t.Fatalf("unexpected args: got=%v", args)
		}
	})

	t.Run("row arity mismatch", func(t *testing.T) {
		_, _, err := InsertInto("players").Columns("id", "name").Values("p1").ToSQL()
		if err == nil {
			t.Fatalf("expected error for mismatched row")
		}
	})

	t.Run("missing values", func(t *testing.T) {
		if _, _, err := InsertInto("players").Columns("id").ToSQL(); err == nil {
			t.Fatalf("expected error for missing values")
		}
	})
}

func TestUpdateToSQL(t *testing.T) {
	t.Run("set and set expr", func(t *testing.T) {
		sql, args, err := Update("teams").
			Set("total_spent", 120).
			SetExpr("updated_at", "NOW()").
			Where(Eq("id", "t20-mum"), Eq("version", 3)).
			ToSQL()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantSQL := "UPDATE teams SET total_spent = $1, updated_at = NOW() WHERE id = $2 AND version = $3"
		if sql != wantSQL {
			t.Fatalf("unexpected sql: got=%q want=%q", sql, wantSQL)
		}
		if !reflect.DeepEqual(args, []any{120, "t20-mum", 3}) {
			t.Fatalf("unexpected args: got=%v", args)
		}
	})

	t.Run("missing set clauses", func(t *testing.T) {
		if _, _, err := Update("teams").Where(Eq("id", "x")).ToSQL(); err == nil {
			t.Fatalf("expected error for missing set clauses")
		}
	})
}
