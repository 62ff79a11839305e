package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestContainsAny(t *testing.T) {
	clause, args := containsAny(nil,
		containsTerm{column: "nome", keyword: "50%_off"},
		containsTerm{column: "cpf", keyword: ""},
	)
	if clause != `(nome LIKE ? ESCAPE '\')` {
		t.Fatalf("unexpected clause: %s", clause)
	}
	if len(args) != 1 || args[0] != `%50\%\_off%` {
		t.Fatalf("unexpected args: %v", args)
	}

	clause, args = containsAny(nil, containsTerm{column: "nome"})
	if clause != "" || args != nil {
		t.Fatalf("empty keywords should produce no clause")
	}
}

func TestLikeOperatorByDialect(t *testing.T) {
	if got := likeOperator(nil); got != "LIKE" {
		t.Fatalf("nil db want LIKE got %s", got)
	}
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:search_test_%d?mode=memory&cache=shared", time.Now().UnixNano())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if got := likeOperator(db); got != "LIKE" {
		t.Fatalf("sqlite want LIKE got %s", got)
	}
}
