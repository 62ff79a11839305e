package repository

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeOperator postgres 下使用 ILIKE，sqlite 的 LIKE 对 ASCII 本身不区分大小写
func likeOperator(db *gorm.DB) string {
	if db != nil && db.Dialector != nil && strings.HasPrefix(strings.ToLower(db.Dialector.Name()), "postgres") {
		return "ILIKE"
	}
	return "LIKE"
}

// containsTerm 单列包含匹配，关键字中的 % 与 _ 按字面处理
type containsTerm struct {
	column  string
	keyword string
}

// containsAny 生成以 OR 连接的包含匹配条件，忽略空关键字
func containsAny(db *gorm.DB, terms ...containsTerm) (string, []interface{}) {
	op := likeOperator(db)
	clauses := make([]string, 0, len(terms))
	args := make([]interface{}, 0, len(terms))
	for _, term := range terms {
		if term.keyword == "" {
			continue
		}
		clauses = append(clauses, term.column+" "+op+` ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(term.keyword)+"%")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}
