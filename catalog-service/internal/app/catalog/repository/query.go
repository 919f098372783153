package repository

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// searchFilter строит критерии поиска по нескольким текстовым полям.
// Товар подходит, если любое из полей содержит весь запрос как подстроку
// (регистронезависимо) ИЛИ содержит любой отдельный токен запроса.
// Спецсимволы запроса экранируются, чтобы пользовательский ввод
// не интерпретировался как regex
func searchFilter(query string, fields ...string) bson.M {
	whole := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}

	tokens := strings.Fields(query)
	escaped := make([]string, 0, len(tokens))
	for _, t := range tokens {
		escaped = append(escaped, regexp.QuoteMeta(t))
	}
	any := primitive.Regex{Pattern: strings.Join(escaped, "|"), Options: "i"}

	or := bson.A{}
	for _, f := range fields {
		or = append(or, bson.M{f: whole})
	}
	for _, f := range fields {
		or = append(or, bson.M{f: any})
	}

	return bson.M{"$or": or}
}
